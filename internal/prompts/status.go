package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the lifecycle state of a prompt record.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusDraft    Status = "Draft"
)

var statuses = []Status{StatusActive, StatusInactive, StatusDraft}

// Statuses returns the valid record statuses.
func Statuses() []Status {
	return statuses
}

// ParseStatus matches s case-insensitively against the valid statuses.
func ParseStatus(s string) (Status, error) {
	for _, v := range statuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

// UnmarshalJSON accepts an empty value or a known status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	v, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Environment is the deployment target of a prompt record.
type Environment string

const (
	EnvDevelopment Environment = "Development"
	EnvStaging     Environment = "Staging"
	EnvProduction  Environment = "Production"
)

var environments = []Environment{EnvDevelopment, EnvStaging, EnvProduction}

// Environments returns the valid deployment environments.
func Environments() []Environment {
	return environments
}

// ParseEnvironment matches s case-insensitively against the valid environments.
func ParseEnvironment(s string) (Environment, error) {
	for _, v := range environments {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown environment %q", ErrValidation, s)
}

// UnmarshalJSON accepts an empty value or a known environment.
func (e *Environment) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*e = ""
		return nil
	}
	v, err := ParseEnvironment(raw)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// StatusNames returns the statuses as plain strings.
func StatusNames() []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// EnvironmentNames returns the environments as plain strings.
func EnvironmentNames() []string {
	out := make([]string, len(environments))
	for i, e := range environments {
		out[i] = string(e)
	}
	return out
}
