package prompts

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/promptdeck/internal/catalog"
)

// Field keys used in validation messages.
const (
	FieldName          = "name"
	FieldDescription   = "description"
	FieldModel         = "model"
	FieldModelVersion  = "modelVersion"
	FieldTemperature   = "temperature"
	FieldMaxTokens     = "maxTokens"
	FieldProvider      = "provider"
	FieldDeploymentURL = "deploymentUrl"
)

// Allowed ranges for sampling parameters.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinMaxTokens   = 100
	MaxMaxTokens   = 8000
)

// Input is the editable content of a prompt record. Metrics and
// DeploymentDate are optional; on update a nil value keeps what the
// record already has. ClearDeploymentDate removes the date instead.
type Input struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Model          string      `json:"model"`
	ModelVersion   string      `json:"modelVersion"`
	Provider       string      `json:"provider"`
	Temperature    float64     `json:"temperature"`
	MaxTokens      int         `json:"maxTokens"`
	Status         Status      `json:"status,omitempty"`
	Category       string      `json:"category"`
	Tags           Tags        `json:"tags"`
	Environment    Environment `json:"environment,omitempty"`
	DeploymentURL  string      `json:"deploymentUrl,omitempty"`
	DeploymentDate *time.Time  `json:"deploymentDate,omitempty"`

	ClearDeploymentDate bool `json:"clearDeploymentDate,omitempty"`

	*Metrics
}

// CreateCommand carries the data needed to create a prompt record.
type CreateCommand struct {
	Input
	ChangeLog string `json:"changeLog,omitempty"`
}

// UpdateCommand carries the data needed to edit a prompt record.
type UpdateCommand struct {
	Input
	ChangeLog string `json:"changeLog,omitempty"`
}

// Validate checks the editor rules and returns a *ValidationError listing
// every failing field, or nil.
func (in Input) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		fields[FieldName] = "Name is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields[FieldDescription] = "Description is required"
	}
	if strings.TrimSpace(in.Model) == "" {
		fields[FieldModel] = "Model selection is required"
	}
	if strings.TrimSpace(in.ModelVersion) == "" {
		fields[FieldModelVersion] = "Model version is required"
	}
	if math.IsNaN(in.Temperature) || in.Temperature < MinTemperature || in.Temperature > MaxTemperature {
		fields[FieldTemperature] = "Temperature must be between 0.0 and 2.0"
	}
	if in.MaxTokens < MinMaxTokens || in.MaxTokens > MaxMaxTokens {
		fields[FieldMaxTokens] = "Max tokens must be between 100 and 8000"
	}
	if strings.TrimSpace(in.Provider) == "" {
		fields[FieldProvider] = "Provider is required"
	}
	if u := strings.TrimSpace(in.DeploymentURL); u != "" && !isAbsoluteURL(u) {
		fields[FieldDeploymentURL] = "Please enter a valid URL"
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// SelectModel sets the model and fills version, temperature, max tokens,
// and provider from the catalog defaults.
func (in *Input) SelectModel(id string) error {
	m, err := catalog.FindModel(id)
	if err != nil {
		return fmt.Errorf("select model %q: %w", id, err)
	}

	in.Model = m.ID
	in.ModelVersion = m.Version
	in.Temperature = m.DefaultTemperature
	in.MaxTokens = m.DefaultMaxTokens
	in.Provider = m.Provider
	return nil
}

// Input returns the editable content of the record, as the editor
// pre-fills it.
func (r *Record) Input() Input {
	metrics := r.Metrics
	return Input{
		Name:           r.Name,
		Description:    r.Description,
		Model:          r.Model,
		ModelVersion:   r.ModelVersion,
		Provider:       r.Provider,
		Temperature:    r.Temperature,
		MaxTokens:      r.MaxTokens,
		Status:         r.Status,
		Category:       r.Category,
		Tags:           NewTags(r.Tags...),
		Environment:    r.Environment,
		DeploymentURL:  r.DeploymentURL,
		DeploymentDate: cloneTime(r.DeploymentDate),
		Metrics:        &metrics,
	}
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
