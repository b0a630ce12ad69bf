// Package prompts implements the prompt configuration domain: metadata
// records for deployed AI prompts, their usage metrics, and an embedded
// version history with field-level diffs between edits.
package prompts

import (
	"slices"
	"time"
)

// ChangeType tags a version snapshot as the initial record or an edit.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
)

// Metrics holds usage and performance figures reported for a prompt.
type Metrics struct {
	TotalUsage      int64   `json:"totalUsage" yaml:"totalUsage" diff:"totalUsage"`
	SuccessRate     float64 `json:"successRate" yaml:"successRate" diff:"successRate"`
	AvgResponseTime float64 `json:"avgResponseTime" yaml:"avgResponseTime" diff:"avgResponseTime"`
	CostPerRequest  float64 `json:"costPerRequest" yaml:"costPerRequest" diff:"costPerRequest"`
	TotalCost       float64 `json:"totalCost" yaml:"totalCost" diff:"totalCost"`
}

// Record is a prompt configuration with its deployment details, metrics,
// and version history. Fields tagged with diff are compared between edits.
type Record struct {
	ID             int         `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name" diff:"name"`
	Description    string      `json:"description" yaml:"description" diff:"description"`
	Model          string      `json:"model" yaml:"model" diff:"model"`
	ModelVersion   string      `json:"modelVersion" yaml:"modelVersion" diff:"modelVersion"`
	Provider       string      `json:"provider" yaml:"provider" diff:"provider"`
	Temperature    float64     `json:"temperature" yaml:"temperature" diff:"temperature"`
	MaxTokens      int         `json:"maxTokens" yaml:"maxTokens" diff:"maxTokens"`
	Status         Status      `json:"status" yaml:"status" diff:"status"`
	Category       string      `json:"category" yaml:"category" diff:"category"`
	Tags           Tags        `json:"tags" yaml:"tags" diff:"tags,set"`
	Environment    Environment `json:"environment" yaml:"environment" diff:"environment"`
	DeploymentURL  string      `json:"deploymentUrl" yaml:"deploymentUrl" diff:"deploymentUrl"`
	DeploymentDate *time.Time  `json:"deploymentDate" yaml:"deploymentDate"`
	CreatedDate    time.Time   `json:"createdDate" yaml:"createdDate"`
	UpdatedDate    time.Time   `json:"updatedDate" yaml:"updatedDate"`

	Metrics `yaml:",inline"`

	CurrentVersion string     `json:"currentVersion" yaml:"currentVersion"`
	Versions       []Snapshot `json:"versions" yaml:"versions"`
}

// Snapshot is an immutable entry in a record's version history.
type Snapshot struct {
	Version        string         `json:"version" yaml:"version"`
	ChangeLog      string         `json:"changeLog" yaml:"changeLog"`
	CreatedDate    time.Time      `json:"createdDate" yaml:"createdDate"`
	Changes        Changes        `json:"changes" yaml:"changes"`
	DeploymentInfo DeploymentInfo `json:"deploymentInfo" yaml:"deploymentInfo"`
}

// Changes describes what an edit changed.
type Changes struct {
	Type        ChangeType    `json:"type" yaml:"type"`
	Fields      []FieldChange `json:"fields" yaml:"fields"`
	Description string        `json:"description" yaml:"description"`
}

// FieldChange is a single field delta. Values are held in their JSON form
// so they read back identically from any store.
type FieldChange struct {
	Field    string `json:"field" yaml:"field"`
	OldValue any    `json:"oldValue" yaml:"oldValue"`
	NewValue any    `json:"newValue" yaml:"newValue"`
}

// DeploymentInfo captures where a version was deployed.
type DeploymentInfo struct {
	Environment    Environment `json:"environment" yaml:"environment"`
	DeploymentURL  string      `json:"deploymentUrl" yaml:"deploymentUrl"`
	DeploymentDate *time.Time  `json:"deploymentDate" yaml:"deploymentDate"`
}

// Latest returns the newest snapshot, if any.
func (r *Record) Latest() (Snapshot, bool) {
	if len(r.Versions) == 0 {
		return Snapshot{}, false
	}
	return r.Versions[len(r.Versions)-1], true
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() Record {
	c := *r
	c.Tags = slices.Clone(r.Tags)
	c.DeploymentDate = cloneTime(r.DeploymentDate)

	if r.Versions != nil {
		c.Versions = make([]Snapshot, len(r.Versions))
		for i, v := range r.Versions {
			c.Versions[i] = v.Clone()
		}
	}
	return c
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.Changes.Fields = slices.Clone(s.Changes.Fields)
	s.DeploymentInfo.DeploymentDate = cloneTime(s.DeploymentInfo.DeploymentDate)
	return s
}

func (r *Record) deploymentInfo() DeploymentInfo {
	return DeploymentInfo{
		Environment:    r.Environment,
		DeploymentURL:  r.DeploymentURL,
		DeploymentDate: cloneTime(r.DeploymentDate),
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
