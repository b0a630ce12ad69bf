package prompts

import (
	"slices"
	"time"

	gocmp "github.com/google/go-cmp/cmp"
)

// HistoryNewestFirst returns a reversed copy of an oldest-first history.
func HistoryNewestFirst(versions []Snapshot) []Snapshot {
	out := make([]Snapshot, len(versions))
	for i, v := range versions {
		out[len(versions)-1-i] = v.Clone()
	}
	return out
}

// Selection holds up to two version labels chosen for comparison, in the
// order they were picked.
type Selection struct {
	labels []string
}

// NewSelection builds a selection from labels, applying Toggle to each.
func NewSelection(labels ...string) (Selection, error) {
	var s Selection
	for _, l := range labels {
		if err := s.Toggle(l); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Toggle deselects label when selected, otherwise selects it.
// Returns ErrSelectionFull when two labels are already selected.
func (s *Selection) Toggle(label string) error {
	if i := slices.Index(s.labels, label); i >= 0 {
		s.labels = slices.Delete(slices.Clone(s.labels), i, i+1)
		return nil
	}
	if len(s.labels) == 2 {
		return ErrSelectionFull
	}
	s.labels = append(slices.Clone(s.labels), label)
	return nil
}

// Contains reports whether label is selected.
func (s Selection) Contains(label string) bool {
	return slices.Contains(s.labels, label)
}

// Labels returns the selected labels in pick order.
func (s Selection) Labels() []string {
	return slices.Clone(s.labels)
}

// Complete reports whether exactly two labels are selected.
func (s Selection) Complete() bool {
	return len(s.labels) == 2
}

// Clear removes every selection.
func (s *Selection) Clear() {
	s.labels = nil
}

// Row display kinds.
const (
	KindText  = "text"
	KindDate  = "date"
	KindBadge = "badge"
	KindURL   = "url"
)

// ComparisonRow is one compared property of two snapshots.
type ComparisonRow struct {
	Key       string `json:"key" yaml:"key"`
	Label     string `json:"label" yaml:"label"`
	Kind      string `json:"kind" yaml:"kind"`
	Left      any    `json:"left" yaml:"left"`
	Right     any    `json:"right" yaml:"right"`
	Different bool   `json:"different" yaml:"different"`
}

// Comparison lays two snapshots of one record side by side.
type Comparison struct {
	PromptID    int             `json:"promptId" yaml:"promptId"`
	PromptName  string          `json:"promptName" yaml:"promptName"`
	Left        Snapshot        `json:"left" yaml:"left"`
	Right       Snapshot        `json:"right" yaml:"right"`
	Rows        []ComparisonRow `json:"rows" yaml:"rows"`
	Differences int             `json:"differences" yaml:"differences"`
}

type comparedField struct {
	key   string
	label string
	kind  string
	get   func(Snapshot) any
}

var comparedFields = []comparedField{
	{"version", "Version", KindText, func(s Snapshot) any { return s.Version }},
	{"changeLog", "Change Log", KindText, func(s Snapshot) any { return s.ChangeLog }},
	{"createdDate", "Created Date", KindDate, func(s Snapshot) any { return s.CreatedDate }},
	{"changes.description", "Changes Description", KindText, func(s Snapshot) any { return s.Changes.Description }},
	{"deploymentInfo.environment", "Environment", KindBadge, func(s Snapshot) any { return s.DeploymentInfo.Environment }},
	{"deploymentInfo.deploymentUrl", "Deployment URL", KindURL, func(s Snapshot) any { return s.DeploymentInfo.DeploymentURL }},
	{"deploymentInfo.deploymentDate", "Deployment Date", KindDate, func(s Snapshot) any { return s.DeploymentInfo.DeploymentDate }},
}

// Compare builds the side-by-side rows for two snapshots of record,
// flagging rows whose values are structurally unequal.
func Compare(record *Record, left, right Snapshot) Comparison {
	c := Comparison{
		PromptID:   record.ID,
		PromptName: record.Name,
		Left:       left.Clone(),
		Right:      right.Clone(),
		Rows:       make([]ComparisonRow, 0, len(comparedFields)),
	}

	for _, f := range comparedFields {
		l, r := f.get(left), f.get(right)
		different := !gocmp.Equal(l, r)

		c.Rows = append(c.Rows, ComparisonRow{
			Key:       f.key,
			Label:     f.label,
			Kind:      f.kind,
			Left:      l,
			Right:     r,
			Different: different,
		})
		if different {
			c.Differences++
		}
	}

	return c
}

// FormatDate renders a row date value, or "" when unset.
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.DateTime)
	case *time.Time:
		if t != nil {
			return t.Format(time.DateTime)
		}
	}
	return ""
}
