package prompts

import (
	"cmp"
	"maps"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/JaimeStill/promptdeck/pkg/formatting"
	"github.com/JaimeStill/promptdeck/pkg/query"
)

// Filters narrows the dashboard listing. Search is a case-insensitive
// substring match across the descriptive fields; the remaining fields are
// exact matches. Empty fields are ignored and all criteria are ANDed.
// In JSON bodies free text travels in the page request's search field.
type Filters struct {
	Search   string `json:"-"`
	Model    string `json:"model,omitempty"`
	Status   Status `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Free text is read from search.
func FiltersFromQuery(values url.Values) Filters {
	return Filters{
		Search:   strings.TrimSpace(values.Get("search")),
		Model:    values.Get("model"),
		Status:   Status(values.Get("status")),
		Category: values.Get("category"),
		Provider: values.Get("provider"),
	}
}

// Active reports whether any criterion is set.
func (f Filters) Active() bool {
	return f != Filters{}
}

// Match reports whether r satisfies every criterion.
func (f Filters) Match(r *Record) bool {
	if f.Model != "" && r.Model != f.Model {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.Provider != "" && r.Provider != f.Provider {
		return false
	}
	return f.Search == "" || matchText(r, strings.ToLower(f.Search))
}

// Apply returns the records matching f, preserving order.
func (f Filters) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

func matchText(r *Record, needle string) bool {
	haystack := []string{
		r.Name,
		r.Description,
		r.Model,
		r.Provider,
		r.Category,
		string(r.Environment),
		r.DeploymentURL,
	}
	haystack = append(haystack, r.Tags...)

	return slices.ContainsFunc(haystack, func(s string) bool {
		return strings.Contains(strings.ToLower(s), needle)
	})
}

// Sort keys accepted by the dashboard.
const (
	SortName            = "name"
	SortModel           = "model"
	SortStatus          = "status"
	SortCategory        = "category"
	SortEnvironment     = "environment"
	SortDeploymentDate  = "deploymentDate"
	SortCreatedDate     = "createdDate"
	SortUpdatedDate     = "updatedDate"
	SortTotalUsage      = "totalUsage"
	SortSuccessRate     = "successRate"
	SortAvgResponseTime = "avgResponseTime"
	SortCostPerRequest  = "costPerRequest"
	SortTotalCost       = "totalCost"
)

type compareFunc func(a, b *Record) int

func byText(get func(*Record) string) compareFunc {
	return func(a, b *Record) int {
		return cmp.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

func byTime(get func(*Record) time.Time) compareFunc {
	return func(a, b *Record) int {
		return get(a).Compare(get(b))
	}
}

func byNumber[T cmp.Ordered](get func(*Record) T) compareFunc {
	return func(a, b *Record) int {
		return cmp.Compare(get(a), get(b))
	}
}

var sorters = map[string]compareFunc{
	SortName:        byText(func(r *Record) string { return r.Name }),
	SortModel:       byText(func(r *Record) string { return r.Model }),
	SortStatus:      byText(func(r *Record) string { return string(r.Status) }),
	SortCategory:    byText(func(r *Record) string { return r.Category }),
	SortEnvironment: byText(func(r *Record) string { return string(r.Environment) }),
	SortDeploymentDate: byTime(func(r *Record) time.Time {
		if r.DeploymentDate == nil {
			return time.Time{}
		}
		return *r.DeploymentDate
	}),
	SortCreatedDate:     byTime(func(r *Record) time.Time { return r.CreatedDate }),
	SortUpdatedDate:     byTime(func(r *Record) time.Time { return r.UpdatedDate }),
	SortTotalUsage:      byNumber(func(r *Record) int64 { return r.TotalUsage }),
	SortSuccessRate:     byNumber(func(r *Record) float64 { return r.SuccessRate }),
	SortAvgResponseTime: byNumber(func(r *Record) float64 { return r.AvgResponseTime }),
	SortCostPerRequest:  byNumber(func(r *Record) float64 { return r.CostPerRequest }),
	SortTotalCost:       byNumber(func(r *Record) float64 { return r.TotalCost }),
}

// SortKeys returns the accepted sort keys.
func SortKeys() []string {
	return slices.Sorted(maps.Keys(sorters))
}

// SortState is the dashboard's active sort column and direction.
type SortState struct {
	Key        string `json:"key"`
	Descending bool   `json:"descending"`
}

// DefaultSort orders newest records first.
var DefaultSort = SortState{Key: SortCreatedDate, Descending: true}

// Toggle flips the direction when key is already active, otherwise
// switches to key ascending.
func (s SortState) Toggle(key string) SortState {
	if key == s.Key {
		return SortState{Key: key, Descending: !s.Descending}
	}
	return SortState{Key: key}
}

// Field returns the state as a query sort field.
func (s SortState) Field() query.SortField {
	return query.SortField{Field: s.Key, Descending: s.Descending}
}

// SortStateFrom returns the first recognized field, or DefaultSort.
func SortStateFrom(fields []query.SortField) SortState {
	for _, f := range fields {
		if _, ok := sorters[f.Field]; ok {
			return SortState{Key: f.Field, Descending: f.Descending}
		}
	}
	return DefaultSort
}

// SortRecords orders records in place by fields, falling back to
// DefaultSort when none are recognized. Ties keep id order.
func SortRecords(records []Record, fields []query.SortField) {
	var terms []query.SortField
	for _, f := range fields {
		if _, ok := sorters[f.Field]; ok {
			terms = append(terms, f)
		}
	}
	if len(terms) == 0 {
		terms = []query.SortField{DefaultSort.Field()}
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		for _, t := range terms {
			c := sorters[t.Field](&a, &b)
			if t.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// MetricsSummary is the display form of a record's metrics, shown when a
// dashboard row is expanded.
type MetricsSummary struct {
	TotalUsage      string           `json:"totalUsage"`
	SuccessRate     string           `json:"successRate"`
	AvgResponseTime string           `json:"avgResponseTime"`
	CostPerRequest  string           `json:"costPerRequest"`
	TotalCost       string           `json:"totalCost"`
	SuccessLevel    formatting.Level `json:"successLevel"`
	ResponseLevel   formatting.Level `json:"responseLevel"`
}

// Summarize formats m for display.
func Summarize(m Metrics) MetricsSummary {
	return MetricsSummary{
		TotalUsage:      formatting.FormatCount(m.TotalUsage),
		SuccessRate:     formatting.FormatPercent(m.SuccessRate),
		AvgResponseTime: formatting.FormatMillis(m.AvgResponseTime),
		CostPerRequest:  formatting.FormatCurrency(m.CostPerRequest),
		TotalCost:       formatting.FormatCurrency(m.TotalCost),
		SuccessLevel:    formatting.SuccessLevel(m.SuccessRate),
		ResponseLevel:   formatting.ResponseLevel(m.AvgResponseTime),
	}
}
