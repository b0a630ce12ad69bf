package app

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/promptdeck/internal/catalog"
	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

// dashboardState is everything the dashboard keeps in its query string.
type dashboardState struct {
	Filters  prompts.Filters
	Sort     prompts.SortState
	Page     int
	PageSize int
	Expanded int
}

func (s dashboardState) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}

	set("search", s.Filters.Search)
	set("model", s.Filters.Model)
	set("status", string(s.Filters.Status))
	set("category", s.Filters.Category)
	set("provider", s.Filters.Provider)
	if s.Sort != prompts.DefaultSort {
		set("sort", s.Sort.Field().String())
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(s.PageSize))
	}
	if s.Expanded > 0 {
		q.Set("expand", strconv.Itoa(s.Expanded))
	}
	return q
}

func (s dashboardState) href(basePath string) string {
	q := s.values()
	if len(q) == 0 {
		return basePath + "/"
	}
	return basePath + "/?" + q.Encode()
}

type sortColumn struct {
	Key        string
	Label      string
	Href       string
	Active     bool
	Descending bool
}

type dashboardRow struct {
	Record     prompts.Record
	Summary    prompts.MetricsSummary
	Expanded   bool
	ExpandHref string
}

type pageLink struct {
	Number  int
	Href    string
	Current bool
}

type dashboardPage struct {
	Result    *pagination.PageResult[prompts.Record]
	Rows      []dashboardRow
	Columns   []sortColumn
	Pages     []pageLink
	PrevHref  string
	NextHref  string
	ClearHref string
	Filters   prompts.Filters
	PageSize  int
	Filtered  bool
	Options   catalog.Options
}

var dashboardColumns = []struct{ key, label string }{
	{prompts.SortName, "Name"},
	{prompts.SortModel, "Model"},
	{prompts.SortStatus, "Status"},
	{prompts.SortCategory, "Category"},
	{prompts.SortEnvironment, "Environment"},
	{prompts.SortDeploymentDate, "Deployed"},
	{prompts.SortUpdatedDate, "Updated"},
}

func newDashboardPage(
	basePath string,
	state dashboardState,
	result *pagination.PageResult[prompts.Record],
	opts catalog.Options,
) dashboardPage {
	p := dashboardPage{
		Result:    result,
		Filters:   state.Filters,
		PageSize:  state.PageSize,
		Filtered:  state.Filters.Active(),
		Options:   opts,
		ClearHref: basePath + "/",
	}

	for _, c := range dashboardColumns {
		next := state
		next.Sort = state.Sort.Toggle(c.key)
		next.Page = 1
		p.Columns = append(p.Columns, sortColumn{
			Key:        c.key,
			Label:      c.label,
			Href:       next.href(basePath),
			Active:     state.Sort.Key == c.key,
			Descending: state.Sort.Key == c.key && state.Sort.Descending,
		})
	}

	for _, rec := range result.Data {
		next := state
		row := dashboardRow{Record: rec}
		if rec.ID == state.Expanded {
			row.Expanded = true
			row.Summary = prompts.Summarize(rec.Metrics)
			next.Expanded = 0
		} else {
			next.Expanded = rec.ID
		}
		row.ExpandHref = next.href(basePath)
		p.Rows = append(p.Rows, row)
	}

	for n := 1; n <= result.TotalPages; n++ {
		next := state
		next.Page = n
		next.Expanded = 0
		p.Pages = append(p.Pages, pageLink{Number: n, Href: next.href(basePath), Current: n == result.Page})
	}
	if result.Page > 1 && result.Page <= len(p.Pages) {
		p.PrevHref = p.Pages[result.Page-2].Href
	}
	if result.Page < len(p.Pages) {
		p.NextHref = p.Pages[result.Page].Href
	}

	return p
}

// Detail tabs in display order. The first is the default.
const (
	tabBasic      = "basic"
	tabModel      = "model"
	tabDeployment = "deployment"
	tabMetrics    = "metrics"
	tabVersions   = "versions"
)

var detailTabs = []struct{ key, label string }{
	{tabBasic, "Basic Info"},
	{tabModel, "Model Config"},
	{tabDeployment, "Deployment"},
	{tabMetrics, "Metrics"},
	{tabVersions, "Versions"},
}

type detailTab struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

type detailPage struct {
	Record   *prompts.Record
	Tabs     []detailTab
	Active   string
	Summary  prompts.MetricsSummary
	Versions []prompts.Snapshot
}

func newDetailPage(basePath string, rec *prompts.Record, tab string) detailPage {
	active := tabBasic
	for _, t := range detailTabs {
		if t.key == tab {
			active = tab
		}
	}

	p := detailPage{Record: rec, Active: active}
	base := fmt.Sprintf("%s/prompts/%d", basePath, rec.ID)
	for _, t := range detailTabs {
		href := base
		if t.key != tabBasic {
			href += "?tab=" + t.key
		}
		p.Tabs = append(p.Tabs, detailTab{Key: t.key, Label: t.label, Href: href, Active: t.key == active})
	}

	switch active {
	case tabMetrics:
		p.Summary = prompts.Summarize(rec.Metrics)
	case tabVersions:
		p.Versions = prompts.HistoryNewestFirst(rec.Versions)
	}
	return p
}

type formPage struct {
	Action         string
	Editing        bool
	ID             int
	Name           string
	CurrentVersion string
	Input          prompts.Input
	ChangeLog      string
	Errors         map[string]string
	Options        catalog.Options
}

type versionRow struct {
	Snapshot   prompts.Snapshot
	Current    bool
	Selected   bool
	ToggleHref string
	Fields     []prompts.FieldChange
	More       int
}

type versionsPage struct {
	Record      *prompts.Record
	Rows        []versionRow
	Selected    []string
	CompareHref string
	ClearHref   string
}

// maxListedChanges limits the field changes listed per history entry.
const maxListedChanges = 3

func newVersionsPage(basePath string, rec *prompts.Record, sel prompts.Selection) versionsPage {
	base := fmt.Sprintf("%s/versions/%d", basePath, rec.ID)
	p := versionsPage{
		Record:    rec,
		Selected:  sel.Labels(),
		ClearHref: base,
	}

	for _, s := range prompts.HistoryNewestFirst(rec.Versions) {
		q := url.Values{}
		for _, l := range sel.Labels() {
			q.Add("select", l)
		}
		q.Set("toggle", s.Version)

		row := versionRow{
			Snapshot:   s,
			Current:    s.Version == rec.CurrentVersion,
			Selected:   sel.Contains(s.Version),
			ToggleHref: base + "?" + q.Encode(),
			Fields:     s.Changes.Fields,
		}
		if n := len(row.Fields); n > maxListedChanges {
			row.More = n - maxListedChanges
			row.Fields = row.Fields[:maxListedChanges]
		}
		p.Rows = append(p.Rows, row)
	}

	if sel.Complete() {
		labels := sel.Labels()
		p.CompareHref = fmt.Sprintf("%s/compare/%s/%s", base,
			url.PathEscape(labels[0]), url.PathEscape(labels[1]))
	}
	return p
}

type comparePage struct {
	Comparison  *prompts.Comparison
	HistoryHref string
}

func newComparePage(basePath string, c *prompts.Comparison) comparePage {
	return comparePage{
		Comparison:  c,
		HistoryHref: fmt.Sprintf("%s/versions/%d", basePath, c.PromptID),
	}
}

// displayValue renders a field change or comparison value as text.
func displayValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "empty"
	case string:
		if t == "" {
			return "empty"
		}
		return t
	case time.Time, *time.Time:
		if s := prompts.FormatDate(t); s != "" {
			return s
		}
		return "empty"
	case prompts.Environment:
		return displayValue(string(t))
	case prompts.Status:
		return displayValue(string(t))
	case float64, int, int64, bool:
		return fmt.Sprint(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, ", ")
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(data)
	}
}

// dateInput formats t for a datetime-local input.
func dateInput(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(dateInputLayout)
}
