package prompts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/promptdeck/internal/prompts"
	"github.com/JaimeStill/promptdeck/pkg/latency"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
	"github.com/JaimeStill/promptdeck/pkg/query"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pageConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func newSystem(t *testing.T, seed []byte) prompts.System {
	t.Helper()
	logger := discardLogger()
	store := prompts.NewSlotStore(storage.NewMemory(logger), "", seed, logger)
	return prompts.New(store, nil, logger, pageConfig())
}

func createCmd(name string) prompts.CreateCommand {
	in := validInput()
	in.Name = name
	return prompts.CreateCommand{Input: in}
}

func updateFrom(rec *prompts.Record) prompts.UpdateCommand {
	return prompts.UpdateCommand{Input: rec.Input()}
}

func TestCreateScenario(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Support Bot"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if a.ID != 1 {
		t.Errorf("id = %d, want 1", a.ID)
	}
	if a.CurrentVersion != "1.0.0" {
		t.Errorf("currentVersion = %q, want 1.0.0", a.CurrentVersion)
	}
	if len(a.Versions) != 1 {
		t.Fatalf("versions = %d, want 1", len(a.Versions))
	}

	v := a.Versions[0]
	if v.Version != "1.0.0" || v.Changes.Type != prompts.ChangeCreated {
		t.Errorf("snapshot = %+v", v)
	}
	if v.ChangeLog != "Initial version" || v.Changes.Description != "Prompt created" {
		t.Errorf("snapshot text = %q / %q", v.ChangeLog, v.Changes.Description)
	}
	if !a.CreatedDate.Equal(a.UpdatedDate) {
		t.Error("created and updated dates should match on create")
	}
}

func TestCreateDefaults(t *testing.T) {
	sys := newSystem(t, nil)

	rec, err := sys.Create(context.Background(), createCmd("Defaults"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if rec.Tags == nil || len(rec.Tags) != 0 {
		t.Errorf("tags = %#v, want empty set", rec.Tags)
	}
	if rec.Category != "" {
		t.Errorf("category = %q, want empty", rec.Category)
	}
	if rec.Environment != prompts.EnvDevelopment {
		t.Errorf("environment = %q, want Development", rec.Environment)
	}
	if rec.Status != prompts.StatusDraft {
		t.Errorf("status = %q, want Draft", rec.Status)
	}
	if rec.Metrics != (prompts.Metrics{}) {
		t.Errorf("metrics = %+v, want zero", rec.Metrics)
	}
	if rec.Versions[0].DeploymentInfo.Environment != prompts.EnvDevelopment {
		t.Error("snapshot deployment info should mirror the record")
	}
}

func TestCreateAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	for _, name := range []string{"a", "b", "c"} {
		if _, err := sys.Create(ctx, createCmd(name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := sys.Delete(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := sys.Delete(ctx, 3); err != nil {
		t.Fatal(err)
	}

	rec, err := sys.Create(ctx, createCmd("d"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != 2 {
		t.Errorf("id = %d, want 2 (max existing 1 + 1)", rec.ID)
	}
}

func TestCreateThenFind(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	cmd := createCmd("Round Trip")
	cmd.Tags = prompts.NewTags("b", "a")
	cmd.DeploymentURL = "https://api.example.com/prompts/round-trip"
	cmd.DeploymentDate = ptr(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	cmd.Metrics = &prompts.Metrics{TotalUsage: 12, CostPerRequest: 0.002}

	created, err := sys.Create(ctx, cmd)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := sys.Find(ctx, created.ID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	if diff := cmp.Diff(created, found); diff != "" {
		t.Errorf("round trip mismatch (-created +found):\n%s", diff)
	}
}

func TestUpdateScenario(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Support Bot"))
	if err != nil {
		t.Fatal(err)
	}

	cmd := updateFrom(a)
	cmd.Temperature = 0.9

	b, err := sys.Update(ctx, a.ID, cmd)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if b.CurrentVersion != "1.0.1" {
		t.Errorf("currentVersion = %q, want 1.0.1", b.CurrentVersion)
	}

	latest, _ := b.Latest()
	want := []prompts.FieldChange{{Field: "temperature", OldValue: 0.7, NewValue: 0.9}}
	if diff := cmp.Diff(want, latest.Changes.Fields); diff != "" {
		t.Errorf("diff (-want +got):\n%s", diff)
	}
	if latest.Changes.Description != "Updated: temperature" || latest.ChangeLog != "Updated: temperature" {
		t.Errorf("summary = %q, changeLog = %q", latest.Changes.Description, latest.ChangeLog)
	}

	c, err := sys.Update(ctx, a.ID, updateFrom(b))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if c.CurrentVersion != "1.0.2" {
		t.Errorf("currentVersion = %q, want 1.0.2", c.CurrentVersion)
	}

	latest, _ = c.Latest()
	if len(latest.Changes.Fields) != 0 {
		t.Errorf("no-op update diff = %v, want empty", latest.Changes.Fields)
	}
	if latest.Changes.Description != "Minor updates" {
		t.Errorf("summary = %q, want Minor updates", latest.Changes.Description)
	}

	if len(c.Versions) != 3 {
		t.Fatalf("versions = %d, want 3", len(c.Versions))
	}
	for i, label := range []string{"1.0.0", "1.0.1", "1.0.2"} {
		if c.Versions[i].Version != label {
			t.Errorf("versions[%d] = %q, want %q", i, c.Versions[i].Version, label)
		}
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Identity"))
	if err != nil {
		t.Fatal(err)
	}

	cmd := updateFrom(a)
	cmd.Name = "Renamed"
	cmd.ChangeLog = "Renamed for clarity"

	b, err := sys.Update(ctx, a.ID, cmd)
	if err != nil {
		t.Fatal(err)
	}

	if b.ID != a.ID {
		t.Errorf("id changed: %d -> %d", a.ID, b.ID)
	}
	if !b.CreatedDate.Equal(a.CreatedDate) {
		t.Error("createdDate changed")
	}
	if b.UpdatedDate.Before(a.UpdatedDate) {
		t.Error("updatedDate moved backwards")
	}

	latest, _ := b.Latest()
	if latest.ChangeLog != "Renamed for clarity" {
		t.Errorf("changeLog = %q", latest.ChangeLog)
	}
}

func TestUpdateTagsOrderIndependent(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	cmd := createCmd("Tags")
	cmd.Tags = prompts.NewTags("alpha", "beta", "gamma")
	a, err := sys.Create(ctx, cmd)
	if err != nil {
		t.Fatal(err)
	}

	upd := updateFrom(a)
	upd.Tags = prompts.NewTags("gamma", "alpha", "beta")

	b, err := sys.Update(ctx, a.ID, upd)
	if err != nil {
		t.Fatal(err)
	}

	latest, _ := b.Latest()
	for _, c := range latest.Changes.Fields {
		if c.Field == "tags" {
			t.Errorf("reordered tags produced a diff entry: %+v", c)
		}
	}
}

func TestUpdateDiffMatchesState(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Diff"))
	if err != nil {
		t.Fatal(err)
	}

	cmd := updateFrom(a)
	cmd.Description = "New description"
	cmd.Environment = prompts.EnvProduction
	cmd.DeploymentURL = "https://api.example.com/diff"
	cmd.Metrics = &prompts.Metrics{SuccessRate: 99.5}

	b, err := sys.Update(ctx, a.ID, cmd)
	if err != nil {
		t.Fatal(err)
	}

	latest, _ := b.Latest()
	got := make([]string, len(latest.Changes.Fields))
	for i, c := range latest.Changes.Fields {
		got[i] = c.Field
	}

	want := []string{"description", "environment", "deploymentUrl", "successRate"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("changed fields (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, fieldsThatDiffer(a, b)); diff != "" {
		t.Errorf("record state disagrees with diff (-diff +state):\n%s", diff)
	}

	if latest.DeploymentInfo.Environment != b.Environment || latest.DeploymentInfo.DeploymentURL != b.DeploymentURL {
		t.Error("latest deployment info should mirror the record")
	}
}

func fieldsThatDiffer(a, b *prompts.Record) []string {
	changes := prompts.Diff(a, b)
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Field
	}
	return out
}

func TestUpdateKeepsOmittedOptionalFields(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	cmd := createCmd("Optional")
	cmd.Tags = prompts.NewTags("keep")
	cmd.Metrics = &prompts.Metrics{TotalUsage: 500}
	cmd.DeploymentDate = ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a, err := sys.Create(ctx, cmd)
	if err != nil {
		t.Fatal(err)
	}

	b, err := sys.Update(ctx, a.ID, prompts.UpdateCommand{Input: validInput()})
	if err != nil {
		t.Fatal(err)
	}

	if !b.Tags.Equal(prompts.NewTags("keep")) {
		t.Errorf("tags = %v, want kept", b.Tags)
	}
	if b.TotalUsage != 500 {
		t.Errorf("totalUsage = %d, want kept", b.TotalUsage)
	}
	if b.DeploymentDate == nil || !b.DeploymentDate.Equal(*a.DeploymentDate) {
		t.Errorf("deploymentDate = %v, want kept", b.DeploymentDate)
	}
	if b.Status != a.Status || b.Environment != a.Environment {
		t.Error("empty status and environment should keep existing values")
	}
}

func TestUpdateClearsDeploymentDate(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	cmd := createCmd("Deployed")
	cmd.DeploymentDate = ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	a, err := sys.Create(ctx, cmd)
	if err != nil {
		t.Fatal(err)
	}

	in := a.Input()
	in.ClearDeploymentDate = true
	b, err := sys.Update(ctx, a.ID, prompts.UpdateCommand{Input: in})
	if err != nil {
		t.Fatal(err)
	}

	if b.DeploymentDate != nil {
		t.Errorf("deploymentDate = %v, want nil", b.DeploymentDate)
	}
	latest, _ := b.Latest()
	if latest.DeploymentInfo.DeploymentDate != nil {
		t.Errorf("snapshot deploymentDate = %v, want nil", latest.DeploymentInfo.DeploymentDate)
	}
}

func TestUpdateMalformedVersion(t *testing.T) {
	ctx := context.Background()
	logger := discardLogger()
	store := prompts.NewSlotStore(storage.NewMemory(logger), "", nil, logger)
	sys := prompts.New(store, nil, logger, pageConfig())

	rec := baseRecord()
	rec.CurrentVersion = "draft"
	if err := store.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	updated, err := sys.Update(ctx, rec.ID, updateFrom(&rec))
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentVersion != "1.0.1" {
		t.Errorf("currentVersion = %q, want 1.0.1", updated.CurrentVersion)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	if _, err := sys.Find(ctx, 42); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Find: got %v, want ErrNotFound", err)
	}
	if _, err := sys.Update(ctx, 42, prompts.UpdateCommand{Input: validInput()}); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Update: got %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, 42); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
	if _, err := sys.History(ctx, 42); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("History: got %v, want ErrNotFound", err)
	}
	if _, err := sys.Version(ctx, 42, "1.0.0"); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Version: got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Doomed"))
	if err != nil {
		t.Fatal(err)
	}

	if err := sys.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := sys.Find(ctx, a.ID); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("Find after delete: got %v, want ErrNotFound", err)
	}
	if err := sys.Delete(ctx, a.ID); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestHistoryAndVersion(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("History"))
	if err != nil {
		t.Fatal(err)
	}
	cmd := updateFrom(a)
	cmd.MaxTokens = 2048
	if _, err := sys.Update(ctx, a.ID, cmd); err != nil {
		t.Fatal(err)
	}

	history, err := sys.History(ctx, a.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 || history[0].Version != "1.0.0" || history[1].Version != "1.0.1" {
		t.Errorf("history = %+v", history)
	}

	v, err := sys.Version(ctx, a.ID, "1.0.1")
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v.Changes.Fields[0].Field != "maxTokens" {
		t.Errorf("version changes = %+v", v.Changes)
	}

	if _, err := sys.Version(ctx, a.ID, "9.9.9"); !errors.Is(err, prompts.ErrVersionNotFound) {
		t.Errorf("missing version: got %v, want ErrVersionNotFound", err)
	}
}

func TestCompareService(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, nil)

	a, err := sys.Create(ctx, createCmd("Compare"))
	if err != nil {
		t.Fatal(err)
	}
	cmd := updateFrom(a)
	cmd.Environment = prompts.EnvStaging
	cmd.ChangeLog = "Promote to staging"
	if _, err := sys.Update(ctx, a.ID, cmd); err != nil {
		t.Fatal(err)
	}

	c, err := sys.Compare(ctx, a.ID, "1.0.0", "1.0.1")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if c.PromptID != a.ID || c.PromptName != "Compare" {
		t.Errorf("comparison prompt = %d %q", c.PromptID, c.PromptName)
	}
	if c.Left.Version != "1.0.0" || c.Right.Version != "1.0.1" {
		t.Errorf("sides = %q / %q", c.Left.Version, c.Right.Version)
	}

	if _, err := sys.Compare(ctx, a.ID, "1.0.0", "2.0.0"); !errors.Is(err, prompts.ErrVersionNotFound) {
		t.Errorf("missing right version: got %v, want ErrVersionNotFound", err)
	}
	if _, err := sys.Compare(ctx, 99, "1.0.0", "1.0.1"); !errors.Is(err, prompts.ErrNotFound) {
		t.Errorf("missing record: got %v, want ErrNotFound", err)
	}
}

func TestSearchSeeded(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, prompts.SeedData())

	page := pagination.PageRequest{Page: 1, PageSize: 20, Search: "support"}
	result, err := sys.Search(ctx, page, prompts.Filters{Status: prompts.StatusDraft})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if result.Total == 0 {
		t.Fatal("expected at least one draft support record")
	}
	for _, r := range result.Data {
		if r.Status != prompts.StatusDraft {
			t.Errorf("record %d status = %q", r.ID, r.Status)
		}
		if !(prompts.Filters{Search: "support"}).Match(&r) {
			t.Errorf("record %d does not mention support", r.ID)
		}
	}

	all, err := sys.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := 0
	for _, r := range all {
		if r.Status == prompts.StatusDraft && (prompts.Filters{Search: "SUPPORT"}).Match(&r) {
			want++
		}
	}
	if result.Total != want {
		t.Errorf("total = %d, want %d", result.Total, want)
	}
}

func TestSearchSortAndPage(t *testing.T) {
	ctx := context.Background()
	sys := newSystem(t, prompts.SeedData())

	all, err := sys.List(ctx)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("default newest first", func(t *testing.T) {
		result, err := sys.Search(ctx, pagination.PageRequest{}, prompts.Filters{})
		if err != nil {
			t.Fatal(err)
		}
		if result.Total != len(all) {
			t.Fatalf("total = %d, want %d", result.Total, len(all))
		}
		for i := 1; i < len(result.Data); i++ {
			if result.Data[i].CreatedDate.After(result.Data[i-1].CreatedDate) {
				t.Fatalf("row %d created after row %d", i, i-1)
			}
		}
	})

	t.Run("paged by name", func(t *testing.T) {
		page := pagination.PageRequest{Page: 2, PageSize: 3, Sort: pagination.SortFields{{Field: "name"}}}
		result, err := sys.Search(ctx, page, prompts.Filters{})
		if err != nil {
			t.Fatal(err)
		}

		sorted := append([]prompts.Record(nil), all...)
		prompts.SortRecords(sorted, []query.SortField{{Field: "name"}})

		if len(result.Data) != 3 {
			t.Fatalf("page size = %d, want 3", len(result.Data))
		}
		for i, r := range result.Data {
			if r.ID != sorted[3+i].ID {
				t.Errorf("row %d id = %d, want %d", i, r.ID, sorted[3+i].ID)
			}
		}
	})
}

func TestLatencyHonorsCancellation(t *testing.T) {
	logger := discardLogger()
	store := prompts.NewSlotStore(storage.NewMemory(logger), "", nil, logger)

	cfg := &latency.Config{Enabled: true}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	cfg.List = "1h"
	sys := prompts.New(store, latency.New(cfg), logger, pageConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := sys.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List with cancelled context: got %v, want context.Canceled", err)
	}
}
