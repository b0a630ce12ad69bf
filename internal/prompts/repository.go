package prompts

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/promptdeck/pkg/latency"
	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

const (
	defaultCreateLog   = "Initial version"
	createdDescription = "Prompt created"
)

type repo struct {
	store      Store
	latency    *latency.Simulator
	logger     *slog.Logger
	pagination pagination.Config

	mu sync.Mutex
}

// New creates the prompt service over store. Every operation waits for the
// simulator's configured delay first; a nil simulator adds none.
func New(
	store Store,
	sim *latency.Simulator,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		store:      store,
		latency:    sim,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context) ([]Record, error) {
	if err := r.latency.Wait(ctx, latency.OpList); err != nil {
		return nil, err
	}

	records, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return records, nil
}

func (r *repo) Search(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)
	if filters.Search == "" {
		filters.Search = page.Search
	}

	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := filters.Apply(records)
	SortRecords(matched, page.Sort)

	result := pagination.Paginate(matched, page)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int) (*Record, error) {
	if err := r.latency.Wait(ctx, latency.OpFind); err != nil {
		return nil, err
	}
	return r.get(ctx, id)
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Record, error) {
	if err := r.latency.Wait(ctx, latency.OpCreate); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	maxID := 0
	for _, rec := range records {
		maxID = max(maxID, rec.ID)
	}

	t := now()
	in := cmd.Input

	rec := Record{
		ID:             maxID + 1,
		Name:           in.Name,
		Description:    in.Description,
		Model:          in.Model,
		ModelVersion:   in.ModelVersion,
		Provider:       in.Provider,
		Temperature:    in.Temperature,
		MaxTokens:      in.MaxTokens,
		Status:         cmp.Or(in.Status, StatusDraft),
		Category:       in.Category,
		Tags:           NewTags(in.Tags...),
		Environment:    cmp.Or(in.Environment, EnvDevelopment),
		DeploymentURL:  in.DeploymentURL,
		DeploymentDate: cloneTime(in.DeploymentDate),
		CreatedDate:    t,
		UpdatedDate:    t,
		CurrentVersion: InitialVersion,
	}
	if in.Metrics != nil {
		rec.Metrics = *in.Metrics
	}

	rec.Versions = []Snapshot{{
		Version:     InitialVersion,
		ChangeLog:   cmp.Or(cmd.ChangeLog, defaultCreateLog),
		CreatedDate: t,
		Changes: Changes{
			Type:        ChangeCreated,
			Fields:      []FieldChange{},
			Description: createdDescription,
		},
		DeploymentInfo: rec.deploymentInfo(),
	}}

	if err := r.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("store prompt: %w", err)
	}

	r.logger.Info("prompt created", "id", rec.ID, "name", rec.Name, "model", rec.Model)
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, id int, cmd UpdateCommand) (*Record, error) {
	if err := r.latency.Wait(ctx, latency.OpUpdate); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := existing.Clone()
	apply(&updated, cmd.Input)

	changes := Diff(existing, &updated)
	summary := Summary(changes)

	next, err := NextPatch(existing.CurrentVersion)
	if err != nil {
		r.logger.Warn("restarting version sequence", "id", id, "error", err)
		next, _ = NextPatch(InitialVersion)
	}

	t := now()
	updated.UpdatedDate = t
	updated.CurrentVersion = next
	updated.Versions = append(updated.Versions, Snapshot{
		Version:     next,
		ChangeLog:   cmp.Or(cmd.ChangeLog, summary),
		CreatedDate: t,
		Changes: Changes{
			Type:        ChangeUpdated,
			Fields:      changes,
			Description: summary,
		},
		DeploymentInfo: updated.deploymentInfo(),
	})

	if err := r.store.Put(ctx, updated); err != nil {
		return nil, fmt.Errorf("store prompt: %w", err)
	}

	r.logger.Info("prompt updated", "id", id, "version", next, "changes", len(changes))
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id int) error {
	if err := r.latency.Wait(ctx, latency.OpDelete); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete prompt %d: %w", id, err)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) History(ctx context.Context, id int) ([]Snapshot, error) {
	rec, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.Versions, nil
}

func (r *repo) Version(ctx context.Context, id int, label string) (*Snapshot, error) {
	rec, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, v := range rec.Versions {
		if v.Version == label {
			return &v, nil
		}
	}
	return nil, fmt.Errorf("%w: prompt %d has no version %s", ErrVersionNotFound, id, label)
}

func (r *repo) Compare(ctx context.Context, id int, left, right string) (*Comparison, error) {
	var rec *Record
	var lv, rv *Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rec, err = r.Find(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		lv, err = r.Version(gctx, id, left)
		return err
	})
	g.Go(func() (err error) {
		rv, err = r.Version(gctx, id, right)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := Compare(rec, *lv, *rv)
	return &c, nil
}

func (r *repo) get(ctx context.Context, id int) (*Record, error) {
	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find prompt %d: %w", id, err)
	}
	return rec, nil
}

// apply copies the editable content of in onto rec. Empty status and
// environment, nil tags, nil metrics, and a nil deployment date keep the
// existing values unless ClearDeploymentDate is set.
func apply(rec *Record, in Input) {
	rec.Name = in.Name
	rec.Description = in.Description
	rec.Model = in.Model
	rec.ModelVersion = in.ModelVersion
	rec.Provider = in.Provider
	rec.Temperature = in.Temperature
	rec.MaxTokens = in.MaxTokens
	rec.Category = in.Category
	rec.DeploymentURL = in.DeploymentURL

	if in.Status != "" {
		rec.Status = in.Status
	}
	if in.Environment != "" {
		rec.Environment = in.Environment
	}
	if in.Tags != nil {
		rec.Tags = NewTags(in.Tags...)
	}
	switch {
	case in.ClearDeploymentDate:
		rec.DeploymentDate = nil
	case in.DeploymentDate != nil:
		rec.DeploymentDate = cloneTime(in.DeploymentDate)
	}
	if in.Metrics != nil {
		rec.Metrics = *in.Metrics
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
