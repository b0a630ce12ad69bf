package prompts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/promptdeck/pkg/query"
	"github.com/JaimeStill/promptdeck/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("status", "Status").
	Project("created_date", "CreatedDate").
	Project("updated_date", "UpdatedDate").
	Project("document", "Document")

var scanRecord = repository.ScanJSON[Record](6)

const upsertRecord = `
	INSERT INTO prompts (id, name, status, created_date, updated_date, document)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		status = EXCLUDED.status,
		updated_date = EXCLUDED.updated_date,
		document = EXCLUDED.document`

type postgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresStore creates a Store keeping one row per record, with the
// full record held as a JSONB document.
func NewPostgresStore(db *sql.DB, logger *slog.Logger) Store {
	return &postgresStore{
		db:     db,
		logger: logger.With("system", "prompt-postgres"),
	}
}

func (s *postgresStore) List(ctx context.Context) ([]Record, error) {
	q := query.NewBuilder(projection, query.SortField{Field: "ID"}).Build()

	records, err := repository.QueryMany(ctx, s.db, q, nil, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	return records, nil
}

func (s *postgresStore) Get(ctx context.Context, id int) (*Record, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	r, err := repository.QueryOne(ctx, s.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return &r, nil
}

func (s *postgresStore) Put(ctx context.Context, record Record) error {
	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode prompt %d: %w", record.ID, err)
	}

	_, err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx, upsertRecord,
			record.ID, record.Name, string(record.Status),
			record.CreatedDate, record.UpdatedDate, doc,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}

	s.logger.Debug("prompt stored", "id", record.ID, "version", record.CurrentVersion)
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, id int) error {
	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM prompts WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrConflict)
	}
	return nil
}
