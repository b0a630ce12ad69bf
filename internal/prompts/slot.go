package prompts

import (
	"cmp"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/JaimeStill/promptdeck/pkg/lifecycle"
	"github.com/JaimeStill/promptdeck/pkg/storage"
)

// DefaultSlotKey names the storage slot holding the record collection.
const DefaultSlotKey = "prompt_deploy_prompts"

//go:embed seed/prompts.json
var seedData []byte

// SeedData returns the bundled sample collection.
func SeedData() []byte {
	return slices.Clone(seedData)
}

// SlotStore keeps the whole collection as one JSON array under a single
// storage key. Every call reads the full blob and every mutation writes it
// back in full.
type SlotStore struct {
	slot   storage.System
	key    string
	seed   []byte
	logger *slog.Logger
	ready  atomic.Bool
}

// NewSlotStore creates a SlotStore over slot. An absent key is initialized
// from seed on first access, or with an empty collection when seed is nil.
func NewSlotStore(slot storage.System, key string, seed []byte, logger *slog.Logger) *SlotStore {
	return &SlotStore{
		slot:   slot,
		key:    cmp.Or(key, DefaultSlotKey),
		seed:   seed,
		logger: logger.With("system", "prompt-slot", "key", cmp.Or(key, DefaultSlotKey)),
	}
}

// Start registers a readiness check and attempts to initialize the slot
// during startup. A failed attempt is retried by the next access.
func (s *SlotStore) Start(lc *lifecycle.Coordinator) {
	lc.Check("prompt-slot", s)
	lc.OnStartup(func() {
		if _, err := s.load(lc.Context()); err != nil {
			s.logger.Warn("slot not yet readable", "error", err)
		}
	})
}

// Ready reports whether the collection has been read successfully.
func (s *SlotStore) Ready() bool {
	return s.ready.Load()
}

func (s *SlotStore) List(ctx context.Context) ([]Record, error) {
	return s.load(ctx)
}

func (s *SlotStore) Get(ctx context.Context, id int) (*Record, error) {
	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(records, func(r Record) bool { return r.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &records[i], nil
}

func (s *SlotStore) Put(ctx context.Context, record Record) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	i := slices.IndexFunc(records, func(r Record) bool { return r.ID == record.ID })
	if i < 0 {
		records = append(records, record.Clone())
	} else {
		records[i] = record.Clone()
	}

	return s.save(ctx, records)
}

func (s *SlotStore) Delete(ctx context.Context, id int) error {
	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(records, func(r Record) bool { return r.ID == id })
	if len(remaining) == len(records) {
		return ErrNotFound
	}

	return s.save(ctx, remaining)
}

func (s *SlotStore) load(ctx context.Context) ([]Record, error) {
	data, err := s.slot.Read(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		data, err = s.initialize(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", s.key, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", s.key, err)
	}

	slices.SortFunc(records, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
	s.ready.Store(true)
	return records, nil
}

func (s *SlotStore) initialize(ctx context.Context) ([]byte, error) {
	data := s.seed
	if data == nil {
		data = []byte("[]")
	}

	if err := s.slot.Write(ctx, s.key, data); err != nil {
		return nil, err
	}

	s.logger.Info("slot initialized", "seeded", s.seed != nil, "bytes", len(data))
	return data, nil
}

func (s *SlotStore) save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", s.key, err)
	}

	if err := s.slot.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", s.key, err)
	}
	return nil
}
