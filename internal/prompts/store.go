package prompts

import "context"

// Store persists prompt records. Implementations return ErrNotFound for
// missing ids and hand out copies the caller may modify.
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id int) (*Record, error)
	Put(ctx context.Context, record Record) error
	Delete(ctx context.Context, id int) error
}
