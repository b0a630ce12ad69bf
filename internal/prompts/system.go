package prompts

import (
	"context"

	"github.com/JaimeStill/promptdeck/pkg/pagination"
)

// System defines the public contract for prompt domain operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Record, error)

	Search(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id int) (*Record, error)
	Create(ctx context.Context, cmd CreateCommand) (*Record, error)
	Update(ctx context.Context, id int, cmd UpdateCommand) (*Record, error)
	Delete(ctx context.Context, id int) error

	History(ctx context.Context, id int) ([]Snapshot, error)
	Version(ctx context.Context, id int, label string) (*Snapshot, error)
	Compare(ctx context.Context, id int, left, right string) (*Comparison, error)
}
