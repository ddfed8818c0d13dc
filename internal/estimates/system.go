package estimates

import (
	"context"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/pkg/pagination"
	"github.com/Infernos444/insurely/pkg/storage"
)

// System defines the public contract for estimate domain operations.
// Every operation is scoped to the verified identity passed in; no
// operation can see another user's estimates.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		identity auth.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Estimate], error)

	Find(ctx context.Context, identity auth.Context, correlationID string) (*Estimate, error)
	Submit(ctx context.Context, identity auth.Context, cmd CreateCommand) (*Estimate, error)
	Download(ctx context.Context, identity auth.Context, correlationID string) (*storage.DownloadResult, error)
	Delete(ctx context.Context, identity auth.Context, correlationID string) error
}
