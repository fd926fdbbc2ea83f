// Package source defines where listings come from. A source produces
// the flat record list for one storage location; the engine never talks
// to storage directly, the loader does.
package source

import (
	"context"

	"github.com/blobnav/blobnav/pkg/catalog"
)

// Source lists the objects of one storage location.
type Source interface {
	// List fetches the complete listing. Implementations page through
	// the remote API internally and return the flattened result.
	List(ctx context.Context) ([]catalog.Record, error)

	// ID identifies the source for cache keys and logs, for example
	// "azure:backups" or "s3:my-bucket".
	ID() string
}
