package v1

import (
	"context"
	"errors"

	"github.com/vversio/cinegrid/internal/ratelimit"
	"github.com/vversio/cinegrid/internal/tmdb"
	"github.com/vversio/cinegrid/internal/watchlog"
)

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks . Metadata

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Metadata is the rate-limited TMDB proxy.
type Metadata interface {
	Search(ctx context.Context, query string, mt tmdb.MediaType) (*tmdb.SearchResponse, error)
	Details(ctx context.Context, id int64, mt tmdb.MediaType) (*tmdb.Details, error)
	Status() ratelimit.Status
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required
	Items *watchlog.Store

	// Optional (nil if TMDB is not configured)
	Metadata Metadata
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Items == nil {
		return errors.New("items store is required")
	}
	return nil
}
