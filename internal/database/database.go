package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/mtlprog/dbprobe/internal/domain"
)

// Lister enumerates the databases visible to the connected credential.
type Lister interface {
	ListDatabaseNames(ctx context.Context) ([]string, error)
}

// Handle is an established connection to a store with one selected database.
type Handle interface {
	Lister

	// Name returns the selected database name.
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the store addressed by url and selects database name.
// The connection is verified with a ping before Open returns, so an
// unreachable server is reported here rather than on first use.
func Open(ctx context.Context, url, name string) (Handle, error) {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return nil, fmt.Errorf("%w: missing scheme", domain.ErrUnsupportedScheme)
	}

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return OpenMongo(ctx, url, name)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, url, name)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedScheme, scheme)
	}
}
