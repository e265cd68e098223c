package inspector

import (
	"context"

	"github.com/jmoiron/sqlx"

	"schemasync/internal/config"
	"schemasync/internal/core"
	"schemasync/internal/introspect"
	"schemasync/internal/parser"
)

// Source yields the actual schema.
type Source interface {
	Introspect(ctx context.Context, ignored []string) (*core.DatabaseSchema, error)
	Close() error
}

// Connector opens the actual-schema source for a configuration.
type Connector func(ctx context.Context, cfg *config.Config) (Source, error)

// Connect reads the configured snapshot file when one is set and opens the
// configured database otherwise.
func Connect(ctx context.Context, cfg *config.Config) (Source, error) {
	if path := cfg.SnapshotPath(); path != "" {
		s, err := parser.LoadSnapshot(path, cfg.Connection)
		if err != nil {
			return nil, err
		}
		return snapshot{s}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	i, err := introspect.Open(ctx, cfg.Driver, cfg.DSN, cfg.Connection)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// Borrow returns a connector that introspects db, whose lifetime the caller
// manages. The configured driver selects the dialect.
func Borrow(db *sqlx.DB) Connector {
	return func(_ context.Context, cfg *config.Config) (Source, error) {
		i, err := introspect.NewIntrospector(cfg.Driver, db, cfg.Connection)
		if err != nil {
			return nil, err
		}
		return i, nil
	}
}

type snapshot struct {
	schema *core.DatabaseSchema
}

func (s snapshot) Introspect(_ context.Context, ignored []string) (*core.DatabaseSchema, error) {
	return s.schema.Without(ignored), nil
}

func (snapshot) Close() error { return nil }
