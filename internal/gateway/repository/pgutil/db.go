// Package pgutil opens the shared postgres handle and runs schema bootstrap.
package pgutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects through the pgx stdlib driver and pings once.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Builder returns a postgres-flavoured SQL builder.
func Builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}

// Schema runs its DDL at most once per process.
type Schema struct {
	ddl  string
	once sync.Once
	err  error
}

func NewSchema(ddl string) *Schema {
	return &Schema{ddl: ddl}
}

func (s *Schema) Ensure(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	s.once.Do(func() {
		_, s.err = db.ExecContext(ctx, s.ddl)
	})
	return s.err
}
