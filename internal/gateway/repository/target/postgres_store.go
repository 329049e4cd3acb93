package target

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/repository/pgutil"
)

const table = "targets"

var columns = []string{"id", "organization_id", "repository_id", "name", "path"}

var schema = pgutil.NewSchema(`
CREATE TABLE IF NOT EXISTS targets (
    id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    repository_id TEXT NOT NULL,
    name TEXT NOT NULL,
    path TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_targets_repository_id ON targets(repository_id);
`)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id entity.TargetID) (entity.Target, error) {
	if s == nil {
		return entity.Target{}, fmt.Errorf("store is nil")
	}
	if id.IsZero() {
		return entity.Target{}, fmt.Errorf("target_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return entity.Target{}, err
	}
	query, args := pgutil.Builder().
		Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("id", id.String())).
		Query()
	t, err := scanTarget(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Target{}, ErrNotFound
	}
	return t, err
}

func (s *PostgresStore) Put(ctx context.Context, target entity.Target) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if target.ID.IsZero() {
		return fmt.Errorf("target_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	now := time.Now().UTC()
	query, args := pgutil.Builder().
		Insert(table).
		Columns(append(columns, "created_at", "updated_at")...).
		Values(
			target.ID.String(),
			target.OrganizationID.String(),
			target.RepositoryID.String(),
			target.Name,
			target.Path,
			now,
			now,
		).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("name")
				u.SetExcluded("path")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, id entity.TargetID) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	query, args := pgutil.Builder().
		Delete(table).
		Where(entsql.EQ("id", id.String())).
		Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListByRepository(ctx context.Context, repoID entity.RepositoryID) ([]entity.Target, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return nil, err
	}
	query, args := pgutil.Builder().
		Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ("repository_id", repoID.String())).
		OrderBy("path").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Target
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTarget(row scanner) (entity.Target, error) {
	var (
		t                       entity.Target
		id, orgID, repoID, name string
		path                    string
	)
	if err := row.Scan(&id, &orgID, &repoID, &name, &path); err != nil {
		return entity.Target{}, err
	}
	t.ID = entity.TargetID(id)
	t.OrganizationID = entity.OrganizationID(orgID)
	t.RepositoryID = entity.RepositoryID(repoID)
	t.Name = name
	t.Path = path
	return t, nil
}
