package gitrepo

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

const table = "git_repositories"

var schema = pgutil.NewSchema(`
CREATE TABLE IF NOT EXISTS git_repositories (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    branch TEXT NOT NULL DEFAULT 'main',
    clone_url TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, id entity.RepositoryID) (entity.Repository, error) {
	if s == nil {
		return entity.Repository{}, fmt.Errorf("store is nil")
	}
	if id.IsZero() {
		return entity.Repository{}, fmt.Errorf("repository_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return entity.Repository{}, err
	}
	query, args := pgutil.Builder().
		Select("owner", "name", "branch", "clone_url").
		From(entsql.Table(table)).
		Where(entsql.EQ("id", id.String())).
		Query()

	repo := entity.Repository{ID: entity.RepositoryID(id.String())}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&repo.Owner, &repo.Name, &repo.Branch, &repo.CloneURL)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Repository{}, ErrNotFound
	}
	if err != nil {
		return entity.Repository{}, err
	}
	return repo, nil
}

func (s *PostgresStore) Put(ctx context.Context, repo entity.Repository) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if repo.ID.IsZero() {
		return fmt.Errorf("repository_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	now := time.Now().UTC()
	query, args := pgutil.Builder().
		Insert(table).
		Columns("id", "owner", "name", "branch", "clone_url", "created_at", "updated_at").
		Values(repo.ID.String(), repo.Owner, repo.Name, repo.BranchOrDefault(), repo.CloneURL, now, now).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("owner")
				u.SetExcluded("name")
				u.SetExcluded("branch")
				u.SetExcluded("clone_url")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}
