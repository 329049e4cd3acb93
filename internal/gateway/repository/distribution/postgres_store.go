package distribution

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgconn"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/repository/pgutil"
)

const table = "distributions"

var columns = []string{
	"id", "organization_id", "author_id", "target_id", "target",
	"versions", "render_modes", "status", "git_commit", "error", "created_at",
}

var schema = pgutil.NewSchema(`
CREATE TABLE IF NOT EXISTS distributions (
    id TEXT PRIMARY KEY,
    organization_id TEXT NOT NULL,
    author_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    target JSONB NOT NULL,
    versions JSONB NOT NULL DEFAULT '[]'::jsonb,
    render_modes JSONB NOT NULL DEFAULT '[]'::jsonb,
    status TEXT NOT NULL,
    git_commit JSONB,
    error TEXT NOT NULL DEFAULT '',
    invalidated BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_distributions_org_created ON distributions(organization_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_distributions_target ON distributions(organization_id, target_id, created_at DESC);
`)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, d entity.Distribution) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if d.ID.String() == "" {
		return fmt.Errorf("distribution id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	targetRaw, err := json.Marshal(d.Target)
	if err != nil {
		return err
	}
	versionsRaw, err := json.Marshal(summarize(d.Versions))
	if err != nil {
		return err
	}
	modesRaw, err := json.Marshal(entity.RenderModeStrings(d.RenderModes))
	if err != nil {
		return err
	}
	var commitRaw []byte
	if d.GitCommit != nil {
		if commitRaw, err = json.Marshal(d.GitCommit); err != nil {
			return err
		}
	}
	query, args := pgutil.Builder().
		Insert(table).
		Columns(columns...).
		Values(
			d.ID.String(),
			d.OrganizationID.String(),
			d.AuthorID.String(),
			d.Target.ID.String(),
			targetRaw,
			versionsRaw,
			modesRaw,
			string(d.Status),
			commitRaw,
			d.Error,
			d.CreatedAt.UTC(),
		).
		Query()
	_, err = s.db.ExecContext(ctx, query, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (s *PostgresStore) List(ctx context.Context, orgID entity.OrganizationID) ([]entity.Distribution, error) {
	return s.query(ctx, entsql.EQ("organization_id", orgID.String()))
}

func (s *PostgresStore) ListByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.Distribution, error) {
	return s.query(ctx, entsql.And(
		entsql.EQ("organization_id", orgID.String()),
		entsql.EQ("target_id", targetID.String()),
	))
}

func (s *PostgresStore) FindActiveVersionsByTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) ([]entity.ArtifactVersion, error) {
	items, err := s.query(ctx, entsql.And(
		entsql.EQ("organization_id", orgID.String()),
		entsql.EQ("target_id", targetID.String()),
		entsql.EQ("status", string(entity.StatusSuccess)),
		entsql.EQ("invalidated", false),
	))
	if err != nil {
		return nil, err
	}
	return ActiveVersions(items), nil
}

func (s *PostgresStore) InvalidateTarget(ctx context.Context, orgID entity.OrganizationID, targetID entity.TargetID) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	query, args := pgutil.Builder().
		Update(table).
		Set("invalidated", true).
		Where(entsql.And(
			entsql.EQ("organization_id", orgID.String()),
			entsql.EQ("target_id", targetID.String()),
		)).
		Query()
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *PostgresStore) query(ctx context.Context, where *entsql.Predicate) ([]entity.Distribution, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return nil, err
	}
	query, args := pgutil.Builder().
		Select(columns...).
		From(entsql.Table(table)).
		Where(where).
		OrderBy(entsql.Desc("created_at")).
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Distribution
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDistribution(rows *sql.Rows) (entity.Distribution, error) {
	var d entity.Distribution
	var id, orgID, authorID, targetID, status, errMsg string
	var targetRaw, versionsRaw, modesRaw, commitRaw []byte
	if err := rows.Scan(&id, &orgID, &authorID, &targetID, &targetRaw, &versionsRaw, &modesRaw, &status, &commitRaw, &errMsg, &d.CreatedAt); err != nil {
		return entity.Distribution{}, err
	}
	d.ID = entity.DistributionID(id)
	d.OrganizationID = entity.OrganizationID(orgID)
	d.AuthorID = entity.UserID(authorID)
	d.Status = entity.DistributionStatus(status)
	d.Error = errMsg
	if err := json.Unmarshal(targetRaw, &d.Target); err != nil {
		return entity.Distribution{}, fmt.Errorf("decode target of %s: %w", id, err)
	}
	if err := json.Unmarshal(versionsRaw, &d.Versions); err != nil {
		return entity.Distribution{}, fmt.Errorf("decode versions of %s: %w", id, err)
	}
	if err := json.Unmarshal(modesRaw, &d.RenderModes); err != nil {
		return entity.Distribution{}, fmt.Errorf("decode render modes of %s: %w", id, err)
	}
	if len(commitRaw) > 0 {
		d.GitCommit = &entity.GitCommit{}
		if err := json.Unmarshal(commitRaw, d.GitCommit); err != nil {
			return entity.Distribution{}, fmt.Errorf("decode git commit of %s: %w", id, err)
		}
	}
	return d, nil
}
