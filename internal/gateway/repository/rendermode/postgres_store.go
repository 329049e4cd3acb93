package rendermode

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/repository/pgutil"
)

const table = "render_mode_configurations"

var schema = pgutil.NewSchema(`
CREATE TABLE IF NOT EXISTS render_mode_configurations (
    organization_id TEXT PRIMARY KEY,
    active_render_modes JSONB NOT NULL DEFAULT '[]'::jsonb,
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

func (s *PostgresStore) Get(ctx context.Context, orgID entity.OrganizationID) (entity.RenderModeConfiguration, error) {
	if s == nil {
		return entity.RenderModeConfiguration{}, fmt.Errorf("store is nil")
	}
	if orgID.IsZero() {
		return entity.RenderModeConfiguration{}, fmt.Errorf("organization_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	query, args := pgutil.Builder().
		Select("active_render_modes").
		From(entsql.Table(table)).
		Where(entsql.EQ("organization_id", orgID.String())).
		Query()

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.RenderModeConfiguration{}, ErrNotFound
	}
	if err != nil {
		return entity.RenderModeConfiguration{}, err
	}
	var modes []entity.RenderMode
	if err := json.Unmarshal(raw, &modes); err != nil {
		return entity.RenderModeConfiguration{}, fmt.Errorf("decode render modes for %s: %w", orgID, err)
	}
	return entity.RenderModeConfiguration{
		OrganizationID:    entity.OrganizationID(orgID.String()),
		ActiveRenderModes: modes,
	}, nil
}

func (s *PostgresStore) Put(ctx context.Context, cfg entity.RenderModeConfiguration) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if cfg.OrganizationID.IsZero() {
		return fmt.Errorf("organization_id is required")
	}
	if err := schema.Ensure(ctx, s.db); err != nil {
		return err
	}
	raw, err := json.Marshal(entity.RenderModeStrings(cfg.ActiveRenderModes))
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	query, args := pgutil.Builder().
		Insert(table).
		Columns("organization_id", "active_render_modes", "created_at", "updated_at").
		Values(cfg.OrganizationID.String(), raw, now, now).
		OnConflict(
			entsql.ConflictColumns("organization_id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("active_render_modes")
				u.SetExcluded("updated_at")
			}),
		).
		Query()
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}
