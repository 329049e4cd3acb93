package app

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	artifactcache "publisher/internal/cache/artifact"
	"publisher/internal/gateway/config"
	artifactrepo "publisher/internal/gateway/repository/artifact"
	distributionrepo "publisher/internal/gateway/repository/distribution"
	"publisher/internal/gateway/repository/gitrepo"
	"publisher/internal/gateway/repository/pgutil"
	rendermoderepo "publisher/internal/gateway/repository/rendermode"
	targetrepo "publisher/internal/gateway/repository/target"
)

const repositoryCacheSize = 512

type gatewayStores struct {
	db            *sql.DB
	artifact      artifactrepo.Store
	renderModes   rendermoderepo.Store
	targets       targetrepo.Store
	repositories  gitrepo.Store
	distributions distributionrepo.Store
}

func (s *gatewayStores) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initStores(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*gatewayStores, error) {
	s3Factory := newArtifactS3StoreFactory(cfg, logger)

	if dsn := strings.TrimSpace(cfg.DatabaseURL); dsn != "" {
		return initPostgresStores(ctx, dsn, cfg, s3Factory, logger)
	}
	return initInMemoryStores(cfg, s3Factory, logger)
}

func newArtifactS3StoreFactory(cfg *config.Config, logger *zap.SugaredLogger) func() (artifactrepo.Store, error) {
	return func() (artifactrepo.Store, error) {
		s3Cfg := artifactrepo.S3Config{
			Endpoint:  cfg.Artifact.Endpoint,
			Region:    cfg.Artifact.Region,
			AccessKey: cfg.Artifact.AccessKey,
			SecretKey: cfg.Artifact.SecretKey,
			Bucket:    cfg.Artifact.Bucket,
			UseSSL:    cfg.Artifact.UseSSL,
		}
		s3Store, err := artifactrepo.NewS3Store(s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize artifact s3 store: %w", err)
		}
		logger.Infow("artifact store: s3", "bucket", s3Cfg.Bucket, "endpoint", s3Cfg.Endpoint)
		return s3Store, nil
	}
}

func initPostgresStores(
	ctx context.Context,
	dsn string,
	cfg *config.Config,
	s3Factory func() (artifactrepo.Store, error),
	logger *zap.SugaredLogger,
) (*gatewayStores, error) {
	db, err := pgutil.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	repos, err := gitrepo.NewCachedStore(gitrepo.NewPostgresStore(db), repositoryCacheSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	artifactStore, err := chooseArtifactStore(cfg, artifactrepo.NewMemoryStore(), "in-memory", s3Factory, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Infow("stores: postgres")
	return &gatewayStores{
		db:            db,
		artifact:      artifactStore,
		renderModes:   rendermoderepo.NewPostgresStore(db),
		targets:       targetrepo.NewPostgresStore(db),
		repositories:  repos,
		distributions: distributionrepo.NewPostgresStore(db),
	}, nil
}

func initInMemoryStores(cfg *config.Config, s3Factory func() (artifactrepo.Store, error), logger *zap.SugaredLogger) (*gatewayStores, error) {
	artifactStore, err := chooseArtifactStore(cfg, artifactrepo.NewMemoryStore(), "in-memory", s3Factory, logger)
	if err != nil {
		return nil, err
	}
	repos, err := gitrepo.NewCachedStore(gitrepo.NewMemoryStore(), repositoryCacheSize)
	if err != nil {
		return nil, err
	}
	logger.Infow("stores: in-memory")
	return &gatewayStores{
		artifact:      artifactStore,
		renderModes:   rendermoderepo.NewMemoryStore(),
		targets:       targetrepo.NewMemoryStore(),
		repositories:  repos,
		distributions: distributionrepo.NewMemoryStore(),
	}, nil
}

func chooseArtifactStore(
	cfg *config.Config,
	fallback artifactrepo.Store,
	fallbackLabel string,
	s3Factory func() (artifactrepo.Store, error),
	logger *zap.SugaredLogger,
) (artifactrepo.Store, error) {
	var origin artifactrepo.Store
	if cfg.Artifact.CanUseS3() {
		s3Store, err := s3Factory()
		if err != nil {
			return nil, err
		}
		origin = s3Store
	} else {
		if cfg.Artifact.Enabled {
			logger.Warnw("artifact store: s3 config incomplete, using fallback", "fallback", fallbackLabel)
		}
		origin = fallback
	}
	if origin == nil {
		return nil, fmt.Errorf("artifact origin store is nil")
	}
	return artifactcache.NewCachedStore(origin, artifactcache.DefaultCacheConfig()), nil
}
