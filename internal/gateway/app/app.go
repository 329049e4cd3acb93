package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"publisher/internal/gateway/config"
	"publisher/internal/gateway/events"
	"publisher/internal/gateway/handler/rpc"
	"publisher/internal/gateway/middleware"
	"publisher/internal/gateway/renderer"
	"publisher/internal/gateway/repository/gitrepo"
	"publisher/internal/gateway/server"
	distributionsvc "publisher/internal/gateway/service/distribution"
	"publisher/internal/gateway/service/rendermode"
	targetsvc "publisher/internal/gateway/service/target"
	"publisher/internal/gateway/service/version"
	"publisher/internal/gateway/usecase/publish"
)

const feedBuffer = 16

type App struct {
	server *server.Server
	stores *gatewayStores
	logger *zap.SugaredLogger
}

// New loads configuration, picks the stores, and wires every service behind the HTTP server.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	stores, err := initStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	scmClient, err := gitrepo.NewSCMClient(cfg.SCM.Driver, cfg.SCM.ServerURL, cfg.Git.Token)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	dispatcher, err := newDispatcher(cfg, logger)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}
	hub := events.NewHub(feedBuffer)
	dispatcher = append(dispatcher, hub)

	// Services
	registry := rendermode.NewRegistry(rendermode.DefaultTable())
	renderModes := rendermode.NewService(stores.renderModes, registry, logger.Named("rendermode"))
	recorder := distributionsvc.NewRecorder(stores.distributions, logger.Named("distribution"))
	resolver := targetsvc.NewResolver(stores.targets, stores.repositories)
	targets := targetsvc.NewService(resolver, stores.targets, recorder, logger.Named("target"))
	committer := gitrepo.NewCommitter(
		gitrepo.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail},
		logger.Named("git"),
		gitrepo.WithToken(cfg.Git.Token),
		gitrepo.WithWorkdir(cfg.Git.Workdir),
	)

	orchestrator := publish.NewOrchestrator(publish.Deps{
		Catalog:     stores.artifact,
		RenderModes: renderModes,
		Targets:     resolver,
		Versions:    version.NewReconciler(recorder, stores.artifact, logger.Named("version")),
		Renderers:   renderer.DefaultRegistry(),
		Files:       gitrepo.NewSCMFileReader(scmClient),
		Committer:   committer,
		Recorder:    recorder,
	}, logger.Named("publish"))

	// Routing & Server
	mux := server.NewMux(server.Handlers{
		Publish:      rpc.NewPublishHandler(orchestrator, dispatcher, logger.Named("rpc")),
		RenderModes:  rpc.NewRenderModeHandler(renderModes),
		Targets:      rpc.NewTargetHandler(targets),
		Repositories: rpc.NewRepositoryHandler(stores.repositories),
		Distribution: rpc.NewDistributionHandler(recorder),
		Feed:         rpc.NewDeploymentFeedHandler(hub, logger.Named("feed")),
	},
		middleware.AccessLog(logger.Named("http")),
		middleware.CORS(cfg.AllowedOrigins),
	)
	srv := server.New(cfg.Port, mux, logger)

	return &App{
		server: srv,
		stores: stores,
		logger: logger,
	}, nil
}

func newDispatcher(cfg *config.Config, logger *zap.SugaredLogger) (events.Fanout, error) {
	out := events.Fanout{events.Log{Logger: logger.Named("events")}}
	if cfg.Events.SinkURL == "" {
		return out, nil
	}
	sink, err := events.NewCloudEventsSink(cfg.Events.SinkURL, logger.Named("events"))
	if err != nil {
		return nil, err
	}
	logger.Infow("events: cloudevents sink", "target", cfg.Events.SinkURL)
	return append(out, sink), nil
}

// NewLogger builds a development logger for local runs and a JSON production
// logger otherwise, at the given level.
func NewLogger(env, level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Sugar(), nil
}

func (a *App) Logger() *zap.SugaredLogger {
	return a.logger
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.stores.Close(); err == nil {
		err = cerr
	}
	_ = a.logger.Sync()
	return err
}
