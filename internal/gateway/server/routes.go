package server

import (
	"net/http"

	"publisher/internal/gateway/handler/rpc"
	"publisher/internal/gateway/middleware"
)

type Handlers struct {
	Publish      *rpc.PublishHandler
	RenderModes  *rpc.RenderModeHandler
	Targets      *rpc.TargetHandler
	Repositories *rpc.RepositoryHandler
	Distribution *rpc.DistributionHandler
	Feed         *rpc.DeploymentFeedHandler
}

// NewMux mounts every service; mws wrap the whole mux, first outermost.
func NewMux(h Handlers, mws ...middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	// RPC Handlers
	mux.Handle(rpc.NewPublishServiceHandler(h.Publish))
	mux.Handle(rpc.NewRenderModeServiceHandler(h.RenderModes))
	mux.Handle(rpc.NewTargetServiceHandler(h.Targets))
	mux.Handle(rpc.NewRepositoryServiceHandler(h.Repositories))
	mux.Handle(rpc.NewDistributionServiceHandler(h.Distribution))

	// Realtime
	mux.Handle(rpc.DeploymentFeedPath, h.Feed)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return middleware.Chain(mux, mws...)
}
