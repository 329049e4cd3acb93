package rpc

import (
	"net/http"
	"strings"
)

const (
	PublishServiceName      = "publisher.v1.PublishService"
	RenderModeServiceName   = "publisher.v1.RenderModeService"
	TargetServiceName       = "publisher.v1.TargetService"
	RepositoryServiceName   = "publisher.v1.RepositoryService"
	DistributionServiceName = "publisher.v1.DistributionService"
)

const (
	PublishArtifactsProcedure              = "/" + PublishServiceName + "/PublishArtifacts"
	GetRenderModeConfigurationProcedure    = "/" + RenderModeServiceName + "/GetRenderModeConfiguration"
	UpdateRenderModeConfigurationProcedure = "/" + RenderModeServiceName + "/UpdateRenderModeConfiguration"
	AddTargetProcedure                     = "/" + TargetServiceName + "/AddTarget"
	UpdateTargetProcedure                  = "/" + TargetServiceName + "/UpdateTarget"
	DeleteTargetProcedure                  = "/" + TargetServiceName + "/DeleteTarget"
	RegisterRepositoryProcedure            = "/" + RepositoryServiceName + "/RegisterRepository"
	ListDistributionsProcedure             = "/" + DistributionServiceName + "/ListDistributions"
)

// serviceHandler routes every procedure of one service under "/<service>/".
func serviceHandler(service string, procedures map[string]http.Handler) (string, http.Handler) {
	prefix := "/" + service + "/"
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := procedures[r.URL.Path]
		if !ok || !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
