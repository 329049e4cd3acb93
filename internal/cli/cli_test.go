package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"publisher/internal/gateway/entity"
	"publisher/internal/gateway/events"
	"publisher/internal/gateway/handler/rpc"
	distributionrepo "publisher/internal/gateway/repository/distribution"
	"publisher/internal/gateway/repository/gitrepo"
	rendermoderepo "publisher/internal/gateway/repository/rendermode"
	targetrepo "publisher/internal/gateway/repository/target"
	"publisher/internal/gateway/server"
	distributionsvc "publisher/internal/gateway/service/distribution"
	"publisher/internal/gateway/service/rendermode"
	targetsvc "publisher/internal/gateway/service/target"
	"publisher/internal/gateway/usecase/publish"
)

type stubPublisher struct {
	got publish.Command
}

func (p *stubPublisher) Execute(_ context.Context, cmd publish.Command) (publish.Response, error) {
	p.got = cmd
	var resp publish.Response
	for _, id := range cmd.TargetIDs {
		resp.Distributions = append(resp.Distributions, entity.Distribution{
			ID:        entity.DistributionID("d-" + string(id)),
			Target:    entity.Target{ID: id, Name: "root", Path: "/"},
			Status:    entity.StatusSuccess,
			GitCommit: &entity.GitCommit{SHA: "0123456789abcdef"},
		})
	}
	return resp, nil
}

func newGateway(t *testing.T) (string, *stubPublisher) {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()
	targets := targetrepo.NewMemoryStore()
	repos := gitrepo.NewMemoryStore()
	recorder := distributionsvc.NewRecorder(distributionrepo.NewMemoryStore(), logger)
	modes := rendermode.NewService(rendermoderepo.NewMemoryStore(), rendermode.NewRegistry(nil), logger)
	pub := &stubPublisher{}

	srv := httptest.NewServer(server.NewMux(server.Handlers{
		Publish:      rpc.NewPublishHandler(pub, nil, logger),
		RenderModes:  rpc.NewRenderModeHandler(modes),
		Targets:      rpc.NewTargetHandler(targetsvc.NewService(targetsvc.NewResolver(targets, repos), targets, recorder, logger)),
		Repositories: rpc.NewRepositoryHandler(repos),
		Distribution: rpc.NewDistributionHandler(recorder),
		Feed:         rpc.NewDeploymentFeedHandler(events.NewHub(1), logger),
	}))
	t.Cleanup(srv.Close)
	return srv.URL, pub
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", url}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReposAndTargets(t *testing.T) {
	url, _ := newGateway(t)

	out, err := run(t, url, "repos", "add", "--id", "web", "--owner", "acme", "--name", "web")
	require.NoError(t, err)
	assert.Equal(t, "registered web as acme/web@main\n", out)

	out, err = run(t, url, "-o", "json", "targets", "add", "--org", "acme", "--repo", "web", "--name", "frontend", "--path", "/apps/web")
	require.NoError(t, err)
	var target entity.Target
	require.NoError(t, json.Unmarshal([]byte(out), &target))
	assert.Equal(t, "/apps/web/", target.Path)
	assert.NotEmpty(t, target.ID)

	out, err = run(t, url, "targets", "update", string(target.ID), "--org", "acme", "--name", "site")
	require.NoError(t, err)
	assert.Contains(t, out, "site")
	assert.Contains(t, out, "/apps/web/")

	out, err = run(t, url, "targets", "delete", string(target.ID), "--org", "acme")
	require.NoError(t, err)
	assert.Equal(t, "deleted "+string(target.ID)+"\n", out)

	_, err = run(t, url, "targets", "delete", string(target.ID), "--org", "acme")
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestRenderModesGetAndSet(t *testing.T) {
	url, _ := newGateway(t)

	out, err := run(t, url, "render-modes", "get", "--org", "acme")
	require.NoError(t, err)
	assert.Equal(t, "configured: no (using defaults)\nactive: packmind, agents_md\n", out)

	out, err = run(t, url, "render-modes", "set", "--org", "acme", "claude", "cursor")
	require.NoError(t, err)
	assert.Equal(t, "active: packmind, claude, cursor\n", out)

	_, err = run(t, url, "render-modes", "set", "--org", "acme", "emacs")
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestPublishBuildsVersionRefs(t *testing.T) {
	url, pub := newGateway(t)

	out, err := run(t, url, "publish", "--org", "acme", "--user", "u1", "-t", "t1", "--recipe", "r1", "--standard", "s1,s2")
	require.NoError(t, err)
	assert.Contains(t, out, "d-t1")
	assert.Contains(t, out, "01234567")

	assert.Equal(t, entity.OrganizationID("acme"), pub.got.OrganizationID)
	assert.Equal(t, []entity.TargetID{"t1"}, pub.got.TargetIDs)
	require.Len(t, pub.got.ArtifactVersions, 3)
	assert.Equal(t, entity.KindRecipe, pub.got.ArtifactVersions[0].Kind)
	assert.Equal(t, entity.KindStandard, pub.got.ArtifactVersions[2].Kind)
}

func TestPublishRequiresArtifacts(t *testing.T) {
	url, _ := newGateway(t)
	_, err := run(t, url, "publish", "--org", "acme", "-t", "t1")
	assert.EqualError(t, err, "at least one --recipe or --standard is required")
}

func TestDistributionsListEmpty(t *testing.T) {
	url, _ := newGateway(t)
	out, err := run(t, url, "-o", "json", "distributions", "list", "--org", "acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"distributions":[]}`, out)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "http://127.0.0.1:1", "-o", "yaml", "version")
	assert.EqualError(t, err, `unknown output format "yaml"`)
}
