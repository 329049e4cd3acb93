package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jenkins-x/go-scm/scm/driver/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher/internal/gateway/entity"
)

func TestSCMFileReader(t *testing.T) {
	dir := t.TempDir()
	repoDir := filepath.Join(dir, "acme", "app")
	require.NoError(t, os.MkdirAll(filepath.Join(repoDir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "docs", "CLAUDE.md"), []byte("existing"), 0o644))

	client, data := fake.NewDefault()
	data.ContentDir = dir
	reader := NewSCMFileReader(client)
	repo := entity.Repository{Owner: "acme", Name: "app"}

	content, ok, err := reader.GetExistingFile(context.Background(), repo, "/docs/CLAUDE.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "existing", content)

	_, ok, err = reader.GetExistingFile(context.Background(), repo, "docs/AGENTS.md")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = reader.GetExistingFile(context.Background(), repo, " ")
	assert.Error(t, err)
}
