package gitrepo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"publisher/internal/gateway/entity"
)

func TestWorkdirRequiresCloneURLForFirstClone(t *testing.T) {
	c := NewCommitter(Author{}, zaptest.NewLogger(t).Sugar(), WithWorkdir(t.TempDir()))

	_, err := c.Commit(context.Background(), testRepo, entity.FileUpdates{}, "msg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no clone url")
}

func TestWorkdirReusesExistingCloneAndFetches(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(filepath.Join(dir, testRepo.Owner, testRepo.Name), false)
	require.NoError(t, err)

	c := NewCommitter(Author{}, zaptest.NewLogger(t).Sugar(), WithWorkdir(dir))
	_, err = c.Commit(context.Background(), testRepo, entity.FileUpdates{}, "msg")
	require.Error(t, err)
	// The existing clone is opened rather than recloned; it has no origin to fetch from.
	assert.Contains(t, err.Error(), "fetch acme/app")
}
