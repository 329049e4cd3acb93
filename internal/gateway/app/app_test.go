package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	artifactcache "publisher/internal/cache/artifact"
	"publisher/internal/gateway/config"
	artifactrepo "publisher/internal/gateway/repository/artifact"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Desugar().Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("local", "loud")
	assert.Error(t, err)
}

func TestInitInMemoryStoresWrapsCatalogInCache(t *testing.T) {
	cfg := &config.Config{}
	called := false
	stores, err := initInMemoryStores(cfg, func() (artifactrepo.Store, error) {
		called = true
		return nil, errors.New("unused")
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.False(t, called)
	assert.IsType(t, &artifactcache.CachedStore{}, stores.artifact)
	assert.NotNil(t, stores.repositories)
	assert.NoError(t, stores.Close())
}

func TestChooseArtifactStorePrefersS3WhenComplete(t *testing.T) {
	cfg := &config.Config{Artifact: config.ArtifactConfig{
		Enabled: true, Endpoint: "minio:9000", Bucket: "b", AccessKey: "a", SecretKey: "s",
	}}
	origin := artifactrepo.NewMemoryStore()
	got, err := chooseArtifactStore(cfg, nil, "none", func() (artifactrepo.Store, error) {
		return origin, nil
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.IsType(t, &artifactcache.CachedStore{}, got)

	_, err = chooseArtifactStore(cfg, nil, "none", func() (artifactrepo.Store, error) {
		return nil, errors.New("s3 down")
	}, zaptest.NewLogger(t).Sugar())
	assert.EqualError(t, err, "s3 down")
}
