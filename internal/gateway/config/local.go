package config

import (
	"os"
	"strings"
)

// applyLocalDefaults points a local run at the docker-compose minio when one
// is configured and reads repositories through the go-scm fake driver.
func applyLocalDefaults(cfg *Config) {
	if cfg.Artifact.Endpoint != "" {
		cfg.Artifact.AccessKey = firstNonEmpty(cfg.Artifact.AccessKey, "packmind")
		cfg.Artifact.SecretKey = firstNonEmpty(cfg.Artifact.SecretKey, "packmind123")
	}
	cfg.SCM.Driver = firstNonEmpty(strings.TrimSpace(os.Getenv("SCM_DRIVER")), "fake")
	cfg.LogLevel = firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "debug")
}
