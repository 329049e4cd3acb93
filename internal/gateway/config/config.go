package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string         `yaml:"port"`
	Env            string         `yaml:"env"`
	DatabaseURL    string         `yaml:"databaseUrl"`
	LogLevel       string         `yaml:"logLevel"`
	AllowedOrigins []string       `yaml:"allowedOrigins"`
	Artifact       ArtifactConfig `yaml:"artifact"`
	Git            GitConfig      `yaml:"git"`
	SCM            SCMConfig      `yaml:"scm"`
	Events         EventsConfig   `yaml:"events"`
}

type ArtifactConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

// CanUseS3 reports whether every field the S3 catalog needs is present.
func (c ArtifactConfig) CanUseS3() bool {
	return c.Enabled &&
		strings.TrimSpace(c.Endpoint) != "" &&
		strings.TrimSpace(c.Bucket) != "" &&
		strings.TrimSpace(c.AccessKey) != "" &&
		strings.TrimSpace(c.SecretKey) != ""
}

type GitConfig struct {
	// Workdir keeps clones on disk between publishes; empty clones in memory.
	Workdir     string `yaml:"workdir"`
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
	Token       string `yaml:"token"`
}

type SCMConfig struct {
	Driver    string `yaml:"driver"`
	ServerURL string `yaml:"serverUrl"`
}

type EventsConfig struct {
	SinkURL string `yaml:"sinkUrl"`
}

// Load reads .env, then the environment, then the optional YAML file named by
// PUBLISHER_CONFIG. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := firstNonEmpty(strings.TrimSpace(os.Getenv("APP_ENV")), "local")
	cfg := &Config{
		Port:           normalizePort(firstNonEmpty(strings.TrimSpace(os.Getenv("PORT")), ":8081")),
		Env:            env,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		LogLevel:       firstNonEmpty(strings.TrimSpace(os.Getenv("LOG_LEVEL")), "info"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Artifact:       loadArtifactConfig(env),
		Git: GitConfig{
			Workdir:     strings.TrimSpace(os.Getenv("GIT_WORKDIR")),
			AuthorName:  firstNonEmpty(strings.TrimSpace(os.Getenv("GIT_AUTHOR_NAME")), "Packmind"),
			AuthorEmail: firstNonEmpty(strings.TrimSpace(os.Getenv("GIT_AUTHOR_EMAIL")), "noreply@packmind.local"),
			Token:       strings.TrimSpace(os.Getenv("GIT_TOKEN")),
		},
		SCM: SCMConfig{
			Driver:    firstNonEmpty(strings.TrimSpace(os.Getenv("SCM_DRIVER")), "github"),
			ServerURL: strings.TrimSpace(os.Getenv("SCM_SERVER_URL")),
		},
		Events: EventsConfig{
			SinkURL: strings.TrimSpace(os.Getenv("EVENTS_SINK_URL")),
		},
	}
	if isLocal(env) {
		applyLocalDefaults(cfg)
	}

	if path := strings.TrimSpace(os.Getenv("PUBLISHER_CONFIG")); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}
	cfg.Port = normalizePort(cfg.Port)
	return cfg, nil
}

// overlayFile decodes path over cfg; keys missing from the file keep their value.
func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := resolveArtifactEndpoint(env)
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "packmind-artifacts"),
		UseSSL:    resolveArtifactUseSSL(env),
	}
}

func resolveArtifactEndpoint(env string) string {
	if isLocal(env) {
		return strings.TrimSpace(os.Getenv("ARTIFACT_MINIO_ENDPOINT"))
	}
	return strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
}

func resolveArtifactUseSSL(env string) bool {
	if isLocal(env) {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func isLocal(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local")
}

func normalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
