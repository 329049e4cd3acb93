package artifact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"publisher/internal/gateway/entity"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store keeps the catalog as JSON objects: recipes/<versionId>.json,
// standards/<versionId>.json, rules/<artifactId>.json for the current rules
// and rules/versions/<versionId>.json for the rules a standard version was
// written with.
type S3Store struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3Store{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Store) GetVersion(ctx context.Context, kind entity.ArtifactKind, id entity.VersionID) (entity.ArtifactVersion, error) {
	if !kind.Valid() {
		return entity.ArtifactVersion{}, fmt.Errorf("unknown artifact kind %q", kind)
	}
	if id.IsZero() {
		return entity.ArtifactVersion{}, fmt.Errorf("version_id is required")
	}
	var v entity.ArtifactVersion
	if err := s.getJSON(ctx, versionObjectKey(kind, id), &v); err != nil {
		return entity.ArtifactVersion{}, err
	}
	if kind == entity.KindStandard {
		rules, err := s.versionRules(ctx, v)
		if err != nil {
			return entity.ArtifactVersion{}, err
		}
		v = v.WithRules(rules)
	}
	return v, nil
}

// versionRules prefers the version's own snapshot over the artifact's current rules.
func (s *S3Store) versionRules(ctx context.Context, v entity.ArtifactVersion) ([]entity.Rule, error) {
	var rules []entity.Rule
	err := s.getJSON(ctx, versionRulesObjectKey(v.ID), &rules)
	if errors.Is(err, ErrNotFound) {
		return s.GetRules(ctx, v.ArtifactID)
	}
	if err != nil {
		return nil, err
	}
	if rules == nil {
		rules = []entity.Rule{}
	}
	return rules, nil
}

// GetRules returns an empty list when no rules object exists.
func (s *S3Store) GetRules(ctx context.Context, artifactID entity.ArtifactID) ([]entity.Rule, error) {
	if artifactID.String() == "" {
		return nil, fmt.Errorf("artifact_id is required")
	}
	var rules []entity.Rule
	err := s.getJSON(ctx, rulesObjectKey(artifactID), &rules)
	if errors.Is(err, ErrNotFound) {
		return []entity.Rule{}, nil
	}
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *S3Store) PutVersion(ctx context.Context, version entity.ArtifactVersion) error {
	if !version.Kind.Valid() {
		return fmt.Errorf("unknown artifact kind %q", version.Kind)
	}
	if version.ID.IsZero() {
		return fmt.Errorf("version_id is required")
	}
	if err := s.putJSON(ctx, versionObjectKey(version.Kind, version.ID), version.Summarized()); err != nil {
		return err
	}
	if version.Kind == entity.KindStandard && version.RulesLoaded {
		rules := version.Rules
		if rules == nil {
			rules = []entity.Rule{}
		}
		if err := s.putJSON(ctx, versionRulesObjectKey(version.ID), rules); err != nil {
			return err
		}
		return s.PutRules(ctx, version.ArtifactID, rules)
	}
	return nil
}

func (s *S3Store) PutRules(ctx context.Context, artifactID entity.ArtifactID, rules []entity.Rule) error {
	if artifactID.String() == "" {
		return fmt.Errorf("artifact_id is required")
	}
	if rules == nil {
		rules = []entity.Rule{}
	}
	return s.putJSON(ctx, rulesObjectKey(artifactID), rules)
}

func (s *S3Store) getJSON(ctx context.Context, key string, out any) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return ErrNotFound
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) putJSON(ctx context.Context, key string, v any) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func versionObjectKey(kind entity.ArtifactKind, id entity.VersionID) string {
	prefix := "recipes"
	if kind == entity.KindStandard {
		prefix = "standards"
	}
	return prefix + "/" + strings.TrimSpace(id.String()) + ".json"
}

func rulesObjectKey(artifactID entity.ArtifactID) string {
	return "rules/" + strings.TrimSpace(artifactID.String()) + ".json"
}

func versionRulesObjectKey(id entity.VersionID) string {
	return "rules/versions/" + strings.TrimSpace(id.String()) + ".json"
}
