// Package minio persists agent chunk results to a MinIO (S3-compatible)
// object store for downstream ingestion pipelines.
package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	edurag "github.com/Leenamgyo/EduRAG"
)

// Settings configure the connection to a MinIO deployment.
type Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
	Region    string
}

// SettingsFromEnvironment builds settings from EDURAG_MINIO_* variables,
// falling back to the standard local development defaults.
func SettingsFromEnvironment() Settings {
	return Settings{
		Endpoint:  envOrDefault("EDURAG_MINIO_ENDPOINT", "localhost:9000"),
		AccessKey: envOrDefault("EDURAG_MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey: envOrDefault("EDURAG_MINIO_SECRET_KEY", "minioadmin"),
		Bucket:    envOrDefault("EDURAG_MINIO_BUCKET", "edurag-search"),
		Secure:    envFlag("EDURAG_MINIO_SECURE"),
		Region:    os.Getenv("EDURAG_MINIO_REGION"),
	}
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envFlag(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on", "y":
		return true
	}
	return false
}

// Ensure ChunkStore implements edurag.ChunkStore at compile time.
var _ edurag.ChunkStore = (*ChunkStore)(nil)

// ChunkStore stores agent chunk results as JSON objects in a MinIO bucket.
// The bucket is created on first write if it does not exist.
type ChunkStore struct {
	client   *minio.Client
	settings Settings

	ensureOnce sync.Once
	ensureErr  error
}

// NewChunkStore creates a store from the given settings.
func NewChunkStore(settings Settings) (*ChunkStore, error) {
	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.Secure,
		Region: settings.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &ChunkStore{client: client, settings: settings}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
// Safe to call more than once; the check runs only on the first call.
func (s *ChunkStore) EnsureBucket(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.settings.Bucket)
		if err != nil {
			s.ensureErr = fmt.Errorf("failed to verify bucket %q: %w", s.settings.Bucket, err)
			return
		}
		if exists {
			return
		}
		err = s.client.MakeBucket(ctx, s.settings.Bucket, minio.MakeBucketOptions{Region: s.settings.Region})
		if err != nil {
			s.ensureErr = fmt.Errorf("failed to create bucket %q: %w", s.settings.Bucket, err)
		}
	})
	return s.ensureErr
}

// StoreAgentChunks uploads the result as a JSON object and returns the
// object key used. An empty objectName falls back to result.ObjectKey().
func (s *ChunkStore) StoreAgentChunks(ctx context.Context, result *edurag.AgentChunkResult, objectName string) (string, error) {
	if result == nil {
		return "", edurag.Errorf(edurag.EINVALID, "Agent chunk result is required.")
	}

	if err := s.EnsureBucket(ctx); err != nil {
		return "", err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	key := objectName
	if key == "" {
		key = result.ObjectKey()
	}

	_, err = s.client.PutObject(ctx, s.settings.Bucket, key,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	return key, nil
}

// LoadAgentChunks downloads a previously stored result.
// Returns ENOTFOUND if the object does not exist.
func (s *ChunkStore) LoadAgentChunks(ctx context.Context, objectName string) (*edurag.AgentChunkResult, error) {
	obj, err := s.client.GetObject(ctx, s.settings.Bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to download object %q: %w", objectName, err)
	}
	defer obj.Close()

	// GetObject is lazy; missing keys only surface on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil, edurag.Errorf(edurag.ENOTFOUND, "Object %q not found.", objectName)
		}
		return nil, fmt.Errorf("failed to download object %q: %w", objectName, err)
	}

	var result edurag.AgentChunkResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("object %q does not contain valid search results: %w", objectName, err)
	}
	return &result, nil
}
