// Package storage keeps exported landing pages in S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/landingforge/landingforge/internal/config"
)

const htmlContentType = "text/html; charset=utf-8"

// Exporter uploads a rendered page and returns a link to it.
type Exporter interface {
	ExportHTML(ctx context.Context, generationID, fileName, html string) (*Export, error)
}

// Export is one uploaded page
type Export struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Size      int64     `json:"size"`
}

// MinIOClient wraps the MinIO client
type MinIOClient struct {
	client     *minio.Client
	bucketName string
	region     string
	prefix     string
	presignTTL time.Duration
}

// NewMinIOClient creates a new MinIO client
func NewMinIOClient(cfg config.StorageConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	// S3 rejects presigned URLs valid for more than seven days.
	if ttl > 7*24*time.Hour {
		ttl = 7 * 24 * time.Hour
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
		region:     cfg.Region,
		prefix:     strings.Trim(cfg.ExportPath, "/"),
		presignTTL: ttl,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return fmt.Errorf("checking bucket: %w", err)
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucketName, minio.MakeBucketOptions{Region: m.region}); err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
	}

	return nil
}

// Health checks that the bucket is reachable
func (m *MinIOClient) Health(ctx context.Context) error {
	if _, err := m.client.BucketExists(ctx, m.bucketName); err != nil {
		return fmt.Errorf("minio health: %w", err)
	}
	return nil
}

// ExportKey is the object key of an exported page: {prefix}/{generation id}/{file name}.
func ExportKey(prefix, generationID, fileName string) string {
	if fileName == "" {
		fileName = "index.html"
	}
	return path.Join(strings.Trim(prefix, "/"), generationID, fileName)
}

// ExportHTML uploads html and returns a presigned download link.
func (m *MinIOClient) ExportHTML(ctx context.Context, generationID, fileName, html string) (*Export, error) {
	key := ExportKey(m.prefix, generationID, fileName)

	info, err := m.client.PutObject(ctx, m.bucketName, key, strings.NewReader(html), int64(len(html)), minio.PutObjectOptions{
		ContentType:        htmlContentType,
		ContentDisposition: ContentDisposition(path.Base(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", key, err)
	}

	link, err := m.PresignedURL(ctx, key, m.presignTTL)
	if err != nil {
		return nil, err
	}

	return &Export{
		Key:       key,
		URL:       link,
		ExpiresAt: time.Now().UTC().Add(m.presignTTL),
		Size:      info.Size,
	}, nil
}

// PresignedURL returns a presigned URL for downloading key
func (m *MinIOClient) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucketName, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("generating presigned URL: %w", err)
	}
	return u.String(), nil
}

// ContentDisposition is an attachment header value that survives non-ASCII file names.
func ContentDisposition(fileName string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", asciiName(fileName), url.PathEscape(fileName))
}

func asciiName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
