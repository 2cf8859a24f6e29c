// Package backup provides periodic upload of the embedded database file to
// S3-compatible storage. When no bucket is configured the NoopUploader is
// used and the system stays in local-only mode.
package backup

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hyperengineering/mealdiary/internal/config"
)

// Uploader uploads a database backup.
type Uploader interface {
	// Upload copies the database file at filePath to remote storage.
	Upload(ctx context.Context, filePath string) error

	// Enabled reports whether uploads actually go anywhere.
	Enabled() bool
}

// s3Client defines the minimal minio.Client surface used by S3Uploader.
// This interface enables testing with mock implementations.
type s3Client interface {
	FPutObject(ctx context.Context, bucket, objectName, filePath string) error
}

// minioClientWrapper wraps *minio.Client to satisfy the s3Client interface.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) FPutObject(ctx context.Context, bucket, objectName, filePath string) error {
	opts := minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}
	_, err := w.client.FPutObject(ctx, bucket, objectName, filePath, opts)
	return err
}

// S3Uploader uploads backups to S3-compatible storage.
type S3Uploader struct {
	client s3Client
	bucket string
	prefix string
}

// Upload uploads the database file at filePath.
func (u *S3Uploader) Upload(ctx context.Context, filePath string) error {
	if err := u.client.FPutObject(ctx, u.bucket, objectKey(u.prefix), filePath); err != nil {
		return fmt.Errorf("upload backup to S3: %w", err)
	}
	return nil
}

// Enabled reports that uploads are live.
func (u *S3Uploader) Enabled() bool {
	return true
}

// NoopUploader is used when backup storage is not configured.
type NoopUploader struct{}

// Upload is a no-op when backup is not configured.
func (u *NoopUploader) Upload(ctx context.Context, filePath string) error {
	return nil
}

// Enabled reports that uploads are disabled.
func (u *NoopUploader) Enabled() bool {
	return false
}

// NewUploader creates the appropriate Uploader based on configuration.
// Returns NoopUploader when bucket is empty, S3Uploader otherwise.
func NewUploader(cfg config.BackupConfig) (Uploader, error) {
	if cfg.Bucket == "" {
		return &NoopUploader{}, nil
	}

	useSSL := true
	if cfg.UseSSL != nil {
		useSSL = *cfg.UseSSL
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Uploader{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// objectKey returns the S3 object key for the backup.
// Convention: {prefix}/backup/current.db
func objectKey(prefix string) string {
	if prefix == "" {
		prefix = "mealdiary"
	}
	return prefix + "/backup/current.db"
}
