package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperengineering/mealdiary/internal/config"
)

type mockS3Client struct {
	calls    int
	lastKey  string
	lastPath string
	err      error
}

func (m *mockS3Client) FPutObject(ctx context.Context, bucket, objectName, filePath string) error {
	m.calls++
	m.lastKey = objectName
	m.lastPath = filePath
	return m.err
}

func TestNewUploader_NoopWhenBucketEmpty(t *testing.T) {
	u, err := NewUploader(config.BackupConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if u.Enabled() {
		t.Error("expected disabled uploader for empty bucket")
	}
	if err := u.Upload(context.Background(), "/tmp/meals.db"); err != nil {
		t.Errorf("noop upload errored: %v", err)
	}
}

func TestNewUploader_S3WhenConfigured(t *testing.T) {
	u, err := NewUploader(config.BackupConfig{
		Endpoint:  "s3.example.com",
		Bucket:    "meals-backup",
		AccessKey: "key",
		SecretKey: "secret",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !u.Enabled() {
		t.Error("expected enabled uploader when bucket configured")
	}
}

func TestS3Uploader_UploadUsesPrefixedKey(t *testing.T) {
	client := &mockS3Client{}
	u := &S3Uploader{client: client, bucket: "meals-backup", prefix: "home"}

	if err := u.Upload(context.Background(), "/data/meals.db"); err != nil {
		t.Fatal(err)
	}
	if client.calls != 1 {
		t.Fatalf("expected 1 upload, got %d", client.calls)
	}
	if client.lastKey != "home/backup/current.db" {
		t.Errorf("object key = %q", client.lastKey)
	}
	if client.lastPath != "/data/meals.db" {
		t.Errorf("file path = %q", client.lastPath)
	}
}

func TestS3Uploader_UploadError(t *testing.T) {
	client := &mockS3Client{err: errors.New("connection refused")}
	u := &S3Uploader{client: client, bucket: "meals-backup"}

	if err := u.Upload(context.Background(), "/data/meals.db"); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestObjectKey_DefaultPrefix(t *testing.T) {
	if got := objectKey(""); got != "mealdiary/backup/current.db" {
		t.Errorf("objectKey = %q", got)
	}
}
