package publish

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinIOUploader uploads objects to MinIO or any S3-compatible endpoint.
type MinIOUploader struct {
	client *minio.Client
	bucket string
}

// NewMinIOUploader creates an uploader for bucket.
func NewMinIOUploader(client *minio.Client, bucket string) *MinIOUploader {
	return &MinIOUploader{client: client, bucket: bucket}
}

// Upload implements Uploader.
func (u *MinIOUploader) Upload(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: ContentType,
	})
	return err
}
