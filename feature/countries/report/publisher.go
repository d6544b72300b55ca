package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"country-api/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectName is the storage key of the summary image.
const ObjectName = "reports/summary.png"

var (
	// ErrImageNotFound is returned when no summary image was generated yet.
	ErrImageNotFound = errors.New("summary image not found")
	// ErrStorageUnavailable wraps object storage failures.
	ErrStorageUnavailable = errors.New("object storage unavailable")
)

// Publisher stores and serves the summary image in object storage.
type Publisher struct {
	client storage.Client
	bucket string
}

// NewPublisher creates a publisher writing to bucket.
func NewPublisher(client storage.Client, bucket string) *Publisher {
	return &Publisher{client: client, bucket: bucket}
}

// Publish uploads the PNG, creating the bucket on first use.
func (p *Publisher) Publish(ctx context.Context, data []byte) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("%w: failed to check bucket: %w", ErrStorageUnavailable, err)
	}
	if !exists {
		if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: failed to create bucket: %w", ErrStorageUnavailable, err)
		}
	}

	_, err = p.client.PutObject(ctx, p.bucket, ObjectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return fmt.Errorf("%w: failed to upload summary image: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Fetch returns the last published PNG.
func (p *Publisher) Fetch(ctx context.Context) ([]byte, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, ObjectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, p.mapErr(err)
	}
	defer obj.Close()

	// MinIO reports a missing key on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, p.mapErr(err)
	}
	return data, nil
}

func (p *Publisher) mapErr(err error) error {
	if storage.IsNotFound(err) {
		return ErrImageNotFound
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
