// Package blob stores the durable evidence artifacts: the annotated image
// and the one-row CSV log, both addressed by a deterministic key and
// retrievable by public URL.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	imagePrefix = "images/"
	csvPrefix   = "responses/"
)

// Store is the durable object-storage boundary of the notification pipeline.
type Store interface {
	PutImage(ctx context.Context, baseKey string, data []byte) (string, error)
	PutCSV(ctx context.Context, baseKey string, row string) (string, error)
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object store: %w", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) PutImage(ctx context.Context, baseKey string, data []byte) (string, error) {
	key := imagePrefix + baseKey + ".jpg"
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("upload image %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

func (s *MinioStore) PutCSV(ctx context.Context, baseKey string, row string) (string, error) {
	key := csvPrefix + baseKey + ".csv"
	reader := strings.NewReader(row)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(reader.Len()),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("upload csv %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

// publicURL assumes the bucket carries a public-read policy; the pipeline
// embeds these URLs in human notifications.
func (s *MinioStore) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
}
