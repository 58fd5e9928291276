// Package storage guarda archivos adjuntos en un bucket S3 compatible (MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/ferreteria-api/internal/application/ports"
)

var _ ports.FileStorage = (*MinioStorage)(nil)

// Options conexión al bucket.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base para armar URLs de descarga; vacío usa el endpoint
}

// MinioStorage implementa ports.FileStorage.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStorage conecta con MinIO y crea el bucket si no existe.
func NewMinioStorage(ctx context.Context, opts Options) (*MinioStorage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: cliente: %w", err)
	}
	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: verificar bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: crear bucket %s: %w", opts.Bucket, err)
		}
	}
	base := strings.TrimRight(opts.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + opts.Endpoint
	}
	return &MinioStorage{client: client, bucket: opts.Bucket, publicURL: base}, nil
}

// Upload sube el objeto y devuelve su URL.
func (s *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("minio: subir %s: %w", key, err)
	}
	return ObjectURL(s.publicURL, s.bucket, key), nil
}

// ObjectURL arma la URL path-style de un objeto escapando cada segmento de la clave.
func ObjectURL(base, bucket, key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), bucket, strings.Join(parts, "/"))
}
