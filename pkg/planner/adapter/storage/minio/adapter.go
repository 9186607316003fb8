// Package minio stores objects in an S3-compatible MinIO server.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	storageAdapter "github.com/navi-mes/planfeed/pkg/planner/adapter/storage"
	storageConfig "github.com/navi-mes/planfeed/pkg/planner/adapter/storage/config"
	coreConfig "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// ProviderType defines the type identifier for this MinIO storage provider.
const ProviderType = "minio"

type minioAdapter struct {
	cfg    storageConfig.StorageConfig
	name   string
	client *minio.Client
}

var _ storageAdapter.StorageConnection = (*minioAdapter)(nil)

// NewMinioAdapter creates a MinIO client with static credentials.
func NewMinioAdapter(cfg storageConfig.StorageConfig, name string) (storageAdapter.StorageConnection, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio storage adapter '%s': endpoint must be specified in configuration", name)
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio storage adapter '%s': failed to create client: %w", name, err)
	}
	return &minioAdapter{cfg: cfg, name: name, client: client}, nil
}

func (a *minioAdapter) Close() error {
	logger.Debugf("MinIO storage adapter '%s' closed.", a.name)
	return nil
}

func (a *minioAdapter) Type() string { return ProviderType }
func (a *minioAdapter) Name() string { return a.name }

func (a *minioAdapter) Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error {
	_, err := a.client.PutObject(ctx, a.cfg.ResolveBucket(bucket), objectName, data, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload object '%s': %w", objectName, err)
	}
	return nil
}

// Download fetches the object eagerly so that a missing key surfaces here rather than on first read.
func (a *minioAdapter) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	obj, err := a.client.GetObject(ctx, a.cfg.ResolveBucket(bucket), objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, a.mapError(objectName, err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, a.mapError(objectName, err)
	}
	return obj, nil
}

func (a *minioAdapter) ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error {
	for info := range a.client.ListObjects(ctx, a.cfg.ResolveBucket(bucket), minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return fmt.Errorf("list objects with prefix '%s': %w", prefix, info.Err)
		}
		if err := fn(info.Key); err != nil {
			return err
		}
	}
	return nil
}

func (a *minioAdapter) DeleteObject(ctx context.Context, bucket, objectName string) error {
	if err := a.client.RemoveObject(ctx, a.cfg.ResolveBucket(bucket), objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object '%s': %w", objectName, err)
	}
	return nil
}

func (a *minioAdapter) mapError(objectName string, err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("object '%s': %w", objectName, storageAdapter.ErrObjectNotFound)
	}
	return fmt.Errorf("get object '%s': %w", objectName, err)
}

// NewMinioProvider creates the provider for "minio" storage connections.
func NewMinioProvider(cfg *coreConfig.Config) storageAdapter.StorageProvider {
	return storageAdapter.NewCachingProvider(ProviderType, cfg, NewMinioAdapter)
}
