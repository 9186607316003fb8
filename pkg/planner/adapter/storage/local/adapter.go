// Package local stores objects as files below a base directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	storageAdapter "github.com/navi-mes/planfeed/pkg/planner/adapter/storage"
	storageConfig "github.com/navi-mes/planfeed/pkg/planner/adapter/storage/config"
	coreConfig "github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// ProviderType defines the type identifier for this local storage provider.
const ProviderType = "local"

// localAdapter keeps objects as files. Buckets are directories below BaseDir.
type localAdapter struct {
	root string
	cfg  storageConfig.StorageConfig
	name string
}

var _ storageAdapter.StorageConnection = (*localAdapter)(nil)

// NewLocalAdapter creates a local adapter, creating BaseDir if needed.
func NewLocalAdapter(cfg storageConfig.StorageConfig, name string) (storageAdapter.StorageConnection, error) {
	if cfg.BaseDir == "" {
		return nil, fmt.Errorf("local storage '%s': base_dir is required", name)
	}
	root, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("local storage '%s': %w", name, err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("local storage '%s': cannot prepare base_dir '%s': %w", name, cfg.BaseDir, err)
	}
	return &localAdapter{root: root, cfg: cfg, name: name}, nil
}

func (a *localAdapter) Close() error { return nil }
func (a *localAdapter) Type() string { return ProviderType }
func (a *localAdapter) Name() string { return a.name }

// Upload replaces the object atomically: data goes to a temporary sibling that is renamed over the target.
func (a *localAdapter) Upload(ctx context.Context, bucket, objectName string, data io.Reader, contentType string) error {
	target, err := a.path(bucket, objectName)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("local storage '%s': %w", a.name, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("local storage '%s': %w", a.name, err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("local storage '%s': write '%s': %w", a.name, target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("local storage '%s': replace '%s': %w", a.name, target, err)
	}
	logger.Debugf("Stored %d bytes at '%s'.", n, target)
	return nil
}

func (a *localAdapter) Download(ctx context.Context, bucket, objectName string) (io.ReadCloser, error) {
	target, err := a.path(bucket, objectName)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("object '%s': %w", target, storageAdapter.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("local storage '%s': %w", a.name, err)
	}
	return f, nil
}

// ListObjects calls fn with every object name below bucket that starts with prefix.
func (a *localAdapter) ListObjects(ctx context.Context, bucket, prefix string, fn func(objectName string) error) error {
	base, err := a.path(bucket, "")
	if err != nil {
		return err
	}
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if errors.Is(err, fs.ErrNotExist) && p == base {
			return filepath.SkipDir
		}
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		if name := filepath.ToSlash(rel); strings.HasPrefix(name, prefix) {
			return fn(name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("local storage '%s': list '%s': %w", a.name, prefix, err)
	}
	return nil
}

// DeleteObject removes the object. A missing object is not an error.
func (a *localAdapter) DeleteObject(ctx context.Context, bucket, objectName string) error {
	target, err := a.path(bucket, objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local storage '%s': %w", a.name, err)
	}
	return nil
}

// path maps bucket/objectName below the root and rejects names escaping it.
func (a *localAdapter) path(bucket, objectName string) (string, error) {
	p := filepath.Join(a.root, a.cfg.ResolveBucket(bucket), objectName)
	if p != a.root && !strings.HasPrefix(p, a.root+string(filepath.Separator)) {
		return "", fmt.Errorf("local storage '%s': '%s' is outside of BaseDir", a.name, objectName)
	}
	return p, nil
}

// NewLocalProvider creates the provider for "local" storage connections.
func NewLocalProvider(cfg *coreConfig.Config) storageAdapter.StorageProvider {
	return storageAdapter.NewCachingProvider(ProviderType, cfg, NewLocalAdapter)
}
