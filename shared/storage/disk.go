package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage keeps objects under a local directory and serves them from a URL prefix.
type DiskStorage struct {
	root          string
	publicBaseURL string
}

// NewDiskStorage creates a disk backend rooted at root.
func NewDiskStorage(root, publicBaseURL string) *DiskStorage {
	return &DiskStorage{
		root:          root,
		publicBaseURL: publicBaseURL,
	}
}

// Root returns the directory objects are written to.
func (d *DiskStorage) Root() string {
	return d.root
}

// EnsureBucket creates the root directory.
func (d *DiskStorage) EnsureBucket(_ context.Context) error {
	return os.MkdirAll(d.root, 0o755)
}

// Put writes the object to disk, replacing any previous content.
func (d *DiskStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	path := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}

	return f.Close()
}

// Delete removes the object. Missing objects are not an error.
func (d *DiskStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// PublicURL returns the address clients use to fetch key.
func (d *DiskStorage) PublicURL(key string) string {
	return joinURL(d.publicBaseURL, key)
}
