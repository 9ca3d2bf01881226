// Package filesystem implements driver.StorageDriver over the local
// filesystem. It is grounded on the teacher's
// registry/storage/driver/filesystem package: every write goes to a
// uuid-suffixed temp file first, then an atomic rename replaces the
// target, so a reader never observes a partial write and a crash mid-write
// leaves the prior content (or no content) in place — never a torn file.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/scopeengine/core/internal/objectstore/driver"
	"github.com/scopeengine/core/internal/objectstore/driver/factory"
)

const driverName = "filesystem"

func init() {
	factory.Register(driverName, func(parameters map[string]any) (driver.StorageDriver, error) {
		root, _ := parameters["rootdirectory"].(string)
		if root == "" {
			return nil, fmt.Errorf("filesystem: rootdirectory parameter is required")
		}
		return New(root), nil
	})
}

// Driver stores every object under a single root directory.
type Driver struct {
	root string
}

// New constructs a Driver rooted at root. The root is created on first
// write if it does not yet exist.
func New(root string) *Driver {
	return &Driver{root: root}
}

func (d *Driver) Name() string { return driverName }

func (d *Driver) fullPath(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(p))
}

func (d *Driver) GetContent(ctx context.Context, path string) ([]byte, error) {
	rc, err := d.Reader(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// PutContent writes content to a temp file alongside path and renames it
// into place, per the teacher's filesystem driver. The parent directory is
// created as needed, matching the object repository's 2-char-prefix
// sharded layout (spec.md §6).
func (d *Driver) PutContent(ctx context.Context, path string, content []byte) error {
	full := d.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o777); err != nil {
		return fmt.Errorf("filesystem: mkdir: %w", err)
	}

	tmp := full + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("filesystem: write temp file: %w", err)
	}

	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("filesystem: atomic rename: %w", err)
	}
	return nil
}

func (d *Driver) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(d.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, driver.PathNotFoundError{Path: path}
		}
		return nil, err
	}
	return f, nil
}

func (d *Driver) Stat(ctx context.Context, path string) (driver.FileInfo, error) {
	fi, err := os.Stat(d.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return driver.FileInfo{}, driver.PathNotFoundError{Path: path}
		}
		return driver.FileInfo{}, err
	}
	return driver.FileInfo{Path: path, Size: fi.Size(), IsDir: fi.IsDir()}, nil
}

func (d *Driver) List(ctx context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(d.fullPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, driver.PathNotFoundError{Path: path}
		}
		return nil, err
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, filepath.ToSlash(filepath.Join(path, e.Name())))
	}
	return out, nil
}

// Move atomically replaces destPath with sourcePath's content.
func (d *Driver) Move(ctx context.Context, sourcePath, destPath string) error {
	dest := d.fullPath(destPath)
	if err := os.MkdirAll(filepath.Dir(dest), 0o777); err != nil {
		return fmt.Errorf("filesystem: mkdir: %w", err)
	}
	if err := os.Rename(d.fullPath(sourcePath), dest); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return driver.PathNotFoundError{Path: sourcePath}
		}
		return err
	}
	return nil
}

func (d *Driver) Delete(ctx context.Context, path string) error {
	if err := os.RemoveAll(d.fullPath(path)); err != nil {
		return err
	}
	return nil
}
