// Package inmemory implements driver.StorageDriver backed by a process
// map, grounded on the teacher's registry/storage/driver/inmemory package.
// It is used by the tests of the object repository and of the packages
// built on it; its data lives only as long as the process.
package inmemory

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/scopeengine/core/internal/objectstore/driver"
	"github.com/scopeengine/core/internal/objectstore/driver/factory"
)

const driverName = "inmemory"

func init() {
	factory.Register(driverName, func(parameters map[string]any) (driver.StorageDriver, error) {
		return New(), nil
	})
}

// Driver is a StorageDriver over an in-process map. Safe for concurrent use.
type Driver struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func New() *Driver {
	return &Driver{files: make(map[string][]byte)}
}

func (d *Driver) Name() string { return driverName }

func (d *Driver) GetContent(ctx context.Context, path string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	content, ok := d.files[path]
	if !ok {
		return nil, driver.PathNotFoundError{Path: path}
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

func (d *Driver) PutContent(ctx context.Context, path string, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	stored := make([]byte, len(content))
	copy(stored, content)
	d.files[path] = stored
	return nil
}

func (d *Driver) Reader(ctx context.Context, path string) (io.ReadCloser, error) {
	content, err := d.GetContent(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (d *Driver) Stat(ctx context.Context, path string) (driver.FileInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	content, ok := d.files[path]
	if !ok {
		return driver.FileInfo{}, driver.PathNotFoundError{Path: path}
	}
	return driver.FileInfo{Path: path, Size: int64(len(content))}, nil
}

func (d *Driver) List(ctx context.Context, path string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	prefix := strings.TrimSuffix(path, "/") + "/"
	seen := map[string]struct{}{}
	for p := range d.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		seen[filepath.ToSlash(filepath.Join(path, strings.SplitN(rest, "/", 2)[0]))] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Driver) Move(ctx context.Context, sourcePath, destPath string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	content, ok := d.files[sourcePath]
	if !ok {
		return driver.PathNotFoundError{Path: sourcePath}
	}
	d.files[destPath] = content
	delete(d.files, sourcePath)
	return nil
}

func (d *Driver) Delete(ctx context.Context, path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix := strings.TrimSuffix(path, "/") + "/"
	for p := range d.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(d.files, p)
		}
	}
	return nil
}
