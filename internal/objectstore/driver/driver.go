// Package driver defines the StorageDriver abstraction the object
// repository is built on, grounded on the teacher's
// registry/storage/driver package: a small interface any backend (local
// disk, in-memory for tests, or a future cloud backend) can implement,
// registered with a name through the sibling factory package so the
// repository never imports a concrete backend directly.
package driver

import (
	"context"
	"io"
)

// PathNotFoundError is returned by GetContent, Reader, Stat, List, and Move
// when the path does not exist. Delete of a missing path is not an error.
type PathNotFoundError struct {
	Path string
}

func (e PathNotFoundError) Error() string {
	return "objectstore: path not found: " + e.Path
}

// FileInfo describes one entry returned by List.
type FileInfo struct {
	Path  string
	Size  int64
	IsDir bool
}

// StorageDriver is the contract every object-store backend implements.
// PutContent must be atomic from the caller's point of view: a reader
// racing a writer never observes a partial write (spec.md §4.1, §5).
type StorageDriver interface {
	Name() string

	GetContent(ctx context.Context, path string) ([]byte, error)
	PutContent(ctx context.Context, path string, content []byte) error
	Reader(ctx context.Context, path string) (io.ReadCloser, error)
	Stat(ctx context.Context, path string) (FileInfo, error)
	List(ctx context.Context, path string) ([]string, error)
	Move(ctx context.Context, sourcePath, destPath string) error
	Delete(ctx context.Context, path string) error
}
