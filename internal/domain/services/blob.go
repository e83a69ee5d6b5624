package services

import (
	"io"
)

// StoredBlob identifies a stored file on the backing medium.
type StoredBlob struct {
	Name string // unique stored filename
	Path string // full server-local path
	Size int64  // bytes written
}

// BlobStore persists the original bytes of uploaded documents.
type BlobStore interface {
	// Save writes the reader under a fresh unique name
	Save(originalName string, r io.Reader) (*StoredBlob, error)

	// Open opens a stored file for reading
	Open(path string) (io.ReadCloser, error)

	// Remove deletes a stored file; an already-absent file is not an error
	Remove(path string) error

	// Exists reports whether the stored file is still present
	Exists(path string) bool
}
