// Package storage holds the disk-backed blob store for uploaded files.
package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vault/internal/domain/services"
)

// DiskStore stores uploaded files under a single directory with unique
// generated names, so two uploads of the same filename never collide.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the uploads directory if needed and returns a
// store rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

var _ services.BlobStore = (*DiskStore)(nil)

// Save writes the reader under a fresh unique name:
// <unix-millis>-<hex8>-<sanitized-base><ext>
func (s *DiskStore) Save(originalName string, r io.Reader) (*services.StoredBlob, error) {
	name, err := uniqueName(originalName)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create stored file: %w", err)
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write stored file: %w", err)
	}

	return &services.StoredBlob{Name: name, Path: path, Size: written}, nil
}

// Open opens a stored file for reading
func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error; the record delete must still proceed.
func (s *DiskStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stored file: %w", err)
	}
	return nil
}

// Exists reports whether the stored file is still present
func (s *DiskStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// uniqueName builds a collision-free stored filename while keeping the
// original base name readable for operators poking at the directory.
func uniqueName(originalName string) (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate stored name: %w", err)
	}

	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)
	base = sanitize(base)
	if base == "" {
		base = "upload"
	}

	return fmt.Sprintf("%d-%s-%s%s", time.Now().UnixMilli(), hex.EncodeToString(buf), base, ext), nil
}

// sanitize strips path separators and control characters from a client
// supplied filename component.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '_'
		case r < 0x20:
			return -1
		default:
			return r
		}
	}, name)
}
