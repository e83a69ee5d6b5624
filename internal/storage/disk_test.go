package storage

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var storedNameRe = regexp.MustCompile(`^\d+-[0-9a-f]{16}-report\.pdf$`)

func TestDiskStoreSave(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	t.Run("stores under generated name", func(t *testing.T) {
		blob, err := store.Save("report.pdf", strings.NewReader("pdf bytes"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if !storedNameRe.MatchString(blob.Name) {
			t.Errorf("Name = %q, want <millis>-<hex>-report.pdf", blob.Name)
		}
		if blob.Size != int64(len("pdf bytes")) {
			t.Errorf("Size = %d, want %d", blob.Size, len("pdf bytes"))
		}

		data, err := os.ReadFile(blob.Path)
		if err != nil {
			t.Fatalf("read stored file: %v", err)
		}
		if string(data) != "pdf bytes" {
			t.Errorf("stored content = %q", data)
		}
	})

	t.Run("same filename never collides", func(t *testing.T) {
		a, err := store.Save("dup.txt", strings.NewReader("a"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		b, err := store.Save("dup.txt", strings.NewReader("b"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if a.Path == b.Path {
			t.Errorf("two saves produced the same path %q", a.Path)
		}
	})

	t.Run("strips path components from the client name", func(t *testing.T) {
		dir := t.TempDir()
		isolated, err := NewDiskStore(dir)
		if err != nil {
			t.Fatalf("NewDiskStore() error = %v", err)
		}

		blob, err := isolated.Save("../../etc/passwd", strings.NewReader("x"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if filepath.Dir(blob.Path) != dir {
			t.Errorf("stored path %q escaped the upload dir %q", blob.Path, dir)
		}
		if strings.ContainsAny(blob.Name, `/\`) {
			t.Errorf("stored name carries path separators: %q", blob.Name)
		}
	})
}

func TestDiskStoreRemove(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	blob, err := store.Save("note.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := store.Remove(blob.Path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if store.Exists(blob.Path) {
		t.Error("file still present after Remove")
	}

	// Removing an already-gone file must not error; record deletion
	// depends on it.
	if err := store.Remove(blob.Path); err != nil {
		t.Errorf("Remove() of absent file error = %v", err)
	}
}

func TestDiskStoreOpen(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	blob, err := store.Save("note.txt", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rc, err := store.Open(blob.Path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}
