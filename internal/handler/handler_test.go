package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"vault/internal/domain/models"
	"vault/internal/domain/services"
	"vault/internal/repository/memory"
	"vault/internal/service"
	"vault/internal/storage"
)

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, path, mediaType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

type fakeEnricher struct{}

func (f *fakeEnricher) Enrich(ctx context.Context, text, displayName string) (*services.Enrichment, error) {
	return &services.Enrichment{
		Summary:  "summary of " + displayName,
		Markdown: "# " + displayName + "\n\n" + text,
	}, nil
}

type fixture struct {
	mux       *http.ServeMux
	docRepo   *memory.DocumentRepository
	uploadDir string
}

// newFixture wires real services over in-memory repositories behind the
// production route table.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	docRepo := memory.NewDocumentRepository()
	folderRepo := memory.NewFolderRepository()
	uploadDir := t.TempDir()
	blobs, err := storage.NewDiskStore(uploadDir)
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	folderService := service.NewFolderService(folderRepo, docRepo, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, blobs, logger)
	ingestService := service.NewIngestService(docRepo, folderRepo, blobs, &fakeExtractor{}, &fakeEnricher{}, logger)

	docHandler := NewDocumentHandler(ingestService, docService, logger)
	folderHandler := NewFolderHandler(folderService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", docHandler.HealthCheck)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/documents/upload", docHandler.Upload)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.MoveDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("GET /api/documents/{id}/file", docHandler.ServeFile)

	return &fixture{mux: mux, docRepo: docRepo, uploadDir: uploadDir}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) doRaw(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// uploadFile posts a multipart upload with an explicit part content type.
func (f *fixture) uploadFile(t *testing.T, filename, mediaType, content, folderID string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mediaType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if folderID != "" {
		if err := mw.WriteField("folderId", folderID); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createFolder(t *testing.T, name string, parentID *string) models.Folder {
	t.Helper()
	body := map[string]any{"name": name}
	if parentID != nil {
		body["parent_id"] = *parentID
	}
	rec := f.do(t, http.MethodPost, "/api/folders", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create folder: status %d, body %s", rec.Code, rec.Body.String())
	}
	var folder models.Folder
	decodeInto(t, rec, &folder)
	return folder
}

func (f *fixture) waitForTerminal(t *testing.T, id string) *models.Document {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		doc, err := f.docRepo.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if doc.Status.Terminal() {
			return doc
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("document %s never reached a terminal status", id)
	return nil
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestFolderEndpoints(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		f := newFixture(t)
		folder := f.createFolder(t, "Reports", nil)

		rec := f.do(t, http.MethodGet, "/api/folders/"+folder.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var got models.Folder
		decodeInto(t, rec, &got)
		if got.Name != "Reports" {
			t.Errorf("Name = %q", got.Name)
		}
	})

	t.Run("invalid name is 400 problem+json", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/folders", map[string]any{"name": "a/b"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var problem struct {
			Status int    `json:"status"`
			Detail string `json:"detail"`
		}
		decodeInto(t, rec, &problem)
		if problem.Status != http.StatusBadRequest || problem.Detail == "" {
			t.Errorf("problem = %+v", problem)
		}
	})

	t.Run("malformed JSON is 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.doRaw(t, http.MethodPost, "/api/folders", `{"name": `)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown folder is 404", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(t, http.MethodGet, "/api/folders/nope", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("cycle is 409", func(t *testing.T) {
		f := newFixture(t)
		a := f.createFolder(t, "A", nil)
		b := f.createFolder(t, "B", &a.ID)

		rec := f.do(t, http.MethodPatch, "/api/folders/"+a.ID, map[string]any{"parent_id": b.ID})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("null parent moves to root", func(t *testing.T) {
		f := newFixture(t)
		a := f.createFolder(t, "A", nil)
		b := f.createFolder(t, "B", &a.ID)

		rec := f.doRaw(t, http.MethodPatch, "/api/folders/"+b.ID, `{"parent_id": null}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var got models.Folder
		decodeInto(t, rec, &got)
		if got.ParentID != nil {
			t.Errorf("ParentID = %v, want nil", *got.ParentID)
		}
	})

	t.Run("delete non-empty folder is 409", func(t *testing.T) {
		f := newFixture(t)
		a := f.createFolder(t, "A", nil)
		f.createFolder(t, "B", &a.ID)

		rec := f.do(t, http.MethodDelete, "/api/folders/"+a.ID, nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("delete empty folder is 204", func(t *testing.T) {
		f := newFixture(t)
		a := f.createFolder(t, "A", nil)

		rec := f.do(t, http.MethodDelete, "/api/folders/"+a.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

func TestUploadEndpoint(t *testing.T) {
	t.Run("accepted upload returns processing document", func(t *testing.T) {
		f := newFixture(t)

		rec := f.uploadFile(t, "notes.txt", "text/plain", "hello world", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}

		var doc models.Document
		decodeInto(t, rec, &doc)
		if doc.Status != models.StatusProcessing {
			t.Errorf("Status = %q, want %q", doc.Status, models.StatusProcessing)
		}
		if doc.OriginalName != "notes.txt" {
			t.Errorf("OriginalName = %q", doc.OriginalName)
		}

		done := f.waitForTerminal(t, doc.ID)
		if done.Status != models.StatusCompleted {
			t.Fatalf("Status = %q, want completed (error=%v)", done.Status, done.Error)
		}
		if done.Summary == nil || *done.Summary != "summary of notes.txt" {
			t.Errorf("Summary = %v", done.Summary)
		}
	})

	t.Run("unsupported type is rejected with nothing persisted", func(t *testing.T) {
		f := newFixture(t)

		rec := f.uploadFile(t, "archive.zip", "application/zip", "PK...", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		docs, _ := f.docRepo.List(context.Background())
		if len(docs) != 0 {
			t.Errorf("rejected upload persisted %d documents", len(docs))
		}
		entries, err := os.ReadDir(f.uploadDir)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("rejected upload left %d files on disk", len(entries))
		}
	})

	t.Run("missing file part is 400", func(t *testing.T) {
		f := newFixture(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("folderId", "f1")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		f.mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown folder is 400", func(t *testing.T) {
		f := newFixture(t)

		rec := f.uploadFile(t, "notes.txt", "text/plain", "hello", "no-such-folder")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestDocumentEndpoints(t *testing.T) {
	upload := func(t *testing.T, f *fixture) models.Document {
		t.Helper()
		rec := f.uploadFile(t, "notes.txt", "text/plain", "hello world", "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("upload: status %d, body %s", rec.Code, rec.Body.String())
		}
		var doc models.Document
		decodeInto(t, rec, &doc)
		f.waitForTerminal(t, doc.ID)
		return doc
	}

	t.Run("get reflects terminal status", func(t *testing.T) {
		f := newFixture(t)
		doc := upload(t, f)

		rec := f.do(t, http.MethodGet, "/api/documents/"+doc.ID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var got models.Document
		decodeInto(t, rec, &got)
		if got.Status != models.StatusCompleted {
			t.Errorf("Status = %q, want completed", got.Status)
		}
		if got.Markdown == nil {
			t.Error("Markdown missing on completed document")
		}
	})

	t.Run("move into folder and back to root", func(t *testing.T) {
		f := newFixture(t)
		folder := f.createFolder(t, "Inbox", nil)
		doc := upload(t, f)

		rec := f.do(t, http.MethodPatch, "/api/documents/"+doc.ID, map[string]any{"folder_id": folder.ID})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var moved models.Document
		decodeInto(t, rec, &moved)
		if moved.FolderID == nil || *moved.FolderID != folder.ID {
			t.Errorf("FolderID = %v, want %q", moved.FolderID, folder.ID)
		}

		rec = f.doRaw(t, http.MethodPatch, "/api/documents/"+doc.ID, `{"folder_id": null}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		decodeInto(t, rec, &moved)
		if moved.FolderID != nil {
			t.Errorf("FolderID = %v, want nil", *moved.FolderID)
		}
	})

	t.Run("move to unknown folder is 400", func(t *testing.T) {
		f := newFixture(t)
		doc := upload(t, f)

		rec := f.do(t, http.MethodPatch, "/api/documents/"+doc.ID, map[string]any{"folder_id": "nope"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("serve file streams original bytes", func(t *testing.T) {
		f := newFixture(t)
		doc := upload(t, f)

		rec := f.do(t, http.MethodGet, "/api/documents/"+doc.ID+"/file", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `inline; filename="notes.txt"` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if rec.Body.String() != "hello world" {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("delete then get is 404", func(t *testing.T) {
		f := newFixture(t)
		doc := upload(t, f)

		rec := f.do(t, http.MethodDelete, "/api/documents/"+doc.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}

		rec = f.do(t, http.MethodGet, "/api/documents/"+doc.ID, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		rec = f.do(t, http.MethodGet, "/api/documents/"+doc.ID+"/file", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("file status = %d, want 404", rec.Code)
		}
	})

	t.Run("list returns uploaded documents", func(t *testing.T) {
		f := newFixture(t)
		upload(t, f)
		upload(t, f)

		rec := f.do(t, http.MethodGet, "/api/documents", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var docs []models.Document
		decodeInto(t, rec, &docs)
		if len(docs) != 2 {
			t.Errorf("len(docs) = %d, want 2", len(docs))
		}
	})
}
