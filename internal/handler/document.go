package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"vault/internal/config"
	"vault/internal/domain/services"
	"vault/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	ingestService services.IngestService
	docService    services.DocumentService
	logger        *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	ingestService services.IngestService,
	docService services.DocumentService,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		ingestService: ingestService,
		docService:    docService,
		logger:        logger,
	}
}

// HealthCheck responds to health probes
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload ingests one multipart file and responds immediately with the
// processing-state document.
// POST /api/documents/upload  (fields: file, folderId?)
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Multipart overhead on top of the file ceiling
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+(1<<20))

	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("failed to parse upload (max size %d MiB)", config.MaxUploadBytes>>20))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	var folderID *string
	if v := r.FormValue("folderId"); v != "" {
		folderID = &v
	}

	doc, err := h.ingestService.Ingest(r.Context(), &services.Upload{
		Content:      file,
		OriginalName: header.Filename,
		MediaType:    header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		FolderID:     folderID,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments lists all documents
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, docs)
}

// GetDocument retrieves a document by ID. Clients poll this endpoint
// until the status leaves processing.
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// MoveDocument relocates a document to another folder or the root
// PATCH /api/documents/{id}
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	var req services.MoveDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.Move(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument removes a document and its stored file
// DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.docService.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ServeFile streams a document's original bytes inline, tagged with the
// media type captured at upload.
// GET /api/documents/{id}/file
func (h *DocumentHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	ref, err := h.docService.ResolveFile(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	f, err := os.Open(ref.Path)
	if err != nil {
		httputil.RespondError(w, http.StatusNotFound, "file not found on disk")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", ref.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", ref.OriginalName))
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("file stream interrupted", "path", ref.Path, "error", err)
	}
}
