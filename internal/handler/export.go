package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/content"
	"inkwell/internal/domain/services"
	"inkwell/internal/export"
)

// ExportHandler renders documents as paginated HTML for print and download
type ExportHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(docService services.DocumentService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{docService: docService, logger: logger}
}

// ExportDocument returns the document as a self-contained HTML page view
// GET /api/documents/{id}/export?database_id=:id
func (h *ExportHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id, dbID)
	if err != nil {
		handleError(w, err)
		return
	}

	tree := content.Load(doc.Content)
	if tree == nil {
		tree = content.NewTree()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.RenderHTML(doc, tree)))
}
