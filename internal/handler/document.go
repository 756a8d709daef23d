package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/autosave"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
	"inkwell/internal/realtime"
)

// DocumentHandler handles document HTTP requests
// Handlers only communicate with services, never repositories
type DocumentHandler struct {
	docService services.DocumentService
	saves      *autosave.Manager
	hub        *realtime.Hub
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, saves *autosave.Manager, hub *realtime.Hub, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		saves:      saves,
		hub:        hub,
		logger:     logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateDocument creates a new document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req models.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = userID

	doc, err := h.docService.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	publishInsert(h.hub, "documents", doc.DatabaseID, doc)
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a document by ID
// GET /api/documents/{id}?database_id=:id
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), r.PathValue("id"), dbID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListDocuments lists documents at one folder level
// GET /api/documents?database_id=:id&folder_id=:id
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	var folderID *string
	if v := r.URL.Query().Get("folder_id"); v != "" {
		folderID = &v
	}

	docs, err := h.docService.ListDocuments(r.Context(), dbID, folderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

// UpdateDocument applies a full partial update synchronously
// PUT /api/documents/{id}?database_id=:id
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	var req models.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	doc, err := h.docService.UpdateDocument(r.Context(), r.PathValue("id"), dbID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// AutosaveDocument queues a debounced partial save. The patch is merged into
// the document's save queue and written after the debounce window; the
// response only acknowledges queueing.
// PATCH /api/documents/{id}
func (h *DocumentHandler) AutosaveDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch autosave.Patch
	if err := httputil.ParseJSON(w, r, &patch); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(patch) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "patch must not be empty")
		return
	}

	// Record who is editing; the service stamps it onto the row.
	if userID := httputil.GetUserID(r); userID != "" {
		patch["last_edited_by"] = userID
	}

	h.saves.QueueSave(id, patch)

	httputil.RespondJSON(w, http.StatusAccepted, map[string]interface{}{
		"queued": true,
		"state":  stateLabel(h.saves.State(id)),
	})
}

// SaveDocument force-flushes the document's pending autosave buffer
// POST /api/documents/{id}/save
func (h *DocumentHandler) SaveDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.saves.ForceSave(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"saved": true,
	})
}

// ArchiveDocument soft-deletes a document
// POST /api/documents/{id}/archive?database_id=:id
func (h *DocumentHandler) ArchiveDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	if err := h.docService.ArchiveDocument(r.Context(), r.PathValue("id"), dbID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnarchiveDocument restores an archived document
// POST /api/documents/{id}/unarchive?database_id=:id
func (h *DocumentHandler) UnarchiveDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	if err := h.docService.UnarchiveDocument(r.Context(), r.PathValue("id"), dbID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteDocument permanently removes a document
// DELETE /api/documents/{id}?database_id=:id
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), r.PathValue("id"), dbID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MoveDocument moves a document to a folder (or root when folder_id is null)
// POST /api/documents/{id}/move?database_id=:id
func (h *DocumentHandler) MoveDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	var req struct {
		FolderID *string `json:"folder_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.docService.MoveDocument(r.Context(), r.PathValue("id"), dbID, req.FolderID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DuplicateDocument copies a document in place
// POST /api/documents/{id}/duplicate?database_id=:id
func (h *DocumentHandler) DuplicateDocument(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.DuplicateDocument(r.Context(), r.PathValue("id"), dbID, httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	publishInsert(h.hub, "documents", doc.DatabaseID, doc)
	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListArchived lists archived documents
// GET /api/documents/archived?database_id=:id
func (h *DocumentHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	docs, err := h.docService.ListArchived(r.Context(), dbID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     len(docs),
	})
}

func stateLabel(s autosave.State) string {
	switch s {
	case autosave.StateFlushing:
		return "saving"
	case autosave.StatePending:
		return "pending"
	default:
		return "idle"
	}
}
