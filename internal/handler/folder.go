package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
	"inkwell/internal/realtime"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	hub           *realtime.Hub
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, hub *realtime.Hub, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		hub:           hub,
		logger:        logger,
	}
}

// CreateFolder creates a new folder
// POST /api/folders
// Returns 201 if created, 409 with the existing folder on a name conflict
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.UserID = httputil.GetUserID(r)

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*models.Folder, error) {
			return h.folderService.GetFolder(r.Context(), id, req.DatabaseID)
		})
		return
	}

	publishInsert(h.hub, "folders", folder.DatabaseID, folder)
	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder retrieves a folder by ID
// GET /api/folders/{id}?database_id=:id
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.GetFolder(r.Context(), r.PathValue("id"), dbID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ListFolders lists folders at one level
// GET /api/folders?database_id=:id&parent_folder_id=:id
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	var parentID *string
	if v := r.URL.Query().Get("parent_folder_id"); v != "" {
		parentID = &v
	}

	folders, err := h.folderService.ListFolders(r.Context(), dbID, parentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"folders": folders,
		"total":   len(folders),
	})
}

// UpdateFolder renames or moves a folder
// PATCH /api/folders/{id}?database_id=:id
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	var req models.UpdateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.folderService.UpdateFolder(r.Context(), r.PathValue("id"), dbID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder. ?delete_contents=true removes everything
// inside; otherwise the contents move to root level first.
// DELETE /api/folders/{id}?database_id=:id&delete_contents=:bool
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	deleteContents := r.URL.Query().Get("delete_contents") == "true"

	if err := h.folderService.DeleteFolder(r.Context(), r.PathValue("id"), dbID, deleteContents); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DuplicateFolder copies a folder, cascading to its contents best-effort
// unless ?include_contents=false
// POST /api/folders/{id}/duplicate?database_id=:id&include_contents=:bool
func (h *FolderHandler) DuplicateFolder(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	includeContents := r.URL.Query().Get("include_contents") != "false"

	result, err := h.folderService.DuplicateFolder(r.Context(), r.PathValue("id"), dbID, httputil.GetUserID(r), includeContents)
	if err != nil {
		handleError(w, err)
		return
	}

	publishInsert(h.hub, "folders", result.Folder.DatabaseID, result.Folder)

	// Partial copies still return 201; failures ride along in the body
	httputil.RespondJSON(w, http.StatusCreated, result)
}
