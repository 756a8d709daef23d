package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/httputil"
	"inkwell/internal/storage"
)

// AssetHandler uploads user files (images, logos, covers) to object storage
type AssetHandler struct {
	store  storage.ObjectStore
	logger *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(store storage.ObjectStore, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{store: store, logger: logger}
}

// UploadAsset stores a multipart file upload and returns its public URL
// POST /api/assets (multipart form, field "file")
func (h *AssetHandler) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxAssetBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Failed to read file upload")
		return
	}
	if len(data) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	userID := httputil.GetUserID(r)
	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("uploads/%s/%s%s", userID, uuid.NewString(), ext)

	url, err := h.store.Upload(r.Context(), path, data, contentType)
	if err != nil {
		h.logger.Error("asset upload failed", "path", path, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"url":          url,
		"content_type": contentType,
		"size":         len(data),
	})
}
