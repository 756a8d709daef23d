package handler

import (
	"log/slog"
	"net/http"

	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// TreeHandler serves the sidebar tree and workspace search
type TreeHandler struct {
	treeService   services.TreeService
	searchService services.SearchService
	logger        *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService services.TreeService, searchService services.SearchService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService:   treeService,
		searchService: searchService,
		logger:        logger,
	}
}

// GetTree returns the nested folder/document tree for a database
// GET /api/tree?database_id=:id
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	tree, err := h.treeService.GetTree(r.Context(), dbID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// Search matches documents and folders by name
// GET /api/search?database_id=:id&q=:query
func (h *TreeHandler) Search(w http.ResponseWriter, r *http.Request) {
	dbID, ok := databaseID(w, r)
	if !ok {
		return
	}

	results, err := h.searchService.Search(r.Context(), dbID, r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, results)
}
