package service

import (
	"context"

	"inkwell/internal/autosave"
	"inkwell/internal/domain/services"
)

// autosaveStore adapts the document service to the autosave flush interface.
type autosaveStore struct {
	docs services.DocumentService
}

// NewAutosaveStore returns the store the autosave manager flushes through.
func NewAutosaveStore(docs services.DocumentService) autosave.Store {
	return &autosaveStore{docs: docs}
}

func (s *autosaveStore) SaveDocument(ctx context.Context, docID string, patch autosave.Patch) error {
	return s.docs.SaveContent(ctx, docID, patch)
}
