package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"inkwell/internal/autosave"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// fakeDocumentRepository is an in-memory DocumentRepository for service tests.
type fakeDocumentRepository struct {
	docs map[string]*models.Document

	// failCreateTitles makes Create fail for documents with these titles,
	// simulating partial failure during cascades.
	failCreateTitles map[string]bool
}

func newFakeDocumentRepository() *fakeDocumentRepository {
	return &fakeDocumentRepository{
		docs:             make(map[string]*models.Document),
		failCreateTitles: make(map[string]bool),
	}
}

func (f *fakeDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if f.failCreateTitles[doc.Title] {
		return fmt.Errorf("simulated create failure for %q", doc.Title)
	}
	stored := *doc
	f.docs[doc.ID] = &stored
	return nil
}

func (f *fakeDocumentRepository) GetByID(ctx context.Context, id, databaseID string) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok || doc.DatabaseID != databaseID || doc.Archived {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	out := *doc
	return &out, nil
}

func (f *fakeDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	if _, ok := f.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	stored := *doc
	f.docs[doc.ID] = &stored
	return nil
}

func (f *fakeDocumentRepository) Patch(ctx context.Context, id string, patch autosave.Patch) error {
	doc, ok := f.docs[id]
	if !ok || doc.Archived {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	for field, value := range patch {
		switch field {
		case "title":
			doc.Title, _ = value.(string)
		case "content":
			switch b := value.(type) {
			case json.RawMessage:
				doc.Content = b
			case []byte:
				doc.Content = b
			}
		}
	}
	doc.UpdatedAt = time.Now()
	return nil
}

func (f *fakeDocumentRepository) Archive(ctx context.Context, id, databaseID string) error {
	doc, ok := f.docs[id]
	if !ok || doc.DatabaseID != databaseID || doc.Archived {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	now := time.Now()
	doc.Archived = true
	doc.ArchivedAt = &now
	return nil
}

func (f *fakeDocumentRepository) Unarchive(ctx context.Context, id, databaseID string) error {
	doc, ok := f.docs[id]
	if !ok || doc.DatabaseID != databaseID || !doc.Archived {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.Archived = false
	doc.ArchivedAt = nil
	return nil
}

func (f *fakeDocumentRepository) Delete(ctx context.Context, id, databaseID string) error {
	doc, ok := f.docs[id]
	if !ok || doc.DatabaseID != databaseID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(f.docs, doc.ID)
	return nil
}

func (f *fakeDocumentRepository) SetFolder(ctx context.Context, id, databaseID string, folderID *string) error {
	doc, ok := f.docs[id]
	if !ok || doc.DatabaseID != databaseID || doc.Archived {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc.FolderID = folderID
	return nil
}

func (f *fakeDocumentRepository) ListByFolder(ctx context.Context, folderID *string, databaseID string) ([]models.Document, error) {
	out := []models.Document{}
	for _, doc := range f.docs {
		if doc.DatabaseID != databaseID || doc.Archived {
			continue
		}
		if !samePointerValue(doc.FolderID, folderID) {
			continue
		}
		out = append(out, *doc)
	}
	sortDocuments(out)
	return out, nil
}

func (f *fakeDocumentRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Document, error) {
	out := []models.Document{}
	for _, doc := range f.docs {
		if doc.DatabaseID == databaseID && !doc.Archived {
			out = append(out, *doc)
		}
	}
	sortDocuments(out)
	return out, nil
}

func (f *fakeDocumentRepository) ListArchived(ctx context.Context, databaseID string) ([]models.Document, error) {
	out := []models.Document{}
	for _, doc := range f.docs {
		if doc.DatabaseID == databaseID && doc.Archived {
			out = append(out, *doc)
		}
	}
	sortDocuments(out)
	return out, nil
}

func (f *fakeDocumentRepository) NextPosition(ctx context.Context, databaseID string, folderID *string) (int, error) {
	next := 0
	for _, doc := range f.docs {
		if doc.DatabaseID != databaseID || doc.Archived {
			continue
		}
		if samePointerValue(doc.FolderID, folderID) && doc.Position >= next {
			next = doc.Position + 1
		}
	}
	return next, nil
}

// fakeFolderRepository is an in-memory FolderRepository for service tests.
type fakeFolderRepository struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepository() *fakeFolderRepository {
	return &fakeFolderRepository{folders: make(map[string]*models.Folder)}
}

func (f *fakeFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	stored := *folder
	f.folders[folder.ID] = &stored
	return nil
}

func (f *fakeFolderRepository) GetByID(ctx context.Context, id, databaseID string) (*models.Folder, error) {
	folder, ok := f.folders[id]
	if !ok || folder.DatabaseID != databaseID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := *folder
	return &out, nil
}

func (f *fakeFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	if _, ok := f.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	stored := *folder
	f.folders[folder.ID] = &stored
	return nil
}

func (f *fakeFolderRepository) Delete(ctx context.Context, id, databaseID string) error {
	folder, ok := f.folders[id]
	if !ok || folder.DatabaseID != databaseID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(f.folders, id)
	return nil
}

func (f *fakeFolderRepository) ListChildren(ctx context.Context, parentFolderID *string, databaseID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, folder := range f.folders {
		if folder.DatabaseID != databaseID {
			continue
		}
		if samePointerValue(folder.ParentFolderID, parentFolderID) {
			out = append(out, *folder)
		}
	}
	sortFolders(out)
	return out, nil
}

func (f *fakeFolderRepository) ListByDatabase(ctx context.Context, databaseID string) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, folder := range f.folders {
		if folder.DatabaseID == databaseID {
			out = append(out, *folder)
		}
	}
	sortFolders(out)
	return out, nil
}

// fakeTxManager runs the function directly; the fakes have no transactions.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func samePointerValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sortDocuments(docs []models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Position != docs[j].Position {
			return docs[i].Position < docs[j].Position
		}
		return docs[i].ID < docs[j].ID
	})
}

func sortFolders(folders []models.Folder) {
	sort.Slice(folders, func(i, j int) bool {
		if folders[i].Position != folders[j].Position {
			return folders[i].Position < folders[j].Position
		}
		return folders[i].ID < folders[j].ID
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
