package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

func newFolderTestService(docRepo *fakeDocumentRepository, folderRepo *fakeFolderRepository) services.FolderService {
	docSvc := NewDocumentService(docRepo, folderRepo, fakeTxManager{}, testLogger())
	return NewFolderService(folderRepo, docRepo, docSvc, fakeTxManager{}, testLogger())
}

// seedFolderWithContents builds:
//
//	parent/
//	  doc-a
//	  child/
//	    doc-b
func seedFolderWithContents(docRepo *fakeDocumentRepository, folderRepo *fakeFolderRepository) {
	parentID := "parent"
	childID := "child"
	folderRepo.folders[parentID] = &models.Folder{ID: parentID, DatabaseID: "db-1", Name: "Parent"}
	folderRepo.folders[childID] = &models.Folder{ID: childID, DatabaseID: "db-1", Name: "Child", ParentFolderID: &parentID}
	docRepo.docs["doc-a"] = &models.Document{ID: "doc-a", DatabaseID: "db-1", Title: "A", FolderID: &parentID}
	docRepo.docs["doc-b"] = &models.Document{ID: "doc-b", DatabaseID: "db-1", Title: "B", FolderID: &childID}
}

func TestDeleteFolder_DeleteContents(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	if err := svc.DeleteFolder(context.Background(), "parent", "db-1", true); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	if len(folderRepo.folders) != 0 {
		t.Errorf("folders remaining = %d, want 0", len(folderRepo.folders))
	}
	if len(docRepo.docs) != 0 {
		t.Errorf("documents remaining = %d, want 0", len(docRepo.docs))
	}
}

func TestDeleteFolder_PreserveContents(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	if err := svc.DeleteFolder(context.Background(), "parent", "db-1", false); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	if _, ok := folderRepo.folders["parent"]; ok {
		t.Error("deleted folder still present")
	}

	// Direct children moved to root; the nested document keeps its folder.
	child, ok := folderRepo.folders["child"]
	if !ok {
		t.Fatal("child folder was deleted, want preserved")
	}
	if child.ParentFolderID != nil {
		t.Errorf("child ParentFolderID = %v, want nil (root)", *child.ParentFolderID)
	}

	docA := docRepo.docs["doc-a"]
	if docA == nil || docA.FolderID != nil {
		t.Errorf("doc-a not moved to root: %+v", docA)
	}
	docB := docRepo.docs["doc-b"]
	if docB == nil || docB.FolderID == nil || *docB.FolderID != "child" {
		t.Errorf("doc-b should stay in child folder: %+v", docB)
	}
}

func TestDeleteFolder_NotFound(t *testing.T) {
	svc := newFolderTestService(newFakeDocumentRepository(), newFakeFolderRepository())

	err := svc.DeleteFolder(context.Background(), "missing", "db-1", true)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteFolder() error = %v, want ErrNotFound", err)
	}
}

func TestDuplicateFolder_CopiesContents(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	result, err := svc.DuplicateFolder(context.Background(), "parent", "db-1", "copier", true)
	if err != nil {
		t.Fatalf("DuplicateFolder() error = %v", err)
	}

	if result.Folder.Name != "Parent (Copy)" {
		t.Errorf("copy name = %q, want %q", result.Folder.Name, "Parent (Copy)")
	}
	// doc-a, child folder, doc-b
	if result.CopiedCount != 3 {
		t.Errorf("CopiedCount = %d, want 3", result.CopiedCount)
	}
	if result.SkippedCount != 0 {
		t.Errorf("SkippedCount = %d, want 0", result.SkippedCount)
	}

	// Originals untouched.
	if len(docRepo.docs) != 4 {
		t.Errorf("documents = %d, want 4 (2 original + 2 copies)", len(docRepo.docs))
	}
	if len(folderRepo.folders) != 4 {
		t.Errorf("folders = %d, want 4 (2 original + 2 copies)", len(folderRepo.folders))
	}
}

func TestDuplicateFolder_WithoutContents(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	result, err := svc.DuplicateFolder(context.Background(), "parent", "db-1", "copier", false)
	if err != nil {
		t.Fatalf("DuplicateFolder() error = %v", err)
	}

	if result.Folder.Name != "Parent (Copy)" {
		t.Errorf("copy name = %q, want %q", result.Folder.Name, "Parent (Copy)")
	}
	if result.CopiedCount != 0 || result.SkippedCount != 0 || len(result.Failures) != 0 {
		t.Errorf("contents copied despite includeContents=false: %+v", result)
	}

	// Only the folder itself was created; documents stay with the source.
	if len(docRepo.docs) != 2 {
		t.Errorf("documents = %d, want 2 (originals only)", len(docRepo.docs))
	}
	if len(folderRepo.folders) != 3 {
		t.Errorf("folders = %d, want 3 (2 original + empty copy)", len(folderRepo.folders))
	}
}

func TestDuplicateFolder_BestEffortOnFailure(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	// Copying doc-a fails; everything else still gets copied and the
	// operation reports partial success instead of rolling back.
	docRepo.failCreateTitles["A"] = true

	result, err := svc.DuplicateFolder(context.Background(), "parent", "db-1", "copier", true)
	if err != nil {
		t.Fatalf("DuplicateFolder() error = %v", err)
	}

	if result.SkippedCount != 1 {
		t.Errorf("SkippedCount = %d, want 1", result.SkippedCount)
	}
	if result.CopiedCount != 2 {
		t.Errorf("CopiedCount = %d, want 2 (child folder + doc-b)", result.CopiedCount)
	}
	if len(result.Failures) != 1 {
		t.Errorf("Failures = %v, want a single entry", result.Failures)
	}

	// The copied folder itself stays even though one document failed.
	if _, err := svc.GetFolder(context.Background(), result.Folder.ID, "db-1"); err != nil {
		t.Errorf("GetFolder(copy) error = %v", err)
	}
}

func TestCreateFolder_DuplicateNameConflict(t *testing.T) {
	folderRepo := newFakeFolderRepository()
	svc := newFolderTestService(newFakeDocumentRepository(), folderRepo)

	folderRepo.folders["existing"] = &models.Folder{ID: "existing", DatabaseID: "db-1", Name: "Specs"}

	_, err := svc.CreateFolder(context.Background(), &models.CreateFolderRequest{
		DatabaseID: "db-1",
		Name:       "Specs",
		UserID:     "user-1",
	})

	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("CreateFolder() error = %v, want ConflictError", err)
	}
	if conflict.ResourceID != "existing" {
		t.Errorf("ConflictError.ResourceID = %q, want existing", conflict.ResourceID)
	}
}

func TestUpdateFolder_RejectsCircularMove(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	// Move parent under its own child.
	var req models.UpdateFolderRequest
	child := "child"
	req.ParentFolderID = httputil.OptionalString{Present: true, Value: &child}

	_, err := svc.UpdateFolder(context.Background(), "parent", "db-1", &req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateFolder() error = %v, want ErrValidation", err)
	}

	// Move folder into itself.
	self := "parent"
	req.ParentFolderID = httputil.OptionalString{Present: true, Value: &self}
	_, err = svc.UpdateFolder(context.Background(), "parent", "db-1", &req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateFolder() into itself error = %v, want ErrValidation", err)
	}
}

func TestUpdateFolder_MoveToRootWithNull(t *testing.T) {
	docRepo := newFakeDocumentRepository()
	folderRepo := newFakeFolderRepository()
	seedFolderWithContents(docRepo, folderRepo)
	svc := newFolderTestService(docRepo, folderRepo)

	var req models.UpdateFolderRequest
	req.ParentFolderID = httputil.OptionalString{Present: true, Value: nil}

	folder, err := svc.UpdateFolder(context.Background(), "child", "db-1", &req)
	if err != nil {
		t.Fatalf("UpdateFolder() error = %v", err)
	}
	if folder.ParentFolderID != nil {
		t.Errorf("ParentFolderID = %v, want nil", *folder.ParentFolderID)
	}
}
