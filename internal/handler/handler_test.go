package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inkwell/internal/autosave"
	"inkwell/internal/domain"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("bad title: %w", domain.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("document d1: %w", domain.ErrNotFound), http.StatusNotFound},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q", ct)
			}
		})
	}
}

func TestHandleError_ConflictCarriesResource(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, &domain.ConflictError{
		Message:      "folder already exists",
		ResourceType: "folder",
		ResourceID:   "f1",
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body["resource_id"] != "f1" || body["resource_type"] != "folder" {
		t.Errorf("body = %v, want resource fields", body)
	}
}

func TestDatabaseID_Required(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tree", nil)

	if _, ok := databaseID(rec, r); ok {
		t.Fatal("expected missing database_id to fail")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/tree?database_id=db-1", nil)
	id, ok := databaseID(rec, r)
	if !ok || id != "db-1" {
		t.Errorf("databaseID = %q, %v", id, ok)
	}
}

type recordingStore struct {
	saved chan autosave.Patch
}

func (s *recordingStore) SaveDocument(ctx context.Context, docID string, patch autosave.Patch) error {
	s.saved <- patch
	return nil
}

func TestAutosaveDocument_QueuesAndAcknowledges(t *testing.T) {
	store := &recordingStore{saved: make(chan autosave.Patch, 1)}
	saves := autosave.NewManager(store, autosave.NewTimerScheduler(), 5*time.Millisecond, slog.New(slog.DiscardHandler))
	h := NewDocumentHandler(nil, saves, nil, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/api/documents/doc-1", strings.NewReader(`{"title":"Draft"}`))
	r.SetPathValue("id", "doc-1")

	h.AutosaveDocument(rec, r)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	select {
	case patch := <-store.saved:
		if patch["title"] != "Draft" {
			t.Errorf("flushed patch = %v", patch)
		}
	case <-time.After(time.Second):
		t.Fatal("debounced save never flushed")
	}
}

func TestAutosaveDocument_RejectsEmptyPatch(t *testing.T) {
	saves := autosave.NewManager(&recordingStore{saved: make(chan autosave.Patch, 1)}, autosave.NewTimerScheduler(), time.Minute, slog.New(slog.DiscardHandler))
	h := NewDocumentHandler(nil, saves, nil, slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPatch, "/api/documents/doc-1", strings.NewReader(`{}`))
	r.SetPathValue("id", "doc-1")

	h.AutosaveDocument(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
