package models

import (
	"encoding/json"
	"time"

	"inkwell/internal/httputil"
)

// WidthMode controls the editing surface width.
type WidthMode string

const (
	WidthModeNarrow WidthMode = "narrow"
	WidthModeFull   WidthMode = "full"
)

// PageSize selects the fixed page dimensions used by the print view.
type PageSize string

const (
	PageSizeA4        PageSize = "a4"
	PageSizeLetter    PageSize = "letter"
	PageSizeSlide169  PageSize = "slide_16_9"
	PageSizeSlide43   PageSize = "slide_4_3"
)

// ValidPageSize reports whether s is one of the supported page sizes.
func ValidPageSize(s PageSize) bool {
	switch s {
	case PageSizeA4, PageSizeLetter, PageSizeSlide169, PageSizeSlide43:
		return true
	}
	return false
}

// Document is one row of the documents table. Content holds the serialized
// block tree as stored; it is sanitized by the content package on load.
type Document struct {
	ID            string          `json:"id" db:"id"`
	DatabaseID    string          `json:"database_id" db:"database_id"`
	FolderID      *string         `json:"folder_id" db:"folder_id"` // NULL = root level
	Title         string          `json:"title" db:"title"`
	Content       json.RawMessage `json:"content" db:"content"`
	WidthMode     WidthMode       `json:"width_mode" db:"width_mode"`
	PageSize      PageSize        `json:"page_size" db:"page_size"`
	Icon          *string         `json:"icon,omitempty" db:"icon"`
	Logo          *string         `json:"logo,omitempty" db:"logo"`
	CoverImage    *string         `json:"cover_image,omitempty" db:"cover_image"`
	HeaderContent *string         `json:"header_content,omitempty" db:"header_content"`
	FooterContent *string         `json:"footer_content,omitempty" db:"footer_content"`
	Position      int             `json:"position" db:"position"`
	CreatedBy     string          `json:"created_by" db:"created_by"`
	LastEditedBy  string          `json:"last_edited_by" db:"last_edited_by"`
	Archived      bool            `json:"archived" db:"archived"`
	ArchivedAt    *time.Time      `json:"archived_at,omitempty" db:"archived_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateDocumentRequest struct {
	DatabaseID string          `json:"database_id"`
	FolderID   *string         `json:"folder_id,omitempty"`
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content,omitempty"`
	UserID     string          `json:"-"` // from auth context
}

// UpdateDocumentRequest carries a partial document update. Every field is
// optional; FolderID uses tri-state presence so null moves a document to root.
type UpdateDocumentRequest struct {
	Title         *string                 `json:"title,omitempty"`
	Content       json.RawMessage         `json:"content,omitempty"`
	WidthMode     *WidthMode              `json:"width_mode,omitempty"`
	PageSize      *PageSize               `json:"page_size,omitempty"`
	Icon          httputil.OptionalString `json:"icon,omitempty"`
	Logo          httputil.OptionalString `json:"logo,omitempty"`
	CoverImage    httputil.OptionalString `json:"cover_image,omitempty"`
	HeaderContent httputil.OptionalString `json:"header_content,omitempty"`
	FooterContent httputil.OptionalString `json:"footer_content,omitempty"`
	FolderID      httputil.OptionalString `json:"folder_id,omitempty"`
	Position      *int                    `json:"position,omitempty"`
	UserID        string                  `json:"-"` // from auth context
}

// IsEmpty reports whether the update carries no fields.
func (r *UpdateDocumentRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil && r.WidthMode == nil &&
		r.PageSize == nil && !r.Icon.Present && !r.Logo.Present &&
		!r.CoverImage.Present && !r.HeaderContent.Present &&
		!r.FooterContent.Present && !r.FolderID.Present && r.Position == nil
}
