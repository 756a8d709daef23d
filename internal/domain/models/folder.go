package models

import (
	"time"

	"inkwell/internal/httputil"
)

// Folder groups documents within one database (collection). Parent folders
// form a tree; a nil ParentFolderID means root level.
type Folder struct {
	ID             string    `json:"id" db:"id"`
	DatabaseID     string    `json:"database_id" db:"database_id"`
	ParentFolderID *string   `json:"parent_folder_id" db:"parent_folder_id"`
	Name           string    `json:"name" db:"name"`
	Icon           *string   `json:"icon,omitempty" db:"icon"`
	Position       int       `json:"position" db:"position"`
	CreatedBy      string    `json:"created_by" db:"created_by"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type CreateFolderRequest struct {
	DatabaseID     string  `json:"database_id"`
	ParentFolderID *string `json:"parent_folder_id,omitempty"`
	Name           string  `json:"name"`
	Icon           *string `json:"icon,omitempty"`
	UserID         string  `json:"-"` // from auth context
}

// UpdateFolderRequest renames or moves a folder. ParentFolderID uses
// tri-state presence so null moves the folder to root.
type UpdateFolderRequest struct {
	Name           *string                 `json:"name,omitempty"`
	Icon           httputil.OptionalString `json:"icon,omitempty"`
	ParentFolderID httputil.OptionalString `json:"parent_folder_id,omitempty"`
	Position       *int                    `json:"position,omitempty"`
}

// DuplicateFolderResult reports the outcome of a folder copy. Document and
// subfolder copies are best-effort; failures are listed rather than rolled
// back.
type DuplicateFolderResult struct {
	Folder       *Folder  `json:"folder"`
	CopiedCount  int      `json:"copied_count"`
	SkippedCount int      `json:"skipped_count"`
	Failures     []string `json:"failures,omitempty"`
}

// TreeNode is the root of the folder/document tree for one database.
type TreeNode struct {
	Folders   []*FolderTreeNode  `json:"folders"`
	Documents []DocumentTreeNode `json:"documents"`
}

// FolderTreeNode is a folder in the tree with nested children.
type FolderTreeNode struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Icon           *string            `json:"icon,omitempty"`
	ParentFolderID *string            `json:"parent_folder_id"`
	Position       int                `json:"position"`
	CreatedAt      time.Time          `json:"created_at"`
	Folders        []*FolderTreeNode  `json:"folders"` // Pointers for proper nesting
	Documents      []DocumentTreeNode `json:"documents"`
}

// DocumentTreeNode is a document in the tree (metadata only, no content).
type DocumentTreeNode struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Icon      *string   `json:"icon,omitempty"`
	FolderID  *string   `json:"folder_id"`
	Position  int       `json:"position"`
	UpdatedAt time.Time `json:"updated_at"`
}
