package models

// SearchResults holds documents and folders matched by a workspace search.
type SearchResults struct {
	Query     string     `json:"query"`
	Documents []Document `json:"documents"`
	Folders   []Folder   `json:"folders"`
	Total     int        `json:"total"`
}
