package postgres

import "fmt"

// TableNames holds environment-prefixed table names
type TableNames struct {
	Documents string
	Folders   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents: fmt.Sprintf("%sdocuments", prefix),
		Folders:   fmt.Sprintf("%sdocument_folders", prefix),
	}
}
