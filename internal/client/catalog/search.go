package catalog

import (
	"strings"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
)

// Result is the outcome of a search. Prompt is set for a blank query, in
// which case Files is always empty.
type Result struct {
	Query  string
	Prompt bool
	Files  []models.File
}

// Fold normalizes a query or field for matching.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Search returns every file whose display name, category, description,
// uploader or any tag contains the folded query. Server order is preserved.
func Search(c Catalog, query string) Result {
	q := Fold(query)
	if q == "" {
		return Result{Query: query, Prompt: true}
	}

	out := make([]models.File, 0)
	for _, f := range c.Files {
		if Matches(f, q) {
			out = append(out, f)
		}
	}
	return Result{Query: query, Files: out}
}

// Matches reports whether folded occurs in one of the searched fields of f.
func Matches(f models.File, folded string) bool {
	for _, field := range []string{f.OriginalName, f.Category, f.Description, f.UploadedBy} {
		if strings.Contains(strings.ToLower(field), folded) {
			return true
		}
	}
	for _, tag := range f.Tags {
		if strings.Contains(strings.ToLower(tag), folded) {
			return true
		}
	}
	return false
}
