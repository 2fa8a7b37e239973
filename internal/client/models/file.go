package models

import (
	"strings"
	"time"
)

// AllCategories is the pseudo-category selecting the whole catalog.
const AllCategories = "all"

// File is a library record as listed by GET /files.
type File struct {
	ID            int64    `json:"id"`
	Filename      string   `json:"filename"`
	OriginalName  string   `json:"original_name"`
	Category      string   `json:"category"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	SizeMB        float64  `json:"size_mb"`
	UploadDate    string   `json:"upload_date"`
	UploadedBy    string   `json:"uploaded_by"`
	UploaderID    int64    `json:"uploader_id"`
	DownloadCount int      `json:"download_count"`
	IsFeatured    bool     `json:"is_featured"`
}

// Listing is the body of GET /files.
type Listing struct {
	Files      []File   `json:"files"`
	Categories []string `json:"categories"`
	Error      string   `json:"error,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// FormatDate renders a server ISO timestamp as "2006-01-02 15:04".
// Empty or unparseable values yield "Unknown".
func FormatDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" || iso == "Unknown" {
		return "Unknown"
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("2006-01-02 15:04")
		}
	}
	return "Unknown"
}
