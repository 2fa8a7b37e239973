package models

type Stats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	TotalFiles     int `json:"total_files"`
	TotalDownloads int `json:"total_downloads"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Analytics is the body of GET /analytics.
type Analytics struct {
	Stats         Stats           `json:"stats"`
	Categories    []CategoryCount `json:"categories"`
	RecentUploads []File          `json:"recent_uploads"`
}
