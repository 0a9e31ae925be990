package domain

import "time"

// Integration is a named external dependency and its reported status.
type Integration struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Status      string         `json:"status"`
	Version     string         `json:"version,omitempty"`
	LastChecked time.Time      `json:"lastChecked"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
