package model

import "time"

// FormArtifact is a generated legal form. Immutable once recorded.
type FormArtifact struct {
	ID            string            `json:"id"`
	Owner         string            `json:"-"`
	FormType      string            `json:"form_type"`
	Title         string            `json:"title"`
	Content       string            `json:"content"`
	Fields        map[string]string `json:"fields"`
	MissingFields []string          `json:"missing_fields"`
	ArchiveKey    string            `json:"archive_key,omitempty"`
	CreatedAt     time.Time         `json:"timestamp"`
}
