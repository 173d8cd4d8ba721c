package project

import "time"

// Project is a named script with its notes and derived counts
type Project struct {
	Name           string    `json:"name"`
	Script         string    `json:"script"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	LastModified   time.Time `json:"last_modified,omitzero"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	IsSample       bool      `json:"is_sample"`
}

// Summary is a lightweight representation for listing
type Summary struct {
	Name           string    `json:"name"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	IsSample       bool      `json:"is_sample"`
	CreatedAt      time.Time `json:"created_at"`
	LastModified   time.Time `json:"last_modified,omitzero"`
}

// Export wraps a project with metadata for external handoff.
type Export struct {
	ProjectName string    `json:"project_name"`
	ExportedAt  time.Time `json:"exported_at"`
	AppVersion  string    `json:"app_version"`
	ProjectData *Project  `json:"project_data"`
}
