package db

import (
	"time"

	"github.com/google/uuid"
)

// Template is a stored template record. Structure is the serialized template
// structure model, present once the template has been analyzed.
type Template struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	FilePath   string     `json:"file_path"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
}

// Document is a stored CV document record.
type Document struct {
	ID            uuid.UUID  `json:"id"`
	TemplateID    uuid.UUID  `json:"template_id"`
	FilePath      string     `json:"file_path"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	GeneratedPath string     `json:"generated_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}
