// Package db provides PostgreSQL storage for template and CV document
// records.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Document statuses. Fatal processing failures move a document to
// StatusError with the message retained for display.
const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusGenerated  = "generated"
	StatusError      = "error"

	StatusAnalyzed = "analyzed"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateTemplate creates a template record and returns its ID.
func (db *DB) CreateTemplate(ctx context.Context, name, filePath string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO templates (name, file_path, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		name, filePath, StatusUploaded,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create template: %w", err)
	}
	return id, nil
}

// GetTemplate retrieves a template by ID, or nil when absent.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*Template, error) {
	var t Template
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, file_path, status, created_at, analyzed_at
		 FROM templates WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.FilePath, &t.Status, &t.CreatedAt, &t.AnalyzedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &t, nil
}

// SaveTemplateStructure stores the analysis result for a template. The
// stored model wholly replaces any previous one.
func (db *DB) SaveTemplateStructure(ctx context.Context, id uuid.UUID, model any) error {
	jsonBytes, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("failed to marshal structure model: %w", err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE templates SET structure = $1, status = $2, analyzed_at = NOW() WHERE id = $3`,
		jsonBytes, StatusAnalyzed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save structure model: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("template not found: %s", id)
	}
	return nil
}

// GetTemplateStructure retrieves the stored structure model JSON, or nil
// when the template has not been analyzed.
func (db *DB) GetTemplateStructure(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT structure FROM templates WHERE id = $1`,
		id,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get structure model: %w", err)
	}
	return content, nil
}

// CreateDocument creates a CV document record bound to a template.
func (db *DB) CreateDocument(ctx context.Context, templateID uuid.UUID, filePath string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cv_documents (template_id, file_path, status)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		templateID, filePath, StatusUploaded,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create document: %w", err)
	}
	return id, nil
}

// GetDocument retrieves a document by ID, or nil when absent.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	var d Document
	err := db.pool.QueryRow(ctx,
		`SELECT id, template_id, file_path, status, COALESCE(error_message, ''),
		        COALESCE(generated_path, ''), created_at, processed_at
		 FROM cv_documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.TemplateID, &d.FilePath, &d.Status, &d.ErrorMessage,
		&d.GeneratedPath, &d.CreatedAt, &d.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// SetDocumentStatus updates a document's status, storing the failure message
// for error states and clearing it otherwise.
func (db *DB) SetDocumentStatus(ctx context.Context, id uuid.UUID, status, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE cv_documents SET status = $1, error_message = NULLIF($2, '') WHERE id = $3`,
		status, message, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set document status: %w", err)
	}
	return nil
}

// SaveExtractedData stores the extracted data object and marks the document
// processed. The object is immutable from then on.
func (db *DB) SaveExtractedData(ctx context.Context, id uuid.UUID, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal extracted data: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE cv_documents
		 SET extracted_data = $1, status = $2, error_message = NULL, processed_at = NOW()
		 WHERE id = $3`,
		jsonBytes, StatusProcessed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to save extracted data: %w", err)
	}
	return nil
}

// GetExtractedData retrieves the stored extracted data JSON, or nil when the
// document has not been processed.
func (db *DB) GetExtractedData(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT extracted_data FROM cv_documents WHERE id = $1`,
		id,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get extracted data: %w", err)
	}
	return content, nil
}

// SetGeneratedPath records where the generated output container was written
// and marks the document generated.
func (db *DB) SetGeneratedPath(ctx context.Context, id uuid.UUID, path string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE cv_documents SET generated_path = $1, status = $2 WHERE id = $3`,
		path, StatusGenerated, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set generated path: %w", err)
	}
	return nil
}

// ListDocuments retrieves recent documents for a template.
func (db *DB) ListDocuments(ctx context.Context, templateID uuid.UUID, limit int) ([]Document, error) {
	if limit == 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, template_id, file_path, status, COALESCE(error_message, ''),
		        COALESCE(generated_path, ''), created_at, processed_at
		 FROM cv_documents WHERE template_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		templateID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.TemplateID, &d.FilePath, &d.Status, &d.ErrorMessage,
			&d.GeneratedPath, &d.CreatedAt, &d.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
