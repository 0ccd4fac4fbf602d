// Package pipeline orchestrates the document lifecycle: template analysis,
// CV processing through the AI extraction collaborator, and output
// generation via the repopulation engine.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mathieu/cvforge/internal/analyzer"
	"github.com/mathieu/cvforge/internal/db"
	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/ingestion"
	"github.com/mathieu/cvforge/internal/repopulate"
	"github.com/mathieu/cvforge/internal/structure"

	"github.com/go-playground/validator/v10"
)

// NotFoundError indicates a referenced record or file is absent. It is fatal
// for the enclosing operation.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Store is the persistence surface the pipeline depends on. *db.DB
// implements it; tests substitute an in-memory fake.
type Store interface {
	GetTemplate(ctx context.Context, id uuid.UUID) (*db.Template, error)
	SaveTemplateStructure(ctx context.Context, id uuid.UUID, model any) error
	GetTemplateStructure(ctx context.Context, id uuid.UUID) ([]byte, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*db.Document, error)
	SetDocumentStatus(ctx context.Context, id uuid.UUID, status, message string) error
	SaveExtractedData(ctx context.Context, id uuid.UUID, content any) error
	GetExtractedData(ctx context.Context, id uuid.UUID) ([]byte, error)
	SetGeneratedPath(ctx context.Context, id uuid.UUID, path string) error
}

// Service wires the core components together. All collaborators are passed
// in explicitly so tests can substitute fakes per call.
type Service struct {
	db        Store
	analyzer  *analyzer.Analyzer
	engine    *repopulate.Engine
	extractor extraction.Extractor
	validate  *validator.Validate
	outputDir string
}

// New creates a pipeline service.
func New(store Store, an *analyzer.Analyzer, engine *repopulate.Engine, extractor extraction.Extractor, outputDir string) *Service {
	return &Service{
		db:        store,
		analyzer:  an,
		engine:    engine,
		extractor: extractor,
		validate:  extraction.NewValidator(),
		outputDir: outputDir,
	}
}

// AnalyzeTemplate analyzes a stored template file and persists the resulting
// structure model, wholly replacing any previous model. A template whose
// container cannot be parsed still yields the full default model; only a
// missing record or unreadable file is an error.
func (s *Service) AnalyzeTemplate(ctx context.Context, templateID uuid.UUID) (*structure.TemplateStructure, error) {
	record, err := s.db.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &NotFoundError{Kind: "template", ID: templateID}
	}

	data, err := os.ReadFile(record.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	model := s.analyzer.AnalyzeOrDefault(ctx, data)
	if err := s.db.SaveTemplateStructure(ctx, templateID, model); err != nil {
		return nil, err
	}
	return model, nil
}

// ProcessDocument runs the extraction path for an uploaded CV: recover raw
// text, call the AI collaborator, validate the anonymized result, persist
// it. Fatal failures are recorded on the document record before returning.
func (s *Service) ProcessDocument(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return &NotFoundError{Kind: "document", ID: documentID}
	}
	if err := s.db.SetDocumentStatus(ctx, documentID, db.StatusProcessing, ""); err != nil {
		return err
	}

	if err := s.processDocument(ctx, doc); err != nil {
		if statusErr := s.db.SetDocumentStatus(ctx, documentID, db.StatusError, err.Error()); statusErr != nil {
			log.Printf("Failed to record error status for document %s: %v", documentID, statusErr)
		}
		return err
	}
	return nil
}

func (s *Service) processDocument(ctx context.Context, doc *db.Document) error {
	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}
	rawText, err := ingestion.ExtractText(data)
	if err != nil {
		return err
	}

	sectionNames, skillCategories := s.templateHints(ctx, doc.TemplateID)
	cv, err := s.extractor.Extract(ctx, rawText, sectionNames, skillCategories)
	if err != nil {
		return err
	}
	if err := extraction.Validate(s.validate, cv); err != nil {
		return err
	}
	return s.db.SaveExtractedData(ctx, doc.ID, cv)
}

// templateHints returns the section names of the document's template model,
// when one exists, so the collaborator's output lines up with the template's
// slots. Skill subcategories are left to the collaborator; the model does
// not record them.
func (s *Service) templateHints(ctx context.Context, templateID uuid.UUID) (sections, skills []string) {
	raw, err := s.db.GetTemplateStructure(ctx, templateID)
	if err != nil || raw == nil {
		return nil, nil
	}
	var model structure.TemplateStructure
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, nil
	}
	for _, section := range model.Sections {
		sections = append(sections, section.Name)
	}
	return sections, skills
}

// GenerateDocument produces the output container for a processed document
// and records its path. A missing template, model or extracted data object
// aborts the operation; no partial document is persisted.
func (s *Service) GenerateDocument(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.db.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", &NotFoundError{Kind: "document", ID: documentID}
	}

	template, err := s.db.GetTemplate(ctx, doc.TemplateID)
	if err != nil {
		return "", err
	}
	if template == nil {
		return "", &NotFoundError{Kind: "template", ID: doc.TemplateID}
	}

	modelJSON, err := s.db.GetTemplateStructure(ctx, doc.TemplateID)
	if err != nil {
		return "", err
	}
	if modelJSON == nil {
		return "", fmt.Errorf("template %s has not been analyzed", doc.TemplateID)
	}
	var model structure.TemplateStructure
	if err := json.Unmarshal(modelJSON, &model); err != nil {
		return "", fmt.Errorf("failed to decode structure model: %w", err)
	}

	dataJSON, err := s.db.GetExtractedData(ctx, documentID)
	if err != nil {
		return "", err
	}
	if dataJSON == nil {
		return "", fmt.Errorf("document %s has not been processed", documentID)
	}
	var cv extraction.ExtractedCV
	if err := json.Unmarshal(dataJSON, &cv); err != nil {
		return "", fmt.Errorf("failed to decode extracted data: %w", err)
	}

	templateBytes, err := os.ReadFile(template.FilePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file: %w", err)
	}

	output, err := s.engine.Repopulate(templateBytes, &model, &cv)
	if err != nil {
		if statusErr := s.db.SetDocumentStatus(ctx, documentID, db.StatusError, err.Error()); statusErr != nil {
			log.Printf("Failed to record error status for document %s: %v", documentID, statusErr)
		}
		return "", err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	outputPath := filepath.Join(s.outputDir, fmt.Sprintf("%s.docx", documentID))
	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output container: %w", err)
	}
	if err := s.db.SetGeneratedPath(ctx, documentID, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}
