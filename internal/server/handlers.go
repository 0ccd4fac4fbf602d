package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mathieu/cvforge/internal/structure"
)

// maxUploadBytes caps multipart uploads. Templates and CVs are small office
// documents; anything larger is rejected.
const maxUploadBytes = 32 << 20

// UploadResponse represents the response for template and document uploads
type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DocumentResponse represents the response for GET /documents/{id}
type DocumentResponse struct {
	ID            string `json:"id"`
	TemplateID    string `json:"template_id"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"error_message,omitempty"`
	GeneratedPath string `json:"generated_path,omitempty"`
	CreatedAt     string `json:"created_at"`
	ExtractedData any    `json:"extracted_data,omitempty"`
}

// saveUpload stores a multipart file field on disk and returns the path.
func (s *Server) saveUpload(r *http.Request, field, prefix string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", fmt.Errorf("failed to parse multipart form: %w", err)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("missing form file %q: %w", field, err)
	}
	defer file.Close()

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".docx"
	}
	path := filepath.Join(s.uploadDir, fmt.Sprintf("%s-%d%s", prefix, time.Now().UnixNano(), ext))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return path, nil
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// handleUploadTemplate stores a new template container
func (s *Server) handleUploadTemplate(w http.ResponseWriter, r *http.Request) {
	path, err := s.saveUpload(r, "file", "template")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	name := r.FormValue("name")
	if name == "" {
		name = filepath.Base(path)
	}

	id, err := s.db.CreateTemplate(r.Context(), name, path)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, UploadResponse{ID: id.String(), Status: "uploaded"})
}

// handleAnalyzeTemplate runs structure analysis on a stored template
func (s *Server) handleAnalyzeTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	model, err := s.service.AnalyzeTemplate(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, model)
}

// handleGetStructure returns the stored structure model for a template
func (s *Server) handleGetStructure(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	raw, err := s.db.GetTemplateStructure(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if raw == nil {
		s.errorResponse(w, http.StatusNotFound, "Template has not been analyzed")
		return
	}
	var model structure.TemplateStructure
	if err := json.Unmarshal(raw, &model); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Stored model is corrupt: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, model)
}

// handleUploadDocument stores a new CV bound to a template
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	path, err := s.saveUpload(r, "file", "document")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	templateID, err := uuid.Parse(r.FormValue("template_id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "template_id is required")
		return
	}

	id, err := s.db.CreateDocument(r.Context(), templateID, path)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, UploadResponse{ID: id.String(), Status: "uploaded"})
}

// handleProcessDocument runs text recovery and extraction for a document
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.ProcessDocument(r.Context(), id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, UploadResponse{ID: id.String(), Status: "processed"})
}

// handleGenerateDocument produces the output container for a document
func (s *Server) handleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	path, err := s.service.GenerateDocument(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":             id.String(),
		"status":         "generated",
		"generated_path": path,
	})
}

// handleGetDocument returns a document record with its extracted data
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.db.GetDocument(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if doc == nil {
		s.errorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	resp := DocumentResponse{
		ID:            doc.ID.String(),
		TemplateID:    doc.TemplateID.String(),
		Status:        doc.Status,
		ErrorMessage:  doc.ErrorMessage,
		GeneratedPath: doc.GeneratedPath,
		CreatedAt:     doc.CreatedAt.Format(time.RFC3339),
	}
	if raw, err := s.db.GetExtractedData(r.Context(), id); err == nil && raw != nil {
		var data any
		if json.Unmarshal(raw, &data) == nil {
			resp.ExtractedData = data
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListDocuments lists recent documents for a template
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	docs, err := s.db.ListDocuments(r.Context(), id, 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, docs)
}
