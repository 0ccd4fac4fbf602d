// Package ingestion recovers raw text from uploaded CV files so it can be
// handed to the AI extraction collaborator.
package ingestion

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mathieu/cvforge/internal/docx"
)

var (
	zipMagic = []byte("PK\x03\x04")
	pdfMagic = []byte("%PDF")
)

// ExtractText recovers plain text from an uploaded file. DOCX and PDF inputs
// are detected by their magic bytes; anything else is treated as plain text.
// The result is cleaned and normalized.
func ExtractText(data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		text, err = extractDOCX(data)
	case bytes.HasPrefix(data, pdfMagic):
		text, err = extractPDF(data)
	default:
		text = string(data)
	}
	if err != nil {
		return "", err
	}
	cleaned := CleanText(text)
	if cleaned == "" {
		return "", fmt.Errorf("no text content found in document")
	}
	return cleaned, nil
}

// extractDOCX walks the container's body paragraphs, one output line per
// paragraph, tables and drawings excluded.
func extractDOCX(data []byte) (string, error) {
	container, err := docx.Open(data)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	var sb strings.Builder
	for _, para := range container.Body.Paragraphs() {
		text := strings.TrimSpace(para.Text())
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
