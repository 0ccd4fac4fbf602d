package ingestion

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractTextFromDOCX(t *testing.T) {
	data := buildDOCX(t, "Consultant Data Engineer", "", "EXPÉRIENCES")

	text, err := ExtractText(data)
	require.NoError(t, err)
	assert.Equal(t, "Consultant Data Engineer\nEXPÉRIENCES", text)
}

func TestExtractTextPlainPassthrough(t *testing.T) {
	text, err := ExtractText([]byte("Ligne un\r\n\r\n\r\nLigne deux  \r\n"))
	require.NoError(t, err)
	assert.Equal(t, "Ligne un\n\nLigne deux", text)
}

func TestExtractTextEmptyDocument(t *testing.T) {
	_, err := ExtractText(buildDOCX(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestExtractTextCorruptZip(t *testing.T) {
	// Zip magic with a broken archive behind it.
	_, err := ExtractText([]byte("PK\x03\x04garbage"))
	require.Error(t, err)
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf normalized", "a\r\nb\rc", "a\nb\nc"},
		{"trailing whitespace trimmed", "a  \t\nb", "a\nb"},
		{"blank runs collapse", "a\n\n\n\nb", "a\n\nb"},
		{"outer whitespace trimmed", "\n\n  a  \n\n", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
