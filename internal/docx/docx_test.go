package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

// buildContainer assembles a minimal DOCX zip: a document part wrapping the
// given body XML, plus any extra named parts.
func buildContainer(t *testing.T, bodyXML string, extra map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"word/document.xml": docHeader + bodyXML + docFooter,
	}
	for name, content := range extra {
		parts[name] = content
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestOpenRequiresDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<w:styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Open(buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestOpenRejectsNonZip(t *testing.T) {
	_, err := Open([]byte("not a zip archive"))
	require.Error(t, err)
}

func TestParsePartSplitsElements(t *testing.T) {
	body := `<w:p><w:r><w:t>Hello</w:t></w:r></w:p>` +
		`<w:bookmarkStart w:id="0" w:name="top"/>` +
		`<w:tbl><w:tr><w:tc/><w:tc/></w:tr><w:tr><w:tc/><w:tc/></w:tr></w:tbl>` +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)

	kinds := make([]ElementKind, 0, len(c.Body.Elements))
	for _, e := range c.Body.Elements {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []ElementKind{KindParagraph, KindOther, KindTable, KindSectPr}, kinds)

	tables := c.Body.Tables()
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Rows)
	assert.Equal(t, 2, tables[0].Cols)

	sect := c.Body.SectionProperties()
	require.NotNil(t, sect)
	assert.Equal(t, 11906, sect.PageWidthTwips)
	assert.Equal(t, 16838, sect.PageHeightTwips)
}

func TestParagraphRunStyles(t *testing.T) {
	body := `<w:p><w:pPr><w:jc w:val="center"/><w:spacing w:before="240" w:after="120"/></w:pPr>` +
		`<w:r><w:rPr><w:b/><w:i/><w:color w:val="2563EB"/><w:sz w:val="28"/>` +
		`<w:rFonts w:ascii="Arial"/><w:u w:val="single"/></w:rPr><w:t>TITRE</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	paras := c.Body.Paragraphs()
	require.Len(t, paras, 1)

	p := paras[0]
	assert.Equal(t, "TITRE", p.Text())
	assert.Equal(t, "center", p.Alignment())
	assert.Equal(t, 12.0, p.SpacingBeforePoints())
	assert.Equal(t, 6.0, p.SpacingAfterPoints())

	run := p.FirstStyledRun()
	require.NotNil(t, run)
	assert.True(t, run.Bold())
	assert.True(t, run.Italic())
	assert.True(t, run.Underlined())
	assert.Equal(t, "#2563eb", run.Color())
	assert.Equal(t, 14.0, run.SizePoints())
	assert.Equal(t, "Arial", run.FontName())
}

func TestParagraphToggleProperties(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:b w:val="0"/><w:u w:val="none"/></w:rPr><w:t>plain</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	run := c.Body.Paragraphs()[0].FirstStyledRun()
	require.NotNil(t, run)
	assert.False(t, run.Bold())
	assert.False(t, run.Underlined())
}

func TestParagraphCapsRun(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:caps/></w:rPr><w:t>formation</w:t></w:r></w:p>` +
		`<w:p><w:r><w:rPr><w:caps w:val="0"/></w:rPr><w:t>profil</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	paras := c.Body.Paragraphs()
	require.Len(t, paras, 2)
	assert.True(t, paras[0].Runs()[0].Caps())
	assert.False(t, paras[1].Runs()[0].Caps())
}

func TestDrawingWrapModes(t *testing.T) {
	tests := []struct {
		name    string
		drawing string
		want    string
	}{
		{
			"inline",
			`<wp:inline><wp:extent cx="914400" cy="457200"/></wp:inline>`,
			"inline",
		},
		{
			"anchored square",
			`<wp:anchor><wp:wrapSquare wrapText="bothSides"/></wp:anchor>`,
			"square",
		},
		{
			"anchored tight",
			`<wp:anchor><wp:wrapTight wrapText="bothSides"/></wp:anchor>`,
			"tight",
		},
		{
			"anchored without wrap marker",
			`<wp:anchor><wp:wrapNone/></wp:anchor>`,
			"inline",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `<w:p><w:r><w:drawing>` + tt.drawing + `</w:drawing></w:r></w:p>`
			data := buildContainer(t, body, nil)

			c, err := Open(data)
			require.NoError(t, err)
			runs := c.Body.Paragraphs()[0].Runs()
			require.Len(t, runs, 1)
			require.Len(t, runs[0].Drawings, 1)
			assert.Equal(t, tt.want, runs[0].Drawings[0].Wrap)
		})
	}
}

func TestParagraphHyperlinkRunsKeepOrder(t *testing.T) {
	body := `<w:p><w:r><w:t>avant </w:t></w:r>` +
		`<w:hyperlink><w:r><w:t>lien</w:t></w:r></w:hyperlink>` +
		`<w:r><w:t> après</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	p := c.Body.Paragraphs()[0]
	assert.Equal(t, "avant lien après", p.Text())

	runs := p.Runs()
	require.Len(t, runs, 3)
	assert.Equal(t, 0, runs[0].TIndex)
	assert.Equal(t, 1, runs[1].TIndex)
	assert.Equal(t, 2, runs[2].TIndex)
}

func TestWithRunText(t *testing.T) {
	body := `<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>ABC</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	p := c.Body.Paragraphs()[0]

	raw, err := p.WithRunText(0, "M&D")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `<w:t xml:space="preserve">M&amp;D</w:t>`)
	assert.Contains(t, string(raw), "<w:b/>")
	assert.NotContains(t, string(raw), "ABC")

	// The rewritten chunk stays parseable with its text updated.
	reparsed, err := parseParagraph(raw)
	require.NoError(t, err)
	assert.Equal(t, "M&D", reparsed.Text())
}

func TestWithRunTextOutOfRange(t *testing.T) {
	body := `<w:p><w:r><w:t>seul</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	_, err = c.Body.Paragraphs()[0].WithRunText(3, "x")
	require.Error(t, err)
}

func TestWithFirstTextReplacedSkipsEmptyRuns(t *testing.T) {
	body := `<w:p><w:r><w:t> </w:t></w:r><w:r><w:t>contenu</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)
	raw, err := c.Body.Paragraphs()[0].WithFirstTextReplaced("nouveau")
	require.NoError(t, err)

	reparsed, err := parseParagraph(raw)
	require.NoError(t, err)
	assert.Equal(t, " nouveau", reparsed.Text())
}

func TestBytesRoundTripUnmodified(t *testing.T) {
	body := `<w:p><w:r><w:t>Première ligne</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Deuxième ligne</w:t></w:r></w:p>` +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
	data := buildContainer(t, body, map[string]string{
		"word/styles.xml": `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})

	c, err := Open(data)
	require.NoError(t, err)
	out, err := c.Bytes()
	require.NoError(t, err)

	assert.Equal(t, partContents(t, data), partContents(t, out))
}

func TestBytesRewritesOnlyModifiedPart(t *testing.T) {
	body := `<w:p><w:r><w:t>ABC</w:t></w:r></w:p>`
	data := buildContainer(t, body, map[string]string{
		"word/styles.xml": `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	})

	c, err := Open(data)
	require.NoError(t, err)
	p := c.Body.Paragraphs()[0]
	raw, err := p.WithRunText(0, "XYZ")
	require.NoError(t, err)
	require.NoError(t, c.Body.ReplaceElement(0, raw))

	out, err := c.Bytes()
	require.NoError(t, err)

	before := partContents(t, data)
	after := partContents(t, out)
	assert.Equal(t, before["word/styles.xml"], after["word/styles.xml"])
	assert.NotEqual(t, before["word/document.xml"], after["word/document.xml"])
	assert.Contains(t, after["word/document.xml"], "XYZ")
}

func TestSplice(t *testing.T) {
	body := `<w:p><w:r><w:t>un</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>deux</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>trois</w:t></w:r></w:p>`
	data := buildContainer(t, body, nil)

	c, err := Open(data)
	require.NoError(t, err)

	clone, err := c.Body.Paragraphs()[1].WithFirstTextReplaced("A")
	require.NoError(t, err)
	clone2, err := c.Body.Paragraphs()[1].WithFirstTextReplaced("B")
	require.NoError(t, err)
	require.NoError(t, c.Body.Splice(1, 2, [][]byte{clone, clone2}))

	var texts []string
	for _, p := range c.Body.Paragraphs() {
		texts = append(texts, p.Text())
	}
	assert.Equal(t, []string{"un", "A", "B", "trois"}, texts)
	assert.True(t, c.Body.Modified())
}

func TestRelationships(t *testing.T) {
	rels := `<?xml version="1.0"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`
	data := buildContainer(t, `<w:p/>`, map[string]string{
		"word/_rels/document.xml.rels": rels,
		"word/media/image1.png":        "PNGDATA",
	})

	c, err := Open(data)
	require.NoError(t, err)
	m, err := c.Relationships(DocumentPart)
	require.NoError(t, err)
	assert.Equal(t, "word/media/image1.png", m["rId1"])

	content, ok := c.PartBytes("word/media/image1.png")
	require.True(t, ok)
	assert.Equal(t, []byte("PNGDATA"), content)
}

func TestRelationshipsMissingFile(t *testing.T) {
	data := buildContainer(t, `<w:p/>`, nil)
	c, err := Open(data)
	require.NoError(t, err)
	m, err := c.Relationships(DocumentPart)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestHeadersAndFootersParsed(t *testing.T) {
	hdr := `<?xml version="1.0"?><w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:p><w:r><w:t>Contact commercial</w:t></w:r></w:p></w:hdr>`
	ftr := `<?xml version="1.0"?><w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:p><w:r><w:t>Pied de page</w:t></w:r></w:p></w:ftr>`
	data := buildContainer(t, `<w:p/>`, map[string]string{
		"word/header1.xml": hdr,
		"word/footer1.xml": ftr,
	})

	c, err := Open(data)
	require.NoError(t, err)
	require.Len(t, c.Headers(), 1)
	require.Len(t, c.Footers(), 1)
	assert.Equal(t, "Contact commercial", c.Headers()[0].Paragraphs()[0].Text())
	assert.Equal(t, "Pied de page", c.Footers()[0].Paragraphs()[0].Text())
}

// partContents reads every part of a zip into a name-to-content map.
func partContents(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(content)
	}
	return out
}
