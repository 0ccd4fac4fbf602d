package analyzer

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/cvforge/internal/structure"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docFooter = `</w:body></w:document>`

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

func plainPara(text string) string {
	return fmt.Sprintf(`<w:p><w:r><w:t>%s</w:t></w:r></w:p>`, text)
}

func styledPara(text, rPr string) string {
	return fmt.Sprintf(`<w:p><w:r><w:rPr>%s</w:rPr><w:t>%s</w:t></w:r></w:p>`, rPr, text)
}

func TestAnalyzeClassifiesTemplate(t *testing.T) {
	body := styledPara("MDU", `<w:rFonts w:ascii="Calibri"/><w:sz w:val="22"/>`) +
		plainPara("Consultant Data Engineer") +
		styledPara("COMPÉTENCES", `<w:b/><w:color w:val="2563EB"/><w:sz w:val="28"/><w:rFonts w:ascii="Arial"/>`) +
		styledPara("Techniques", `<w:b/>`) +
		plainPara("• Python, SQL") +
		styledPara("EXPÉRIENCES PROFESSIONNELLES", `<w:b/><w:color w:val="2563EB"/><w:sz w:val="28"/><w:rFonts w:ascii="Arial"/>`) +
		styledPara("Mission Data Platform", `<w:b/>`) +
		styledPara("Contexte agile international", `<w:i/>`) +
		plainPara("Environnement technique") +
		plainPara("Java, Spark") +
		plainPara("• Conception des pipelines") +
		styledPara("FORMATION", `<w:b/><w:color w:val="2563EB"/><w:sz w:val="28"/><w:rFonts w:ascii="Arial"/>`) +
		styledPara("Master Informatique", `<w:b/>`) +
		plainPara("2018 - Université de Lyon")
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)

	var names []string
	for _, s := range model.Sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"COMPÉTENCES", "EXPÉRIENCES PROFESSIONNELLES", "FORMATION"}, names)

	assert.Equal(t, "#2563eb", model.Colors.Primary)
	assert.Equal(t, "Arial", model.Fonts.TitleFont)
	assert.Equal(t, 14.0, model.Fonts.TitleSizePt)
	assert.Equal(t, "Calibri", model.Fonts.BodyFont)
	assert.Equal(t, 11.0, model.Fonts.BodySizePt)

	assert.Equal(t, "MDU", model.Elements[structure.RoleTrigram].MatchedText)
	assert.Equal(t, "Consultant Data Engineer", model.Elements[structure.RoleTitle].MatchedText)
	assert.Equal(t, "Techniques", model.Elements[structure.RoleSkillsLabel].MatchedText)
	assert.Equal(t, "• Python, SQL", model.Elements[structure.RoleSkillsItem].MatchedText)
	assert.Equal(t, "Mission Data Platform", model.Elements[structure.RoleMissionTitle].MatchedText)
	assert.Equal(t, "Java, Spark", model.Elements[structure.RoleMissionEnvironment].MatchedText)
	assert.Equal(t, "Master Informatique", model.Elements[structure.RoleEducationDegree].MatchedText)
	assert.Contains(t, model.Elements, structure.SectionTitleRole("COMPÉTENCES"))

	// The hyphenated education line is taken by the broad context rule
	// before the education-info rule can see it; the last match wins.
	assert.Equal(t, "2018 - Université de Lyon", model.Elements[structure.RoleMissionContext].MatchedText)
	assert.Empty(t, model.Elements[structure.RoleEducationInfo].MatchedText)

	assert.True(t, model.Elements[structure.RoleMissionTitle].Bold)

	assert.Equal(t, "•", model.Visual.Bullet.Char)
	assert.Equal(t, 12.0, model.Visual.Bullet.IndentMM)

	assert.False(t, model.HasHeader)
	assert.False(t, model.HasFooter)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	body := plainPara("Consultant Java expérimenté") +
		styledPara("COMPÉTENCES", `<w:b/>`) +
		plainPara("• Java, Spring")
	data := buildContainer(t, body, nil)

	a := New(nil)
	first, err := a.Analyze(context.Background(), data)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyzeHeaderContact(t *testing.T) {
	hdr := `<?xml version="1.0"?><w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:p><w:r><w:rPr><w:b/><w:color w:val="C00000"/></w:rPr><w:t>Contact : Agence Lyon</w:t></w:r></w:p></w:hdr>`
	data := buildContainer(t, plainPara("Consultant fonctionnel SAP"), map[string]string{
		"word/header1.xml": hdr,
	})

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)

	contact := model.Elements[structure.RoleCommercialContact]
	assert.Equal(t, "Contact : Agence Lyon", contact.MatchedText)
	assert.Equal(t, structure.PositionHeader, contact.Position)
	assert.True(t, model.HasHeader)

	// The header color is the first non-neutral color seen.
	assert.Equal(t, "#c00000", model.Colors.Primary)
}

func TestAnalyzeSynthesizesDefaultSection(t *testing.T) {
	data := buildContainer(t, plainPara("Texte sans aucune section"), nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, model.Sections, 1)
	assert.Equal(t, structure.DefaultSectionName, model.Sections[0].Name)
	assert.Contains(t, model.Elements, structure.SectionTitleRole(structure.DefaultSectionName))
}

func TestAnalyzeSkipsVeryShortParagraphs(t *testing.T) {
	// Single-rune paragraphs carry no signal and must not become the title.
	body := plainPara("A") + plainPara("-") + plainPara("Consultant cybersécurité")
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "Consultant cybersécurité", model.Elements[structure.RoleTitle].MatchedText)
}

func TestAnalyzeContextRuleAppliesOutsideExperience(t *testing.T) {
	body := styledPara("COMPÉTENCES", `<w:b/>`) +
		styledPara("Notions avancées en modélisation", `<w:i/>`)
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)

	style := model.Elements[structure.RoleMissionContext]
	assert.Equal(t, "Notions avancées en modélisation", style.MatchedText)
	assert.True(t, style.Italic)
}

func TestAnalyzeHyphenatedLeadParagraphIsContext(t *testing.T) {
	body := plainPara("Consultant DevOps - Cloud") +
		styledPara("PROFIL", `<w:b/>`)
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)

	// The hyphen places the lead paragraph under the context rule; the
	// title style keeps its default.
	assert.Equal(t, "Consultant DevOps - Cloud", model.Elements[structure.RoleMissionContext].MatchedText)
	assert.Empty(t, model.Elements[structure.RoleTitle].MatchedText)
}

func TestAnalyzeCapsRunCountsAsUppercase(t *testing.T) {
	body := styledPara("formation", `<w:caps/><w:b/>`)
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, model.Sections, 1)
	assert.Equal(t, structure.CaseUpper, model.Sections[0].TitleStyle.TextCase)
}

func TestAnalyzeDuplicateSectionNamesKeptOnce(t *testing.T) {
	body := styledPara("FORMATION", `<w:b/>`) + plainPara("Quelques lignes de contenu ici") +
		styledPara("FORMATION", `<w:b/>`)
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, model.Sections, 1)
	assert.Equal(t, "FORMATION", model.Sections[0].Name)
}

func TestAnalyzeOrDefaultOnUnreadableInput(t *testing.T) {
	model := New(nil).AnalyzeOrDefault(context.Background(), []byte("pas un conteneur"))
	assert.Equal(t, structure.DefaultStructure(), model)
}

func TestPageLayoutFromSectionProperties(t *testing.T) {
	body := plainPara("Consultant data pour test") +
		`<w:sectPr><w:pgSz w:w="15840" w:h="12240" w:orient="landscape"/>` +
		`<w:pgMar w:top="1134" w:right="850" w:bottom="1134" w:left="850"/>` +
		`<w:cols w:num="2"/></w:sectPr>`
	data := buildContainer(t, body, nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, "Letter", model.Layout.PageSize)
	assert.Equal(t, "landscape", model.Layout.Orientation)
	assert.Equal(t, structure.Margins{TopMM: 20, RightMM: 15, BottomMM: 20, LeftMM: 15}, model.Layout.Margins)
	assert.Equal(t, 2, model.Layout.Columns)
	assert.Equal(t, []float64{35, 65}, model.Layout.ColumnWidths)
}

func TestPageLayoutDefaultsWithoutSectPr(t *testing.T) {
	data := buildContainer(t, plainPara("Consultant data pour test"), nil)

	model, err := New(nil).Analyze(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "A4", model.Layout.PageSize)
	assert.Equal(t, "portrait", model.Layout.Orientation)
	assert.Equal(t, 1, model.Layout.Columns)
	assert.Empty(t, model.Layout.ColumnWidths)
}
