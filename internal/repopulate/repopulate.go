// Package repopulate rewrites a template container in place: it substitutes
// anonymized CV content into the slots the analyzer identified while leaving
// every untouched part of the container byte-for-byte intact.
package repopulate

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mathieu/cvforge/internal/analyzer"
	"github.com/mathieu/cvforge/internal/docx"
	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/structure"
)

// TrigramPlaceholder replaces the template's trigram slot when the data
// object carries no trigram.
const TrigramPlaceholder = "XXX"

// TitlePlaceholder replaces the professional-title slot when the data object
// carries no title.
const TitlePlaceholder = "Consultant"

// Fatal input errors. A missing model or data object aborts the whole
// operation; no partial document is produced.
var (
	ErrNilModel = errors.New("template structure model is required")
	ErrNilData  = errors.New("extracted data object is required")
)

// Engine performs content repopulation. It is stateless; each call is an
// independent unit of work.
type Engine struct{}

// New creates a repopulation engine.
func New() *Engine {
	return &Engine{}
}

// Repopulate produces new container bytes from the original template
// container, its structure model and an extracted data object. Formatting is
// preserved: list sections are rebuilt by cloning each section's exemplar
// paragraph. A section missing from the document is skipped, never an error.
func (e *Engine) Repopulate(templateBytes []byte, model *structure.TemplateStructure, cv *extraction.ExtractedCV) ([]byte, error) {
	if model == nil {
		return nil, ErrNilModel
	}
	if cv == nil {
		return nil, ErrNilData
	}
	container, err := docx.Open(templateBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template container: %w", err)
	}

	if err := replaceTrigram(container.Body, cv.Header.Trigram); err != nil {
		return nil, err
	}
	if err := replaceTitle(container.Body, cv.Header.Title); err != nil {
		return nil, err
	}

	for _, section := range model.Sections {
		kind, ok := analyzer.MatchSectionKind(section.Name)
		if !ok || kind == analyzer.KindOtherSection {
			continue
		}
		lines := sectionLines(kind, cv)
		if lines == nil {
			continue
		}
		if err := repopulateSection(container.Body, model, section.Name, lines); err != nil {
			return nil, err
		}
	}

	return container.Bytes()
}

// replaceTrigram rewrites the first run whose text is exactly three
// uppercase letters. Only the first match is replaced; a template without a
// trigram slot is left alone.
func replaceTrigram(body *docx.Part, trigram string) error {
	if trigram == "" {
		trigram = TrigramPlaceholder
	}
	return replaceFirstRun(body, trigram, func(text string) bool {
		return analyzer.IsTrigram(text)
	})
}

// replaceTitle rewrites the first run of at least ten characters. Once a
// qualifying run is found no further runs are considered, whether or not
// the rewrite succeeds.
func replaceTitle(body *docx.Part, title string) error {
	if title == "" {
		title = TitlePlaceholder
	}
	return replaceFirstRun(body, title, func(text string) bool {
		return len([]rune(text)) >= 10 && !analyzer.IsTrigram(text)
	})
}

func replaceFirstRun(body *docx.Part, newText string, match func(string) bool) error {
	for i := range body.Elements {
		if body.Elements[i].Kind != docx.KindParagraph {
			continue
		}
		para := body.Elements[i].Para
		for _, run := range para.Runs() {
			if run.TIndex < 0 || !match(strings.TrimSpace(run.Text)) {
				continue
			}
			raw, err := para.WithRunText(run.TIndex, newText)
			if err != nil {
				return fmt.Errorf("failed to rewrite run: %w", err)
			}
			return body.ReplaceElement(i, raw)
		}
	}
	return nil
}

// sectionLines builds the summary line per item for a list section kind. A
// nil result means the data object has no corresponding list.
func sectionLines(kind analyzer.SectionKind, cv *extraction.ExtractedCV) []string {
	switch kind {
	case analyzer.KindSkills:
		lines := []string{}
		for _, group := range cv.Skills {
			lines = append(lines, group.ItemList()...)
		}
		return lines
	case analyzer.KindExperience:
		lines := []string{}
		for _, mission := range cv.Missions {
			lines = append(lines, fmt.Sprintf("%s - %s (%s)", mission.Role, mission.Client, mission.Period()))
		}
		return lines
	case analyzer.KindEducation:
		lines := []string{}
		for _, entry := range cv.Education {
			lines = append(lines, fmt.Sprintf("%s - %s (%s)", entry.Degree, entry.Institution, entry.Year))
		}
		return lines
	default:
		return nil
	}
}

// repopulateSection locates the section title, takes the paragraph after it
// as the exemplar, and replaces the filler region with one clone of the
// exemplar per line. Only each clone's first non-empty text run is modified;
// the exemplar's remaining runs keep their literal text.
func repopulateSection(body *docx.Part, model *structure.TemplateStructure, sectionName string, lines []string) error {
	titleIdx := findSectionTitle(body, sectionName, 0)
	if titleIdx < 0 {
		log.Printf("Section %q not found in template, skipping", sectionName)
		return nil
	}

	exemplarIdx := -1
	for i := titleIdx + 1; i < len(body.Elements); i++ {
		if body.Elements[i].Kind == docx.KindParagraph {
			exemplarIdx = i
			break
		}
		if body.Elements[i].Kind != docx.KindOther {
			break
		}
	}
	if exemplarIdx < 0 {
		log.Printf("Section %q has no content paragraph to clone, skipping", sectionName)
		return nil
	}
	exemplar := body.Elements[exemplarIdx].Para

	end := exemplarIdx
	for end < len(body.Elements) {
		elem := body.Elements[end]
		if elem.Kind != docx.KindParagraph {
			break
		}
		if isSectionTitle(model, elem.Para) {
			break
		}
		end++
	}

	chunks := make([][]byte, 0, len(lines))
	for _, line := range lines {
		raw, err := exemplar.WithFirstTextReplaced(line)
		if err != nil {
			return fmt.Errorf("failed to clone paragraph for section %q: %w", sectionName, err)
		}
		chunks = append(chunks, raw)
	}
	return body.Splice(exemplarIdx, end, chunks)
}

func findSectionTitle(body *docx.Part, sectionName string, from int) int {
	for i := from; i < len(body.Elements); i++ {
		if body.Elements[i].Kind != docx.KindParagraph {
			continue
		}
		text := strings.ToUpper(strings.TrimSpace(body.Elements[i].Para.Text()))
		if text == strings.ToUpper(sectionName) {
			return i
		}
	}
	return -1
}

// isSectionTitle reports whether a paragraph ends the current filler region:
// either it carries a known section keyword or it equals one of the model's
// section names.
func isSectionTitle(model *structure.TemplateStructure, para *docx.Paragraph) bool {
	text := strings.TrimSpace(para.Text())
	if _, ok := analyzer.MatchSectionKind(text); ok {
		return true
	}
	upper := strings.ToUpper(text)
	for i := range model.Sections {
		if upper == strings.ToUpper(model.Sections[i].Name) {
			return true
		}
	}
	return false
}
