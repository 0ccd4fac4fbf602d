// Package analyzer builds a template structure model from a DOCX container:
// it walks header and body paragraphs, classifies them into semantic roles
// with an ordered first-match-wins rule cascade, and collects page geometry,
// colors, fonts and embedded visuals.
package analyzer

import (
	"context"
	"log"
	"strings"

	"github.com/mathieu/cvforge/internal/assets"
	"github.com/mathieu/cvforge/internal/docx"
	"github.com/mathieu/cvforge/internal/structure"
)

// Letter pages are 12240 twips wide; A4 pages 11906. Anything at or above
// the midpoint classifies as Letter.
const letterWidthThresholdTwips = 12100

// Analyzer turns container bytes into a template structure model.
type Analyzer struct {
	assets *assets.Extractor
}

// New creates an analyzer. The asset extractor may be nil, in which case no
// logo is extracted.
func New(assetExtractor *assets.Extractor) *Analyzer {
	return &Analyzer{assets: assetExtractor}
}

// walk is the mutable state of one analysis pass over a document.
type walk struct {
	state              sectionState
	pendingEnvironment bool
	titleSeen          bool

	sections     []structure.SectionDescriptor
	sectionNames map[string]bool
	elements     map[string]structure.ElementStyle

	primaryColor string
	colorFreq    map[string]int

	titleFont   string
	titleSizePt float64
	bodyFont    string
	bodySizePt  float64

	bullet *structure.BulletStyle
}

func newWalk() *walk {
	return &walk{
		sectionNames: make(map[string]bool),
		elements:     structure.DefaultElements(),
		colorFreq:    make(map[string]int),
	}
}

// setElement records the paragraph's style under a semantic role, keeping
// the literal matched text for traceability.
func (w *walk) setElement(role string, pc *paragraphContext, position string) {
	w.elements[role] = structure.ElementStyle{
		StyleToken:  pc.Token,
		Paragraph:   pc.Desc,
		Position:    position,
		MatchedText: pc.Text,
	}
}

// enterSection records a new section descriptor and moves the state machine.
// Section names are unique within a template; a repeated name only refreshes
// the classification state.
func (w *walk) enterSection(kind SectionKind, pc *paragraphContext) {
	switch kind {
	case KindSkills:
		w.state = stateSkills
	case KindExperience:
		w.state = stateExperience
	case KindEducation:
		w.state = stateEducation
	default:
		w.state = stateNone
	}

	name := strings.ToUpper(strings.TrimSpace(pc.Text))
	if w.sectionNames[name] {
		return
	}
	w.sectionNames[name] = true

	position := structure.PositionLeftColumn
	if pc.Desc.Alignment == "center" {
		position = structure.PositionTopCenter
	}
	w.sections = append(w.sections, structure.SectionDescriptor{
		Name:            name,
		Position:        position,
		TitleStyle:      pc.Token,
		SpacingBeforePt: pc.Desc.SpacingBeforePt,
		SpacingAfterPt:  pc.Desc.SpacingAfterPt,
		Paragraph:       pc.Desc,
	})
	w.setElement(structure.SectionTitleRole(name), pc, position)

	// Rolling section-title font/size trackers.
	w.titleFont = pc.Token.Font
	w.titleSizePt = pc.Token.SizePt
}

// captureTitle records the professional-title style from the first long
// paragraph the rule cascade left unclassified, before any section begins.
// It runs outside the cascade so the rule order stays undisturbed.
func (w *walk) captureTitle(pc *paragraphContext) {
	if w.titleSeen || w.state != stateNone || len(w.sections) > 0 {
		return
	}
	if len([]rune(pc.Text)) < 10 {
		return
	}
	w.titleSeen = true
	w.setElement(structure.RoleTitle, pc, "")
}

func (w *walk) setBullet(char string, pc *paragraphContext) {
	w.bullet = &structure.BulletStyle{
		Char:     char,
		IndentMM: 12,
		Style:    pc.Token,
	}
}

// trackColor registers a non-black, non-white color. The first one seen
// becomes the palette's primary color.
func (w *walk) trackColor(hex string) {
	if isNeutralColor(hex) {
		return
	}
	if w.primaryColor == "" {
		w.primaryColor = hex
	}
	w.colorFreq[hex]++
}

// Analyze parses container bytes and produces the structure model. Any parse
// failure is returned as an error; callers that must never fail use
// AnalyzeOrDefault.
func (a *Analyzer) Analyze(ctx context.Context, data []byte) (*structure.TemplateStructure, error) {
	container, err := docx.Open(data)
	if err != nil {
		return nil, err
	}

	w := newWalk()

	// Header shortcut: the first styled header paragraph is the commercial
	// contact; no further header scanning happens.
	for _, header := range container.Headers() {
		if pc, ok := headerContact(header); ok {
			w.setElement(structure.RoleCommercialContact, pc, structure.PositionHeader)
			w.trackColor(pc.Token.Color)
			break
		}
	}

	for _, para := range container.Body.Paragraphs() {
		text := strings.TrimSpace(para.Text())
		if len([]rune(text)) <= 1 {
			continue
		}
		run := para.FirstStyledRun()
		pc := &paragraphContext{
			Para:  para,
			Text:  text,
			Run:   run,
			Token: styleToken(run, text),
			Desc:  paragraphDescriptor(para),
		}

		if w.pendingEnvironment {
			w.pendingEnvironment = false
			w.setElement(structure.RoleMissionEnvironment, pc, "")
		}

		w.trackColor(pc.Token.Color)
		w.trackColor(pc.Desc.Shading)
		if w.bodyFont == "" && run != nil && run.FontName() != "" {
			w.bodyFont = run.FontName()
			w.bodySizePt = pc.Token.SizePt
		}

		matched := false
		for i := range classificationRules {
			if classificationRules[i].Matches(w, pc) {
				classificationRules[i].Apply(w, pc)
				matched = true
				break
			}
		}
		if !matched {
			w.captureTitle(pc)
		}
	}

	if len(w.sections) == 0 {
		section := structure.DefaultSection()
		w.sections = append(w.sections, section)
		w.elements[structure.SectionTitleRole(section.Name)] = structure.ElementStyle{
			StyleToken: section.TitleStyle,
			Paragraph:  section.Paragraph,
		}
	}

	var logo *structure.LogoReference
	if a.assets != nil {
		logo = assets.Logo(a.assets.Extract(ctx, container))
	}

	return a.assemble(container, w, logo), nil
}

// AnalyzeOrDefault analyzes the container, substituting the full default
// model when parsing fails. Analysis failure is logged, never surfaced.
func (a *Analyzer) AnalyzeOrDefault(ctx context.Context, data []byte) *structure.TemplateStructure {
	model, err := a.Analyze(ctx, data)
	if err != nil {
		log.Printf("Template analysis failed, using default structure: %v", err)
		return structure.DefaultStructure()
	}
	return model
}

func headerContact(header *docx.Part) (*paragraphContext, bool) {
	for _, para := range header.Paragraphs() {
		text := strings.TrimSpace(para.Text())
		if text == "" {
			continue
		}
		for i := range para.Runs() {
			run := &para.Runs()[i]
			if run.Styled() {
				return &paragraphContext{
					Para:  para,
					Text:  text,
					Run:   run,
					Token: styleToken(run, text),
					Desc:  paragraphDescriptor(para),
				}, true
			}
		}
	}
	return nil, false
}

func (a *Analyzer) assemble(container *docx.Container, w *walk, logo *structure.LogoReference) *structure.TemplateStructure {
	model := structure.DefaultStructure()
	model.Sections = w.sections
	model.Elements = w.elements
	model.HasHeader = len(container.Headers()) > 0
	model.HasFooter = len(container.Footers()) > 0
	model.Layout = pageLayout(container.Body.SectionProperties())

	if w.primaryColor != "" {
		model.Colors.Primary = w.primaryColor
		model.Colors.Accent = w.primaryColor
	}
	if w.titleFont != "" {
		model.Fonts.TitleFont = w.titleFont
	}
	if w.titleSizePt > 0 {
		model.Fonts.TitleSizePt = w.titleSizePt
	}
	if w.bodyFont != "" {
		model.Fonts.BodyFont = w.bodyFont
	}
	if w.bodySizePt > 0 {
		model.Fonts.BodySizePt = w.bodySizePt
	}
	if w.bullet != nil {
		model.Visual.Bullet = *w.bullet
	}

	model.Visual.Logo = logo
	for _, table := range container.Body.Tables() {
		model.Visual.Tables = append(model.Visual.Tables, structure.TableInfo{Rows: table.Rows, Cols: table.Cols})
	}
	return model
}

// pageLayout derives page geometry from the body's trailing section
// properties, falling back to defaults when absent.
func pageLayout(sect *docx.SectionProperties) structure.PageLayout {
	layout := structure.PageLayout{
		Margins:     structure.DefaultMargins(),
		Orientation: "portrait",
		PageSize:    structure.DefaultPageSize,
		Columns:     1,
	}
	if sect == nil {
		return layout
	}
	if sect.HasMargins {
		layout.Margins = structure.Margins{
			TopMM:    sect.MarginTopMM,
			RightMM:  sect.MarginRightMM,
			BottomMM: sect.MarginBottomMM,
			LeftMM:   sect.MarginLeftMM,
		}
	}
	if sect.Orientation == "landscape" || sect.PageWidthTwips > sect.PageHeightTwips {
		layout.Orientation = "landscape"
	}
	if sect.PageWidthTwips >= letterWidthThresholdTwips {
		layout.PageSize = "Letter"
	}
	if sect.Columns > 0 {
		layout.Columns = sect.Columns
	}
	if layout.Columns == 2 {
		layout.ColumnWidths = []float64{35, 65}
	}
	return layout
}
