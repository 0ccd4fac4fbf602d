// Package structure defines the template structure model: the schema
// describing a CV template's visual structure, produced by the analyzer and
// consumed by the repopulation engine.
package structure

// Semantic role keys of the element-style map. Every key is always present
// in a model; roles the analyzer never matched keep their default style.
const (
	RoleCommercialContact  = "commercial_contact"
	RoleTrigram            = "trigram"
	RoleTitle              = "title"
	RoleMissionTitle       = "mission_title"
	RoleMissionContext     = "mission_context"
	RoleMissionAchievement = "mission_achievement"
	RoleMissionEnvironment = "mission_environment"
	RoleSkillsLabel        = "skills_label"
	RoleSkillsItem         = "skills_item"
	RoleEducationDegree    = "education_degree"
	RoleEducationInfo      = "education_info"
	RoleBulletStyle        = "bullet_style"
	RoleBodyText           = "body_text"
)

// Roles lists the fixed semantic role keys, in a stable order.
var Roles = []string{
	RoleCommercialContact,
	RoleTrigram,
	RoleTitle,
	RoleMissionTitle,
	RoleMissionContext,
	RoleMissionAchievement,
	RoleMissionEnvironment,
	RoleSkillsLabel,
	RoleSkillsItem,
	RoleEducationDegree,
	RoleEducationInfo,
	RoleBulletStyle,
	RoleBodyText,
}

// SectionTitleRole returns the per-section title role key for a section name.
func SectionTitleRole(sectionName string) string {
	return "section_title_" + sectionName
}

// Text case classifications for a style token.
const (
	CaseUpper = "upper"
	CaseLower = "lower"
	CaseMixed = "mixed"
)

// StyleToken describes one run's visual attributes. It is immutable once
// extracted from a run.
type StyleToken struct {
	Font           string  `json:"font"`
	SizePt         float64 `json:"size_pt"`
	Color          string  `json:"color"`
	Bold           bool    `json:"bold"`
	Italic         bool    `json:"italic"`
	Underline      bool    `json:"underline"`
	UnderlineColor string  `json:"underline_color,omitempty"`
	TextCase       string  `json:"text_case"`
}

// BorderEdge is one edge of a paragraph border set.
type BorderEdge struct {
	Style   string `json:"style"`
	WidthPt int    `json:"width_pt"`
	Color   string `json:"color"`
}

// NumberingRef points at a numbering definition used by a bulleted or
// numbered paragraph.
type NumberingRef struct {
	Level        int `json:"level"`
	DefinitionID int `json:"definition_id"`
}

// ParagraphDescriptor groups paragraph-level layout with the representative
// style of the paragraph's first run.
type ParagraphDescriptor struct {
	Alignment         string                `json:"alignment"`
	IndentLeftMM      float64               `json:"indent_left_mm"`
	FirstLineIndentMM float64               `json:"first_line_indent_mm"`
	SpacingBeforePt   float64               `json:"spacing_before_pt"`
	SpacingAfterPt    float64               `json:"spacing_after_pt"`
	Shading           string                `json:"shading,omitempty"`
	Borders           map[string]BorderEdge `json:"borders,omitempty"`
	Numbering         *NumberingRef         `json:"numbering,omitempty"`
}

// ElementStyle is one entry of the element-style map: the representative
// style token, its paragraph layout, and the literal matched text kept for
// traceability.
type ElementStyle struct {
	StyleToken
	Paragraph   ParagraphDescriptor `json:"paragraph"`
	Position    string              `json:"position,omitempty"`
	MatchedText string              `json:"matched_text,omitempty"`
}

// Section position classifications.
const (
	PositionTopCenter  = "top-center"
	PositionLeftColumn = "left-column"
	PositionBody       = "body"
	PositionHeader     = "header"
)

// SectionDescriptor is one named section of the template, in document order.
// Uniqueness is by name within a template.
type SectionDescriptor struct {
	Name            string              `json:"name"`
	Position        string              `json:"position"`
	TitleStyle      StyleToken          `json:"title_style"`
	SpacingBeforePt float64             `json:"spacing_before_pt"`
	SpacingAfterPt  float64             `json:"spacing_after_pt"`
	Paragraph       ParagraphDescriptor `json:"paragraph"`
}

// LogoReference describes the single template logo, if one was extracted.
type LogoReference struct {
	Position    string  `json:"position"` // "header" or "body"
	WidthMM     float64 `json:"width_mm"`
	HeightMM    float64 `json:"height_mm"`
	Wrap        string  `json:"wrap"` // "inline", "square" or "tight"
	Alignment   string  `json:"alignment,omitempty"`
	StoragePath string  `json:"storage_path"`
}

// TableInfo is the geometry of one detected table.
type TableInfo struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// BulletStyle is the shared bullet appearance of the template.
type BulletStyle struct {
	Char     string     `json:"char"`
	IndentMM float64    `json:"indent_mm"`
	Style    StyleToken `json:"style"`
}

// VisualElements groups the template's non-text visuals.
type VisualElements struct {
	Logo        *LogoReference `json:"logo"`
	Tables      []TableInfo    `json:"tables,omitempty"`
	BorderStyle string         `json:"border_style"`
	Bullet      BulletStyle    `json:"bullet"`
}

// Margins holds page margins in millimetres.
type Margins struct {
	TopMM    float64 `json:"top_mm"`
	RightMM  float64 `json:"right_mm"`
	BottomMM float64 `json:"bottom_mm"`
	LeftMM   float64 `json:"left_mm"`
}

// PageLayout holds page geometry.
type PageLayout struct {
	Margins      Margins   `json:"margins"`
	Orientation  string    `json:"orientation"` // "portrait" or "landscape"
	PageSize     string    `json:"page_size"`   // "A4" or "Letter"
	Columns      int       `json:"columns"`
	ColumnWidths []float64 `json:"column_widths,omitempty"` // percentages
}

// Palette is the template's global color set.
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Text       string `json:"text"`
	Background string `json:"background"`
	Accent     string `json:"accent"`
	Border     string `json:"border"`
}

// FontSet is the template's global fonts.
type FontSet struct {
	TitleFont   string  `json:"title_font"`
	TitleSizePt float64 `json:"title_size_pt"`
	TitleWeight string  `json:"title_weight"`
	BodyFont    string  `json:"body_font"`
	BodySizePt  float64 `json:"body_size_pt"`
	LineHeight  float64 `json:"line_height"`
}

// Spacing holds the template's global spacing constants.
type Spacing struct {
	SectionGapPt   float64 `json:"section_gap_pt"`
	ParagraphGapPt float64 `json:"paragraph_gap_pt"`
	LineHeight     float64 `json:"line_height"`
}

// TemplateStructure is the root aggregate: everything the repopulation
// engine needs to re-render content in the template's visual style. A model
// is built once per analysis run and wholly replaces any prior model.
type TemplateStructure struct {
	Layout    PageLayout              `json:"layout"`
	Colors    Palette                 `json:"colors"`
	Fonts     FontSet                 `json:"fonts"`
	Sections  []SectionDescriptor     `json:"sections"`
	Elements  map[string]ElementStyle `json:"elements"`
	Visual    VisualElements          `json:"visual_elements"`
	Spacing   Spacing                 `json:"spacing"`
	HasHeader bool                    `json:"has_header"`
	HasFooter bool                    `json:"has_footer"`
}

// Section returns the section descriptor with the given name, or nil.
func (t *TemplateStructure) Section(name string) *SectionDescriptor {
	for i := range t.Sections {
		if t.Sections[i].Name == name {
			return &t.Sections[i]
		}
	}
	return nil
}
