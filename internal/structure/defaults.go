package structure

// Documented fallback values. These must stay aligned with the reference
// defaults: they are served whenever analysis fails or a template yields no
// signal for a given field.
const (
	DefaultPrimaryColor = "#2563eb"
	DefaultTitleFont    = "Arial"
	DefaultBodyFont     = "Calibri"
	DefaultBodySizePt   = 11.0
	DefaultTitleSizePt  = 14.0
	DefaultBulletChar   = "•"
	DefaultPageSize     = "A4"
	DefaultSectionName  = "PROFIL"

	defaultTextColor       = "#000000"
	defaultBackgroundColor = "#ffffff"
	defaultSecondaryColor  = "#64748b"
	defaultBorderColor     = "#e2e8f0"
	defaultLineHeight      = 1.15
	defaultBulletIndentMM  = 12.0
)

// DefaultMargins are the fallback page margins in millimetres
// (top/right/bottom/left).
func DefaultMargins() Margins {
	return Margins{TopMM: 20, RightMM: 15, BottomMM: 20, LeftMM: 15}
}

// DefaultStyleToken returns the fallback body run style.
func DefaultStyleToken() StyleToken {
	return StyleToken{
		Font:     DefaultBodyFont,
		SizePt:   DefaultBodySizePt,
		Color:    defaultTextColor,
		TextCase: CaseMixed,
	}
}

// DefaultParagraph returns the fallback paragraph layout.
func DefaultParagraph() ParagraphDescriptor {
	return ParagraphDescriptor{Alignment: "left", SpacingAfterPt: 6}
}

func defaultTitleToken() StyleToken {
	return StyleToken{
		Font:     DefaultTitleFont,
		SizePt:   DefaultTitleSizePt,
		Color:    DefaultPrimaryColor,
		Bold:     true,
		TextCase: CaseUpper,
	}
}

// DefaultElements builds the always-present element-style map. Role-specific
// deviations from the body default mirror the reference fallbacks.
func DefaultElements() map[string]ElementStyle {
	body := ElementStyle{StyleToken: DefaultStyleToken(), Paragraph: DefaultParagraph()}

	bold := body
	bold.Bold = true

	italic := body
	italic.Italic = true

	elements := map[string]ElementStyle{
		RoleCommercialContact:  body,
		RoleTrigram:            {StyleToken: defaultTitleToken(), Paragraph: DefaultParagraph()},
		RoleTitle:              {StyleToken: defaultTitleToken(), Paragraph: DefaultParagraph()},
		RoleMissionTitle:       bold,
		RoleMissionContext:     italic,
		RoleMissionAchievement: body,
		RoleMissionEnvironment: italic,
		RoleSkillsLabel:        bold,
		RoleSkillsItem:         body,
		RoleEducationDegree:    bold,
		RoleEducationInfo:      italic,
		RoleBulletStyle:        body,
		RoleBodyText:           body,
	}
	return elements
}

// DefaultSection returns the synthesized section used when a template
// yields no detectable sections.
func DefaultSection() SectionDescriptor {
	return SectionDescriptor{
		Name:       DefaultSectionName,
		Position:   PositionLeftColumn,
		TitleStyle: defaultTitleToken(),
		Paragraph:  DefaultParagraph(),
	}
}

// DefaultStructure returns the full fallback template structure model. Every
// semantic role key is present; the model is valid on its own and is the
// substitute whenever analysis of a container fails.
func DefaultStructure() *TemplateStructure {
	section := DefaultSection()
	elements := DefaultElements()
	elements[SectionTitleRole(DefaultSectionName)] = ElementStyle{
		StyleToken: section.TitleStyle,
		Paragraph:  section.Paragraph,
	}

	return &TemplateStructure{
		Layout: PageLayout{
			Margins:     DefaultMargins(),
			Orientation: "portrait",
			PageSize:    DefaultPageSize,
			Columns:     1,
		},
		Colors: Palette{
			Primary:    DefaultPrimaryColor,
			Secondary:  defaultSecondaryColor,
			Text:       defaultTextColor,
			Background: defaultBackgroundColor,
			Accent:     DefaultPrimaryColor,
			Border:     defaultBorderColor,
		},
		Fonts: FontSet{
			TitleFont:   DefaultTitleFont,
			TitleSizePt: DefaultTitleSizePt,
			TitleWeight: "bold",
			BodyFont:    DefaultBodyFont,
			BodySizePt:  DefaultBodySizePt,
			LineHeight:  defaultLineHeight,
		},
		Sections: []SectionDescriptor{section},
		Elements: elements,
		Visual: VisualElements{
			BorderStyle: "none",
			Bullet: BulletStyle{
				Char:     DefaultBulletChar,
				IndentMM: defaultBulletIndentMM,
				Style:    DefaultStyleToken(),
			},
		},
		Spacing: Spacing{
			SectionGapPt:   12,
			ParagraphGapPt: 6,
			LineHeight:     defaultLineHeight,
		},
	}
}
