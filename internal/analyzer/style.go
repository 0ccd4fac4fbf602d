package analyzer

import (
	"strings"
	"unicode"

	"github.com/mathieu/cvforge/internal/docx"
	"github.com/mathieu/cvforge/internal/structure"
)

// classifyCase reports whether text is upper, lower or mixed case. Text with
// no letters at all counts as mixed.
func classifyCase(text string) string {
	hasUpper, hasLower := false, false
	for _, r := range text {
		if unicode.IsUpper(r) {
			hasUpper = true
		} else if unicode.IsLower(r) {
			hasLower = true
		}
	}
	switch {
	case hasUpper && !hasLower:
		return structure.CaseUpper
	case hasLower && !hasUpper:
		return structure.CaseLower
	default:
		return structure.CaseMixed
	}
}

// styleToken builds a style token from a run, filling unset attributes from
// the documented defaults so tokens are always complete.
func styleToken(run *docx.Run, text string) structure.StyleToken {
	token := structure.DefaultStyleToken()
	token.TextCase = classifyCase(text)
	if run == nil {
		return token
	}
	if f := run.FontName(); f != "" {
		token.Font = f
	}
	if s := run.SizePoints(); s > 0 {
		token.SizePt = s
	}
	if c := run.Color(); c != "" {
		token.Color = c
	}
	if run.Caps() {
		// w:caps renders the text uppercase whatever its literal case.
		token.TextCase = structure.CaseUpper
	}
	token.Bold = run.Bold()
	token.Italic = run.Italic()
	token.Underline = run.Underlined()
	token.UnderlineColor = run.UnderlineColor()
	return token
}

// normalizeAlignment maps OOXML justification values onto the model's
// alignment vocabulary.
func normalizeAlignment(v string) string {
	switch v {
	case "center":
		return "center"
	case "right", "end":
		return "right"
	case "both", "distribute":
		return "justify"
	default:
		return "left"
	}
}

// paragraphDescriptor builds the layout descriptor for a paragraph.
func paragraphDescriptor(p *docx.Paragraph) structure.ParagraphDescriptor {
	desc := structure.ParagraphDescriptor{
		Alignment:         normalizeAlignment(p.Alignment()),
		IndentLeftMM:      p.IndentLeftMM(),
		FirstLineIndentMM: p.FirstLineIndentMM(),
		SpacingBeforePt:   p.SpacingBeforePoints(),
		SpacingAfterPt:    p.SpacingAfterPoints(),
		Shading:           p.ShadingColor(),
	}
	if borders := p.Borders(); borders != nil {
		desc.Borders = make(map[string]structure.BorderEdge, len(borders))
		for edge, b := range borders {
			// Border widths are in eighths of a point.
			desc.Borders[edge] = structure.BorderEdge{Style: b.Style, WidthPt: b.Size / 8, Color: b.Color}
		}
	}
	if level, numID := p.Numbering(); numID >= 0 {
		if level < 0 {
			level = 0
		}
		desc.Numbering = &structure.NumberingRef{Level: level, DefinitionID: numID}
	}
	return desc
}

// bulletLeaders are characters that mark a manually bulleted line.
const bulletLeaders = "•◦▪‣-–—*"

// leadingBullet returns the bullet character opening the text, or "".
func leadingBullet(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	r := []rune(trimmed)[0]
	if strings.ContainsRune(bulletLeaders, r) {
		return string(r)
	}
	return ""
}

// isNeutralColor reports whether a hex color is black, white or empty.
// Neutral colors are excluded from palette tracking.
func isNeutralColor(hex string) bool {
	switch strings.ToUpper(hex) {
	case "", "#000000", "#FFFFFF":
		return true
	}
	return false
}
