package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Run is one styled unit of text inside a paragraph. Runs are parsed in true
// document order, including runs nested inside hyperlinks. A run backed by a
// w:t element records the index of that element among the paragraph's text
// elements so its content can be rewritten in place.
type Run struct {
	Text     string
	TIndex   int // index among the paragraph's w:t elements, -1 if none
	Drawings []Drawing

	props *runProps
}

// Drawing is an embedded image reference found inside a run.
type Drawing struct {
	WidthMM  float64
	HeightMM float64
	Wrap     string // "inline", "square" or "tight"
	RelID    string
}

// Bold reports whether the run is bold.
func (r *Run) Bold() bool {
	return r.props != nil && r.props.Bold.enabled()
}

// Italic reports whether the run is italic.
func (r *Run) Italic() bool {
	return r.props != nil && r.props.Italic.enabled()
}

// Caps reports whether the run renders its text in capitals regardless of
// the literal character case.
func (r *Run) Caps() bool {
	return r.props != nil && r.props.Caps.enabled()
}

// Underlined reports whether the run carries a non-"none" underline.
func (r *Run) Underlined() bool {
	return r.props != nil && r.props.Underline != nil && r.props.Underline.Val != "none" && r.props.Underline.Val != ""
}

// UnderlineColor returns the underline color as #RRGGBB, or "" when absent.
func (r *Run) UnderlineColor() string {
	if r.props == nil || r.props.Underline == nil {
		return ""
	}
	return normalizeHexColor(r.props.Underline.Color)
}

// Color returns the run color as #RRGGBB, or "" when absent or automatic.
func (r *Run) Color() string {
	if r.props == nil || r.props.Color == nil {
		return ""
	}
	return normalizeHexColor(r.props.Color.Val)
}

// FontName returns the ASCII font of the run, or "" when inherited.
func (r *Run) FontName() string {
	if r.props == nil || r.props.Fonts == nil {
		return ""
	}
	if r.props.Fonts.ASCII != "" {
		return r.props.Fonts.ASCII
	}
	return r.props.Fonts.HAnsi
}

// SizePoints returns the run font size in points, or 0 when inherited.
func (r *Run) SizePoints() float64 {
	if r.props == nil || r.props.Size == nil {
		return 0
	}
	half, err := strconv.Atoi(r.props.Size.Val)
	if err != nil {
		return 0
	}
	return HalfPointsToPoints(half)
}

// Styled reports whether the run carries any explicit run properties.
func (r *Run) Styled() bool {
	return r.props != nil && (r.props.Fonts != nil || r.props.Bold != nil ||
		r.props.Italic != nil || r.props.Underline != nil || r.props.Color != nil || r.props.Size != nil)
}

func normalizeHexColor(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) != 6 || strings.EqualFold(v, "auto") {
		return ""
	}
	for _, c := range v {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return ""
		}
	}
	return "#" + strings.ToLower(v)
}

// Paragraph is a parsed w:p element together with its raw XML chunk. The raw
// bytes are the serialization source of truth: unmodified paragraphs are
// written back byte-for-byte.
type Paragraph struct {
	raw   []byte
	props *paraProps
	runs  []Run
}

// Raw returns the paragraph's raw XML bytes.
func (p *Paragraph) Raw() []byte { return p.raw }

// Runs returns the paragraph's runs in document order.
func (p *Paragraph) Runs() []Run { return p.runs }

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for i := range p.runs {
		sb.WriteString(p.runs[i].Text)
	}
	return sb.String()
}

// FirstStyledRun returns the first run carrying explicit style properties,
// falling back to the first run with text, or nil for an empty paragraph.
func (p *Paragraph) FirstStyledRun() *Run {
	for i := range p.runs {
		if p.runs[i].Styled() && strings.TrimSpace(p.runs[i].Text) != "" {
			return &p.runs[i]
		}
	}
	for i := range p.runs {
		if strings.TrimSpace(p.runs[i].Text) != "" {
			return &p.runs[i]
		}
	}
	return nil
}

// Alignment returns the paragraph justification value ("", "left", "center",
// "right", "both").
func (p *Paragraph) Alignment() string {
	if p.props == nil || p.props.Alignment == nil {
		return ""
	}
	return p.props.Alignment.Val
}

// IndentLeftMM returns the left indent in millimetres.
func (p *Paragraph) IndentLeftMM() float64 {
	if p.props == nil || p.props.Indent == nil {
		return 0
	}
	v := p.props.Indent.Left
	if v == "" {
		v = p.props.Indent.Start
	}
	twips, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return TwipsToMM(twips)
}

// FirstLineIndentMM returns the first-line indent in millimetres.
func (p *Paragraph) FirstLineIndentMM() float64 {
	if p.props == nil || p.props.Indent == nil {
		return 0
	}
	twips, err := strconv.Atoi(p.props.Indent.FirstLine)
	if err != nil {
		return 0
	}
	return TwipsToMM(twips)
}

// SpacingBeforePoints returns the spacing before the paragraph in points.
func (p *Paragraph) SpacingBeforePoints() float64 {
	if p.props == nil || p.props.Spacing == nil {
		return 0
	}
	v, err := strconv.Atoi(p.props.Spacing.Before)
	if err != nil {
		return 0
	}
	return TwentiethsToPoints(v)
}

// SpacingAfterPoints returns the spacing after the paragraph in points.
func (p *Paragraph) SpacingAfterPoints() float64 {
	if p.props == nil || p.props.Spacing == nil {
		return 0
	}
	v, err := strconv.Atoi(p.props.Spacing.After)
	if err != nil {
		return 0
	}
	return TwentiethsToPoints(v)
}

// ShadingColor returns the paragraph shading fill as #RRGGBB, or "".
func (p *Paragraph) ShadingColor() string {
	if p.props == nil || p.props.Shading == nil {
		return ""
	}
	return normalizeHexColor(p.props.Shading.Fill)
}

// BorderEdge describes one edge of a paragraph border.
type BorderEdge struct {
	Style string
	Size  int
	Color string
}

// Borders returns the paragraph border set keyed by edge name
// (top/left/bottom/right), or nil when the paragraph has no borders.
func (p *Paragraph) Borders() map[string]BorderEdge {
	if p.props == nil || p.props.Borders == nil {
		return nil
	}
	edges := map[string]*borderEdgeProp{
		"top":    p.props.Borders.Top,
		"left":   p.props.Borders.Left,
		"bottom": p.props.Borders.Bottom,
		"right":  p.props.Borders.Right,
	}
	out := make(map[string]BorderEdge)
	for name, e := range edges {
		if e == nil {
			continue
		}
		size, _ := strconv.Atoi(e.Size)
		out[name] = BorderEdge{Style: e.Val, Size: size, Color: normalizeHexColor(e.Color)}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Numbering returns the numbering level and definition id, or (-1, -1) when
// the paragraph is not part of a numbered/bulleted list.
func (p *Paragraph) Numbering() (level, numID int) {
	if p.props == nil || p.props.Numbering == nil {
		return -1, -1
	}
	level, numID = -1, -1
	if p.props.Numbering.Level != nil {
		if v, err := strconv.Atoi(p.props.Numbering.Level.Val); err == nil {
			level = v
		}
	}
	if p.props.Numbering.NumID != nil {
		if v, err := strconv.Atoi(p.props.Numbering.NumID.Val); err == nil {
			numID = v
		}
	}
	return level, numID
}

// Drawings returns all embedded drawings across the paragraph's runs.
func (p *Paragraph) Drawings() []Drawing {
	var out []Drawing
	for i := range p.runs {
		out = append(out, p.runs[i].Drawings...)
	}
	return out
}

// parseParagraph decodes a raw w:p chunk into a Paragraph. The walk is
// manual so run order is preserved across hyperlinks and other wrappers;
// property bags are decoded with DecodeElement.
func parseParagraph(raw []byte) (*Paragraph, error) {
	p := &Paragraph{raw: raw}
	d := xml.NewDecoder(bytes.NewReader(raw))

	var current *Run
	tIndex := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse paragraph: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "pPr":
			var props paraProps
			if err := d.DecodeElement(&props, &start); err != nil {
				return nil, fmt.Errorf("failed to parse paragraph properties: %w", err)
			}
			p.props = &props
		case "r":
			p.runs = append(p.runs, Run{TIndex: -1})
			current = &p.runs[len(p.runs)-1]
		case "rPr":
			if current != nil {
				var props runProps
				if err := d.DecodeElement(&props, &start); err != nil {
					return nil, fmt.Errorf("failed to parse run properties: %w", err)
				}
				current.props = &props
			} else if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("failed to skip run properties: %w", err)
			}
		case "t":
			text, err := decodeText(d)
			if err != nil {
				return nil, fmt.Errorf("failed to parse run text: %w", err)
			}
			if current != nil {
				if current.TIndex == -1 {
					current.TIndex = tIndex
					current.Text = text
				} else {
					// A run with several w:t elements keeps the first as its
					// rewrite target and concatenates the rest.
					current.Text += text
				}
			}
			tIndex++
		case "drawing":
			var props drawingProps
			if err := d.DecodeElement(&props, &start); err != nil {
				return nil, fmt.Errorf("failed to parse drawing: %w", err)
			}
			if current != nil {
				if dr, ok := props.toDrawing(); ok {
					current.Drawings = append(current.Drawings, dr)
				}
			}
		}
	}
	return p, nil
}

func (d *drawingProps) toDrawing() (Drawing, bool) {
	obj := d.Inline
	wrap := "inline"
	if obj == nil {
		obj = d.Anchor
		// Wrap mode comes from the anchor's wrap marker; an anchor without
		// a square or tight marker reports as inline.
		switch {
		case obj == nil:
		case obj.WrapTight != nil:
			wrap = "tight"
		case obj.WrapSquare != nil:
			wrap = "square"
		}
	}
	if obj == nil {
		return Drawing{}, false
	}
	out := Drawing{Wrap: wrap}
	if obj.Extent != nil {
		out.WidthMM = EMUToMM(obj.Extent.CX)
		out.HeightMM = EMUToMM(obj.Extent.CY)
	}
	if obj.Blip != nil {
		out.RelID = obj.Blip.Embed
	}
	return out, true
}

func decodeText(d *xml.Decoder) (string, error) {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		}
	}
}

// WithRunText returns a copy of the paragraph's raw XML in which the w:t
// element at the given text index is replaced by a rebuilt element holding
// newText. Offsets come from the XML tokenizer, never from pattern matching,
// so surrounding markup cannot be corrupted.
func (p *Paragraph) WithRunText(tIndex int, newText string) ([]byte, error) {
	raw := p.raw
	d := xml.NewDecoder(bytes.NewReader(raw))
	idx := -1
	var elemStart, elemEnd int64
	for elemEnd == 0 {
		off := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to scan paragraph: %w", err)
		}
		if t, ok := tok.(xml.StartElement); ok && t.Name.Local == "t" {
			idx++
			if idx == tIndex {
				elemStart = off
				if err := d.Skip(); err != nil {
					return nil, fmt.Errorf("failed to scan text element: %w", err)
				}
				elemEnd = d.InputOffset()
			}
		}
	}
	if elemEnd == 0 {
		return nil, fmt.Errorf("text run %d not found in paragraph", tIndex)
	}

	// Keep the original tag name (prefix included) from the raw bytes.
	name := tagName(raw[elemStart:])
	var buf bytes.Buffer
	buf.Write(raw[:elemStart])
	buf.WriteByte('<')
	buf.WriteString(name)
	buf.WriteString(` xml:space="preserve">`)
	if err := xml.EscapeText(&buf, []byte(newText)); err != nil {
		return nil, fmt.Errorf("failed to escape text: %w", err)
	}
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
	buf.Write(raw[elemEnd:])
	return buf.Bytes(), nil
}

// WithFirstTextReplaced returns paragraph XML where the first non-empty text
// run's content is replaced by newText. When the paragraph has no non-empty
// run the first text element is used; a paragraph with no text elements is
// returned unchanged.
func (p *Paragraph) WithFirstTextReplaced(newText string) ([]byte, error) {
	target := -1
	for i := range p.runs {
		if p.runs[i].TIndex >= 0 && strings.TrimSpace(p.runs[i].Text) != "" {
			target = p.runs[i].TIndex
			break
		}
	}
	if target == -1 {
		for i := range p.runs {
			if p.runs[i].TIndex >= 0 {
				target = p.runs[i].TIndex
				break
			}
		}
	}
	if target == -1 {
		return append([]byte(nil), p.raw...), nil
	}
	return p.WithRunText(target, newText)
}

// tagName extracts the element name (with prefix) from raw bytes starting at
// a '<'.
func tagName(raw []byte) string {
	end := 1
	for end < len(raw) {
		c := raw[end]
		if c == ' ' || c == '>' || c == '/' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		end++
	}
	return string(raw[1:end])
}
