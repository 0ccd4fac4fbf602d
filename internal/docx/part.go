package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// ElementKind classifies a top-level element of a markup part.
type ElementKind int

const (
	// KindParagraph is a w:p element.
	KindParagraph ElementKind = iota
	// KindTable is a w:tbl element.
	KindTable
	// KindSectPr is the trailing w:sectPr element of a body.
	KindSectPr
	// KindOther is any other element or interstitial content, kept verbatim.
	KindOther
)

// Element is one top-level child of a part's container element, held as a raw
// XML chunk plus parsed detail when the kind warrants it.
type Element struct {
	Kind ElementKind
	Raw  []byte

	Para  *Paragraph
	Table *TableShape
	Sect  *SectionProperties
}

// TableShape is the geometry of a table element.
type TableShape struct {
	Rows int
	Cols int
}

// SectionProperties is parsed page geometry from a w:sectPr element.
type SectionProperties struct {
	PageWidthTwips  int
	PageHeightTwips int
	Orientation     string
	MarginTopMM     float64
	MarginRightMM   float64
	MarginBottomMM  float64
	MarginLeftMM    float64
	Columns         int
	HasMargins      bool
}

// Part is one parsed markup part of a container (body, header or footer).
// Top-level elements are stored as raw chunks in document order; unmodified
// chunks serialize back byte-for-byte.
type Part struct {
	Name     string
	Elements []Element

	prologue []byte
	epilogue []byte
	modified bool
}

// ParsePart splits a markup part into its top-level elements. The container
// element is w:body for the main document and the root element itself for
// headers and footers.
func ParsePart(name string, data []byte) (*Part, error) {
	root, err := rootElementName(data)
	if err != nil {
		return nil, err
	}
	container := root
	if root == "document" {
		container = "body"
	}

	p := &Part{Name: name}
	d := xml.NewDecoder(bytes.NewReader(data))
	inContainer := false
	cursor := int64(-1)
	for {
		off := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse part %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !inContainer {
				if t.Name.Local == container {
					inContainer = true
					p.prologue = data[:d.InputOffset()]
					cursor = d.InputOffset()
				}
				continue
			}
			if off > cursor {
				p.Elements = append(p.Elements, Element{Kind: KindOther, Raw: data[cursor:off]})
			}
			if err := d.Skip(); err != nil {
				return nil, fmt.Errorf("failed to parse element in %s: %w", name, err)
			}
			end := d.InputOffset()
			elem, err := parseElement(t.Name.Local, data[off:end])
			if err != nil {
				return nil, fmt.Errorf("failed to parse element in %s: %w", name, err)
			}
			p.Elements = append(p.Elements, elem)
			cursor = end
		case xml.EndElement:
			if inContainer && t.Name.Local == container {
				if off > cursor {
					p.Elements = append(p.Elements, Element{Kind: KindOther, Raw: data[cursor:off]})
				}
				p.epilogue = data[off:]
				return p, nil
			}
		}
	}
	if !inContainer {
		return nil, fmt.Errorf("part %s has no %s element", name, container)
	}
	return nil, fmt.Errorf("part %s: unterminated %s element", name, container)
}

func rootElementName(data []byte) (string, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err != nil {
			return "", fmt.Errorf("failed to read part root: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

func parseElement(local string, raw []byte) (Element, error) {
	chunk := append([]byte(nil), raw...)
	switch local {
	case "p":
		para, err := parseParagraph(chunk)
		if err != nil {
			return Element{}, err
		}
		return Element{Kind: KindParagraph, Raw: chunk, Para: para}, nil
	case "tbl":
		var shape tableShape
		if err := xml.Unmarshal(chunk, &shape); err != nil {
			return Element{}, fmt.Errorf("failed to parse table: %w", err)
		}
		t := &TableShape{Rows: len(shape.Rows)}
		if t.Rows > 0 {
			t.Cols = len(shape.Rows[0].Cells)
		}
		return Element{Kind: KindTable, Raw: chunk, Table: t}, nil
	case "sectPr":
		var props sectProps
		if err := xml.Unmarshal(chunk, &props); err != nil {
			return Element{}, fmt.Errorf("failed to parse section properties: %w", err)
		}
		return Element{Kind: KindSectPr, Raw: chunk, Sect: props.toSectionProperties()}, nil
	default:
		return Element{Kind: KindOther, Raw: chunk}, nil
	}
}

func (s *sectProps) toSectionProperties() *SectionProperties {
	out := &SectionProperties{Columns: 1}
	if s.PageSize != nil {
		out.PageWidthTwips = s.PageSize.Width
		out.PageHeightTwips = s.PageSize.Height
		out.Orientation = s.PageSize.Orient
	}
	if s.PageMargins != nil {
		out.HasMargins = true
		out.MarginTopMM = TwipsToMM(s.PageMargins.Top)
		out.MarginRightMM = TwipsToMM(s.PageMargins.Right)
		out.MarginBottomMM = TwipsToMM(s.PageMargins.Bottom)
		out.MarginLeftMM = TwipsToMM(s.PageMargins.Left)
	}
	if s.Columns != nil && s.Columns.Num != "" {
		if n := atoiDefault(s.Columns.Num, 1); n > 0 {
			out.Columns = n
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	if s == "" {
		return def
	}
	return n
}

// Paragraphs returns the part's paragraphs in document order.
func (p *Part) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for i := range p.Elements {
		if p.Elements[i].Kind == KindParagraph {
			out = append(out, p.Elements[i].Para)
		}
	}
	return out
}

// Tables returns the part's table shapes in document order.
func (p *Part) Tables() []TableShape {
	var out []TableShape
	for i := range p.Elements {
		if p.Elements[i].Kind == KindTable {
			out = append(out, *p.Elements[i].Table)
		}
	}
	return out
}

// SectionProperties returns the part's trailing section properties, or nil.
func (p *Part) SectionProperties() *SectionProperties {
	for i := len(p.Elements) - 1; i >= 0; i-- {
		if p.Elements[i].Kind == KindSectPr {
			return p.Elements[i].Sect
		}
	}
	return nil
}

// ReplaceElement swaps the element at index i for a new raw paragraph chunk.
func (p *Part) ReplaceElement(i int, raw []byte) error {
	if i < 0 || i >= len(p.Elements) {
		return fmt.Errorf("element index %d out of range", i)
	}
	elem, err := parseElement(chunkLocalName(raw), raw)
	if err != nil {
		return err
	}
	p.Elements[i] = elem
	p.modified = true
	return nil
}

// Splice replaces the element range [from, to) with the given raw paragraph
// chunks, reparsing each chunk so indices stay consistent.
func (p *Part) Splice(from, to int, chunks [][]byte) error {
	if from < 0 || to < from || to > len(p.Elements) {
		return fmt.Errorf("splice range [%d, %d) out of range", from, to)
	}
	repl := make([]Element, 0, len(chunks))
	for _, raw := range chunks {
		elem, err := parseElement(chunkLocalName(raw), raw)
		if err != nil {
			return err
		}
		repl = append(repl, elem)
	}
	out := make([]Element, 0, len(p.Elements)-(to-from)+len(repl))
	out = append(out, p.Elements[:from]...)
	out = append(out, repl...)
	out = append(out, p.Elements[to:]...)
	p.Elements = out
	p.modified = true
	return nil
}

func chunkLocalName(raw []byte) string {
	name := tagName(raw)
	if i := bytes.IndexByte([]byte(name), ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Modified reports whether any element was replaced or spliced.
func (p *Part) Modified() bool { return p.modified }

// Serialize reassembles the part: prologue, element chunks, epilogue.
func (p *Part) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(p.prologue)
	for i := range p.Elements {
		buf.Write(p.Elements[i].Raw)
	}
	buf.Write(p.epilogue)
	return buf.Bytes()
}
