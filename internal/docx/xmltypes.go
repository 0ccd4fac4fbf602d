package docx

// XML property bags decoded from WordprocessingML elements. Tags use local
// names only: the decoder matches them regardless of namespace prefix, which
// keeps parsing tolerant of documents produced by different writers.

type valAttr struct {
	Val string `xml:"val,attr"`
}

// toggleProp models OOXML on/off properties (w:b, w:i) where absence of the
// val attribute means "on".
type toggleProp struct {
	Val string `xml:"val,attr"`
}

func (t *toggleProp) enabled() bool {
	if t == nil {
		return false
	}
	switch t.Val {
	case "0", "false", "none", "off":
		return false
	}
	return true
}

type underlineProp struct {
	Val   string `xml:"val,attr"`
	Color string `xml:"color,attr"`
}

type fontsProp struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// runProps is the decoded w:rPr bag.
type runProps struct {
	Fonts     *fontsProp     `xml:"rFonts"`
	Bold      *toggleProp    `xml:"b"`
	Italic    *toggleProp    `xml:"i"`
	Underline *underlineProp `xml:"u"`
	Color     *valAttr       `xml:"color"`
	Size      *valAttr       `xml:"sz"`
	Caps      *toggleProp    `xml:"caps"`
}

type indentProp struct {
	Left      string `xml:"left,attr"`
	Start     string `xml:"start,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

type spacingProp struct {
	Before string `xml:"before,attr"`
	After  string `xml:"after,attr"`
	Line   string `xml:"line,attr"`
}

type shadingProp struct {
	Fill string `xml:"fill,attr"`
}

type borderEdgeProp struct {
	Val   string `xml:"val,attr"`
	Size  string `xml:"sz,attr"`
	Color string `xml:"color,attr"`
}

type bordersProp struct {
	Top    *borderEdgeProp `xml:"top"`
	Left   *borderEdgeProp `xml:"left"`
	Bottom *borderEdgeProp `xml:"bottom"`
	Right  *borderEdgeProp `xml:"right"`
}

type numRefProp struct {
	Level *valAttr `xml:"ilvl"`
	NumID *valAttr `xml:"numId"`
}

// paraProps is the decoded w:pPr bag.
type paraProps struct {
	Style     *valAttr     `xml:"pStyle"`
	Alignment *valAttr     `xml:"jc"`
	Indent    *indentProp  `xml:"ind"`
	Spacing   *spacingProp `xml:"spacing"`
	Shading   *shadingProp `xml:"shd"`
	Borders   *bordersProp `xml:"pBdr"`
	Numbering *numRefProp  `xml:"numPr"`
}

// drawingProps is the decoded w:drawing bag. Inline and anchored drawings
// share the same inner shape; anchored ones additionally carry a wrap marker.
type drawingProps struct {
	Inline *drawingObject `xml:"inline"`
	Anchor *drawingObject `xml:"anchor"`
}

type drawingObject struct {
	Extent     *extentProp `xml:"extent"`
	WrapSquare *struct{}   `xml:"wrapSquare"`
	WrapTight  *struct{}   `xml:"wrapTight"`
	Blip       *blipProp   `xml:"graphic>graphicData>pic>blipFill>blip"`
}

type extentProp struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type blipProp struct {
	Embed string `xml:"embed,attr"`
}

// sectProps is the decoded w:sectPr bag carried by the body's trailing
// section-properties element.
type sectProps struct {
	PageSize    *pageSizeProp   `xml:"pgSz"`
	PageMargins *pageMarginProp `xml:"pgMar"`
	Columns     *columnsProp    `xml:"cols"`
	HeaderRef   []headerRefProp `xml:"headerReference"`
	FooterRef   []headerRefProp `xml:"footerReference"`
}

type pageSizeProp struct {
	Width  int    `xml:"w,attr"`
	Height int    `xml:"h,attr"`
	Orient string `xml:"orient,attr"`
}

type pageMarginProp struct {
	Top    int `xml:"top,attr"`
	Right  int `xml:"right,attr"`
	Bottom int `xml:"bottom,attr"`
	Left   int `xml:"left,attr"`
}

type columnsProp struct {
	Num string `xml:"num,attr"`
}

type headerRefProp struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// tableShape captures just enough of a w:tbl to report its geometry.
type tableShape struct {
	Rows []tableRowShape `xml:"tr"`
}

type tableRowShape struct {
	Cells []struct{} `xml:"tc"`
}

// relationshipsXML is the decoded .rels part.
type relationshipsXML struct {
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
