// Package docx reads and rewrites DOCX containers: zip packages of
// WordprocessingML parts. Parsing keeps every part's raw bytes so a rewrite
// only touches the parts that were actually modified.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// Well-known part names inside a DOCX container.
const (
	DocumentPart = "word/document.xml"
	StylesPart   = "word/styles.xml"
)

// Container is an opened DOCX package. Parts are kept in archive order.
type Container struct {
	partNames []string
	parts     map[string][]byte

	Body    *Part
	headers []*Part
	footers []*Part
}

// Open parses DOCX container bytes. The main document part is required;
// header and footer parts are parsed when present.
func Open(data []byte) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}

	c := &Container{parts: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open part %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", f.Name, err)
		}
		c.partNames = append(c.partNames, f.Name)
		c.parts[f.Name] = content
	}

	docBytes, ok := c.parts[DocumentPart]
	if !ok {
		return nil, fmt.Errorf("container has no %s part", DocumentPart)
	}
	c.Body, err = ParsePart(DocumentPart, docBytes)
	if err != nil {
		return nil, err
	}

	for _, name := range c.sortedPartsWithPrefix("word/header") {
		part, err := ParsePart(name, c.parts[name])
		if err != nil {
			return nil, err
		}
		c.headers = append(c.headers, part)
	}
	for _, name := range c.sortedPartsWithPrefix("word/footer") {
		part, err := ParsePart(name, c.parts[name])
		if err != nil {
			return nil, err
		}
		c.footers = append(c.footers, part)
	}
	return c, nil
}

func (c *Container) sortedPartsWithPrefix(prefix string) []string {
	var names []string
	for _, name := range c.partNames {
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Headers returns the parsed header parts, in part-name order.
func (c *Container) Headers() []*Part { return c.headers }

// Footers returns the parsed footer parts, in part-name order.
func (c *Container) Footers() []*Part { return c.footers }

// PartBytes returns the raw bytes of a named part.
func (c *Container) PartBytes(name string) ([]byte, bool) {
	b, ok := c.parts[name]
	return b, ok
}

// Relationships returns the relationship map (id to resolved part name) for
// the given part, reading its sibling .rels file. A part without
// relationships yields an empty map.
func (c *Container) Relationships(partName string) (map[string]string, error) {
	relsName := path.Join(path.Dir(partName), "_rels", path.Base(partName)+".rels")
	data, ok := c.parts[relsName]
	if !ok {
		return map[string]string{}, nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", relsName, err)
	}
	out := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		target := r.Target
		if !strings.HasPrefix(target, "/") {
			target = path.Join(path.Dir(partName), target)
		} else {
			target = strings.TrimPrefix(target, "/")
		}
		out[r.ID] = path.Clean(target)
	}
	return out, nil
}

// Bytes reassembles the container. Unmodified parts are written back
// byte-for-byte; a modified body, header or footer part is re-serialized
// from its element list.
func (c *Container) Bytes() ([]byte, error) {
	replaced := map[string][]byte{}
	for _, part := range append([]*Part{c.Body}, append(c.headers, c.footers...)...) {
		if part != nil && part.Modified() {
			replaced[part.Name] = part.Serialize()
		}
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, name := range c.partNames {
		content := c.parts[name]
		if b, ok := replaced[name]; ok {
			content = b
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to create part %s: %w", name, err)
		}
		if _, err := w.Write(content); err != nil {
			return nil, fmt.Errorf("failed to write part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize container: %w", err)
	}
	return out.Bytes(), nil
}
