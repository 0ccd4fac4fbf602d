package assets

import (
	"context"
	"log"
	"path"

	"github.com/mathieu/cvforge/internal/docx"
	"github.com/mathieu/cvforge/internal/structure"
)

// Image is one embedded raster image discovered in a container, after its
// bytes were written to the asset store.
type Image struct {
	Origin     string // "header" or "body"
	WidthMM    float64
	HeightMM   float64
	Wrap       string
	Alignment  string
	StorageKey string
}

// Extractor locates embedded images and persists them through a Store.
type Extractor struct {
	store Store
}

// NewExtractor creates an extractor writing to the given store.
func NewExtractor(store Store) *Extractor {
	return &Extractor{store: store}
}

// Extract walks header parts first, then the body, resolving each drawing's
// relationship to an embedded file and storing its bytes. An I/O failure for
// one image skips that image only. Finding no image is a valid outcome.
func (e *Extractor) Extract(ctx context.Context, c *docx.Container) []Image {
	var images []Image
	for _, part := range c.Headers() {
		images = append(images, e.extractPart(ctx, c, part, "header")...)
	}
	images = append(images, e.extractPart(ctx, c, c.Body, "body")...)
	return images
}

func (e *Extractor) extractPart(ctx context.Context, c *docx.Container, part *docx.Part, origin string) []Image {
	rels, err := c.Relationships(part.Name)
	if err != nil {
		log.Printf("Skipping image extraction for %s: %v", part.Name, err)
		return nil
	}

	var images []Image
	for _, para := range part.Paragraphs() {
		alignment := para.Alignment()
		for _, drawing := range para.Drawings() {
			target, ok := rels[drawing.RelID]
			if !ok {
				continue
			}
			data, ok := c.PartBytes(target)
			if !ok {
				continue
			}
			key, err := e.store.Put(ctx, data, path.Ext(target))
			if err != nil {
				log.Printf("Failed to store image %s: %v", target, err)
				continue
			}
			images = append(images, Image{
				Origin:     origin,
				WidthMM:    drawing.WidthMM,
				HeightMM:   drawing.HeightMM,
				Wrap:       drawing.Wrap,
				Alignment:  alignment,
				StorageKey: key,
			})
		}
	}
	return images
}

// Logo returns the logo reference for an extraction result: the first stored
// image wins. Nil when no image was stored.
func Logo(images []Image) *structure.LogoReference {
	if len(images) == 0 {
		return nil
	}
	first := images[0]
	return &structure.LogoReference{
		Position:    first.Origin,
		WidthMM:     first.WidthMM,
		HeightMM:    first.HeightMM,
		Wrap:        first.Wrap,
		Alignment:   first.Alignment,
		StoragePath: first.StorageKey,
	}
}
