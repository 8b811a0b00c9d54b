// Package weft converts PDF page content into positioned HTML.
//
// Basic usage:
//
//	html, err := weft.New().
//	    Title("report.pdf").
//	    Font("F1", font.NewFont("F1", "Helvetica", "Type1")).
//	    AddPage(weft.Page{Content: streamData}).
//	    Convert()
//
// The converter parses each page's content stream, tracks the graphics
// state, and classifies every glyph batch into the minimum sequence of
// blocks, inline spans, and horizontal offsets that reproduces the
// layout. Styles are emitted as CSS classes collected into the document
// stylesheet.
//
// For advanced use the lower-level packages are also available:
// contentstream (parsing), graphicsstate (state tracking and
// interpretation), renderer (the classifier and line buffer), and
// htmldoc (the document writer).
package weft

import (
	"bytes"
	"fmt"

	"github.com/tsawler/weft/contentstream"
	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/graphicsstate"
	"github.com/tsawler/weft/htmldoc"
	"github.com/tsawler/weft/model"
	"github.com/tsawler/weft/renderer"
)

// Page is one page of input: its content stream, an optional stream
// filter to undo first, and its media box in PDF points.
type Page struct {
	Content  []byte
	Filter   string
	MediaBox model.BBox
}

// Converter accumulates configuration and pages, then converts them to
// a single HTML document.
type Converter struct {
	opts  renderer.Options
	fonts map[string]*font.Font
	pages []Page
	title string
}

// New creates a converter with default options.
func New() *Converter {
	return &Converter{
		opts:  renderer.DefaultOptions(),
		fonts: make(map[string]*font.Font),
	}
}

// Convert renders all added pages and returns the HTML document.
func (c *Converter) Convert() (string, error) {
	if len(c.pages) == 0 {
		return "", fmt.Errorf("no pages to convert")
	}

	registry := renderer.NewRegistry(c.opts.EpsScalar)

	// The renderer lives for the whole document so font and class ids
	// stay consistent across pages; only its state resets per page.
	var pageBuf bytes.Buffer
	r := renderer.NewRenderer(&pageBuf, c.opts, registry)
	resolver := fontTable(c.fonts)

	rendered := make([][]byte, 0, len(c.pages))
	for i, p := range c.pages {
		data, err := contentstream.Decode(p.Content, p.Filter)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}

		ops, err := contentstream.NewParser(data).Parse()
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}

		r.ResetState()
		in := graphicsstate.NewInterpreter(r, r, resolver)
		if err := in.Run(ops); err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}
		if err := r.CloseTextLine(); err != nil {
			return "", fmt.Errorf("page %d: %w", i+1, err)
		}

		rendered = append(rendered, append([]byte(nil), pageBuf.Bytes()...))
		pageBuf.Reset()
	}

	var out bytes.Buffer
	d := htmldoc.NewWriter(&out)
	if err := d.BeginDocument(c.title, registry.StylesheetTo); err != nil {
		return "", err
	}
	for i, content := range rendered {
		box := c.pages[i].MediaBox
		if !box.IsValid() {
			box = model.NewBBox(0, 0, 612, 792) // US Letter
		}
		if err := d.BeginPage(i+1, box.Width, box.Height); err != nil {
			return "", err
		}
		if err := d.WriteRendered(content); err != nil {
			return "", err
		}
		if err := d.EndPage(); err != nil {
			return "", err
		}
	}
	if err := d.EndDocument(); err != nil {
		return "", err
	}

	return out.String(), nil
}

// ConvertPage converts a single uncompressed content stream with the
// given fonts, using default options.
func ConvertPage(content []byte, fonts map[string]*font.Font) (string, error) {
	c := New()
	for name, f := range fonts {
		c.Font(name, f)
	}
	return c.AddPage(Page{Content: content}).Convert()
}

// fontTable adapts a font map to the interpreter's resolver interface
type fontTable map[string]*font.Font

func (t fontTable) Font(name string) *font.Font { return t[name] }
