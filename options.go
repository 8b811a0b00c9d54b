package weft

import (
	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/renderer"
)

// Title sets the document title.
func (c *Converter) Title(title string) *Converter {
	c.title = title
	return c
}

// Fallback disables color tracking; colors never affect line breaks or
// emitted classes.
func (c *Converter) Fallback() *Converter {
	c.opts.Fallback = true
	return c
}

// WithOptions replaces the classifier options wholesale.
func (c *Converter) WithOptions(opts renderer.Options) *Converter {
	c.opts = opts
	return c
}

// Font registers a font under its content stream resource name.
func (c *Converter) Font(name string, f *font.Font) *Converter {
	c.fonts[name] = f
	return c
}

// AddPage appends a page to the conversion.
func (c *Converter) AddPage(p Page) *Converter {
	c.pages = append(c.pages, p)
	return c
}
