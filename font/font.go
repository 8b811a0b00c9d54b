package font

// Font represents a PDF font as seen by the text pipeline
type Font struct {
	Name     string // Resource name (e.g., "F1")
	BaseFont string // Base font name (e.g., "Helvetica")
	Subtype  string // PDF font subtype (e.g., "Type1", "TrueType", "Type3")
	Encoding string

	// Character width information (in 1000ths of em)
	widths map[rune]float64
}

// NewFont creates a new font
func NewFont(name, baseFont, subtype string) *Font {
	f := &Font{
		Name:     name,
		BaseFont: baseFont,
		Subtype:  subtype,
		Encoding: "WinAnsiEncoding", // Default
		widths:   make(map[rune]float64),
	}

	// Load default widths for Standard 14 fonts
	f.loadStandardWidths()

	return f
}

// IsType3 reports whether this is a Type 3 font. Type 3 glyphs are
// arbitrary content streams, so their advance widths cannot be trusted.
func (f *Font) IsType3() bool {
	return f.Subtype == "Type3"
}

// SetWidth overrides the width of a character (in 1000ths of em)
func (f *Font) SetWidth(r rune, width float64) {
	f.widths[r] = width
}

// GetWidth returns the width of a character (in 1000ths of em)
func (f *Font) GetWidth(r rune) float64 {
	if w, ok := f.widths[r]; ok {
		return w
	}

	// Default width if not found
	return 500.0
}

// GetStringWidth calculates the total width of a string
func (f *Font) GetStringWidth(s string) float64 {
	total := 0.0
	for _, r := range s {
		total += f.GetWidth(r)
	}
	return total
}

// SpaceWidth returns the width of the space character (in 1000ths of em)
func (f *Font) SpaceWidth() float64 {
	return f.GetWidth(' ')
}

// IsStandardFont returns true if this is one of the Standard 14 fonts
func (f *Font) IsStandardFont() bool {
	_, ok := standardFonts[f.BaseFont]
	return ok
}

// DecodeString decodes a string of character codes to Unicode.
// Priority order:
// 1. Check for UTF-16 Byte Order Mark (BOM) - FEFF or FFFE
// 2. Otherwise decode each byte as Latin-1; the Encoding field is not consulted
// All decoded strings are normalized to NFC so downstream class ids and
// emitted text are stable across composed/decomposed source forms.
func (f *Font) DecodeString(data []byte) string {
	if len(data) >= 2 {
		if data[0] == 0xFE && data[1] == 0xFF {
			return NormalizeUnicode(DecodeUTF16BE(data[2:]))
		} else if data[0] == 0xFF && data[1] == 0xFE {
			return NormalizeUnicode(DecodeUTF16LE(data[2:]))
		}
	}

	return NormalizeUnicode(DecodeLatin1(data))
}

// loadStandardWidths loads default widths for Standard 14 fonts
func (f *Font) loadStandardWidths() {
	if widths, ok := standardFonts[f.BaseFont]; ok {
		for r, w := range widths {
			f.widths[r] = w
		}
		return
	}

	// For non-standard fonts, use Helvetica widths as a default until
	// the real metrics are set via SetWidth
	for r := rune(32); r <= 126; r++ {
		if w, ok := helveticaWidths[r]; ok {
			f.widths[r] = w
		} else {
			f.widths[r] = 500.0
		}
	}
}
