package font

import (
	"testing"
)

// TestNewFont tests font creation
func TestNewFont(t *testing.T) {
	font := NewFont("F1", "Helvetica", "Type1")

	if font.Name != "F1" {
		t.Errorf("expected name F1, got %s", font.Name)
	}

	if font.BaseFont != "Helvetica" {
		t.Errorf("expected base font Helvetica, got %s", font.BaseFont)
	}

	if font.Subtype != "Type1" {
		t.Errorf("expected subtype Type1, got %s", font.Subtype)
	}
}

// TestGetWidth tests character width retrieval
func TestGetWidth(t *testing.T) {
	font := NewFont("F1", "Helvetica", "Type1")

	width := font.GetWidth('A')
	if width != 667 {
		t.Errorf("expected width 667 for 'A', got %f", width)
	}

	width = font.GetWidth(' ')
	if width != 278 {
		t.Errorf("expected width 278 for space, got %f", width)
	}
}

// TestSpaceWidth tests the space advance used for offset substitution
func TestSpaceWidth(t *testing.T) {
	font := NewFont("F1", "Times-Roman", "Type1")

	if font.SpaceWidth() != 250 {
		t.Errorf("expected space width 250, got %f", font.SpaceWidth())
	}
}

// TestSetWidth tests width overrides for embedded fonts
func TestSetWidth(t *testing.T) {
	font := NewFont("F1", "CustomFont", "TrueType")

	font.SetWidth('A', 123)
	if font.GetWidth('A') != 123 {
		t.Errorf("expected overridden width 123, got %f", font.GetWidth('A'))
	}
}

// TestGetStringWidth tests string width calculation
func TestGetStringWidth(t *testing.T) {
	font := NewFont("F1", "Helvetica", "Type1")

	width := font.GetStringWidth("Hi")

	// H=722, i=222
	expected := 722.0 + 222.0
	if width != expected {
		t.Errorf("expected width %f for 'Hi', got %f", expected, width)
	}
}

// TestIsType3 tests Type 3 detection
func TestIsType3(t *testing.T) {
	tests := []struct {
		subtype string
		want    bool
	}{
		{"Type1", false},
		{"TrueType", false},
		{"Type0", false},
		{"Type3", true},
	}

	for _, tt := range tests {
		t.Run(tt.subtype, func(t *testing.T) {
			font := NewFont("F1", "Whatever", tt.subtype)
			if font.IsType3() != tt.want {
				t.Errorf("IsType3() = %v, want %v", font.IsType3(), tt.want)
			}
		})
	}
}

// TestStandardFonts tests Standard 14 font detection
func TestStandardFonts(t *testing.T) {
	tests := []struct {
		baseFont   string
		isStandard bool
	}{
		{"Helvetica", true},
		{"Helvetica-Bold", true},
		{"Times-Roman", true},
		{"Courier", true},
		{"Arial", false},
		{"CustomFont", false},
	}

	for _, tt := range tests {
		t.Run(tt.baseFont, func(t *testing.T) {
			font := NewFont("F1", tt.baseFont, "Type1")

			if font.IsStandardFont() != tt.isStandard {
				t.Errorf("expected IsStandardFont() to be %v for %s",
					tt.isStandard, tt.baseFont)
			}
		})
	}
}

// TestCourierMonospaced tests Courier monospaced widths
func TestCourierMonospaced(t *testing.T) {
	font := NewFont("F1", "Courier", "Type1")

	width := font.GetWidth('A')
	expectedWidth := 600.0

	if width != expectedWidth {
		t.Errorf("expected width %f, got %f", expectedWidth, width)
	}

	widthI := font.GetWidth('i')
	if widthI != expectedWidth {
		t.Errorf("expected width %f for 'i', got %f", expectedWidth, widthI)
	}
}

// TestDecodeStringLatin1 tests the single-byte fallback decoding
func TestDecodeStringLatin1(t *testing.T) {
	font := NewFont("F1", "Helvetica", "Type1")

	got := font.DecodeString([]byte("Hello"))
	if got != "Hello" {
		t.Errorf("expected 'Hello', got %q", got)
	}

	// 0xE9 is é in Latin-1
	got = font.DecodeString([]byte{0xE9})
	if got != "é" {
		t.Errorf("expected 'é', got %q", got)
	}
}

// TestDecodeStringUTF16 tests BOM-prefixed UTF-16 decoding
func TestDecodeStringUTF16(t *testing.T) {
	font := NewFont("F1", "Helvetica", "Type1")

	// UTF-16BE with BOM: "Hi"
	got := font.DecodeString([]byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'})
	if got != "Hi" {
		t.Errorf("expected 'Hi' from UTF-16BE, got %q", got)
	}

	// UTF-16LE with BOM: "Hi"
	got = font.DecodeString([]byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00})
	if got != "Hi" {
		t.Errorf("expected 'Hi' from UTF-16LE, got %q", got)
	}
}

// TestNormalizeUnicode tests NFC normalization of decoded text
func TestNormalizeUnicode(t *testing.T) {
	// e + combining acute accent should compose to é
	input := "é"
	got := NormalizeUnicode(input)
	if got != "é" {
		t.Errorf("NormalizeUnicode(%q) = %q, want %q", input, got, "é")
	}

	// Already-composed text passes through
	if NormalizeUnicode("é") != "é" {
		t.Error("expected composed text to pass through unchanged")
	}
}

// ============================================================================
// Installer Tests
// ============================================================================

func TestInstallerStableIDs(t *testing.T) {
	in := NewInstaller()

	f1 := NewFont("F1", "Helvetica", "Type1")
	f2 := NewFont("F2", "Times-Roman", "Type1")

	ref1 := in.Install(f1)
	ref2 := in.Install(f2)

	if ref1.ID == ref2.ID {
		t.Error("expected distinct ids for distinct fonts")
	}

	// Re-installing yields the same id
	if got := in.Install(f1); got != ref1 {
		t.Errorf("expected stable ref %+v, got %+v", ref1, got)
	}

	if in.Installed() != 2 {
		t.Errorf("expected 2 installed fonts, got %d", in.Installed())
	}
}

func TestInstallerNilFont(t *testing.T) {
	in := NewInstaller()

	ref := in.Install(nil)
	if ref != NullRef {
		t.Errorf("expected NullRef for nil font, got %+v", ref)
	}

	if ref.IsType3 {
		t.Error("null ref must not be type 3")
	}

	// The null ref id never collides with a real font
	f := NewFont("F1", "Helvetica", "Type1")
	if got := in.Install(f); got.ID == NullRef.ID {
		t.Error("real font must not share the null ref id")
	}
}

func TestInstallerType3Flag(t *testing.T) {
	in := NewInstaller()

	f := NewFont("F1", "Glyphs", "Type3")
	ref := in.Install(f)

	if !ref.IsType3 {
		t.Error("expected IsType3 to be set for a Type3 font")
	}
}
