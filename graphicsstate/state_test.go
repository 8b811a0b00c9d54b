package graphicsstate

import (
	"math"
	"testing"

	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// TestNewGfxState tests initial state
func TestNewGfxState(t *testing.T) {
	gs := NewGfxState()

	if gs.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", gs.LineWidth)
	}

	if gs.Text.HorizScaling != 1.0 {
		t.Errorf("expected horizontal scaling 1.0, got %f", gs.Text.HorizScaling)
	}

	if !gs.CTM.IsIdentity() {
		t.Error("expected CTM to be identity matrix")
	}

	if !gs.FillColor.Equal(model.RGB(0, 0, 0), 1e-9) {
		t.Errorf("expected black fill color, got %+v", gs.FillColor)
	}
}

// TestSaveRestore tests q/Q operators
func TestSaveRestore(t *testing.T) {
	gs := NewGfxState()

	f1 := font.NewFont("F1", "Helvetica", "Type1")
	gs.SetFont(f1, 14)
	gs.LineWidth = 2.5

	gs.Save()

	f2 := font.NewFont("F2", "Times-Roman", "Type1")
	gs.SetFont(f2, 18)
	gs.LineWidth = 5.0

	if gs.LineWidth != 5.0 {
		t.Errorf("expected line width 5.0, got %f", gs.LineWidth)
	}

	err := gs.Restore()
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if gs.LineWidth != 2.5 {
		t.Errorf("expected restored line width 2.5, got %f", gs.LineWidth)
	}

	if gs.Text.Font != f1 {
		t.Errorf("expected restored font F1, got %v", gs.Text.Font)
	}

	if gs.Text.FontSize != 14 {
		t.Errorf("expected restored font size 14, got %f", gs.Text.FontSize)
	}
}

// TestRestoreUnderflow tests restore without save
func TestRestoreUnderflow(t *testing.T) {
	gs := NewGfxState()

	err := gs.Restore()
	if err == nil {
		t.Error("expected error on restore without save")
	}
}

// TestNestedSaveRestore tests nested q/Q
func TestNestedSaveRestore(t *testing.T) {
	gs := NewGfxState()

	gs.LineWidth = 1.0
	gs.Save() // Level 1

	gs.LineWidth = 2.0
	gs.Save() // Level 2

	gs.LineWidth = 3.0

	gs.Restore()
	if gs.LineWidth != 2.0 {
		t.Errorf("expected line width 2.0, got %f", gs.LineWidth)
	}

	gs.Restore()
	if gs.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", gs.LineWidth)
	}
}

// TestConcat tests the cm operator semantics
func TestConcat(t *testing.T) {
	gs := NewGfxState()

	gs.Concat(model.Translate(100, 200))

	if gs.CTM[4] != 100 || gs.CTM[5] != 200 {
		t.Errorf("expected translation (100, 200), got (%f, %f)", gs.CTM[4], gs.CTM[5])
	}

	// cm prepends: a point is mapped through the new matrix first
	gs = NewGfxState()
	gs.Concat(model.Scale(2, 2))
	gs.Concat(model.Translate(10, 0))

	// (0,0) -> translate -> (10,0) -> scale -> (20,0)
	x, y := gs.Transform(0, 0)
	if math.Abs(x-20) > 1e-9 || math.Abs(y) > 1e-9 {
		t.Errorf("expected (20, 0), got (%f, %f)", x, y)
	}
}

// TestTextPositionTracking tests Tm/Td/T* position bookkeeping
func TestTextPositionTracking(t *testing.T) {
	gs := NewGfxState()
	gs.BeginText()

	if gs.LineX() != 0 || gs.LineY() != 0 || gs.CurX() != 0 || gs.CurY() != 0 {
		t.Error("expected zero positions after BT")
	}

	gs.TextMoveTo(72, 720)
	if gs.LineX() != 72 || gs.LineY() != 720 {
		t.Errorf("expected line position (72, 720), got (%f, %f)", gs.LineX(), gs.LineY())
	}
	if gs.CurX() != 72 || gs.CurY() != 720 {
		t.Errorf("expected current position (72, 720), got (%f, %f)", gs.CurX(), gs.CurY())
	}

	// Td accumulates relative to the previous line start
	gs.TextMoveTo(10, -12)
	if gs.LineX() != 82 || gs.LineY() != 708 {
		t.Errorf("expected line position (82, 708), got (%f, %f)", gs.LineX(), gs.LineY())
	}

	// Glyph advances move only the current position
	gs.ShiftCur(30, 0)
	if gs.CurX() != 112 {
		t.Errorf("expected current X 112, got %f", gs.CurX())
	}
	if gs.LineX() != 82 {
		t.Errorf("expected line X to stay 82, got %f", gs.LineX())
	}

	// Tm resets the line position; the current position lands on the
	// matrix translation in user space
	gs.SetTextMatrix(model.Translate(5, 5))
	if gs.LineX() != 0 {
		t.Errorf("expected line X reset by Tm, got %f", gs.LineX())
	}
	if gs.CurX() != 5 || gs.CurY() != 5 {
		t.Errorf("expected current position (5, 5), got (%f, %f)", gs.CurX(), gs.CurY())
	}
}

// TestCurPositionUnderTextMatrix tests user-space mapping of movements
func TestCurPositionUnderTextMatrix(t *testing.T) {
	gs := NewGfxState()
	gs.BeginText()

	gs.SetTextMatrix(model.Matrix{2, 0, 0, 2, 100, 200})
	gs.TextMoveTo(10, 0)
	if gs.CurX() != 120 || gs.CurY() != 200 {
		t.Errorf("expected (120, 200), got (%f, %f)", gs.CurX(), gs.CurY())
	}

	// Advances are scaled by the matrix too
	gs.ShiftCur(5, 0)
	if gs.CurX() != 130 {
		t.Errorf("expected 130, got %f", gs.CurX())
	}

	// The text-space line position is untouched by matrix scale
	if gs.LineX() != 10 {
		t.Errorf("expected line X 10, got %f", gs.LineX())
	}
}

// TestNextLine tests T* leading behavior
func TestNextLine(t *testing.T) {
	gs := NewGfxState()
	gs.BeginText()
	gs.Text.Leading = 14

	gs.TextMoveTo(72, 720)
	gs.NextLine()

	if gs.LineX() != 72 || gs.LineY() != 706 {
		t.Errorf("expected (72, 706), got (%f, %f)", gs.LineX(), gs.LineY())
	}
}

// TestTransform tests device-space mapping through the CTM
func TestTransform(t *testing.T) {
	gs := NewGfxState()
	gs.Concat(model.Matrix{2, 0, 0, 2, 10, 20})

	x, y := gs.Transform(3, 4)
	if x != 16 || y != 28 {
		t.Errorf("expected (16, 28), got (%f, %f)", x, y)
	}
}

// TestDepth tests stack depth reporting
func TestDepth(t *testing.T) {
	gs := NewGfxState()
	if gs.Depth() != 0 {
		t.Errorf("expected depth 0, got %d", gs.Depth())
	}
	gs.Save()
	gs.Save()
	if gs.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", gs.Depth())
	}
	gs.Restore()
	if gs.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", gs.Depth())
	}
}
