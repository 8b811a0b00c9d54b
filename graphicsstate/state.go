package graphicsstate

import (
	"fmt"

	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// GfxState represents the PDF graphics state as observed by the
// renderer: the current transformation matrix, color state, and the
// text state parameters.
type GfxState struct {
	// Current Transformation Matrix
	CTM model.Matrix

	// Text state
	Text TextState

	// Color state
	StrokeColor model.Color
	FillColor   model.Color

	// Line attributes
	LineWidth float64

	// Graphics state stack (for q/Q operators)
	stack []*GfxState
}

// TextState represents text-specific state
type TextState struct {
	// Font and size (Tf operator)
	Font     *font.Font
	FontSize float64

	// Character and word spacing (Tc, Tw operators)
	CharSpace float64
	WordSpace float64

	// Horizontal scaling as a fraction; 1.0 corresponds to Tz 100
	HorizScaling float64

	// Leading (TL operator)
	Leading float64

	// Text rendering mode (Tr operator), 0..7
	RenderMode int

	// Text rise (Ts operator)
	Rise float64

	// Text matrix, set by Tm and reset by BT. Unlike the positions
	// below it does not accumulate Td movements.
	Matrix model.Matrix

	// LineX/LineY track the start of the current line in text space
	// (moved by Td/TD/T*). CurX/CurY track the position after the
	// glyphs shown so far, already mapped through the text matrix
	// into user space.
	LineX, LineY float64
	CurX, CurY   float64
}

// NewGfxState creates a graphics state with PDF default values
func NewGfxState() *GfxState {
	return &GfxState{
		CTM:         model.Identity(),
		LineWidth:   1.0,
		StrokeColor: model.RGB(0, 0, 0),
		FillColor:   model.RGB(0, 0, 0),
		Text: TextState{
			HorizScaling: 1.0,
			Matrix:       model.Identity(),
		},
	}
}

// Clone creates a deep copy of the graphics state (without the stack)
func (gs *GfxState) Clone() *GfxState {
	return &GfxState{
		CTM:         gs.CTM,
		LineWidth:   gs.LineWidth,
		StrokeColor: gs.StrokeColor,
		FillColor:   gs.FillColor,
		Text:        gs.Text,
	}
}

// Save pushes the current graphics state onto the stack (q operator)
func (gs *GfxState) Save() {
	gs.stack = append(gs.stack, gs.Clone())
}

// Restore pops a graphics state from the stack (Q operator)
func (gs *GfxState) Restore() error {
	if len(gs.stack) == 0 {
		return fmt.Errorf("graphics state stack underflow")
	}

	saved := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = saved.CTM
	gs.LineWidth = saved.LineWidth
	gs.StrokeColor = saved.StrokeColor
	gs.FillColor = saved.FillColor
	gs.Text = saved.Text

	return nil
}

// Concat concatenates a transformation matrix onto the CTM (cm operator)
func (gs *GfxState) Concat(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// BeginText resets the text matrices and positions (BT operator)
func (gs *GfxState) BeginText() {
	gs.Text.Matrix = model.Identity()
	gs.Text.LineX, gs.Text.LineY = 0, 0
	gs.Text.CurX, gs.Text.CurY = 0, 0
}

// SetTextMatrix sets the text matrix and resets the text position (Tm operator)
func (gs *GfxState) SetTextMatrix(m model.Matrix) {
	gs.Text.Matrix = m
	gs.Text.LineX, gs.Text.LineY = 0, 0
	gs.Text.CurX, gs.Text.CurY = m[4], m[5]
}

// TextMoveTo moves the line start by (tx, ty) in text space and resets
// the current position to it (Td operator)
func (gs *GfxState) TextMoveTo(tx, ty float64) {
	gs.Text.LineX += tx
	gs.Text.LineY += ty
	p := gs.Text.Matrix.Transform(model.Point{X: gs.Text.LineX, Y: gs.Text.LineY})
	gs.Text.CurX, gs.Text.CurY = p.X, p.Y
}

// NextLine moves to the next line using the current leading (T* operator)
func (gs *GfxState) NextLine() {
	gs.TextMoveTo(0, -gs.Text.Leading)
}

// ShiftCur advances the current position by (dx, dy) in text space;
// the delta is mapped through the text matrix. Text-showing operators
// use this after glyphs are drawn.
func (gs *GfxState) ShiftCur(dx, dy float64) {
	gs.Text.CurX += gs.Text.Matrix[0]*dx + gs.Text.Matrix[2]*dy
	gs.Text.CurY += gs.Text.Matrix[1]*dx + gs.Text.Matrix[3]*dy
}

// SetFont sets the current font and size (Tf operator)
func (gs *GfxState) SetFont(f *font.Font, size float64) {
	gs.Text.Font = f
	gs.Text.FontSize = size
}

// LineX returns the text-space X coordinate of the current line start
func (gs *GfxState) LineX() float64 { return gs.Text.LineX }

// LineY returns the text-space Y coordinate of the current line start
func (gs *GfxState) LineY() float64 { return gs.Text.LineY }

// CurX returns the user-space X coordinate of the current position
func (gs *GfxState) CurX() float64 { return gs.Text.CurX }

// CurY returns the user-space Y coordinate of the current position
func (gs *GfxState) CurY() float64 { return gs.Text.CurY }

// Transform maps a point through the CTM into device space
func (gs *GfxState) Transform(x, y float64) (float64, float64) {
	p := gs.CTM.Transform(model.Point{X: x, Y: y})
	return p.X, p.Y
}

// Depth returns the current q/Q nesting depth (useful for diagnostics)
func (gs *GfxState) Depth() int {
	return len(gs.stack)
}
