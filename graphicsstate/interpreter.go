package graphicsstate

import (
	"github.com/tsawler/weft/contentstream"
	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// StateObserver receives change notifications as the interpreter
// applies content stream operations. Implementations typically just set
// dirty flags and defer the real work until text is shown.
type StateObserver interface {
	UpdateAll(gs *GfxState)
	UpdateRise(gs *GfxState)
	UpdateTextPos(gs *GfxState)
	// UpdateTextShift reports a TJ position adjustment in thousandths
	// of text space, before font size and horizontal scaling.
	UpdateTextShift(gs *GfxState, shift float64)
	UpdateFont(gs *GfxState)
	UpdateCTM(gs *GfxState)
	UpdateTextMat(gs *GfxState)
	UpdateHorizScaling(gs *GfxState)
	UpdateCharSpace(gs *GfxState)
	UpdateWordSpace(gs *GfxState)
	UpdateRender(gs *GfxState)
	UpdateFillColor(gs *GfxState)
	UpdateStrokeColor(gs *GfxState)
}

// TextSink receives decoded glyph runs. The advance is the text-space
// x displacement the run produces, with spacing and horizontal scaling
// already applied; the sink sees it before the interpreter moves the
// text position.
type TextSink interface {
	DrawString(gs *GfxState, runes []rune, advance float64) error
}

// FontResolver maps content stream font resource names (the operand of
// Tf) to font objects.
type FontResolver interface {
	Font(name string) *font.Font
}

// Interpreter applies content stream operations to a graphics state,
// notifying an observer of state changes and feeding text runs to a
// sink. Operators outside its text-and-state vocabulary are ignored.
type Interpreter struct {
	gs    *GfxState
	obs   StateObserver
	sink  TextSink
	fonts FontResolver
}

// NewInterpreter creates an interpreter over a fresh graphics state.
// Any of obs, sink, and fonts may be nil.
func NewInterpreter(obs StateObserver, sink TextSink, fonts FontResolver) *Interpreter {
	return &Interpreter{
		gs:    NewGfxState(),
		obs:   obs,
		sink:  sink,
		fonts: fonts,
	}
}

// State returns the graphics state the interpreter drives.
func (in *Interpreter) State() *GfxState {
	return in.gs
}

// Run applies a sequence of operations in order. It stops at the first
// error: a sink error or a Q with no matching q.
func (in *Interpreter) Run(ops []contentstream.Operation) error {
	for _, op := range ops {
		if err := in.processOperation(op); err != nil {
			return err
		}
	}
	return nil
}

// processOperation processes a single content stream operation
func (in *Interpreter) processOperation(op contentstream.Operation) error {
	gs := in.gs

	switch op.Operator {
	// Graphics state operators
	case "q":
		gs.Save()
	case "Q":
		if err := gs.Restore(); err != nil {
			return err
		}
		// A restore may change anything; recheck the whole state
		in.updateAll()
	case "cm":
		if len(op.Operands) == 6 {
			gs.Concat(operandsToMatrix(op.Operands))
			if in.obs != nil {
				in.obs.UpdateCTM(gs)
			}
		}

	// Text object operators
	case "BT":
		gs.BeginText()
		in.updateTextMatAndPos()
	case "ET":
		// The line stays open; a later state change closes it

	// Text state operators
	case "Tf":
		if len(op.Operands) == 2 {
			name, _ := op.Operands[0].(contentstream.Name)
			size, _ := contentstream.ToFloat(op.Operands[1])
			var f *font.Font
			if in.fonts != nil {
				f = in.fonts.Font(string(name))
			}
			gs.SetFont(f, size)
			if in.obs != nil {
				in.obs.UpdateFont(gs)
			}
		}
	case "Tm":
		if len(op.Operands) == 6 {
			gs.SetTextMatrix(operandsToMatrix(op.Operands))
			in.updateTextMatAndPos()
		}
	case "Td":
		if len(op.Operands) == 2 {
			tx, _ := contentstream.ToFloat(op.Operands[0])
			ty, _ := contentstream.ToFloat(op.Operands[1])
			gs.TextMoveTo(tx, ty)
			in.updateTextPos()
		}
	case "TD":
		if len(op.Operands) == 2 {
			tx, _ := contentstream.ToFloat(op.Operands[0])
			ty, _ := contentstream.ToFloat(op.Operands[1])
			gs.Text.Leading = -ty
			gs.TextMoveTo(tx, ty)
			in.updateTextPos()
		}
	case "T*":
		gs.NextLine()
		in.updateTextPos()
	case "TL":
		if len(op.Operands) == 1 {
			gs.Text.Leading, _ = contentstream.ToFloat(op.Operands[0])
		}
	case "Tc":
		if len(op.Operands) == 1 {
			gs.Text.CharSpace, _ = contentstream.ToFloat(op.Operands[0])
			if in.obs != nil {
				in.obs.UpdateCharSpace(gs)
			}
		}
	case "Tw":
		if len(op.Operands) == 1 {
			gs.Text.WordSpace, _ = contentstream.ToFloat(op.Operands[0])
			if in.obs != nil {
				in.obs.UpdateWordSpace(gs)
			}
		}
	case "Tz":
		if len(op.Operands) == 1 {
			pct, _ := contentstream.ToFloat(op.Operands[0])
			gs.Text.HorizScaling = pct / 100.0
			if in.obs != nil {
				in.obs.UpdateHorizScaling(gs)
			}
		}
	case "Ts":
		if len(op.Operands) == 1 {
			gs.Text.Rise, _ = contentstream.ToFloat(op.Operands[0])
			if in.obs != nil {
				in.obs.UpdateRise(gs)
			}
		}
	case "Tr":
		if len(op.Operands) == 1 {
			mode, _ := contentstream.ToInt(op.Operands[0])
			gs.Text.RenderMode = mode
			if in.obs != nil {
				in.obs.UpdateRender(gs)
			}
		}

	// Text showing operators
	case "Tj":
		if len(op.Operands) == 1 {
			if s, ok := op.Operands[0].(contentstream.String); ok {
				if err := in.showText([]byte(s)); err != nil {
					return err
				}
			}
		}
	case "'":
		if len(op.Operands) == 1 {
			gs.NextLine()
			in.updateTextPos()
			if s, ok := op.Operands[0].(contentstream.String); ok {
				if err := in.showText([]byte(s)); err != nil {
					return err
				}
			}
		}
	case "\"":
		if len(op.Operands) == 3 {
			gs.Text.WordSpace, _ = contentstream.ToFloat(op.Operands[0])
			gs.Text.CharSpace, _ = contentstream.ToFloat(op.Operands[1])
			if in.obs != nil {
				in.obs.UpdateWordSpace(gs)
				in.obs.UpdateCharSpace(gs)
			}
			gs.NextLine()
			in.updateTextPos()
			if s, ok := op.Operands[2].(contentstream.String); ok {
				if err := in.showText([]byte(s)); err != nil {
					return err
				}
			}
		}
	case "TJ":
		if len(op.Operands) == 1 {
			arr, ok := op.Operands[0].(contentstream.Array)
			if !ok {
				break
			}
			for _, item := range arr {
				if s, ok := item.(contentstream.String); ok {
					if err := in.showText([]byte(s)); err != nil {
						return err
					}
					continue
				}
				if shift, ok := contentstream.ToFloat(item); ok {
					// Positive adjustments move text left
					gs.ShiftCur(-shift*0.001*gs.Text.FontSize*gs.Text.HorizScaling, 0)
					if in.obs != nil {
						in.obs.UpdateTextShift(gs, shift)
					}
				}
			}
		}

	// Color operators
	case "rg":
		if len(op.Operands) == 3 {
			gs.FillColor = operandsToRGB(op.Operands)
			in.updateFillColor()
		}
	case "RG":
		if len(op.Operands) == 3 {
			gs.StrokeColor = operandsToRGB(op.Operands)
			in.updateStrokeColor()
		}
	case "g":
		if len(op.Operands) == 1 {
			gray, _ := contentstream.ToFloat(op.Operands[0])
			gs.FillColor = model.FromGray(gray)
			in.updateFillColor()
		}
	case "G":
		if len(op.Operands) == 1 {
			gray, _ := contentstream.ToFloat(op.Operands[0])
			gs.StrokeColor = model.FromGray(gray)
			in.updateStrokeColor()
		}
	case "k":
		if len(op.Operands) == 4 {
			gs.FillColor = operandsToCMYK(op.Operands)
			in.updateFillColor()
		}
	case "K":
		if len(op.Operands) == 4 {
			gs.StrokeColor = operandsToCMYK(op.Operands)
			in.updateStrokeColor()
		}
	case "cs":
		// Color space selection resets the fill color to the space default
		gs.FillColor = model.RGB(0, 0, 0)
		in.updateFillColor()
	case "CS":
		gs.StrokeColor = model.RGB(0, 0, 0)
		in.updateStrokeColor()
	case "sc", "scn":
		if c, ok := componentsToColor(op.Operands); ok {
			gs.FillColor = c
			in.updateFillColor()
		}
	case "SC", "SCN":
		if c, ok := componentsToColor(op.Operands); ok {
			gs.StrokeColor = c
			in.updateStrokeColor()
		}
	}

	return nil
}

// showText decodes a string through the current font, reports it to the
// sink, and advances the text position.
func (in *Interpreter) showText(data []byte) error {
	gs := in.gs

	var decoded string
	if gs.Text.Font != nil {
		decoded = gs.Text.Font.DecodeString(data)
	} else {
		decoded = font.NormalizeUnicode(font.DecodeLatin1(data))
	}

	runes := []rune(decoded)
	advance := in.textAdvance(runes)

	if in.sink != nil {
		if err := in.sink.DrawString(gs, runes, advance); err != nil {
			return err
		}
	}

	gs.ShiftCur(advance, 0)
	return nil
}

// textAdvance computes the text-space x displacement of a glyph run:
// tx = sum((w/1000)*fs + Tc + Tw[space]) * Th
func (in *Interpreter) textAdvance(runes []rune) float64 {
	ts := &in.gs.Text

	total := 0.0
	for _, r := range runes {
		w := 500.0
		if ts.Font != nil {
			w = ts.Font.GetWidth(r)
		}
		total += w*0.001*ts.FontSize + ts.CharSpace
		if r == ' ' {
			total += ts.WordSpace
		}
	}

	return total * ts.HorizScaling
}

func (in *Interpreter) updateAll() {
	if in.obs != nil {
		in.obs.UpdateAll(in.gs)
	}
}

func (in *Interpreter) updateTextPos() {
	if in.obs != nil {
		in.obs.UpdateTextPos(in.gs)
	}
}

func (in *Interpreter) updateTextMatAndPos() {
	if in.obs != nil {
		in.obs.UpdateTextMat(in.gs)
		in.obs.UpdateTextPos(in.gs)
	}
}

func (in *Interpreter) updateFillColor() {
	if in.obs != nil {
		in.obs.UpdateFillColor(in.gs)
	}
}

func (in *Interpreter) updateStrokeColor() {
	if in.obs != nil {
		in.obs.UpdateStrokeColor(in.gs)
	}
}

// Helper functions

func operandsToMatrix(operands []contentstream.Object) model.Matrix {
	if len(operands) != 6 {
		return model.Identity()
	}

	var m model.Matrix
	for i, op := range operands {
		m[i], _ = contentstream.ToFloat(op)
	}
	return m
}

func operandsToRGB(operands []contentstream.Object) model.Color {
	r, _ := contentstream.ToFloat(operands[0])
	g, _ := contentstream.ToFloat(operands[1])
	b, _ := contentstream.ToFloat(operands[2])
	return model.RGB(r, g, b)
}

func operandsToCMYK(operands []contentstream.Object) model.Color {
	c, _ := contentstream.ToFloat(operands[0])
	m, _ := contentstream.ToFloat(operands[1])
	y, _ := contentstream.ToFloat(operands[2])
	k, _ := contentstream.ToFloat(operands[3])
	return model.FromCMYK(c, m, y, k)
}

// componentsToColor interprets sc/scn operands: one numeric component
// is gray, three are RGB, four are CMYK. Pattern names and other
// component counts are rejected.
func componentsToColor(operands []contentstream.Object) (model.Color, bool) {
	nums := make([]float64, 0, 4)
	for _, op := range operands {
		if v, ok := contentstream.ToFloat(op); ok {
			nums = append(nums, v)
		}
	}

	switch len(nums) {
	case 1:
		return model.FromGray(nums[0]), true
	case 3:
		return model.RGB(nums[0], nums[1], nums[2]), true
	case 4:
		return model.FromCMYK(nums[0], nums[1], nums[2], nums[3]), true
	default:
		return model.Color{}, false
	}
}
