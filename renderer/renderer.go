package renderer

import (
	"fmt"
	"io"
	"math"

	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/graphicsstate"
	"github.com/tsawler/weft/model"
)

// Verdict is the classifier's decision about the next glyph batch,
// ordered so that raising a verdict never loses information:
// None < Span < Div.
type Verdict int

const (
	// VerdictNone means the glyphs may be appended to the current run.
	VerdictNone Verdict = iota
	// VerdictSpan means the run continues with an inline style change.
	VerdictSpan
	// VerdictDiv means a new block element must be opened.
	VerdictDiv
)

func (v Verdict) String() string {
	switch v {
	case VerdictNone:
		return "none"
	case VerdictSpan:
		return "span"
	case VerdictDiv:
		return "div"
	default:
		return "unknown"
	}
}

// changeSet bundles the dirty flags set by the update callbacks between
// glyph batches. all forces every check.
type changeSet struct {
	all bool

	rise    bool
	textPos bool

	font      bool
	ctm       bool
	textMat   bool
	horiScale bool

	letterSpace bool
	wordSpace   bool

	fillColor   bool
	strokeColor bool
}

func (c *changeSet) reset() {
	*c = changeSet{}
}

// Text rendering mode tables, PDF 32000-1 Table 106. Modes 3 and 7
// paint nothing; the glyphs are still buffered so text stays selectable.
var (
	fillActive   = [8]bool{true, false, true, false, true, false, true, false}
	strokeActive = [8]bool{false, true, true, false, false, true, true, false}
)

// Renderer observes the evolving graphics state glyph batch by glyph
// batch and drives a LineBuffer so that the emitted HTML contains the
// minimum sequence of block elements, inline style changes, and
// horizontal offsets reproducing the text layout.
//
// It implements graphicsstate.StateObserver (the update callbacks set
// dirty flags) and graphicsstate.TextSink (DrawString classifies, then
// buffers the glyphs).
type Renderer struct {
	opts      Options
	installer *font.Installer
	alloc     ClassAllocator
	buf       *LineBuffer
	out       io.Writer

	cur     HTMLState
	verdict Verdict
	changes changeSet

	lineOpened bool

	// Running scalars. curTX/curTY follow the PDF text position as
	// observed through the update callbacks; drawTX/drawTY are where
	// the current HTML line was established.
	curTX, curTY   float64
	drawTX, drawTY float64

	curFontSize   float64
	curTextTM     model.Matrix
	drawTextScale float64
}

// NewRenderer creates a renderer writing flushed lines to out. If alloc
// is nil a fresh Registry is used; Allocator exposes it for stylesheet
// emission.
func NewRenderer(out io.Writer, opts Options, alloc ClassAllocator) *Renderer {
	if alloc == nil {
		alloc = NewRegistry(opts.EpsScalar)
	}

	r := &Renderer{
		opts:      opts.clone(),
		installer: font.NewInstaller(),
		alloc:     alloc,
		out:       out,
	}
	r.buf = NewLineBuffer(alloc, r.opts, r.installer.SpaceWidth)
	r.ResetState()
	return r
}

// Allocator returns the class allocator in use.
func (r *Renderer) Allocator() ClassAllocator {
	return r.alloc
}

// Installer returns the font installer in use.
func (r *Renderer) Installer() *font.Installer {
	return r.installer
}

// Verdict returns the outcome of the most recent classification.
func (r *Renderer) Verdict() Verdict {
	return r.verdict
}

// LineOpened reports whether an HTML line is currently open.
func (r *Renderer) LineOpened() bool {
	return r.lineOpened
}

// raise lifts the verdict; it never lowers it.
func (r *Renderer) raise(v Verdict) {
	if v > r.verdict {
		r.verdict = v
	}
}

// ============================================================================
// StateObserver - the update callbacks only record what changed
// ============================================================================

// UpdateAll marks every attribute dirty.
func (r *Renderer) UpdateAll(gs *graphicsstate.GfxState) {
	r.changes.all = true
	r.UpdateTextPos(gs)
}

// UpdateRise marks the text rise dirty.
func (r *Renderer) UpdateRise(gs *graphicsstate.GfxState) {
	r.changes.rise = true
}

// UpdateTextPos tracks the text position positively as it moves.
func (r *Renderer) UpdateTextPos(gs *graphicsstate.GfxState) {
	r.changes.textPos = true
	r.curTX = gs.LineX()
	r.curTY = gs.LineY()
}

// UpdateTextShift applies a TJ adjustment to the tracked position.
func (r *Renderer) UpdateTextShift(gs *graphicsstate.GfxState, shift float64) {
	r.changes.textPos = true
	r.curTX -= shift * 0.001 * gs.Text.FontSize * gs.Text.HorizScaling
}

// UpdateFont marks the font dirty.
func (r *Renderer) UpdateFont(gs *graphicsstate.GfxState) {
	r.changes.font = true
}

// UpdateCTM marks the transformation matrix dirty.
func (r *Renderer) UpdateCTM(gs *graphicsstate.GfxState) {
	r.changes.ctm = true
}

// UpdateTextMat marks the text matrix dirty.
func (r *Renderer) UpdateTextMat(gs *graphicsstate.GfxState) {
	r.changes.textMat = true
}

// UpdateHorizScaling marks the horizontal scaling dirty.
func (r *Renderer) UpdateHorizScaling(gs *graphicsstate.GfxState) {
	r.changes.horiScale = true
}

// UpdateCharSpace marks the character spacing dirty.
func (r *Renderer) UpdateCharSpace(gs *graphicsstate.GfxState) {
	r.changes.letterSpace = true
}

// UpdateWordSpace marks the word spacing dirty.
func (r *Renderer) UpdateWordSpace(gs *graphicsstate.GfxState) {
	r.changes.wordSpace = true
}

// UpdateRender marks both colors dirty; the rendering mode is traced
// for color only.
func (r *Renderer) UpdateRender(gs *graphicsstate.GfxState) {
	r.changes.fillColor = true
	r.changes.strokeColor = true
}

// UpdateFillColor marks the fill color dirty.
func (r *Renderer) UpdateFillColor(gs *graphicsstate.GfxState) {
	r.changes.fillColor = true
}

// UpdateStrokeColor marks the stroke color dirty.
func (r *Renderer) UpdateStrokeColor(gs *graphicsstate.GfxState) {
	r.changes.strokeColor = true
}

// ============================================================================
// The state classifier
// ============================================================================

// CheckStateChange consumes the accumulated dirty flags against the
// current graphics state, updates the HTML state snapshot and running
// scalars, and leaves a Verdict for PrepareTextLine.
//
// The order of the checks is load-bearing: the composed transform must
// be refreshed before the draw scale is factored, the draw scale before
// the spacing attributes that it multiplies, and the offset merge must
// see the transform from before this round of changes.
func (r *Renderer) CheckStateChange(gs *graphicsstate.GfxState) {
	r.verdict = VerdictNone

	needRecheckPosition := false
	needRescaleFont := false
	drawTextScaleChanged := false

	// Text position
	if r.changes.all || r.changes.textPos {
		needRecheckPosition = true
	}

	// Font id & size
	if r.changes.all || r.changes.font {
		newRef := r.installer.Install(gs.Text.Font)

		if newRef.ID != r.cur.Font.ID {
			// Type 3 advance widths are unreliable; give those glyphs
			// their own absolutely positioned block so the error does
			// not leak into surrounding text
			if newRef.IsType3 || r.cur.Font.IsType3 {
				r.raise(VerdictDiv)
			} else {
				r.raise(VerdictSpan)
			}
			r.cur.Font = newRef
		}

		newFontSize := gs.Text.FontSize
		if !model.Near(r.curFontSize, newFontSize, r.opts.EpsScalar) {
			needRescaleFont = true
			r.curFontSize = newFontSize
		}
	}

	// Backup the composed transform for the position recheck below
	oldTM := r.curTextTM

	// CTM & text matrix & horizontal scale
	if r.changes.all || r.changes.ctm || r.changes.textMat || r.changes.horiScale {
		m1 := gs.CTM
		m2 := gs.Text.Matrix
		horiScale := gs.Text.HorizScaling

		var newTM model.Matrix
		newTM[0] = (m1[0]*m2[0] + m1[2]*m2[1]) * horiScale
		newTM[1] = (m1[1]*m2[0] + m1[3]*m2[1]) * horiScale
		newTM[2] = m1[0]*m2[2] + m1[2]*m2[3]
		newTM[3] = m1[1]*m2[2] + m1[3]*m2[3]
		newTM[4] = m1[0]*m2[4] + m1[2]*m2[5] + m1[4]
		newTM[5] = m1[1]*m2[4] + m1[3]*m2[5] + m1[5]

		if !newTM.Equal(r.curTextTM, r.opts.EpsMatrix) {
			needRecheckPosition = true
			needRescaleFont = true
			r.curTextTM = newTM
		}
	}

	// Factor the draw text scale out of the composed transform.
	// A font-size of 1 under matrix [10 0 0 10 0 0] becomes font-size
	// 10 under the identity, which browsers render much better.
	if needRescaleFont {
		newTM := r.curTextTM

		newScale := math.Hypot(newTM[2], newTM[3]) / r.opts.TextScaleFactor2

		newFontSize := r.curFontSize
		if model.Positive(newScale, r.opts.EpsScalar) {
			newFontSize *= newScale
			for i := 0; i < 4; i++ {
				newTM[i] /= newScale
			}
		} else {
			newScale = 1.0
		}

		if !model.Positive(newFontSize, r.opts.EpsScalar) {
			// CSS cannot handle flipped pages
			newFontSize = -newFontSize
			for i := 0; i < 4; i++ {
				newTM[i] = -newTM[i]
			}
		}

		if !model.Near(newScale, r.drawTextScale, r.opts.EpsScalar) {
			drawTextScaleChanged = true
			r.drawTextScale = newScale
		}

		if !model.Near(newFontSize, r.cur.FontSize, r.opts.EpsScalar) {
			r.raise(VerdictSpan)
			r.cur.FontSize = newFontSize
		}

		if !newTM.EqualUpper(r.cur.Transform, r.opts.EpsMatrix) {
			r.raise(VerdictDiv)
			r.cur.Transform = newTM
		}
	}

	// See whether the new position fits the current line with a plain
	// horizontal shift; skip the work when a new block is coming anyway
	if needRecheckPosition && r.verdict < VerdictDiv {
		r.mergeOffset(oldTM)
	}

	// Letter space, scaled into CSS units
	if r.changes.all || r.changes.letterSpace || drawTextScaleChanged {
		newLetterSpace := gs.Text.CharSpace * r.drawTextScale
		if !model.Near(newLetterSpace, r.cur.LetterSpace, r.opts.EpsScalar) {
			r.cur.LetterSpace = newLetterSpace
			r.raise(VerdictSpan)
		}
	}

	// Word space, scaled into CSS units
	if r.changes.all || r.changes.wordSpace || drawTextScaleChanged {
		newWordSpace := gs.Text.WordSpace * r.drawTextScale
		if !model.Near(newWordSpace, r.cur.WordSpace, r.opts.EpsScalar) {
			r.cur.WordSpace = newWordSpace
			r.raise(VerdictSpan)
		}
	}

	// Fill color, gated by the rendering mode
	if !r.opts.Fallback && (r.changes.all || r.changes.fillColor) {
		newFillColor := r.activeColor(gs, fillActive, gs.FillColor)
		if !newFillColor.Equal(r.cur.FillColor, r.opts.EpsScalar) {
			r.cur.FillColor = newFillColor
			r.raise(VerdictSpan)
		}
	}

	// Stroke color, gated by the rendering mode
	if !r.opts.Fallback && (r.changes.all || r.changes.strokeColor) {
		newStrokeColor := r.activeColor(gs, strokeActive, gs.StrokeColor)
		if !newStrokeColor.Equal(r.cur.StrokeColor, r.opts.EpsScalar) {
			r.cur.StrokeColor = newStrokeColor
			r.raise(VerdictSpan)
		}
	}

	// Rise, scaled into CSS units
	if r.changes.all || r.changes.rise || drawTextScaleChanged {
		newRise := gs.Text.Rise * r.drawTextScale
		if !model.Near(newRise, r.cur.Rise, r.opts.EpsScalar) {
			r.cur.Rise = newRise
			r.raise(VerdictSpan)
		}
	}

	r.changes.reset()
}

// activeColor consults a rendering mode table and returns either the
// channel's current color or transparent.
func (r *Renderer) activeColor(gs *graphicsstate.GfxState, active [8]bool, c model.Color) model.Color {
	idx := gs.Text.RenderMode
	if idx < 0 || idx >= 8 {
		panic(fmt.Sprintf("renderer: text rendering mode %d out of range", idx))
	}
	if active[idx] {
		return c
	}
	return model.TransparentColor()
}

// mergeOffset tries to express the position change as a single dx under
// the transform in effect before this classification round:
//
//	CurTM * (cur_tx, cur_ty, 1)^T = OldTM * (draw_tx + dx, draw_ty + dy, 1)^T
//
// The rotation/scale parts of both matrices must agree, otherwise the
// glyph baselines cannot be parallel. For horizontal text dy is pinned
// to zero and dx solved from whichever row has a usable coefficient;
// solving dy analogously is the extension point for vertical writing.
func (r *Renderer) mergeOffset(oldTM model.Matrix) {
	eps := r.opts.EpsScalar

	merged := false
	dx := 0.0
	if oldTM.EqualUpper(r.curTextTM, r.opts.EpsMatrix) {
		lhs1 := r.curTextTM[4] - oldTM[4] - oldTM[2]*(r.drawTY-r.curTY) - oldTM[0]*(r.drawTX-r.curTX)
		lhs2 := r.curTextTM[5] - oldTM[5] - oldTM[3]*(r.drawTY-r.curTY) - oldTM[1]*(r.drawTX-r.curTX)

		if model.Near(oldTM[0]*lhs2, oldTM[1]*lhs1, eps) {
			if !model.NearZero(oldTM[0], eps) {
				dx = lhs1 / oldTM[0]
				merged = true
			} else if !model.NearZero(oldTM[1], eps) {
				dx = lhs2 / oldTM[1]
				merged = true
			} else if model.NearZero(lhs1, eps) && model.NearZero(lhs2, eps) {
				// Degenerate transform; every offset lands on the same
				// device point, so the position is free
				dx = 0
				merged = true
			}
		}
	}

	if merged {
		r.buf.AppendOffset(dx * r.drawTextScale)
		r.drawTX = r.curTX
		r.drawTY = r.curTY
	} else {
		r.raise(VerdictDiv)
	}
}

// ============================================================================
// Line lifecycle
// ============================================================================

// PrepareTextLine acts on the verdict of the preceding
// CheckStateChange: it opens a new block, appends an inline style
// change, or aligns the horizontal position, leaving the line open for
// the glyphs that follow.
func (r *Renderer) PrepareTextLine(gs *graphicsstate.GfxState) error {
	if !r.lineOpened {
		r.verdict = VerdictDiv
	}

	if r.verdict == VerdictDiv {
		if err := r.CloseTextLine(); err != nil {
			return err
		}

		// Record the device-space position the new block opens at
		r.cur.X, r.cur.Y = gs.Transform(gs.CurX(), gs.CurY())

		// Resync position
		r.drawTX = r.curTX
		r.drawTY = r.curTY
	} else {
		// Align the horizontal position with the buffered line
		target := (r.curTX - r.drawTX) * r.drawTextScale
		if !model.NearZero(target, r.opts.EpsScalar) {
			r.buf.AppendOffset(target)
			r.drawTX += target / r.drawTextScale
		}
	}

	if r.verdict != VerdictNone {
		r.buf.AppendState(r.cur)
	}

	r.lineOpened = true
	return nil
}

// CloseTextLine flushes the buffered line, if one is open.
func (r *Renderer) CloseTextLine() error {
	if !r.lineOpened {
		return nil
	}
	r.lineOpened = false
	return r.buf.Flush(r.out)
}

// ResetState returns every running scalar and the HTML state snapshot
// to identity defaults and arranges for the next classification to
// treat everything as changed. Call it at the start of each page.
func (r *Renderer) ResetState() {
	r.drawTextScale = 1.0
	r.curFontSize = 0.0
	r.curTextTM = model.Identity()

	r.cur = HTMLState{
		Font:        r.installer.Install(nil),
		FillColor:   model.TransparentColor(),
		StrokeColor: model.TransparentColor(),
		Transform:   model.Identity(),
	}

	r.curTX, r.curTY = 0, 0
	r.drawTX, r.drawTY = 0, 0

	r.changes.reset()
	r.changes.all = true
}

// ============================================================================
// TextSink
// ============================================================================

// DrawString classifies the pending state changes, prepares the line,
// and buffers the glyph run. The advance moves both the tracked and the
// drawn position, since the buffered glyphs will occupy that width.
func (r *Renderer) DrawString(gs *graphicsstate.GfxState, runes []rune, advance float64) error {
	r.CheckStateChange(gs)

	if err := r.PrepareTextLine(gs); err != nil {
		return err
	}

	r.buf.AppendUnicodes(runes)

	r.curTX += advance
	r.drawTX += advance

	return nil
}
