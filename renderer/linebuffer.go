package renderer

import (
	"fmt"
	"html"
	"io"

	"github.com/tsawler/weft/font"
	"github.com/tsawler/weft/model"
)

// State is a buffered style snapshot: the class ids for each slot, the
// glyph index at which the snapshot takes effect, and the hash fields
// used to drop redundant entries at flush time.
type State struct {
	IDs       [SlotCount]int64
	StartIdx  int
	Hash      int64
	UMask     int64
	NeedClose bool

	snapshot HTMLState
}

// offsetRec injects a horizontal shift of width CSS units before
// text[StartIdx].
type offsetRec struct {
	StartIdx int
	Width    float64
}

// SpaceWidthFunc returns the advance of the space character of a font,
// in 1000ths of em. The line buffer uses it to render offsets that
// match a natural space as a literal ' '. May be nil.
type SpaceWidthFunc func(ref font.Ref) (float64, bool)

// LineBuffer accumulates the glyphs, horizontal offsets, and style
// snapshots of one text line, then serializes them as a block element
// with nested inline spans. It is reused across lines: Flush leaves it
// empty and ready for the next line.
type LineBuffer struct {
	alloc      ClassAllocator
	opts       Options
	spaceWidth SpaceWidthFunc

	text    []rune
	offsets []offsetRec
	states  []State

	// open spans during flush
	stack []*State
}

// NewLineBuffer creates a line buffer emitting class ids from alloc.
func NewLineBuffer(alloc ClassAllocator, opts Options, spaceWidth SpaceWidthFunc) *LineBuffer {
	return &LineBuffer{
		alloc:      alloc,
		opts:       opts.clone(),
		spaceWidth: spaceWidth,
	}
}

// Len returns the number of buffered glyphs.
func (b *LineBuffer) Len() int {
	return len(b.text)
}

// AppendUnicodes appends glyph codes to the line.
func (b *LineBuffer) AppendUnicodes(runes []rune) {
	b.text = append(b.text, runes...)
}

// AppendOffset records a horizontal shift of width CSS units before the
// next glyph. Consecutive offsets at the same position coalesce.
func (b *LineBuffer) AppendOffset(width float64) {
	idx := len(b.text)
	if n := len(b.offsets); n > 0 && b.offsets[n-1].StartIdx == idx {
		b.offsets[n-1].Width += width
		return
	}
	b.offsets = append(b.offsets, offsetRec{StartIdx: idx, Width: width})
}

// AppendState records a style snapshot taking effect at the next glyph.
// A snapshot already recorded at the same position is replaced.
func (b *LineBuffer) AppendState(hs HTMLState) {
	s := State{
		StartIdx: len(b.text),
		UMask:    allSlotsMask,
		snapshot: hs,
	}

	s.IDs[SlotFont] = b.alloc.FontID(hs.Font)
	s.IDs[SlotFontSize] = b.alloc.FontSizeID(hs.FontSize)
	if b.opts.Fallback {
		// Colors are not tracked; exclude their slots entirely
		s.UMask &^= umaskBySlot(SlotFillColor) | umaskBySlot(SlotStrokeColor)
	} else {
		s.IDs[SlotFillColor] = b.alloc.FillColorID(hs.FillColor)
		s.IDs[SlotStrokeColor] = b.alloc.StrokeColorID(hs.StrokeColor)
	}
	s.IDs[SlotLetterSpace] = b.alloc.LetterSpaceID(hs.LetterSpace)
	s.IDs[SlotWordSpace] = b.alloc.WordSpaceID(hs.WordSpace)
	s.IDs[SlotRise] = b.alloc.RiseID(hs.Rise)

	s.Hash = hashIDs(&s.IDs, s.UMask)

	if n := len(b.states); n > 0 && b.states[n-1].StartIdx == s.StartIdx {
		b.states[n-1] = s
		return
	}
	b.states = append(b.states, s)
}

// Flush serializes the buffered line to w and clears the buffer.
// Flushing an empty buffer writes nothing.
func (b *LineBuffer) Flush(w io.Writer) error {
	defer b.clear()

	if len(b.text) == 0 && len(b.offsets) == 0 {
		return nil
	}
	if len(b.states) == 0 {
		// Nothing to anchor the line; drop it
		return nil
	}

	b.optimize()

	out := &tagWriter{w: w}

	// Block opening from the bottom state
	bottom := &b.states[0]
	out.printf(`<div class="t" style="left:%.2fpx;bottom:%.2fpx`, bottom.snapshot.X, bottom.snapshot.Y)
	if !bottom.snapshot.Transform.IsIdentity() {
		m := bottom.snapshot.Transform
		// Flip the y axis: HTML grows downward
		out.printf(";transform:matrix(%g,%g,%g,%g,0,0);transform-origin:0 0", m[0], -m[1], -m[2], m[3])
	}
	out.printf(`">`)

	b.stack = b.stack[:0]

	stateIdx := 0
	offsetIdx := 0
	for cur := 0; cur <= len(b.text); cur++ {
		for stateIdx < len(b.states) && b.states[stateIdx].StartIdx == cur {
			b.beginState(out, &b.states[stateIdx])
			stateIdx++
		}
		for offsetIdx < len(b.offsets) && b.offsets[offsetIdx].StartIdx == cur {
			b.emitOffset(out, b.offsets[offsetIdx].Width)
			offsetIdx++
		}
		if cur < len(b.text) {
			out.printf("%s", html.EscapeString(string(b.text[cur])))
		}
	}

	// Close every span still open, then the block
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].NeedClose {
			out.printf("</span>")
		}
	}
	out.printf("</div>\n")

	return out.err
}

// optimize is the pre-flush pass: coalesce adjacent offsets, drop
// offsets below the epsilon threshold, and drop states that do not
// change anything relative to their predecessor.
func (b *LineBuffer) optimize() {
	// Coalesce offsets sharing a start index, then drop the tiny ones
	if len(b.offsets) > 0 {
		merged := b.offsets[:0]
		for _, off := range b.offsets {
			if n := len(merged); n > 0 && merged[n-1].StartIdx == off.StartIdx {
				merged[n-1].Width += off.Width
				continue
			}
			merged = append(merged, off)
		}
		kept := merged[:0]
		for _, off := range merged {
			if !model.NearZero(off.Width, b.opts.EpsOffset) {
				kept = append(kept, off)
			}
		}
		b.offsets = kept
	}

	// Drop states whose masked hash and ids match the previous entry
	if len(b.states) > 1 {
		kept := b.states[:1]
		for i := 1; i < len(b.states); i++ {
			prev := &kept[len(kept)-1]
			cur := &b.states[i]
			if cur.Hash == prev.Hash && diffSlots(prev, cur) == 0 {
				continue
			}
			kept = append(kept, *cur)
		}
		b.states = kept
	}
}

// beginState opens a span for a state, closing conflicting spans first.
// A state that does not differ from the innermost open span emits
// nothing and is marked as not needing a close tag.
func (b *LineBuffer) beginState(out *tagWriter, s *State) {
	// Close open spans that conflict with the new state
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if diffSlots(top, s) == 0 {
			// Continue inside the current span
			s.NeedClose = false
			return
		}
		if top.NeedClose {
			out.printf("</span>")
		}
		b.stack = b.stack[:len(b.stack)-1]
	}

	out.printf(`<span class="`)
	first := true
	for i := Slot(0); i < SlotCount; i++ {
		if s.UMask&umaskBySlot(i) == 0 {
			continue
		}
		if !first {
			out.printf(" ")
		}
		out.printf("%s%d", slotClassPrefixes[i], s.IDs[i])
		first = false
	}
	out.printf(`">`)

	s.NeedClose = true
	b.stack = append(b.stack, s)
}

// emitOffset writes a horizontal shift. Offsets close to the advance of
// a literal space in the current state are written as a space character;
// everything else becomes an empty inline element with an em margin.
func (b *LineBuffer) emitOffset(out *tagWriter, width float64) {
	em := b.emSize()

	if b.spaceWidth != nil && len(b.stack) > 0 {
		if ss, ok := b.singleSpaceOffset(); ok && ss > 0 {
			target := width / em
			if target > 0 && model.NearZero(target-ss, ss*b.opts.SpaceThreshold) {
				out.printf(" ")
				return
			}
		}
	}

	out.printf(`<span class="_" style="margin-left:%.3fem"></span>`, width/em)
}

// singleSpaceOffset returns the width (in em) a literal space of the
// innermost open state would produce.
func (b *LineBuffer) singleSpaceOffset() (float64, bool) {
	top := b.stack[len(b.stack)-1]
	sw, ok := b.spaceWidth(top.snapshot.Font)
	if !ok {
		return 0, false
	}
	em := b.emSize()
	return (sw*0.001*top.snapshot.FontSize + top.snapshot.WordSpace + top.snapshot.LetterSpace) / em, true
}

// emSize returns the CSS font size of the innermost open state, with a
// safe fallback for degenerate zero sizes.
func (b *LineBuffer) emSize() float64 {
	if len(b.stack) > 0 {
		if fs := b.stack[len(b.stack)-1].snapshot.FontSize; !model.NearZero(fs, 1e-9) {
			return fs
		}
	}
	if len(b.states) > 0 {
		if fs := b.states[0].snapshot.FontSize; !model.NearZero(fs, 1e-9) {
			return fs
		}
	}
	return 1.0
}

// clear resets all three sequences for the next line.
func (b *LineBuffer) clear() {
	b.text = b.text[:0]
	b.offsets = b.offsets[:0]
	b.states = b.states[:0]
	b.stack = b.stack[:0]
}

// tagWriter wraps an io.Writer, remembering the first write error so
// emission code can stay linear.
type tagWriter struct {
	w   io.Writer
	err error
}

func (t *tagWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
