// Package renderer contains the text-state change classifier and the
// line buffer at the heart of the PDF-to-HTML conversion.
//
// PDF positions every glyph individually under a rich graphics state;
// HTML wants nested inline boxes with CSS styling. The [Renderer]
// watches the graphics state evolve between glyph batches and decides,
// for each batch, the cheapest faithful continuation:
//
//   - [VerdictNone] - append the glyphs to the current run
//   - [VerdictSpan] - open a new styled inline span in the same block
//   - [VerdictDiv] - open a new absolutely positioned block
//
// A new block is needed only when the residual CSS transform changes or
// the position change cannot be expressed as a single horizontal offset
// along the baseline.
//
// # Dirty flags
//
// The renderer implements [graphicsstate.StateObserver]; the update
// callbacks are trivial and only set dirty flags. All real work happens
// in [Renderer.CheckStateChange], whose check order is load-bearing and
// documented inline.
//
// # Line buffering
//
// Glyphs, horizontal offsets, and style snapshots accumulate in a
// [LineBuffer] until the line closes. Flush optimizes the buffered
// sequences (coalescing offsets, dropping no-op state changes) and
// serializes them as one block element with nested spans; offsets that
// match the advance of a space character become literal spaces.
//
// # CSS classes
//
// Styles are emitted as class references, not inline styles. A
// [ClassAllocator] maps each attribute value to a stable small integer;
// [Registry] is the standard implementation and can write the matching
// stylesheet afterwards.
package renderer
