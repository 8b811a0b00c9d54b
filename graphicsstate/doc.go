// Package graphicsstate provides PDF graphics state management and the
// operator interpreter that drives the text rendering pipeline.
//
// # Graphics State
//
// The main type is [GfxState], which tracks:
//   - CTM (Current Transformation Matrix) for coordinate transformations
//   - Colors (stroke and fill)
//   - Text state (font, size, spacing, matrices, rendering mode)
//
// Example usage:
//
//	gs := graphicsstate.NewGfxState()
//	gs.Save()              // Push state (q operator)
//	gs.Concat(matrix)      // Modify CTM (cm operator)
//	gs.SetFont(f, 12)      // Set font (Tf operator)
//	gs.Restore()           // Pop state (Q operator)
//
// # Text Positions
//
// The text matrix is set only by Tm and BT. Line movements (Td, TD, T*)
// and glyph advances accumulate in positions instead: LineX/LineY hold
// the start of the current line in text space, while CurX/CurY hold the
// current position mapped through the text matrix into user space. This
// mirrors how PDF viewers track text and is what lets the renderer
// express most movement as horizontal offsets rather than new blocks.
//
// # Interpretation
//
// [Interpreter] applies [contentstream.Operation] values to the state.
// A [StateObserver] is notified of the state changes the renderer
// tracks (q and TL fire no callback); a [TextSink]
// receives decoded glyph runs together with their text-space advance.
// Fonts are resolved by name through a [FontResolver] supplied by the
// caller.
package graphicsstate
