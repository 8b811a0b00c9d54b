// Package model provides the geometric and color value types shared by
// the conversion pipeline.
//
// # Geometry
//
// [Point] and [BBox] describe positions and rectangles in PDF user
// space. [Matrix] is a six-element affine transform in PDF order
// [a b c d e f], mapping (x, y) to (a*x + c*y + e, b*x + d*y + f).
//
// # Comparisons
//
// PDF coordinates come out of floating-point arithmetic, so the package
// exposes named epsilon-aware comparators instead of ==:
//
//   - [Near] - scalar equality with mixed absolute/relative tolerance
//   - [NearZero] - scalar comparison against zero
//   - [Matrix.Equal] - all six matrix entries
//   - [Matrix.EqualUpper] - rotation/scale prefix only, ignoring translation
//
// # Color
//
// [Color] is the tagged value used for text fill and stroke: either
// transparent or an RGB triple with channels in [0, 1]. Constructors
// exist for gray and CMYK source colors.
package model
