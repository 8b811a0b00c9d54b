// Package font provides the font model and installer used by the text
// pipeline.
//
// # Fonts
//
// [Font] carries the properties the renderer needs: resource and base
// names, the PDF subtype, per-character advance widths (in 1000ths of
// em), and string decoding. Standard 14 fonts come with built-in
// metrics; other fonts receive widths via [Font.SetWidth].
//
// # Text Decoding
//
// [Font.DecodeString] converts raw PDF string bytes to Unicode,
// handling UTF-16 byte order marks and falling back to Latin-1. All
// output is normalized to NFC.
//
// # Installation
//
// The renderer does not hold fonts; it holds [Ref] values handed out by
// an [Installer]. A Ref is an opaque id plus the IsType3 flag - the one
// font property that changes how text must be laid out, since Type 3
// advance widths are unreliable. Install(nil) returns [NullRef].
package font
