// Package contentstream provides parsing of PDF content streams.
//
// Content streams contain the instructions for rendering page content,
// including text display, graphics state changes, and color selection.
//
// # Content Stream Operations
//
// PDF content streams consist of operators and their operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// # Common Operators
//
// Text operators:
//   - BT, ET - Begin/end text object
//   - Tf - Set font and size
//   - Tm - Set text matrix
//   - Tj, TJ - Show text
//   - Td, TD - Move text position
//
// Graphics state operators:
//   - q, Q - Save/restore graphics state
//   - cm - Modify CTM (current transformation matrix)
//   - Tz, Tc, Tw, Ts, Tr - Text state parameters
//
// # Operand Types
//
// Operands are small value types defined by this package:
//   - Numbers ([Int], [Real])
//   - Strings ([String])
//   - Names ([Name])
//   - Arrays ([Array])
//   - Dictionaries ([Dict])
//
// # Stream Filters
//
// Raw stream data may be compressed. [Decode] applies a named filter
// (FlateDecode, ASCIIHexDecode, ASCII85Decode) before parsing.
package contentstream
