// Package htmldoc writes the HTML document structure around rendered
// page content.
//
// The renderer emits bare block and inline elements for each text line;
// this package supplies everything around them: the document preamble,
// the structural stylesheet, per-page containers, and the class rules
// collected by the renderer's registry.
//
// Usage:
//
//	d := htmldoc.NewWriter(out)
//	d.BeginDocument("report.pdf", registry.StylesheetTo)
//	d.BeginPage(1, 612, 792)
//	d.WriteRendered(pageHTML)
//	d.EndPage()
//	d.EndDocument()
//
// The writer is a thin synchronous layer over an io.Writer; write
// errors propagate unchanged.
package htmldoc
