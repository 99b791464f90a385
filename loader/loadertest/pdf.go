// Package loadertest builds small single-page PDFs for upload tests.
package loadertest

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	left      = 72
	top       = 750
	colStep   = 150
	rowStep   = 20
	titleYOff = 30
)

// TablePDF lays rows out as a grid, one text run per cell, under a
// single-cell title line.
func TablePDF(title string, rows [][]string) []byte {
	var c strings.Builder
	c.WriteString("BT\n/F1 10 Tf\n")
	fmt.Fprintf(&c, "1 0 0 1 %d %d Tm (%s) Tj\n", left, top+titleYOff, escape(title))
	for i, row := range rows {
		y := top - rowStep*i
		for j, cell := range row {
			fmt.Fprintf(&c, "1 0 0 1 %d %d Tm (%s) Tj\n", left+colStep*j, y, escape(cell))
		}
	}
	c.WriteString("ET")
	return build(c.String())
}

// TextPDF writes lines of running text with no tabular layout.
func TextPDF(lines []string) []byte {
	var c strings.Builder
	c.WriteString("BT\n/F1 10 Tf\n14 TL\n")
	fmt.Fprintf(&c, "1 0 0 1 %d %d Tm\n", left, top)
	for _, l := range lines {
		fmt.Fprintf(&c, "(%s) Tj T*\n", escape(l))
	}
	c.WriteString("ET")
	return build(c.String())
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`).Replace(s)
}

// build wraps one content stream in a catalog, page tree, page and a
// WinAnsi Helvetica font, with a correct xref table.
func build(content string) []byte {
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}
