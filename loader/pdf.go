package loader

import (
	"bytes"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFTextNote explains the text-only upload response.
const PDFTextNote = "This PDF contains text but no structured tables, so it was not loaded for analysis. Any previously uploaded table is still active."

func readPDF(data []byte) (Result, error) {
	tables, err := extractPDFTables(data)
	if err != nil {
		log.Printf("[loader] pdf table extraction failed: %v", err)
	}
	if len(tables) > 0 {
		first := tables[0]
		t, err := buildTable(first[0], first[1:])
		if err != nil {
			return Result{}, err
		}
		if err := validate(t); err != nil {
			return Result{}, err
		}
		return Result{Table: t}, nil
	}

	text, err := extractPDFText(data)
	if err != nil {
		log.Printf("[loader] pdf text extraction failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, fmt.Errorf("%w: could not extract data from PDF, make sure it contains tables or text", ErrEmptyOrUnreadable)
	}
	return Result{TextPreview: truncateRunes(text, previewRunes)}, nil
}

func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// extractPDFTables returns every table found, page by page. Each table is a
// header row followed by at least one data row.
func extractPDFTables(data []byte) (tables [][][]string, err error) {
	r, err := openPDF(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			log.Printf("[loader] pdf page %d: %v", i, err)
			continue
		}
		cells := make([][]string, 0, len(rows))
		for _, row := range rows {
			cells = append(cells, rowCells(row.Content))
		}
		tables = append(tables, tablesFromRows(cells)...)
	}
	return tables, nil
}

func extractPDFText(data []byte) (text string, err error) {
	r, err := openPDF(data)
	if err != nil {
		return "", err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			log.Printf("[loader] pdf page %d: %v", i, err)
			continue
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// rowCells joins the text runs of one visual row into cells. A horizontal gap
// wider than the font size starts a new cell. Empty runs (Td moves) are
// ignored.
func rowCells(texts pdf.TextHorizontal) []string {
	ts := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			ts = append(ts, t)
		}
	}
	if len(ts) == 0 {
		return nil
	}
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].X < ts[j].X })

	var cells []string
	var cur strings.Builder
	end := ts[0].X
	for i, t := range ts {
		size := t.FontSize
		if size <= 0 {
			size = 8
		}
		gap := t.X - end
		if i > 0 && gap > size {
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		} else if i > 0 && gap > size*0.2 {
			cur.WriteByte(' ')
		}
		cur.WriteString(t.S)
		end = t.X + t.W
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}

// tablesFromRows finds runs of consecutive rows that share a cell count of at
// least two. A run needs a header and one data row to count as a table.
func tablesFromRows(rows [][]string) [][][]string {
	var tables [][][]string
	var run [][]string
	flush := func() {
		if len(run) >= 2 {
			tables = append(tables, run)
		}
		run = nil
	}
	for _, r := range rows {
		if len(r) < 2 {
			flush()
			continue
		}
		if len(run) > 0 && len(r) != len(run[0]) {
			flush()
		}
		run = append(run, r)
	}
	flush()
	return tables
}
