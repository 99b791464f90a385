package loader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"dataanalyzer-ai/backend/models"
)

// readExcel parses the first sheet; its first row is the header. Cells to
// the right of the header get generated names.
func readExcel(data []byte) (*models.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyOrUnreadable
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnreadable, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyOrUnreadable
	}

	header := rows[0]
	width := len(header)
	for _, r := range rows[1:] {
		if len(r) > width {
			width = len(r)
		}
	}
	for len(header) < width {
		header = append(header, "")
	}
	return buildTable(header, rows[1:])
}
