package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"

	"dataanalyzer-ai/backend/models"
)

// delimiters are tried in this order; the first one that splits the header
// into more than one column wins.
var delimiters = []rune{',', ';', '\t', '|'}

func readDelimited(data []byte) (*models.Table, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	for _, d := range delimiters {
		t, err := readWith(data, d)
		if err != nil {
			continue
		}
		if t.NumCols() > 1 {
			return t, nil
		}
	}
	log.Printf("[loader] no delimiter produced more than one column, falling back to comma")
	return readWith(data, ',')
}

func readWith(data []byte, delim rune) (*models.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnreadable, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyOrUnreadable
	}
	return buildTable(records[0], records[1:])
}
