package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"dataanalyzer-ai/backend/models"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrEmptyOrUnreadable = errors.New("could not read file or file is empty")
)

// Result holds either a parsed table or, for PDFs without tables, a text preview.
type Result struct {
	Table       *models.Table
	TextPreview string
}

const previewRunes = 500

// Extensions lists every extension Load understands.
var Extensions = []string{".csv", ".tsv", ".xlsx", ".xls", ".pdf"}

// Load parses data according to the extension of filename.
func Load(filename string, data []byte) (Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		t   *models.Table
		err error
	)
	switch ext {
	case ".csv", ".tsv":
		t, err = readDelimited(data)
	case ".xlsx", ".xls":
		t, err = readExcel(data)
	case ".pdf":
		return readPDF(data)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Result{}, err
	}
	if err := validate(t); err != nil {
		return Result{}, err
	}
	return Result{Table: t}, nil
}

func validate(t *models.Table) error {
	if t == nil || t.NumRows() == 0 || t.NumCols() == 0 {
		return ErrEmptyOrUnreadable
	}
	return nil
}

// buildTable normalizes headers and turns raw rows into a typed table.
// Fully blank rows are dropped; rows wider than the header are an error.
func buildTable(header []string, rows [][]string) (*models.Table, error) {
	names := normalizeHeaders(header)
	kept := make([][]string, 0, len(rows))
	for _, r := range rows {
		if blank(r) {
			continue
		}
		kept = append(kept, r)
	}
	t, err := models.NewTable(names, kept)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrUnreadable, err)
	}
	return t, nil
}

func normalizeHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	dups := make(map[string]int)
	for i, v := range raw {
		h := strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for used[name] {
			dups[h]++
			name = h + "." + strconv.Itoa(dups[h])
		}
		used[name] = true
		headers[i] = name
	}
	return headers
}

func blank(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
