package analysis

import (
	"github.com/montanaflynn/stats"

	"dataanalyzer-ai/backend/models"
)

const (
	maxStatColumns = 5
	maxSampleRows  = 3
)

type ColumnStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// DataSummary is the structured view of a table that feeds both the LLM
// prompt and the fallback text.
type DataSummary struct {
	Rows           int                          `json:"rows"`
	Columns        []string                     `json:"columns"`
	Kinds          map[string]models.ColumnKind `json:"kinds"`
	NumericColumns []string                     `json:"numeric_columns"`
	TextColumns    []string                     `json:"text_columns"`
	DateColumns    []string                     `json:"date_columns"`
	StatColumns    []string                     `json:"stat_columns"`
	Stats          map[string]ColumnStats       `json:"stats"`
	Samples        []map[string]any             `json:"samples"`
}

// Summarize computes counts, kinds, mean/min/max for up to five numeric
// columns and the first three rows.
func Summarize(t *models.Table) DataSummary {
	s := DataSummary{
		Rows:           t.NumRows(),
		Columns:        t.ColumnNames(),
		Kinds:          t.Kinds(),
		NumericColumns: t.ColumnsOfKind(models.KindNumeric),
		TextColumns:    t.ColumnsOfKind(models.KindText),
		DateColumns:    t.ColumnsOfKind(models.KindDate),
		StatColumns:    []string{},
		Stats:          map[string]ColumnStats{},
		Samples:        t.Records(maxSampleRows),
	}
	for _, name := range s.NumericColumns {
		if len(s.StatColumns) >= maxStatColumns {
			break
		}
		c, _ := t.Column(name)
		st, ok := describe(c.ValidNumbers())
		if !ok {
			continue
		}
		s.StatColumns = append(s.StatColumns, name)
		s.Stats[name] = st
	}
	return s
}

func describe(vals []float64) (ColumnStats, bool) {
	mean, err := stats.Mean(vals)
	if err != nil {
		return ColumnStats{}, false
	}
	lo, err := stats.Min(vals)
	if err != nil {
		return ColumnStats{}, false
	}
	hi, err := stats.Max(vals)
	if err != nil {
		return ColumnStats{}, false
	}
	return ColumnStats{Mean: mean, Min: lo, Max: hi}, true
}
