package analysis

import (
	"strings"

	"dataanalyzer-ai/backend/models"
)

// MinTokenLen is the shortest query token used for filtering; shorter words
// ("in", "of") are dropped.
const MinTokenLen = 3

type FilterResult struct {
	Rows   *models.Table
	Tokens []string
	Token  string // token that produced the match
	Column string // column it matched in
	// Unfiltered is set when there was nothing to filter on; Rows is then the input table.
	Unfiltered bool
}

// Empty reports a filter that ran and matched nothing.
func (r FilterResult) Empty() bool {
	return !r.Unfiltered && r.Rows.NumRows() == 0
}

// Tokenize lower-cases the query, splits on whitespace and drops short tokens.
func Tokenize(query string) []string {
	out := []string{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len([]rune(w)) >= MinTokenLen {
			out = append(out, w)
		}
	}
	return out
}

// Filter keeps the rows matching the first token that hits anything. Tokens
// are tried in query order; for each token the columns are tried in order.
// Matches of different tokens are never combined. Matching rows are
// deduplicated by full-row equality.
func Filter(t *models.Table, columns []string, query string) FilterResult {
	tokens := Tokenize(query)
	cols := make([]*models.Column, 0, len(columns))
	for _, name := range columns {
		if c, ok := t.Column(name); ok {
			cols = append(cols, c)
		}
	}
	if len(tokens) == 0 || len(cols) == 0 {
		return FilterResult{Rows: t, Tokens: tokens, Unfiltered: true}
	}

	lowered := make([][]string, len(cols))
	for i, c := range cols {
		lowered[i] = make([]string, len(c.Values))
		for j, v := range c.Values {
			lowered[i][j] = strings.ToLower(v)
		}
	}

	for _, tok := range tokens {
		for i, c := range cols {
			var idx []int
			for j, v := range lowered[i] {
				if strings.Contains(v, tok) {
					idx = append(idx, j)
				}
			}
			if len(idx) > 0 {
				return FilterResult{Rows: t.Subset(dedupe(t, idx)), Tokens: tokens, Token: tok, Column: c.Name}
			}
		}
	}
	return FilterResult{Rows: t.Subset(nil), Tokens: tokens}
}

func dedupe(t *models.Table, idx []int) []int {
	seen := make(map[string]struct{}, len(idx))
	out := idx[:0:0]
	for _, i := range idx {
		key := strings.Join(t.Row(i), "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, i)
	}
	return out
}

// Suggestions returns up to n distinct non-empty values of column, in order
// of appearance.
func Suggestions(t *models.Table, column string, n int) []string {
	out := []string{}
	c, ok := t.Column(column)
	if !ok {
		return out
	}
	seen := map[string]struct{}{}
	for _, v := range c.Values {
		if len(out) >= n {
			break
		}
		if models.IsMissing(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
