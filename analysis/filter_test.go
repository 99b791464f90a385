package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataanalyzer-ai/backend/models"
)

func listings(t *testing.T) *models.Table {
	t.Helper()
	tbl, err := models.NewTable(
		[]string{"area", "price", "year"},
		[][]string{
			{"Baner", "7200", "2021"},
			{"Wakad", "5100", "2021"},
			{"Baner", "7600", "2022"},
			{"Baner", "7200", "2021"},
			{"Hinjewadi", "4300", "2022"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"show", "prices", "baner"}, Tokenize("Show me  prices in BANER"))
	assert.Empty(t, Tokenize("a of in"))
}

func TestFilterFirstMatchingTokenWins(t *testing.T) {
	tbl := listings(t)

	res := Filter(tbl, []string{"area"}, "compare wakad and baner")
	assert.Equal(t, "wakad", res.Token)
	assert.Equal(t, "area", res.Column)
	assert.Equal(t, 1, res.Rows.NumRows())
	assert.Equal(t, []string{"Wakad", "5100", "2021"}, res.Rows.Row(0))
}

func TestFilterDeduplicatesRows(t *testing.T) {
	res := Filter(listings(t), []string{"area"}, "baner")
	require.Equal(t, 2, res.Rows.NumRows())
	assert.Equal(t, []string{"Baner", "7200", "2021"}, res.Rows.Row(0))
	assert.Equal(t, []string{"Baner", "7600", "2022"}, res.Rows.Row(1))
	assert.False(t, res.Empty())
}

func TestFilterBounds(t *testing.T) {
	tbl, err := models.NewTable([]string{"city", "n"}, [][]string{{"North Pune", "1"}, {"South Pune", "2"}, {"Pune East", "3"}})
	require.NoError(t, err)

	none := Filter(tbl, []string{"city"}, "mumbai")
	assert.True(t, none.Empty())
	assert.Equal(t, 0, none.Rows.NumRows())

	all := Filter(tbl, []string{"city"}, "pune")
	assert.Equal(t, tbl.NumRows(), all.Rows.NumRows())
	assert.LessOrEqual(t, all.Rows.NumRows(), tbl.NumRows())
}

func TestFilterUnfiltered(t *testing.T) {
	tbl := listings(t)

	res := Filter(tbl, []string{"area"}, "hi to")
	assert.True(t, res.Unfiltered)
	assert.Same(t, tbl, res.Rows)
	assert.False(t, res.Empty())

	res = Filter(tbl, []string{"missing"}, "baner")
	assert.True(t, res.Unfiltered)
}

func TestFilterTriesColumnsInOrder(t *testing.T) {
	tbl, err := models.NewTable([]string{"name", "notes"}, [][]string{{"Alpha", "beta note"}, {"Beta", "x"}})
	require.NoError(t, err)

	res := Filter(tbl, []string{"name", "notes"}, "beta")
	assert.Equal(t, "name", res.Column)
	assert.Equal(t, []string{"Beta", "x"}, res.Rows.Row(0))

	res = Filter(tbl, []string{"notes", "name"}, "beta")
	assert.Equal(t, "notes", res.Column)
	assert.Equal(t, []string{"Alpha", "beta note"}, res.Rows.Row(0))
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t, []string{"Baner", "Wakad"}, Suggestions(listings(t), "area", 2))
	assert.Equal(t, []string{"Baner", "Wakad", "Hinjewadi"}, Suggestions(listings(t), "area", 5))
	assert.Empty(t, Suggestions(listings(t), "nope", 5))
}
