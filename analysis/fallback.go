package analysis

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"dataanalyzer-ai/backend/models"
)

// FallbackSummary is the deterministic text used whenever the LLM cannot answer.
func FallbackSummary(s DataSummary, query string) string {
	cols := s.Columns
	more := ""
	if len(cols) > 5 {
		cols, more = cols[:5], "..."
	}
	var b strings.Builder
	b.WriteString("📊 Dataset Overview:\n\n")
	fmt.Fprintf(&b, "• Total Records: %d\n", s.Rows)
	fmt.Fprintf(&b, "• Columns: %s%s\n", strings.Join(cols, ", "), more)
	fmt.Fprintf(&b, "• Numeric Fields: %d\n\n", len(s.NumericColumns))
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	fmt.Fprintf(&b, "This dataset contains %d records with %d columns. ", s.Rows, len(s.Columns))
	if len(s.StatColumns) > 0 {
		c := s.StatColumns[0]
		fmt.Fprintf(&b, "Average %s: %.2f", c, s.Stats[c].Mean)
	}
	return strings.TrimSpace(b.String())
}

// Market strength tiers by average price.
const (
	TierExceptional = "exceptionally strong"
	TierStrong      = "strong"
	TierModerate    = "moderate"
	TierEmerging    = "emerging"
)

var tierAdvice = map[string]string{
	TierExceptional: "Premium market with high entry prices; suited to long-term capital appreciation rather than rental yield.",
	TierStrong:      "Well-established demand; a good fit for buyers seeking stable appreciation with moderate risk.",
	TierModerate:    "Balanced pricing with room to grow; worth considering for both end use and medium-term investment.",
	TierEmerging:    "Affordable entry point with growth potential; best for patient investors willing to wait for infrastructure to mature.",
}

// MarketTier classifies an average price and returns the advice sentence for it.
func MarketTier(avg float64) (tier, advice string) {
	switch {
	case avg > 8000:
		tier = TierExceptional
	case avg > 5000:
		tier = TierStrong
	case avg > 3000:
		tier = TierModerate
	default:
		tier = TierEmerging
	}
	return tier, tierAdvice[tier]
}

// Market summarizes price levels and the year-over-year trend of a filtered
// real-estate table.
type Market struct {
	AreaColumn, PriceColumn, YearColumn string
	Areas                               []string
	AvgPrice, MinPrice, MaxPrice        float64
	FirstYear, LastYear                 string
	Growth                              float64 // percent change between first and last year averages
	HasTrend                            bool
	Tier, Advice                        string
}

// AnalyzeMarket needs a numeric price column; ok is false otherwise.
func AnalyzeMarket(t *models.Table, roles RoleMap) (Market, bool) {
	area, okA := roles.Column(RoleArea)
	price, okP := roles.Column(RolePrice)
	year, okY := roles.Column(RoleYear)
	if !okA || !okP || !okY {
		return Market{}, false
	}
	pc, ok := t.Column(price)
	if !ok || pc.Kind != models.KindNumeric {
		return Market{}, false
	}
	vals := pc.ValidNumbers()
	st, ok := describe(vals)
	if !ok {
		return Market{}, false
	}
	m := Market{
		AreaColumn: area, PriceColumn: price, YearColumn: year,
		Areas:    Suggestions(t, area, 5),
		AvgPrice: st.Mean, MinPrice: st.Min, MaxPrice: st.Max,
	}
	m.Tier, m.Advice = MarketTier(m.AvgPrice)

	trend := GroupMeans(t, year, price, MaxChartPoints)
	if len(trend) >= 2 {
		first, last := trend[0], trend[len(trend)-1]
		m.FirstYear, m.LastYear = first.Category, last.Category
		if first.Value != 0 {
			if g, err := stats.Round((last.Value-first.Value)/first.Value*100, 1); err == nil {
				m.Growth = g
				m.HasTrend = true
			}
		}
	}
	return m, true
}

// MarketFallback is the real-estate flavored fallback text.
func MarketFallback(s DataSummary, m Market, query string) string {
	var b strings.Builder
	b.WriteString("🏠 Real Estate Market Analysis\n\n")
	fmt.Fprintf(&b, "Query: %q\n\n", query)
	fmt.Fprintf(&b, "• Records analyzed: %d\n", s.Rows)
	if len(m.Areas) > 0 {
		fmt.Fprintf(&b, "• Areas (%s): %s\n", m.AreaColumn, strings.Join(m.Areas, ", "))
	}
	fmt.Fprintf(&b, "• Average %s: %.2f\n", m.PriceColumn, m.AvgPrice)
	fmt.Fprintf(&b, "• Range: %.2f to %.2f\n", m.MinPrice, m.MaxPrice)
	if m.HasTrend {
		fmt.Fprintf(&b, "• Trend: %+.1f%% from %s to %s\n", m.Growth, m.FirstYear, m.LastYear)
	}
	fmt.Fprintf(&b, "\nMarket strength: this market looks %s. %s", m.Tier, m.Advice)
	return b.String()
}
