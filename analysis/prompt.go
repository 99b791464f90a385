package analysis

import (
	"fmt"
	"strings"
)

const SystemPrompt = "You are an expert data analyst who can understand any type of dataset and provide insights."

// BuildPrompt renders the summary and the user's query into the fixed
// analyst template.
func BuildPrompt(s DataSummary, query string) string {
	var b strings.Builder
	b.WriteString("You are a data analyst. Analyze this dataset and answer the user's query.\n\n")
	b.WriteString("DATASET INFO:\n")
	fmt.Fprintf(&b, "- Total Rows: %d\n", s.Rows)
	fmt.Fprintf(&b, "- Columns: %s\n", list(s.Columns))
	kinds := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		kinds[i] = c + "=" + string(s.Kinds[c])
	}
	fmt.Fprintf(&b, "- Column Types: %s\n", list(kinds))
	fmt.Fprintf(&b, "- Numeric Columns: %s\n", list(s.NumericColumns))
	fmt.Fprintf(&b, "- Text Columns: %s\n", list(s.TextColumns))
	fmt.Fprintf(&b, "- Date Columns: %s\n\n", list(s.DateColumns))

	b.WriteString("STATISTICS:\n")
	if len(s.StatColumns) == 0 {
		b.WriteString("- none\n")
	}
	for _, c := range s.StatColumns {
		st := s.Stats[c]
		fmt.Fprintf(&b, "- %s: mean=%.2f, min=%.2f, max=%.2f\n", c, st.Mean, st.Min, st.Max)
	}

	fmt.Fprintf(&b, "\nSAMPLE DATA (first %d rows):\n", len(s.Samples))
	for _, rec := range s.Samples {
		b.WriteString("- ")
		b.WriteString(record(rec, s.Columns))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nUSER QUERY: %s\n\n", query)
	b.WriteString(`Please provide:
1. A clear answer to the user's query based on the data
2. Key insights from the data
3. Any trends or patterns you notice
4. Recommendations or next steps

Format your response in a friendly, conversational way. Use emojis where appropriate. Keep it under 250 words.`)
	return b.String()
}

func list(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func record(rec map[string]any, order []string) string {
	parts := make([]string, 0, len(order))
	for _, k := range order {
		v, ok := rec[k]
		if !ok {
			continue
		}
		if v == nil {
			v = "null"
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
