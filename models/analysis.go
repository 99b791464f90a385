package models

type AnalyzeRequest struct {
	Query string `json:"query"`
}

// ChartPoint is one aggregated (category, value) pair; Label names the series.
type ChartPoint struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Label    string  `json:"label"`
}

type DataTypes struct {
	Numeric []string `json:"numeric"`
	Text    []string `json:"text"`
	Dates   []string `json:"dates"`
}

type UploadResponse struct {
	Message      string    `json:"message"`
	Rows         int       `json:"rows"`
	Columns      []string  `json:"columns"`
	SampleAreas  []string  `json:"sample_areas"`
	DataTypes    DataTypes `json:"data_types"`
	SessionToken string    `json:"session_token"`
}

// TextPreviewResponse is returned for PDFs that hold text but no tables.
type TextPreviewResponse struct {
	Message      string   `json:"message"`
	Rows         int      `json:"rows"`
	Columns      []string `json:"columns"`
	SampleAreas  []string `json:"sample_areas"`
	TextPreview  string   `json:"text_preview"`
	Note         string   `json:"note"`
	SessionToken string   `json:"session_token,omitempty"`
}

type FilterInfo struct {
	Token  string `json:"token,omitempty"`
	Column string `json:"column,omitempty"`
}

type AnalyzeMetadata struct {
	TotalRows     int               `json:"total_rows"`
	ColumnsUsed   []string          `json:"columns_used"`
	Filter        *FilterInfo       `json:"filter,omitempty"`
	Roles         map[string]string `json:"roles"`
	InsightSource string            `json:"insight_source"`
}

type AnalyzeResponse struct {
	Summary     string           `json:"summary"`
	ChartData   []ChartPoint     `json:"chart_data"`
	TableData   []map[string]any `json:"table_data"`
	Metadata    *AnalyzeMetadata `json:"metadata,omitempty"`
	Suggestions []string         `json:"suggestions,omitempty"`
	// SessionToken is a refreshed token, set only when the request carried one.
	SessionToken string `json:"session_token,omitempty"`
}
