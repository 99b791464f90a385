package analysis

import (
	"strings"

	"dataanalyzer-ai/backend/models"
)

// Profile selects between the general-purpose analyzer and the real-estate
// flavored one.
type Profile struct {
	Name       string
	Extensions []string
	RealEstate bool
	Roles      RoleStrategy
}

var (
	Generic = Profile{
		Name:       "generic",
		Extensions: []string{".csv", ".tsv", ".xlsx", ".xls", ".pdf"},
		Roles:      InferRoles,
	}
	RealEstate = Profile{
		Name:       "realestate",
		Extensions: []string{".csv", ".xlsx", ".xls"},
		RealEstate: true,
		Roles:      InferRoles,
	}
)

// ChartDateKeywords pick the x axis of the generic chart: the first column,
// in table order, whose name contains one of them.
var ChartDateKeywords = []string{"year", "date", "time", "period", "month"}

// ProfileByName falls back to Generic for unknown names.
func ProfileByName(name string) Profile {
	if strings.EqualFold(name, RealEstate.Name) || strings.EqualFold(name, "real-estate") {
		return RealEstate
	}
	return Generic
}

func (p Profile) Supports(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range p.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// FilterColumns lists the columns a query is matched against. The real-estate
// profile searches the area column only (positional fallback included); the
// generic profile tries a keyword-detected area column, then every text column.
func (p Profile) FilterColumns(t *models.Table, roles RoleMap) []string {
	if p.RealEstate {
		if c, ok := roles.Column(RoleArea); ok {
			return []string{c}
		}
		return nil
	}
	var cols []string
	if c, ok := roles.Detected(RoleArea); ok {
		cols = append(cols, c)
	}
	for _, c := range t.ColumnsOfKind(models.KindText) {
		if len(cols) > 0 && cols[0] == c {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// Chart builds the chart series for a filtered table.
func (p Profile) Chart(t *models.Table, roles RoleMap) []models.ChartPoint {
	if p.RealEstate {
		area, okA := roles.Column(RoleArea)
		year, okY := roles.Column(RoleYear)
		price, okP := roles.Column(RolePrice)
		if !okA || !okY || !okP {
			return []models.ChartPoint{}
		}
		return AreaTrend(t, area, year, price, MaxChartAreas)
	}
	names := t.ColumnNames()
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	i := firstMatch(lower, ChartDateKeywords)
	if i < 0 {
		return []models.ChartPoint{}
	}
	date := names[i]
	return GroupMeans(t, date, firstNumericExcept(t, date), MaxChartPoints)
}

func firstNumericExcept(t *models.Table, skip string) string {
	for _, c := range t.ColumnsOfKind(models.KindNumeric) {
		if c != skip {
			return c
		}
	}
	return ""
}
