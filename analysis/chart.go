package analysis

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"dataanalyzer-ai/backend/models"
)

const (
	MaxChartPoints = 20
	MaxChartAreas  = 3
)

type group struct {
	key    string
	values []float64
}

// GroupMeans groups rows by groupCol and averages valueCol, emitting at most
// limit points. valueCol must be numeric; unresolvable columns yield an
// empty series.
func GroupMeans(t *models.Table, groupCol, valueCol string, limit int) []models.ChartPoint {
	out := []models.ChartPoint{}
	gc, ok := t.Column(groupCol)
	if !ok || groupCol == valueCol {
		return out
	}
	vc, ok := t.Column(valueCol)
	if !ok || vc.Kind != models.KindNumeric {
		return out
	}

	groups := collect(gc, vc)
	sortGroups(groups, gc.Kind)
	for _, g := range groups {
		if len(out) >= limit {
			break
		}
		mean, err := stats.Mean(g.values)
		if err != nil {
			continue
		}
		out = append(out, models.ChartPoint{Category: g.key, Value: mean, Label: valueCol})
	}
	return out
}

// AreaTrend emits one GroupMeans series per area for the first maxAreas
// distinct areas, in order of appearance. Each point is labeled with its area.
func AreaTrend(t *models.Table, areaCol, yearCol, priceCol string, maxAreas int) []models.ChartPoint {
	out := []models.ChartPoint{}
	ac, ok := t.Column(areaCol)
	if !ok || areaCol == yearCol || areaCol == priceCol {
		return out
	}
	for _, area := range Suggestions(t, areaCol, maxAreas) {
		var idx []int
		for i, v := range ac.Values {
			if v == area {
				idx = append(idx, i)
			}
		}
		for _, p := range GroupMeans(t.Subset(idx), yearCol, priceCol, MaxChartPoints) {
			p.Label = area
			out = append(out, p)
		}
	}
	return out
}

func collect(gc, vc *models.Column) []*group {
	byKey := map[string]*group{}
	var order []*group
	for i, key := range gc.Values {
		v, ok := vc.Float(i)
		if !ok || models.IsMissing(key) {
			continue
		}
		g, seen := byKey[key]
		if !seen {
			g = &group{key: key}
			byKey[key] = g
			order = append(order, g)
		}
		g.values = append(g.values, v)
	}
	return order
}

// sortGroups orders keys numerically when every key is a number,
// chronologically for date columns, and lexically otherwise.
func sortGroups(groups []*group, kind models.ColumnKind) {
	numeric := true
	for _, g := range groups {
		if _, ok := models.ParseNumber(g.key); !ok {
			numeric = false
			break
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].key, groups[j].key
		switch {
		case numeric:
			x, _ := models.ParseNumber(a)
			y, _ := models.ParseNumber(b)
			return x < y
		case kind == models.KindDate:
			x, _ := models.ParseDate(a)
			y, _ := models.ParseDate(b)
			return x.Before(y)
		default:
			return strings.Compare(a, b) < 0
		}
	})
}
