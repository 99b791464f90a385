package analysis

import "strings"

type Role string

const (
	RoleArea  Role = "area"
	RolePrice Role = "price"
	RoleYear  Role = "year"
)

// RoleRule maps a role to the column-name keywords that reveal it and the
// column position used when no keyword matches (-1 disables the fallback).
type RoleRule struct {
	Role          Role
	Keywords      []string
	FallbackIndex int
}

// DefaultRoleRules is evaluated in order; roles are resolved independently,
// so one column may carry several roles.
var DefaultRoleRules = []RoleRule{
	{Role: RoleArea, Keywords: []string{"area", "location", "locality", "city", "place", "region"}, FallbackIndex: 1},
	{Role: RolePrice, Keywords: []string{"price", "cost", "rate", "sold", "sale", "value"}, FallbackIndex: 2},
	{Role: RoleYear, Keywords: []string{"year", "date", "time", "period"}, FallbackIndex: 0},
}

// RoleAssignment is the column chosen for a role. Detected is false when the
// column came from the positional fallback.
type RoleAssignment struct {
	Column   string
	Detected bool
}

type RoleMap map[Role]RoleAssignment

// Column returns the column for a role, fallback included.
func (m RoleMap) Column(r Role) (string, bool) {
	a, ok := m[r]
	return a.Column, ok
}

// Detected returns the column for a role only when a keyword matched.
func (m RoleMap) Detected(r Role) (string, bool) {
	a, ok := m[r]
	if !ok || !a.Detected {
		return "", false
	}
	return a.Column, true
}

// Names flattens the map for JSON responses.
func (m RoleMap) Names() map[string]string {
	out := make(map[string]string, len(m))
	for r, a := range m {
		out[string(r)] = a.Column
	}
	return out
}

// RoleStrategy maps an ordered list of column names to roles.
type RoleStrategy func(columns []string) RoleMap

// KeywordRoles builds a strategy from ordered rules: the first column whose
// lower-cased name contains any keyword wins.
func KeywordRoles(rules []RoleRule) RoleStrategy {
	return func(columns []string) RoleMap {
		lower := make([]string, len(columns))
		for i, c := range columns {
			lower[i] = strings.ToLower(c)
		}
		out := RoleMap{}
		for _, rule := range rules {
			if i := firstMatch(lower, rule.Keywords); i >= 0 {
				out[rule.Role] = RoleAssignment{Column: columns[i], Detected: true}
				continue
			}
			if rule.FallbackIndex >= 0 && rule.FallbackIndex < len(columns) {
				out[rule.Role] = RoleAssignment{Column: columns[rule.FallbackIndex]}
			}
		}
		return out
	}
}

// InferRoles applies DefaultRoleRules.
func InferRoles(columns []string) RoleMap {
	return KeywordRoles(DefaultRoleRules)(columns)
}

func firstMatch(lower []string, keywords []string) int {
	for i, name := range lower {
		for _, k := range keywords {
			if strings.Contains(name, k) {
				return i
			}
		}
	}
	return -1
}
