package ui

import (
	"strings"

	"github.com/rackline/rackline/internal/store"
)

// filterTerm is one parsed token of a filter expression. A term with a
// field matches only that field; a bare term matches any of the common
// display fields. Values separated by commas are alternatives.
type filterTerm struct {
	field  string
	values []string
	negate bool
}

// bareFields are the fields a fieldless term is matched against.
var bareFields = []string{"hostname", "name", "status", "zone", "owner", "cidr", "architecture"}

// parseFilter splits a filter expression into terms. Tokens look like
// "status:deployed", "zone:east,west", "!owner:admin", or a bare word.
func parseFilter(expr string) []filterTerm {
	var terms []filterTerm
	for _, token := range strings.Fields(expr) {
		term := filterTerm{}
		if strings.HasPrefix(token, "!") {
			term.negate = true
			token = token[1:]
		}
		if field, value, ok := strings.Cut(token, ":"); ok && field != "" {
			term.field = field
			token = value
		}
		for _, v := range strings.Split(token, ",") {
			if v != "" {
				term.values = append(term.values, strings.ToLower(v))
			}
		}
		if len(term.values) > 0 {
			terms = append(terms, term)
		}
	}
	return terms
}

// matchesFilter reports whether an item satisfies every term of the
// expression. An empty expression matches everything.
func matchesFilter(it *store.Item, expr string) bool {
	for _, term := range parseFilter(expr) {
		if term.matches(it) == term.negate {
			return false
		}
	}
	return true
}

func (t filterTerm) matches(it *store.Item) bool {
	fields := bareFields
	if t.field != "" {
		fields = []string{t.field}
	}
	for _, field := range fields {
		got := strings.ToLower(itemFieldString(it, field))
		if got == "" {
			continue
		}
		for _, want := range t.values {
			if strings.Contains(got, want) {
				return true
			}
		}
	}
	return false
}

// itemFieldString renders a field for matching. String fields match as
// is; string lists (tags) match any element.
func itemFieldString(it *store.Item, field string) string {
	v, ok := it.Field(field)
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []any:
		var parts []string
		for _, entry := range val {
			if s, ok := entry.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
