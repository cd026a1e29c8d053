package normalize

import (
	"strconv"
	"strings"
)

// SplitFullName breaks one free-text full-name field into its parts, used
// when the structured first/last columns are empty and the name landed in a
// catch-all field. One token is a bare first name; two are first/last; three
// or more follow the regional convention first / father / rest-as-last.
// This is a heuristic, not a guarantee.
func SplitFullName(freeText string) (first, father, last *string) {
	parts := strings.Fields(freeText)
	switch {
	case len(parts) == 0:
		return nil, nil, nil
	case len(parts) == 1:
		return &parts[0], nil, nil
	case len(parts) == 2:
		return &parts[0], nil, &parts[1]
	default:
		rest := strings.Join(parts[2:], " ")
		return &parts[0], &parts[1], &rest
	}
}

// Nationality resolves a raw nationality value. Textual values pass through
// trimmed; numeric ids are looked up in the mapping loaded from the source
// system, falling back to the stringified id when unmapped.
func Nationality(v any, idToName map[int]string) *string {
	if v == nil {
		return nil
	}
	if s, isString := v.(string); isString {
		return Text(s, 0)
	}

	id := Int(v)
	if id == nil {
		return Text(v, 0)
	}
	if name, ok := idToName[*id]; ok {
		n := strings.TrimSpace(name)
		if n != "" {
			return &n
		}
	}
	fallback := strconv.Itoa(*id)
	return &fallback
}
