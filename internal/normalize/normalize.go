// Package normalize holds the pure field normalizers applied to raw source
// values before they reach the target store. Every function is total: any
// input, including nil, empty strings and upstream stringification leaks like
// the literal "None", degrades to nil instead of failing. Whether a nil result
// makes the row an error is the caller's decision.
package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// GenderPolicy selects how unrecognized gender tokens are treated. The two
// historical pipelines disagreed: the legacy merge passed unknown tokens
// through lowercased, the Excel import discarded them.
type GenderPolicy int

const (
	// GenderStrict discards unrecognized tokens.
	GenderStrict GenderPolicy = iota
	// GenderLenient passes unrecognized tokens through lowercased.
	GenderLenient
)

// ParseGenderPolicy maps a config token to a policy.
func ParseGenderPolicy(s string) (GenderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return GenderStrict, nil
	case "lenient":
		return GenderLenient, nil
	}
	return GenderStrict, fmt.Errorf("unknown gender policy %q", s)
}

// PhonePolicy selects the phone cleaning rule. Each pipeline picks exactly
// one; the two are never mixed within a run.
type PhonePolicy int

const (
	// PhoneDigitsOnly keeps digits and a leading +, prefixing + when absent.
	PhoneDigitsOnly PhonePolicy = iota
	// PhoneWhitespaceOnly collapses internal whitespace and nothing else.
	PhoneWhitespaceOnly
)

// ParsePhonePolicy maps a config token to a policy.
func ParsePhonePolicy(s string) (PhonePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "digits":
		return PhoneDigitsOnly, nil
	case "whitespace":
		return PhoneWhitespaceOnly, nil
	}
	return PhoneDigitsOnly, fmt.Errorf("unknown phone policy %q", s)
}

// sentinels are upstream stringifications of "no value".
var sentinels = map[string]bool{
	"none": true,
	"nan":  true,
	"null": true,
	"nil":  true,
}

// Stringify renders a raw source value as a string. The second return is
// false when the value carries no text at all (nil or empty).
func Stringify(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []byte:
		s = string(t)
	case fmt.Stringer:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int32:
		s = strconv.FormatInt(int64(t), 10)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprintf("%v", t)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// CollapseWhitespace reduces every whitespace run to a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text cleans a free-text value: nil/empty/sentinel input becomes nil,
// whitespace runs collapse to single spaces, and the result is silently
// truncated to maxLen runes when maxLen > 0. Truncation is best-effort import
// behavior, not an error.
func Text(v any, maxLen int) *string {
	s, ok := Stringify(v)
	if !ok {
		return nil
	}
	if sentinels[strings.ToLower(s)] {
		return nil
	}
	s = CollapseWhitespace(s)
	if s == "" {
		return nil
	}
	if maxLen > 0 {
		runes := []rune(s)
		if len(runes) > maxLen {
			s = string(runes[:maxLen])
		}
	}
	return &s
}

// Gender maps raw gender encodings ("M", "female", 1, "Woman") to canonical
// tokens. Unrecognized tokens resolve per policy.
func Gender(v any, policy GenderPolicy) *string {
	s, ok := Stringify(v)
	if !ok {
		return nil
	}
	g := strings.ToLower(s)
	if sentinels[g] {
		return nil
	}
	switch g {
	case "male", "m", "1", "man":
		out := "male"
		return &out
	case "female", "f", "2", "woman":
		out := "female"
		return &out
	}
	if policy == GenderLenient {
		return &g
	}
	return nil
}

// Phone cleans a phone value according to the pipeline's policy.
func Phone(v any, policy PhonePolicy) *string {
	s, ok := Stringify(v)
	if !ok {
		return nil
	}
	if sentinels[strings.ToLower(s)] {
		return nil
	}

	switch policy {
	case PhoneWhitespaceOnly:
		s = CollapseWhitespace(s)
		if s == "" {
			return nil
		}
		return &s
	default: // PhoneDigitsOnly
		var b strings.Builder
		for _, r := range s {
			if unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		digits := b.String()
		if digits == "" {
			return nil
		}
		out := "+" + digits
		return &out
	}
}

// NameKey builds the lookup key shared by the name index and its callers:
// lowercase with whitespace runs collapsed. Empty input yields "".
func NameKey(s string) string {
	return strings.ToLower(CollapseWhitespace(s))
}

// Float extracts a numeric value, tolerating string encodings. Unparseable
// input yields nil.
func Float(v any) *float64 {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		return &t
	case float32:
		f := float64(t)
		return &f
	case int:
		f := float64(t)
		return &f
	case int32:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	}
	s, ok := Stringify(v)
	if !ok || sentinels[strings.ToLower(s)] {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// FloatOr is Float with a default for missing or malformed input.
func FloatOr(v any, def float64) float64 {
	if f := Float(v); f != nil {
		return *f
	}
	return def
}

// Int extracts an integer value, truncating numeric strings like "3.0".
func Int(v any) *int {
	f := Float(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
