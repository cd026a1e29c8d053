package normalize

import (
	"regexp"
	"strings"
)

var (
	leadingNumberRe = regexp.MustCompile(`^\d+\s*[-.]\s*`)
	leadingTitleRe  = regexp.MustCompile(`(?i)^(dr\.|dr-|dr\s+|doctor\s+|dr$|doctor$)\s*`)
	trailingCodeRe  = regexp.MustCompile(`/\d+$`)
)

// ParseProviderName extracts a doctor's first and last name from the
// free-text company field of a vendor record. The legacy system filed doctors
// alongside suppliers, so the field carries clerical noise: numeric prefixes
// ("12-", "3. "), title tokens ("Dr", "Dr.", "Doctor"), slash-number suffixes
// ("/15"), and joint entries separated by "+" of which only the first is kept.
func ParseProviderName(freeText string) (first, last *string) {
	n := strings.TrimSpace(freeText)
	if n == "" {
		return nil, nil
	}

	n = leadingNumberRe.ReplaceAllString(n, "")
	n = leadingTitleRe.ReplaceAllString(n, "")
	n = trailingCodeRe.ReplaceAllString(n, "")
	if idx := strings.Index(n, "+"); idx >= 0 {
		n = n[:idx]
	}

	parts := strings.Fields(n)
	if len(parts) == 0 {
		return nil, nil
	}
	first = &parts[0]
	if len(parts) > 1 {
		rest := strings.Join(parts[1:], " ")
		last = &rest
	}
	return first, last
}

// ProviderFilter excludes vendor records that are companies rather than
// doctors. The keyword set is an operator decision: historical imports ran
// with different lists (labs, pharmacies, supply houses, in more than one
// language) and the last production run shipped with an empty list, so no
// default is hardcoded here.
type ProviderFilter struct {
	keywords []string
}

// NewProviderFilter builds a filter from the configured exclusion keywords.
func NewProviderFilter(keywords []string) *ProviderFilter {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			lowered = append(lowered, k)
		}
	}
	return &ProviderFilter{keywords: lowered}
}

// IsProvider reports whether the free text looks like a doctor rather than a
// company. A substring match against any exclusion keyword rejects the
// record; empty text passes (a later parse step rejects nameless records).
func (f *ProviderFilter) IsProvider(freeText string) bool {
	if freeText == "" {
		return true
	}
	n := strings.ToLower(freeText)
	for _, k := range f.keywords {
		if strings.Contains(n, k) {
			return false
		}
	}
	return true
}
