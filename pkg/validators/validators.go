// Package validators holds the pure extractors that pull structured slot
// values (branch, category, gender, rank, year) out of free-form chat text.
package validators

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"admissions-chatbot-be/pkg/cutoff"
)

// Four-digit numbers inside this band are calendar years, never ranks.
// "rank is 2019" stays a rank; "rank 2023" does not.
const (
	yearMin = 2020
	yearMax = 2030
)

const maxInputLen = 1000

var (
	// Accepts both western (15,000) and Indian (1,15,000) digit grouping.
	rankRe      = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{2,3})+|\d+)\s*(k)?\b`)
	yearRe      = regexp.MustCompile(`\b(20\d{2})\b`)
	phoneRe     = regexp.MustCompile(`\b(\d{10})\b`)
	emailRe     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	controlRe   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	spaceRe     = regexp.MustCompile(`\s+`)
	allBranchRe = regexp.MustCompile(`(?i)\b(all|every|each)\b`)
)

// SanitiseInput trims, strips control characters, collapses whitespace and
// bounds the length of raw user input.
func SanitiseInput(s string) string {
	s = controlRe.ReplaceAllString(s, "")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if len(s) > maxInputLen {
		s = s[:maxInputLen]
	}
	return s
}

// branch alias keys sorted longest-first so "cse csm" wins over "cse".
var sortedBranchAliases = func() []string {
	aliases := cutoff.BranchAliases()
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

var ambiguousAliases = map[string]bool{"me": true, "it": true, "ds": true, "cs": true}

var sortedCategoryAliases = func() []string {
	aliases := cutoff.CategoryAliases()
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// AllBranches is the sentinel branch code meaning "every branch".
const AllBranches = "ALL"

// ExtractBranches finds every branch mentioned in the message, in canonical
// codes, deduplicated. The AllBranches sentinel is returned when the message
// asks for all/every branch.
func ExtractBranches(s string) []string {
	lower := strings.ToLower(s)
	if allBranchRe.MatchString(lower) && strings.Contains(lower, "branch") ||
		strings.Contains(lower, "all departments") || strings.Contains(lower, "all branches") {
		return []string{AllBranches}
	}

	aliases := cutoff.BranchAliases()
	seen := map[string]bool{}
	var out []string
	consumed := lower
	for _, alias := range sortedBranchAliases {
		if !containsWord(consumed, alias) {
			continue
		}
		// "me", "it" and "ds" are common English words; accept them as
		// branch codes only when the user wrote them in caps.
		if ambiguousAliases[alias] && !containsWord(s, strings.ToUpper(alias)) {
			continue
		}
		code := aliases[alias]
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
		consumed = strings.ReplaceAll(consumed, alias, " ")
	}
	return out
}

// ExtractBranch returns the first branch found, or "".
func ExtractBranch(s string) string {
	if branches := ExtractBranches(s); len(branches) > 0 && branches[0] != "ALL" {
		return branches[0]
	}
	return ""
}

// ExtractCategory finds an admission category code in the message, or "".
func ExtractCategory(s string) string {
	lower := strings.ToLower(s)
	aliases := cutoff.CategoryAliases()
	for _, alias := range sortedCategoryAliases {
		if containsWord(lower, alias) {
			return aliases[alias]
		}
	}
	return ""
}

// ExtractGender recognizes boy/girl synonyms; "both"/"all" map to the "ALL"
// sentinel meaning no gender filter.
func ExtractGender(s string) string {
	lower := strings.ToLower(s)
	switch {
	case containsWord(lower, "both") || containsWord(lower, "both genders"):
		return "ALL"
	case containsWord(lower, "boy") || containsWord(lower, "boys") || containsWord(lower, "male"):
		return "Boys"
	case containsWord(lower, "girl") || containsWord(lower, "girls") || containsWord(lower, "female") || containsWord(lower, "ladies"):
		return "Girls"
	default:
		return ""
	}
}

// MaxRank is the highest EAPCET rank accepted as plausible. Numbers above
// it are ignored so the caller can re-prompt instead of querying garbage.
const MaxRank = 200000

// ExtractRank pulls a rank number out of the message. Supports "21k"
// shorthand and comma-grouped digits. Four-digit numbers inside the
// calendar-year band are skipped so "rank 2023" is not misread as a rank.
// Returns nil when no rank is present.
func ExtractRank(s string) *int {
	for _, m := range rankRe.FindAllStringSubmatch(s, -1) {
		digits := strings.ReplaceAll(m[1], ",", "")
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		if m[2] != "" {
			n *= 1000
		}
		if n >= yearMin && n <= yearMax && len(digits) == 4 && m[2] == "" {
			continue
		}
		if n <= 0 || n > MaxRank {
			continue
		}
		return &n
	}
	return nil
}

// ExtractYear finds a counselling year within the supported band, or nil.
func ExtractYear(s string) *int {
	for _, m := range yearRe.FindAllStringSubmatch(s, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= yearMin && n <= yearMax {
			return &n
		}
	}
	return nil
}

// ExtractPhone finds a 10-digit phone number, or "".
func ExtractPhone(s string) string {
	if m := phoneRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// IsValidEmail reports whether s is a plausible email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}
