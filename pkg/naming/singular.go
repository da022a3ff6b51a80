package naming

import "strings"

// Irregular plural forms, checked before the suffix rules.
var irregularSingulars = map[string]string{
	"people":   "person",
	"children": "child",
	"men":      "man",
	"women":    "woman",
	"teeth":    "tooth",
	"feet":     "foot",
	"geese":    "goose",
	"mice":     "mouse",
	"oxen":     "ox",
}

var irregularPlurals = map[string]string{}

func init() {
	for plural, singular := range irregularSingulars {
		irregularPlurals[singular] = plural
	}
}

// Singular reduces a plural English noun to its singular form. Rules are
// applied in order: the irregular table, "ies"→"y", "es" stripped after a
// sibilant stem (ss/sh/ch/x/z), "es"→"e", and finally a trailing "s" strip.
// Words that match no rule are returned unchanged.
func Singular(word string) string {
	lower := strings.ToLower(word)
	if s, ok := irregularSingulars[lower]; ok {
		return matchCase(word, s)
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 3:
		return word[:len(word)-3] + "y"
	case hasSibilantES(lower):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "es") && len(lower) > 2:
		return word[:len(word)-1]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 1:
		return word[:len(word)-1]
	}
	return word
}

// Plural is the inverse of Singular over the rule-table domain.
func Plural(word string) string {
	lower := strings.ToLower(word)
	if p, ok := irregularPlurals[lower]; ok {
		return matchCase(word, p)
	}

	switch {
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !isVowel(lower[len(lower)-2]):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "sh"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"):
		return word + "es"
	default:
		return word + "s"
	}
}

// hasSibilantES reports whether the word ends in "es" preceded by a sibilant
// stem, e.g. "boxes", "classes", "dishes".
func hasSibilantES(lower string) bool {
	if !strings.HasSuffix(lower, "es") {
		return false
	}
	stem := lower[:len(lower)-2]
	return strings.HasSuffix(stem, "ss") || strings.HasSuffix(stem, "sh") ||
		strings.HasSuffix(stem, "ch") || strings.HasSuffix(stem, "x") ||
		strings.HasSuffix(stem, "z")
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

// matchCase carries a leading capital from the source word onto the result.
func matchCase(source, result string) string {
	if source == "" || result == "" {
		return result
	}
	if source[0] >= 'A' && source[0] <= 'Z' {
		return strings.ToUpper(result[:1]) + result[1:]
	}
	return result
}
