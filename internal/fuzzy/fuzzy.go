// Package fuzzy implements the string similarity primitives used by the
// matching engine: Levenshtein edit similarity, character n-gram Jaccard
// similarity, a blended name score, and keyword-based address comparison
// tuned for Turkish street addresses.
//
// All similarity functions return values in [0, 1] and treat their inputs as
// opaque strings; callers are expected to normalize beforehand. Functions are
// rune-aware so Turkish characters count as single edits.
package fuzzy

import (
	"regexp"
	"sort"
	"strings"
)

// LevenshteinDistance computes the minimum number of single-character
// insertions, deletions, and substitutions needed to turn a into b. Uses the
// two-row formulation, so memory is linear in the shorter string.
func LevenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	previous := make([]int, len(rb)+1)
	current := make([]int, len(rb)+1)
	for j := range previous {
		previous[j] = j
	}

	for i, ca := range ra {
		current[0] = i + 1
		for j, cb := range rb {
			insertion := previous[j+1] + 1
			deletion := current[j] + 1
			substitution := previous[j]
			if ca != cb {
				substitution++
			}
			current[j+1] = min3(insertion, deletion, substitution)
		}
		previous, current = current, previous
	}

	return previous[len(rb)]
}

// EditSimilarity converts Levenshtein distance into a similarity score by
// normalizing against the longer string. Two empty strings are identical
// (1.0); one empty string scores 0.0.
func EditSimilarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}

	distance := LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// NGramSimilarity computes Jaccard similarity over the case-folded character
// n-grams of the two strings. Strings shorter than n contribute themselves as
// a single gram. Two empty strings score 1.0, one empty string 0.0.
func NGramSimilarity(a, b string, n int) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	setA := ngrams(strings.ToLower(a), n)
	setB := ngrams(strings.ToLower(b), n)

	return jaccard(setA, setB)
}

// NameSimilarity blends edit similarity and bigram similarity into the score
// used for person-name comparison. Edit distance dominates the blend because
// it tolerates the single-character OCR substitutions typical of scanned
// receipts, while the bigram term rewards shared word fragments under token
// reordering. Either input empty scores 0.0.
func NameSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	return 0.6*EditSimilarity(a, b) + 0.4*NGramSimilarity(a, b, 2)
}

var (
	// Neighborhood, street, and avenue designators with the name captured
	// ahead of the suffix. The MAH pattern allows two-word names.
	addressUnitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+(?:\s+\w+)?)\s+MAH(?:ALLE)?(?:SI)?\.?`),
		regexp.MustCompile(`(\w+)\s+SOK(?:AK)?\.?`),
		regexp.MustCompile(`(\w+)\s+CAD(?:DESI)?\.?`),
	}

	// Apartment, floor, and door numbers become synthetic PREFIX_N tokens so
	// that unit numbers only match the same kind of unit.
	addressNumberPatterns = []struct {
		re     *regexp.Regexp
		prefix string
	}{
		{regexp.MustCompile(`DAIRE[:\s]*([0-9]+)`), "DAIRE"},
		{regexp.MustCompile(`KAT[:\s]*([0-9]+)`), "KAT"},
		{regexp.MustCompile(`NO[:\s]*([0-9]+)`), "NO"},
	}

	addressWordPattern = regexp.MustCompile(`\b([A-Z]{3,15})\b`)

	// Inner-digit repairs for words the OCR mangled, M0DA to MODA and K1RA
	// to KIRA. Only digits flanked by letters are rewritten so real house
	// numbers survive.
	innerZeroPattern = regexp.MustCompile(`([A-Z])0([A-Z])`)
	innerOnePattern  = regexp.MustCompile(`([A-Z])1([A-Z])`)

	addressFolder = strings.NewReplacer(
		"İ", "I", "ı", "I",
		"Ş", "S", "ş", "S",
		"Ğ", "G", "ğ", "G",
		"Ü", "U", "ü", "U",
		"Ö", "O", "ö", "O",
		"Ç", "C", "ç", "C",
	)
)

// addressStopwords are free-text tokens that appear in transfer descriptions
// but carry no location information.
var addressStopwords = map[string]struct{}{
	"KIRA": {}, "RENT": {},
	"OCAK": {}, "SUBAT": {}, "MART": {}, "NISAN": {}, "MAYIS": {},
	"HAZIRAN": {}, "TEMMUZ": {}, "AGUSTOS": {}, "EYLUL": {}, "EKIM": {},
	"KASIM": {}, "ARALIK": {},
	"TL": {}, "TRY": {}, "USD": {}, "EUR": {},
	"FAST": {}, "MESAJ": {}, "HAVALE": {},
}

// ExtractAddressKeywords pulls location-bearing tokens out of an address or
// transfer description: neighborhood and street names, general uppercase
// words outside the stopword list, and unit numbers as PREFIX_N tokens. The
// input is upper-cased, diacritic-folded, and OCR-repaired first. The result
// is deduplicated and sorted; an empty input yields nil.
func ExtractAddressKeywords(address string) []string {
	if address == "" {
		return nil
	}

	text := addressFolder.Replace(strings.ToUpper(address))
	text = innerZeroPattern.ReplaceAllString(text, "${1}O${2}")
	text = innerOnePattern.ReplaceAllString(text, "${1}I${2}")

	seen := make(map[string]struct{})

	for _, pattern := range addressUnitPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			for _, word := range strings.Fields(match[1]) {
				if len(word) > 2 {
					seen[word] = struct{}{}
				}
			}
		}
	}

	for _, match := range addressWordPattern.FindAllStringSubmatch(text, -1) {
		word := match[1]
		if _, stop := addressStopwords[word]; !stop {
			seen[word] = struct{}{}
		}
	}

	for _, np := range addressNumberPatterns {
		for _, match := range np.re.FindAllStringSubmatch(text, -1) {
			seen[np.prefix+"_"+match[1]] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(seen))
	for word := range seen {
		keywords = append(keywords, word)
	}
	sort.Strings(keywords)

	return keywords
}

// AddressSimilarity scores two addresses by Jaccard similarity over their
// extracted keywords. When neither side yields keywords the comparison falls
// back to whole-string edit similarity; when exactly one side yields keywords
// the score is 0.0, as is either input being empty.
func AddressSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}

	keywordsA := ExtractAddressKeywords(a)
	keywordsB := ExtractAddressKeywords(b)

	if len(keywordsA) == 0 && len(keywordsB) == 0 {
		return EditSimilarity(a, b)
	}
	if len(keywordsA) == 0 || len(keywordsB) == 0 {
		return 0.0
	}

	return jaccard(toSet(keywordsA), toSet(keywordsB))
}

func ngrams(s string, n int) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{})
	if len(runes) < n {
		set[s] = struct{}{}
		return set
	}
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
