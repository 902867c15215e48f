// Package normalize provides field-level cleanup for noisy OCR-extracted
// receipt values.
//
// Bank receipts arrive with OCR-confusable characters (O/0, I/l/1), Turkish
// diacritics, and locale-ambiguous number formats. Every function in this
// package is a total function: bad input yields an empty or absent value,
// never an error. Data-quality problems are expressed as degraded confidence
// downstream, not as failures here.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// diacriticFolder maps extended Latin letters used in Turkish names to their
// base ASCII letters. Applied after upper-casing, so only upper-case entries
// matter; the lower-case entries guard against characters the Turkish-aware
// case mapping leaves alone.
var diacriticFolder = strings.NewReplacer(
	"İ", "I", "ı", "I",
	"Ş", "S", "ş", "S",
	"Ğ", "G", "ğ", "G",
	"Ü", "U", "ü", "U",
	"Ö", "O", "ö", "O",
	"Ç", "C", "ç", "C",
)

// accountSegmentFixer corrects OCR-confusable letters inside the numeric
// account segment of an IBAN. Runs on the already upper-cased string, so a
// lowercase or dotless i has been folded to I (and l to L) before
// substitution.
var accountSegmentFixer = strings.NewReplacer(
	"O", "0",
	"I", "1",
	"L", "1",
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// currencyTokens are stripped from amount strings before parsing. Longer
// tokens first so that "TRY" is not half-consumed by "TL"-style passes.
var currencyTokens = []string{"TRY", "TL", "₺", "EUR", "USD", "€", "$"}

// IBAN normalizes a raw IBAN string: whitespace and hyphens are removed, the
// result upper-cased, and OCR-confusable letters are replaced with digits in
// the account segment after the country code and check digits. The 4-character
// prefix is never touched since it legitimately contains letters.
//
// IBAN is idempotent and never fails; empty input yields the empty string.
func IBAN(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-':
			return -1
		}
		return r
	}, raw)

	if len(cleaned) < 4 {
		return strings.ToUpper(cleaned)
	}

	cleaned = strings.ToUpper(cleaned)

	return cleaned[:4] + accountSegmentFixer.Replace(cleaned[4:])
}

// Name normalizes a person or company name: upper-case, Turkish diacritics
// folded to base ASCII letters, whitespace runs collapsed, surrounding
// whitespace trimmed. Total function over any input.
func Name(raw string) string {
	if raw == "" {
		return ""
	}

	normalized := diacriticFolder.Replace(strings.ToUpper(raw))
	normalized = whitespaceRun.ReplaceAllString(normalized, " ")

	return strings.TrimSpace(normalized)
}

// Amount parses a raw amount string into a decimal value. Currency tokens are
// stripped, the OCR letter O corrected to 0, and the Turkish ("45.000,00")
// and English ("45,000.00" / "45000.00") separator conventions disambiguated:
// with both separators present, whichever is rightmost with at most two
// trailing digits is the decimal separator; a single separator type is
// decimal only when it occurs exactly once with at most two trailing digits.
//
// The second return value is false when nothing parseable remains.
func Amount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, false
	}

	for _, token := range currencyTokens {
		cleaned = strings.ReplaceAll(cleaned, token, "")
	}
	cleaned = strings.ReplaceAll(cleaned, "O", "0")
	cleaned = strings.ReplaceAll(cleaned, "o", "0")
	cleaned = strings.TrimSpace(cleaned)

	cleaned = resolveSeparators(cleaned)
	if cleaned == "" {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}

	return value, true
}

// resolveSeparators rewrites an amount string into plain decimal notation
// with at most one '.' as the decimal separator.
func resolveSeparators(s string) string {
	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && hasDot:
		lastComma := strings.LastIndex(s, ",")
		lastDot := strings.LastIndex(s, ".")

		decimalSep, thousandsSep := ",", "."
		splitAt := lastComma
		if lastDot > lastComma {
			decimalSep, thousandsSep = ".", ","
			splitAt = lastDot
		}

		if len(s)-splitAt-1 <= 2 {
			intPart := strings.ReplaceAll(s[:splitAt], thousandsSep, "")
			intPart = strings.ReplaceAll(intPart, decimalSep, "")
			return intPart + "." + s[splitAt+1:]
		}

		// Neither separator looks decimal: treat both as thousands markers.
		s = strings.ReplaceAll(s, ",", "")
		return strings.ReplaceAll(s, ".", "")

	case hasComma:
		if strings.Count(s, ",") == 1 && len(s)-strings.Index(s, ",")-1 <= 2 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")

	case hasDot:
		if strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".")-1 <= 2 {
			return s
		}
		return strings.ReplaceAll(s, ".", "")

	default:
		return s
	}
}

// dateFormats is the ordered list of day-first receipt date layouts; the
// first layout that parses wins.
var dateFormats = []string{
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
	"02.01.06",
	"02/01/06",
	"2006-01-02",
	"2006.01.02",
}

// Date parses a raw transaction date string after correcting the OCR letter O
// to the digit 0. The second return value is false when no known layout
// matches.
func Date(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	cleaned = strings.ReplaceAll(cleaned, "O", "0")
	cleaned = strings.ReplaceAll(cleaned, "o", "0")

	for _, format := range dateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
