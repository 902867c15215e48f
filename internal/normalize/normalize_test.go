package normalize

import (
	"testing"
	"time"
)

func TestIBAN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "spaces removed",
			input:    "TR33 0006 1005 1978 6457 8413 26",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "hyphens removed",
			input:    "TR33-0006-1005-1978-6457-8413-26",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "lowercase country code uppercased",
			input:    "tr330006100519786457841326",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "OCR letter O in account segment becomes zero",
			input:    "TR33OOO61OO519786457841326",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "OCR letters I and l in account segment become one",
			input:    "TR3300061005I978645784l326",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "lowercase i in account segment becomes one",
			input:    "tr330006100519786457841i26",
			expected: "TR330006100519786457841126",
		},
		{
			name:     "dotless i in account segment becomes one",
			input:    "TR330006100519786457 84ı3 26",
			expected: "TR330006100519786457841326",
		},
		{
			name:     "country prefix letters untouched",
			input:    "IO12 3456",
			expected: "IO123456",
		},
		{
			name:     "shorter than prefix",
			input:    "tr3",
			expected: "TR3",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IBAN(tt.input)
			if result != tt.expected {
				t.Errorf("IBAN(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIBANIdempotent(t *testing.T) {
	inputs := []string{
		"TR33 0006 1005 1978 6457 8413 26",
		"TR33OOO61OO5l9786457841326",
		"tr330006100519786457841i26",
		"TR3300061005197864578 4ı3 26",
		"de89 3704 0044 0532 0130 00",
	}

	for _, input := range inputs {
		once := IBAN(input)
		twice := IBAN(once)
		if once != twice {
			t.Errorf("IBAN not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "turkish diacritics folded",
			input:    "Ahmet Yılmaz",
			expected: "AHMET YILMAZ",
		},
		{
			name:     "all special letters",
			input:    "şğüöçı ŞĞÜÖÇİ",
			expected: "SGUOCI SGUOCI",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  Mehmet   Can \t Demir ",
			expected: "MEHMET CAN DEMIR",
		},
		{
			name:     "already normalized unchanged",
			input:    "AYSE KAYA",
			expected: "AYSE KAYA",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Name(tt.input)
			if result != tt.expected {
				t.Errorf("Name(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{
			name:     "turkish thousands and decimal",
			input:    "45.000,00",
			expected: "45000",
			ok:       true,
		},
		{
			name:     "english thousands and decimal",
			input:    "45,000.00",
			expected: "45000",
			ok:       true,
		},
		{
			name:     "plain decimal point",
			input:    "45000.00",
			expected: "45000",
			ok:       true,
		},
		{
			name:     "bare integer",
			input:    "45000",
			expected: "45000",
			ok:       true,
		},
		{
			name:     "currency suffix TL",
			input:    "15.000,00 TL",
			expected: "15000",
			ok:       true,
		},
		{
			name:     "currency suffix TRY",
			input:    "1.250,50 TRY",
			expected: "1250.5",
			ok:       true,
		},
		{
			name:     "lira symbol",
			input:    "₺2.500",
			expected: "2500",
			ok:       true,
		},
		{
			name:     "OCR letter O as zero",
			input:    "15.OOO,00",
			expected: "15000",
			ok:       true,
		},
		{
			name:     "single comma as decimal",
			input:    "1250,50",
			expected: "1250.5",
			ok:       true,
		},
		{
			name:     "single dot three trailing digits is thousands",
			input:    "45.000",
			expected: "45000",
			ok:       true,
		},
		{
			name:     "multiple dots all thousands",
			input:    "1.234.567",
			expected: "1234567",
			ok:       true,
		},
		{
			name:     "mixed with rightmost comma decimal",
			input:    "1.234.567,89",
			expected: "1234567.89",
			ok:       true,
		},
		{
			name:  "empty input",
			input: "",
			ok:    false,
		},
		{
			name:  "only currency token",
			input: "TL",
			ok:    false,
		},
		{
			name:  "garbage",
			input: "on bin lira",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Amount(tt.input)
			if ok != tt.ok {
				t.Fatalf("Amount(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if result.String() != tt.expected {
				t.Errorf("Amount(%q) = %s, expected %s", tt.input, result.String(), tt.expected)
			}
		})
	}
}

func TestAmountEquivalentForms(t *testing.T) {
	forms := []string{"45.000,00", "45,000.00", "45000.00", "45000"}

	base, ok := Amount(forms[0])
	if !ok {
		t.Fatalf("Amount(%q) failed unexpectedly", forms[0])
	}

	for _, form := range forms[1:] {
		value, ok := Amount(form)
		if !ok {
			t.Fatalf("Amount(%q) failed unexpectedly", form)
		}
		if !value.Equal(base) {
			t.Errorf("Amount(%q) = %s, expected equal to %s", form, value.String(), base.String())
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{
			name:     "dotted day first",
			input:    "15.03.2024",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "slashed day first",
			input:    "15/03/2024",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "hyphenated day first",
			input:    "15-03-2024",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "iso layout",
			input:    "2024-03-15",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "two digit year",
			input:    "15.03.24",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "OCR letter O corrected",
			input:    "15.O3.2O24",
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:  "unparseable",
			input: "March 15th",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Date(tt.input)
			if ok != tt.ok {
				t.Fatalf("Date(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
			}
			if tt.ok && !result.Equal(tt.expected) {
				t.Errorf("Date(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}
