package fuzzy

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical", "AHMET", "AHMET", 0},
		{"empty both", "", "", 0},
		{"empty one", "", "ABC", 3},
		{"single substitution", "AHMET", "AHMED", 1},
		{"insertion", "YILMAZ", "YILMAZA", 1},
		{"classic kitten", "kitten", "sitting", 3},
		{"symmetric", "sitting", "kitten", 3},
		{"turkish runes count as one edit", "YILMAZ", "YĞLMAZ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := LevenshteinDistance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, expected %d", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "AHMET YILMAZ", "AHMET YILMAZ", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "AHMET", "", 0.0},
		{"one char off in five", "AHMET", "AHMED", 0.8},
		{"completely different", "ABC", "XYZ", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EditSimilarity(tt.a, tt.b)
			if !almostEqual(result, tt.expected) {
				t.Errorf("EditSimilarity(%q, %q) = %f, expected %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNGramSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "MODA", "MODA", 1.0},
		{"case folded", "MODA", "moda", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "MODA", "", 0.0},
		{"disjoint", "ABAB", "CDCD", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NGramSimilarity(tt.a, tt.b, 2)
			if !almostEqual(result, tt.expected) {
				t.Errorf("NGramSimilarity(%q, %q, 2) = %f, expected %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestNGramSimilarityShortStrings(t *testing.T) {
	// Strings shorter than n fall back to the whole string as a single gram.
	if got := NGramSimilarity("a", "a", 2); !almostEqual(got, 1.0) {
		t.Errorf("NGramSimilarity(\"a\", \"a\", 2) = %f, expected 1.0", got)
	}
	if got := NGramSimilarity("a", "b", 2); !almostEqual(got, 0.0) {
		t.Errorf("NGramSimilarity(\"a\", \"b\", 2) = %f, expected 0.0", got)
	}
}

func TestNameSimilarity(t *testing.T) {
	if got := NameSimilarity("AHMET YILMAZ", "AHMET YILMAZ"); !almostEqual(got, 1.0) {
		t.Errorf("identical names = %f, expected 1.0", got)
	}
	if got := NameSimilarity("", "AHMET"); got != 0.0 {
		t.Errorf("empty first name = %f, expected 0.0", got)
	}
	if got := NameSimilarity("AHMET", ""); got != 0.0 {
		t.Errorf("empty second name = %f, expected 0.0", got)
	}

	// One OCR substitution should stay well above the 0.7 candidate cutoff.
	if got := NameSimilarity("AHMET YILMAZ", "AHMET Y1LMAZ"); got < 0.7 {
		t.Errorf("near-identical names = %f, expected >= 0.7", got)
	}

	// Unrelated names should stay clearly below it.
	if got := NameSimilarity("AHMET YILMAZ", "ZEYNEP ARSLAN"); got >= 0.7 {
		t.Errorf("unrelated names = %f, expected < 0.7", got)
	}
}

func TestNameSimilarityBlendWeights(t *testing.T) {
	a, b := "AHMET", "AHMED"
	expected := 0.6*EditSimilarity(a, b) + 0.4*NGramSimilarity(a, b, 2)
	if got := NameSimilarity(a, b); !almostEqual(got, expected) {
		t.Errorf("NameSimilarity(%q, %q) = %f, expected blend %f", a, b, got, expected)
	}
}

func TestExtractAddressKeywords(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		expected []string
	}{
		{
			name:     "empty address",
			address:  "",
			expected: nil,
		},
		{
			name:     "neighborhood suffix",
			address:  "Sinanpaşa Mahallesi",
			expected: []string{"MAHALLESI", "SINANPASA"},
		},
		{
			name:     "street with door number",
			address:  "Moda Caddesi No:45",
			expected: []string{"CADDESI", "MODA", "NO_45"},
		},
		{
			name:     "unit numbers become prefixed tokens",
			address:  "KAT:3 DAİRE:8",
			expected: []string{"DAIRE", "DAIRE_8", "KAT", "KAT_3"},
		},
		{
			name:     "stopwords filtered",
			address:  "KASIM KIRA HAVALE MESAJ",
			expected: nil,
		},
		{
			name:     "inner digit OCR repair",
			address:  "M0DA CADDESI",
			expected: []string{"CADDESI", "MODA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractAddressKeywords(tt.address)
			if len(result) != len(tt.expected) {
				t.Fatalf("ExtractAddressKeywords(%q) = %v, expected %v", tt.address, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("ExtractAddressKeywords(%q) = %v, expected %v", tt.address, result, tt.expected)
					break
				}
			}
		})
	}
}

func TestAddressSimilarity(t *testing.T) {
	t.Run("empty inputs", func(t *testing.T) {
		if got := AddressSimilarity("", "Moda Caddesi"); got != 0.0 {
			t.Errorf("empty first address = %f, expected 0.0", got)
		}
		if got := AddressSimilarity("Moda Caddesi", ""); got != 0.0 {
			t.Errorf("empty second address = %f, expected 0.0", got)
		}
	})

	t.Run("shared street keywords", func(t *testing.T) {
		got := AddressSimilarity("Kadıköy Moda Caddesi No 45", "Kira Moda Caddesi No 45")
		if got <= 0.5 {
			t.Errorf("overlapping addresses = %f, expected > 0.5", got)
		}
	})

	t.Run("disjoint keywords", func(t *testing.T) {
		got := AddressSimilarity("Moda Caddesi No:45", "Bestekar Sokak No:12")
		if got >= 0.5 {
			t.Errorf("disjoint addresses = %f, expected < 0.5", got)
		}
	})

	t.Run("fallback to edit similarity when no keywords", func(t *testing.T) {
		// Both sides reduce to stopwords only, so keyword sets are empty.
		got := AddressSimilarity("KIRA KASIM", "KIRA KASIM")
		if !almostEqual(got, 1.0) {
			t.Errorf("identical keywordless strings = %f, expected 1.0", got)
		}
	})

	t.Run("one side without keywords", func(t *testing.T) {
		got := AddressSimilarity("KIRA KASIM", "Moda Caddesi No:45")
		if got != 0.0 {
			t.Errorf("one keywordless side = %f, expected 0.0", got)
		}
	})
}
