package config

import (
	"testing"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/reporter"
)

func TestCreateMatchingConfigProfiles(t *testing.T) {
	tests := []struct {
		profile           string
		wantMinConfidence float64
	}{
		{"default", 70.0},
		{"", 70.0},
		{"strict", 85.0},
		{"relaxed", 55.0},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			config, err := CreateMatchingConfig(tt.profile, 0, 0)
			if err != nil {
				t.Fatalf("CreateMatchingConfig failed: %v", err)
			}
			if config.MinConfidence != tt.wantMinConfidence {
				t.Errorf("min confidence = %f, expected %f", config.MinConfidence, tt.wantMinConfidence)
			}
		})
	}
}

func TestCreateMatchingConfigUnknownProfile(t *testing.T) {
	if _, err := CreateMatchingConfig("aggressive", 0, 0); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestCreateMatchingConfigOverrides(t *testing.T) {
	config, err := CreateMatchingConfig("default", 80, 2.5)
	if err != nil {
		t.Fatalf("CreateMatchingConfig failed: %v", err)
	}

	if config.MinConfidence != 80 {
		t.Errorf("min confidence = %f, expected override 80", config.MinConfidence)
	}
	if config.AmountTolerancePercent != 2.5 {
		t.Errorf("amount tolerance = %f, expected override 2.5", config.AmountTolerancePercent)
	}
}

func TestCreateMatchingConfigOverrideKeepsValidThresholds(t *testing.T) {
	// Raising min confidence past the high threshold must not produce an
	// invalid configuration.
	config, err := CreateMatchingConfig("default", 95, 0)
	if err != nil {
		t.Fatalf("CreateMatchingConfig failed: %v", err)
	}
	if config.HighConfidence < config.MinConfidence {
		t.Errorf("high confidence %f below min %f", config.HighConfidence, config.MinConfidence)
	}
}

func TestCreateProcessorConfig(t *testing.T) {
	config := CreateProcessorConfig(8, true, false)

	if config.MaxConcurrency != 8 {
		t.Errorf("max concurrency = %d, expected 8", config.MaxConcurrency)
	}
	if !config.ProgressReporting {
		t.Error("expected progress reporting enabled")
	}
	if config.ValidateReceipts {
		t.Error("expected validation disabled")
	}

	// Zero workers keeps the default.
	config = CreateProcessorConfig(0, false, true)
	if config.MaxConcurrency != 4 {
		t.Errorf("max concurrency = %d, expected default 4", config.MaxConcurrency)
	}
}

func TestCreateReportConfig(t *testing.T) {
	console := CreateReportConfig("console", false)
	if console.Format != reporter.FormatConsole {
		t.Errorf("format = %s, expected console", console.Format)
	}
	if console.IncludeCandidates {
		t.Error("candidates should be off by default")
	}

	jsonConfig := CreateReportConfig("json", true)
	if jsonConfig.Format != reporter.FormatJSON {
		t.Errorf("format = %s, expected json", jsonConfig.Format)
	}
	if !jsonConfig.IncludeCandidates {
		t.Error("expected candidates included when requested")
	}

	csvConfig := CreateReportConfig("csv", false)
	if csvConfig.Format != reporter.FormatCSV || !csvConfig.CSVHeaders {
		t.Errorf("unexpected csv config: %+v", csvConfig)
	}
}
