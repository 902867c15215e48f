// Package config builds runtime configurations for the receiptmatcher CLI
// from profile names and flag overrides.
package config

import (
	"fmt"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcher"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/processor"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/reporter"
)

// CreateMatchingConfig builds a matching configuration from a named profile
// with optional CLI overrides. Zero-valued overrides keep the profile value.
func CreateMatchingConfig(profile string, minConfidence, amountTolerance float64) (*matcher.MatchingConfig, error) {
	var config *matcher.MatchingConfig

	switch profile {
	case "default", "":
		config = matcher.DefaultMatchingConfig()
	case "strict":
		config = matcher.StrictMatchingConfig()
	case "relaxed":
		config = matcher.RelaxedMatchingConfig()
	default:
		return nil, fmt.Errorf("unknown matching profile: %s", profile)
	}

	if minConfidence > 0 {
		config.MinConfidence = minConfidence
		if config.HighConfidence < minConfidence {
			config.HighConfidence = minConfidence
		}
	}
	if amountTolerance > 0 {
		config.AmountTolerancePercent = amountTolerance
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// CreateProcessorConfig builds a processor configuration from CLI flags.
func CreateProcessorConfig(maxWorkers int, showProgress, validateReceipts bool) *processor.Config {
	config := processor.DefaultConfig()

	if maxWorkers > 0 {
		config.MaxConcurrency = maxWorkers
	}
	config.ProgressReporting = showProgress
	config.ValidateReceipts = validateReceipts

	return config
}

// CreateReportConfig builds a report configuration for the given output format.
func CreateReportConfig(format string, showCandidates bool) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
		config.IncludeScores = true
		config.IncludeReasons = true
	case "json":
		config.Format = reporter.FormatJSON
		config.IncludeDecisions = true
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	}

	config.IncludeCandidates = showCandidates

	return config
}
