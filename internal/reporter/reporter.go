// Package reporter renders batch processing results for different audiences.
//
// Supported output formats:
//   - Console: human-readable breakdown for terminal display
//   - JSON: structured output for programmatic consumption
//   - CSV: flat per-receipt rows for spreadsheet review
//
// The console format prints a summary table, a decision breakdown, and an
// optional per-receipt section with criterion scores, so an operator can see
// at a glance why a receipt landed in manual review.
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(nil)
//	if err != nil {
//		return err
//	}
//	if err := generator.GenerateReport(batch, os.Stdout); err != nil {
//		return err
//	}
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/processor"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludeDecisions  bool `json:"include_decisions"`
	IncludeScores     bool `json:"include_scores"`
	IncludeReasons    bool `json:"include_reasons"`
	IncludeCandidates bool `json:"include_candidates"`

	// Console formatting options
	MaxReasonsPerReceipt int `json:"max_reasons_per_receipt"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:               FormatConsole,
		IncludeDecisions:     true,
		IncludeScores:        true,
		IncludeReasons:       true,
		IncludeCandidates:    false,
		MaxReasonsPerReceipt: 5,
		CSVDelimiter:         ',',
		CSVHeaders:           true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxReasonsPerReceipt < 0 {
		return fmt.Errorf("max reasons per receipt must not be negative, got %d", c.MaxReasonsPerReceipt)
	}
	return nil
}

// ReportGenerator renders batch results in the configured format.
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the given configuration.
// A nil configuration selects the defaults.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}
	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the batch result and writes it to the provided writer.
func (rg *ReportGenerator) GenerateReport(result *processor.BatchResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("batch result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.generateConsoleReport(result, writer)
	case FormatJSON:
		return rg.generateJSONReport(result, writer)
	case FormatCSV:
		return rg.generateCSVReport(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateConsoleReport(result *processor.BatchResult, writer io.Writer) error {
	fmt.Fprintf(writer, "RECEIPT MATCHING REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", result.ProcessedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Processing Duration: %v\n\n", result.Summary.Elapsed)

	fmt.Fprintf(writer, "=== SUMMARY ===\n")
	rg.printSummaryTable(result.Summary, writer)
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeDecisions && len(result.Decisions) > 0 {
		fmt.Fprintf(writer, "=== RECEIPTS ===\n")
		for i, decision := range result.Decisions {
			rg.printDecision(i+1, decision, writer)
		}
	}

	return nil
}

func (rg *ReportGenerator) printSummaryTable(summary *processor.BatchSummary, writer io.Writer) {
	fmt.Fprintf(writer, "Receipts:\n")
	fmt.Fprintf(writer, "  Total:         %d\n", summary.TotalReceipts)
	fmt.Fprintf(writer, "  Approved:      %d (%.1f%%)\n",
		summary.Approved, percentage(summary.Approved, summary.TotalReceipts))
	fmt.Fprintf(writer, "  Manual Review: %d (%.1f%%)\n",
		summary.ManualReview, percentage(summary.ManualReview, summary.TotalReceipts))
	fmt.Fprintf(writer, "  Rejected:      %d (%.1f%%)\n",
		summary.Rejected, percentage(summary.Rejected, summary.TotalReceipts))

	fmt.Fprintf(writer, "\nMatching:\n")
	fmt.Fprintf(writer, "  Matched:            %d (%.1f%%)\n",
		summary.Matched, percentage(summary.Matched, summary.TotalReceipts))
	fmt.Fprintf(writer, "  Average Confidence: %.1f/100\n", summary.AverageConfidence)
}

func (rg *ReportGenerator) printDecision(index int, decision *processor.ReceiptDecision, writer io.Writer) {
	fmt.Fprintf(writer, "%d. %s [%s]\n", index, receiptLabel(decision), strings.ToUpper(string(decision.Status)))

	if decision.Match != nil {
		fmt.Fprintf(writer, "   Confidence: %.1f/100\n", decision.Match.Confidence)
		if decision.Match.OwnerID != nil {
			fmt.Fprintf(writer, "   Owner: %d", *decision.Match.OwnerID)
			if decision.Match.PropertyID != nil {
				fmt.Fprintf(writer, ", Property: %d", *decision.Match.PropertyID)
			}
			if decision.Match.CustomerID != nil {
				fmt.Fprintf(writer, ", Customer: %d", *decision.Match.CustomerID)
			}
			fmt.Fprintf(writer, "\n")
		}

		if rg.config.IncludeScores {
			scores := decision.Match.Scores
			fmt.Fprintf(writer, "   Scores: iban=%.2f amount=%.2f name=%.2f address=%.2f sender=%.2f\n",
				scores.IBAN, scores.Amount, scores.Name, scores.Address, scores.Sender)
		}

		if rg.config.IncludeCandidates && len(decision.Match.Candidates) > 1 {
			fmt.Fprintf(writer, "   Candidates:\n")
			for _, candidate := range decision.Match.Candidates {
				fmt.Fprintf(writer, "     - owner %d", candidate.OwnerID)
				if candidate.PropertyID != nil {
					fmt.Fprintf(writer, " property %d", *candidate.PropertyID)
				}
				fmt.Fprintf(writer, " via %s (%.1f)\n", candidate.Reason, candidate.Confidence)
			}
		}
	}

	if rg.config.IncludeReasons && len(decision.Reasons) > 0 {
		limit := len(decision.Reasons)
		if rg.config.MaxReasonsPerReceipt > 0 && limit > rg.config.MaxReasonsPerReceipt {
			limit = rg.config.MaxReasonsPerReceipt
		}
		for _, reason := range decision.Reasons[:limit] {
			fmt.Fprintf(writer, "   - %s\n", reason)
		}
		if limit < len(decision.Reasons) {
			fmt.Fprintf(writer, "   ... and %d more\n", len(decision.Reasons)-limit)
		}
	}

	fmt.Fprintf(writer, "\n")
}

func (rg *ReportGenerator) generateJSONReport(result *processor.BatchResult, writer io.Writer) error {
	output := map[string]interface{}{
		"summary":      result.Summary,
		"processed_at": result.ProcessedAt,
	}
	if rg.config.IncludeDecisions {
		output["decisions"] = result.Decisions
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func (rg *ReportGenerator) generateCSVReport(result *processor.BatchResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Receipt",
			"Status",
			"Confidence",
			"Owner_ID",
			"Property_ID",
			"Customer_ID",
			"IBAN_Score",
			"Amount_Score",
			"Name_Score",
			"Address_Score",
			"Sender_Score",
			"Reasons",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, decision := range result.Decisions {
		record := []string{
			receiptLabel(decision),
			string(decision.Status),
			"",
			"",
			"",
			"",
			"",
			"",
			"",
			"",
			"",
			strings.Join(decision.Reasons, "; "),
		}

		if decision.Match != nil {
			record[2] = fmt.Sprintf("%.1f", decision.Match.Confidence)
			record[3] = formatID(decision.Match.OwnerID)
			record[4] = formatID(decision.Match.PropertyID)
			record[5] = formatID(decision.Match.CustomerID)
			record[6] = fmt.Sprintf("%.2f", decision.Match.Scores.IBAN)
			record[7] = fmt.Sprintf("%.2f", decision.Match.Scores.Amount)
			record[8] = fmt.Sprintf("%.2f", decision.Match.Scores.Name)
			record[9] = fmt.Sprintf("%.2f", decision.Match.Scores.Address)
			record[10] = fmt.Sprintf("%.2f", decision.Match.Scores.Sender)
		}

		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write receipt record: %w", err)
		}
	}

	return nil
}

// receiptLabel returns a short human-readable identifier for a receipt.
func receiptLabel(decision *processor.ReceiptDecision) string {
	fields := decision.Receipt
	switch {
	case fields.ReferenceNumber != "":
		return fields.ReferenceNumber
	case fields.SenderName != "":
		return fields.SenderName
	case fields.ReceiverName != "":
		return "to " + fields.ReceiverName
	default:
		return "(unidentified receipt)"
	}
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", *id)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

// UpdateConfiguration replaces the generator configuration.
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}
	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
