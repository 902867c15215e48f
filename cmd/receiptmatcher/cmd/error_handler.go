package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Furkanturan8/rent-receipt-matcher/pkg/errors"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/logger"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError prints a user-friendly message and returns the process exit code.
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("Command failed")

	if matcherErr, ok := errors.AsMatcherError(err); ok {
		return h.handleMatcherError(matcherErr)
	}

	return h.handleGenericError(err)
}

func (h *CLIErrorHandler) handleMatcherError(err *errors.MatcherError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

func (h *CLIErrorHandler) handleGenericError(err error) int {
	if h.isFileNotFoundError(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	}

	if h.isPermissionError(err) {
		fmt.Fprintf(os.Stderr, "Error: Permission denied\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if !h.verbose {
		fmt.Fprintf(os.Stderr, "\nRun with --verbose for more detailed error information\n")
	}

	return 1
}

func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check if the file exists and is readable
• Verify the file path is correct (use absolute paths if needed)
• Ensure you have proper permissions to access the file`

	case errors.CategoryParse:
		return `Parse error help:
• Verify the JSON file structure matches the expected format
• Reference datasets need an "owners" array with id and full_name or iban
• Receipt files are a JSON array or a {"receipts": [...]} wrapper
• Ensure the file uses UTF-8 encoding`

	case errors.CategoryValidation:
		return `Validation error help:
• Check that all required fields have values
• Verify receipt dates use DD.MM.YYYY or YYYY-MM-DD
• Turkish IBANs are TR followed by 24 digits
• Amounts may use Turkish (15.000,00) or English (15,000.00) separators`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• Use 'receiptmatcher match --help' to see all available options
• Try running with default settings first`

	case errors.CategoryMatching:
		return `Matching error help:
• Check data quality in the reference dataset and receipt files
• Try adjusting thresholds (--min-confidence, --amount-tolerance)
• The relaxed profile tolerates noisier OCR output
• Verify the receipts belong to owners present in the dataset`

	default:
		return `For more help:
• Use 'receiptmatcher --help' for general help
• Use 'receiptmatcher match --help' for command-specific help
• Check the documentation for detailed examples`
	}
}

// Error detection helpers

func (h *CLIErrorHandler) isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func (h *CLIErrorHandler) isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

// FormatValidationErrors formats validation messages in a user-friendly way
func FormatValidationErrors(messages []string) string {
	if len(messages) == 0 {
		return ""
	}

	if len(messages) == 1 {
		return fmt.Sprintf("Validation error: %s", messages[0])
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Found %d validation errors:", len(messages)))

	for i, msg := range messages {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, msg))
		if i >= 9 && len(messages) > 10 {
			lines = append(lines, fmt.Sprintf("  ... and %d more errors", len(messages)-10))
			break
		}
	}

	return strings.Join(lines, "\n")
}
