package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Furkanturan8/rent-receipt-matcher/cmd/receiptmatcher/config"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/dataset"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/processor"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/reporter"
)

// Flags for the match command
var (
	referenceFile   string
	receiptsFile    string
	useSampleData   bool
	outputFormat    string
	outputFile      string
	profile         string
	minConfidence   float64
	amountTolerance float64
	maxWorkers      int
	showProgress    bool
	skipValidation  bool
	showCandidates  bool
)

// matchCmd represents the match command
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match rent receipts against the reference dataset",
	Long: `Match reads OCR-extracted receipt fields from a JSON file and matches
each receipt against property owners, rental properties, and customers.

This command requires:
- A reference dataset file (JSON format) or the --sample flag
- A receipts file (JSON array or {"receipts": [...]} wrapper)

Examples:
  # Basic matching
  receiptmatcher match --reference-file owners.json --receipts-file receipts.json

  # Strict profile with custom output
  receiptmatcher match -r owners.json -b receipts.json \
    --profile strict --output-format json --output-file report.json

  # Built-in sample dataset for a quick trial
  receiptmatcher match --sample --receipts-file receipts.json

  # Custom thresholds
  receiptmatcher match -r owners.json -b receipts.json \
    --min-confidence 80 --amount-tolerance 2.5

  # With progress indicators on a large batch
  receiptmatcher match -r owners.json -b receipts.json --progress`,

	PreRunE: validateMatchFlags,
	RunE:    runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	// Input flags
	matchCmd.Flags().StringVarP(&referenceFile, "reference-file", "r", "", "path to reference dataset JSON file")
	matchCmd.Flags().StringVarP(&receiptsFile, "receipts-file", "b", "", "path to receipts JSON file (required)")
	matchCmd.Flags().BoolVar(&useSampleData, "sample", false, "use the built-in sample reference dataset")

	// Output flags
	matchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	matchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Matching configuration flags
	matchCmd.Flags().StringVar(&profile, "profile", "default", "matching profile: default, strict, relaxed")
	matchCmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "minimum confidence for a match (0-100, 0 keeps the profile value)")
	matchCmd.Flags().Float64VarP(&amountTolerance, "amount-tolerance", "a", 0, "amount tolerance percentage (0 keeps the profile value)")

	// Processing flags
	matchCmd.Flags().IntVar(&maxWorkers, "max-workers", 4, "number of concurrent workers for batch processing")
	matchCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress indicators")
	matchCmd.Flags().BoolVar(&skipValidation, "no-validate", false, "skip business rule validation")
	matchCmd.Flags().BoolVar(&showCandidates, "show-candidates", false, "include candidate breakdown in the report")

	matchCmd.MarkFlagRequired("receipts-file")

	viper.BindPFlag("reference-file", matchCmd.Flags().Lookup("reference-file"))
	viper.BindPFlag("receipts-file", matchCmd.Flags().Lookup("receipts-file"))
	viper.BindPFlag("output-format", matchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", matchCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("profile", matchCmd.Flags().Lookup("profile"))
	viper.BindPFlag("min-confidence", matchCmd.Flags().Lookup("min-confidence"))
	viper.BindPFlag("amount-tolerance", matchCmd.Flags().Lookup("amount-tolerance"))
	viper.BindPFlag("max-workers", matchCmd.Flags().Lookup("max-workers"))
	viper.BindPFlag("progress", matchCmd.Flags().Lookup("progress"))
}

func validateMatchFlags(cmd *cobra.Command, args []string) error {
	// Viper values allow overrides from config file and environment.
	if v := viper.GetString("reference-file"); v != "" {
		referenceFile = v
	}
	if v := viper.GetString("receipts-file"); v != "" {
		receiptsFile = v
	}
	outputFormat = viper.GetString("output-format")
	if v := viper.GetString("output-file"); v != "" {
		outputFile = v
	}
	profile = viper.GetString("profile")

	if receiptsFile == "" {
		return fmt.Errorf("receipts-file is required")
	}
	if referenceFile == "" && !useSampleData {
		return fmt.Errorf("either reference-file or --sample is required")
	}
	if referenceFile != "" && useSampleData {
		return fmt.Errorf("reference-file and --sample are mutually exclusive")
	}

	if err := validateFileExists(receiptsFile, "receipts file"); err != nil {
		return err
	}
	if referenceFile != "" {
		if err := validateFileExists(referenceFile, "reference dataset file"); err != nil {
			return err
		}
	}

	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", outputFormat)
	}

	validProfiles := map[string]bool{"default": true, "strict": true, "relaxed": true}
	if !validProfiles[profile] {
		return fmt.Errorf("invalid profile '%s'. Valid profiles: default, strict, relaxed", profile)
	}

	if minConfidence < 0 || minConfidence > 100 {
		return fmt.Errorf("min confidence must be between 0 and 100")
	}
	if amountTolerance < 0 || amountTolerance > 100 {
		return fmt.Errorf("amount tolerance must be between 0.0 and 100.0")
	}
	if maxWorkers <= 0 {
		return fmt.Errorf("max workers must be positive")
	}

	if outputFile != "" {
		dir := filepath.Dir(outputFile)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Starting receipt matching...\n")
		if useSampleData {
			fmt.Fprintf(os.Stderr, "Reference data: built-in sample\n")
		} else {
			fmt.Fprintf(os.Stderr, "Reference file: %s\n", referenceFile)
		}
		fmt.Fprintf(os.Stderr, "Receipts file: %s\n", receiptsFile)
		fmt.Fprintf(os.Stderr, "Profile: %s\n", profile)
	}

	// Load reference data and receipts
	loader := dataset.NewLoader(nil)

	var data *models.ReferenceData
	if useSampleData {
		data = dataset.SampleReferenceData()
	} else {
		loaded, err := loader.LoadReferenceData(referenceFile)
		if err != nil {
			return err
		}
		data = loaded
	}

	receipts, err := loader.LoadReceipts(receiptsFile)
	if err != nil {
		return err
	}

	// Build configurations from profile and flag overrides
	matchingConfig, err := config.CreateMatchingConfig(profile, minConfidence, amountTolerance)
	if err != nil {
		return err
	}
	processorConfig := config.CreateProcessorConfig(maxWorkers, showProgress, !skipValidation)

	proc, err := processor.NewProcessor(matchingConfig, data, processorConfig)
	if err != nil {
		return err
	}

	if showProgress {
		fmt.Fprintf(os.Stderr, "Processing %d receipts...\n", len(receipts))
	}

	result, err := proc.ProcessBatch(ctx, receipts)
	if err != nil {
		return err
	}

	// Generate report
	reportConfig := config.CreateReportConfig(outputFormat, showCandidates)

	if outputFile != "" {
		fileReporter, err := reporter.NewFileReporter(reportConfig, nil)
		if err != nil {
			return err
		}
		if err := fileReporter.WriteReport(result, outputFile); err != nil {
			return err
		}
	} else {
		generator, err := reporter.NewReportGenerator(reportConfig)
		if err != nil {
			return err
		}
		if err := generator.GenerateReport(result, os.Stdout); err != nil {
			return err
		}
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nMatching completed successfully.\n")
		fmt.Fprintf(os.Stderr, "Processed %d receipts: %d approved, %d manual review, %d rejected.\n",
			result.Summary.TotalReceipts, result.Summary.Approved,
			result.Summary.ManualReview, result.Summary.Rejected)
		fmt.Fprintf(os.Stderr, "Processing time: %v\n", result.Summary.Elapsed)
	}

	return nil
}
