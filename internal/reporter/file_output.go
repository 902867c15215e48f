package reporter

import (
	"os"
	"path/filepath"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/processor"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/errors"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/logger"
)

// FileReporter writes reports to files with logging and error mapping.
type FileReporter struct {
	generator *ReportGenerator
	logger    logger.Logger
}

// NewFileReporter creates a file-based reporter. A nil logger selects the
// global logger.
func NewFileReporter(config *ReportConfig, log logger.Logger) (*FileReporter, error) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	generator, err := NewReportGenerator(config)
	if err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"report_config",
			config,
			err,
		).WithSuggestion("Check the report configuration values")
	}

	return &FileReporter{
		generator: generator,
		logger:    log.WithComponent("reporter"),
	}, nil
}

// WriteReport renders the batch result into the given file, creating parent
// directories as needed.
func (fr *FileReporter) WriteReport(result *processor.BatchResult, path string) error {
	fr.logger.WithFields(logger.Fields{
		"format": fr.generator.GetConfiguration().Format,
		"file":   path,
	}).Info("Writing report file")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.FileError(errors.CodeDirectoryError, dir, err).
				WithSuggestion("Check that the output directory is writable")
		}
	}

	file, err := os.Create(path)
	if err != nil {
		if os.IsPermission(err) {
			return errors.FileError(errors.CodeFilePermission, path, err)
		}
		return errors.FileError(errors.CodeDirectoryError, path, err)
	}
	defer file.Close()

	if err := fr.generator.GenerateReport(result, file); err != nil {
		fr.logger.WithError(err).Error("Report generation failed")
		return errors.InternalError(errors.CodeUnexpectedError, "generate_report", err)
	}

	fr.logger.WithField("file", path).Info("Report written")
	return nil
}
