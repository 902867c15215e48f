// Package dataset loads reference data and OCR receipt batches from JSON
// files, translating file and decode failures into the application error
// taxonomy.
package dataset

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/extract"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/errors"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/logger"
)

// Loader reads reference data and receipt files.
type Loader struct {
	logger logger.Logger
}

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Logger logger.Logger
}

// NewLoader creates a loader. A nil options or logger falls back to the
// global logger.
func NewLoader(opts *LoaderOptions) *Loader {
	log := logger.GetGlobalLogger()
	if opts != nil && opts.Logger != nil {
		log = opts.Logger
	}
	return &Loader{logger: log.WithComponent("dataset")}
}

// LoadReferenceData reads a combined reference data file holding owners,
// customers, properties, and rental contracts, and validates the result.
func (l *Loader) LoadReferenceData(path string) (*models.ReferenceData, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var data models.ReferenceData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, "", err.Error(), err)
	}

	if len(data.Owners) == 0 {
		return nil, errors.ParseError(errors.CodeMissingKey, path, "owners", "", nil)
	}

	if err := data.Validate(); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidData, path, "", err.Error(), err)
	}

	l.logger.WithFields(logger.Fields{
		"file":       path,
		"owners":     len(data.Owners),
		"customers":  len(data.Customers),
		"properties": len(data.Properties),
		"contracts":  len(data.Contracts),
	}).Info("Reference data loaded")

	return &data, nil
}

// LoadReceipts reads a batch of raw OCR receipt payloads and resolves each
// through alias mapping into canonical receipt fields. The file may hold a
// top-level JSON array or an object with a "receipts" key. Amount values are
// decoded as json.Number so their source notation reaches the normalizer
// unchanged.
func (l *Loader) LoadReceipts(path string) ([]models.ReceiptFields, error) {
	file, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payloads, err := decodeReceiptPayloads(file, path)
	if err != nil {
		return nil, err
	}

	receipts := make([]models.ReceiptFields, 0, len(payloads))
	empty := 0
	for _, payload := range payloads {
		fields := extract.Resolve(payload)
		if fields.IsEmpty() {
			empty++
		}
		receipts = append(receipts, fields)
	}

	entry := l.logger.WithFields(logger.Fields{
		"file":     path,
		"receipts": len(receipts),
	})
	if empty > 0 {
		entry.WithField("empty", empty).Warn("Receipt batch loaded with empty payloads")
	} else {
		entry.Info("Receipt batch loaded")
	}

	return receipts, nil
}

func decodeReceiptPayloads(r io.Reader, path string) ([]map[string]any, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, "", err.Error(), err)
	}

	var payloads []map[string]any
	if err := unmarshalUseNumber(raw, &payloads); err == nil {
		return payloads, nil
	}

	var wrapper struct {
		Receipts []map[string]any `json:"receipts"`
	}
	if err := unmarshalUseNumber(raw, &wrapper); err != nil {
		return nil, errors.ParseError(errors.CodeInvalidFormat, path, "", err.Error(), err)
	}
	if wrapper.Receipts == nil {
		return nil, errors.ParseError(errors.CodeMissingKey, path, "receipts", "", nil)
	}

	return wrapper.Receipts, nil
}

func unmarshalUseNumber(raw json.RawMessage, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func openFile(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		case os.IsPermission(err):
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		default:
			return nil, errors.FileError(errors.CodeDirectoryError, path, err)
		}
	}
	return file, nil
}
