// Package processor coordinates the complete receipt processing workflow.
//
// A Processor ties the lower layers together for each receipt:
//  1. Entity matching against the reference dataset
//  2. Business rule validation of the receipt and its match
//  3. A final decision (approved, manual review, or rejected)
//
// Batches run through a bounded worker pool with progress tracking, so a
// folder of OCR output can be processed in one call.
//
// Example usage:
//
//	proc, err := processor.NewProcessor(matcher.DefaultMatchingConfig(), data, nil)
//	if err != nil {
//		return err
//	}
//
//	batch, err := proc.ProcessBatch(ctx, receipts)
//	if err != nil {
//		return err
//	}
//	fmt.Printf("approved %d of %d receipts\n", batch.Summary.Approved, batch.Summary.TotalReceipts)
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/matcher"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/validate"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/errors"
	"github.com/Furkanturan8/rent-receipt-matcher/pkg/logger"
)

// DecisionStatus is the final outcome of processing a single receipt.
type DecisionStatus string

const (
	// DecisionApproved means the receipt matched with high confidence and
	// passed every validation rule. Safe to post without human review.
	DecisionApproved DecisionStatus = "approved"

	// DecisionManualReview means a human has to look at the receipt, either
	// because no confident match was found or because the match confidence
	// sits below the auto-approval threshold.
	DecisionManualReview DecisionStatus = "manual_review"

	// DecisionRejected means the receipt matched an owner but failed
	// validation, for example a wrong amount or a future-dated receipt.
	DecisionRejected DecisionStatus = "rejected"
)

// Config holds processing options for the Processor.
type Config struct {
	// MaxConcurrency bounds the worker pool used by ProcessBatch.
	MaxConcurrency int

	// ValidateReceipts controls whether business rule validation runs after
	// matching. Disabled it leaves every decision at the matching outcome.
	ValidateReceipts bool

	// ProgressReporting enables periodic progress logs during batch runs.
	ProgressReporting bool

	// ProgressInterval bounds how often batch progress is logged.
	ProgressInterval time.Duration
}

// DefaultConfig returns a default processor configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrency:    4,
		ValidateReceipts:  true,
		ProgressReporting: false,
		ProgressInterval:  5 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"max_concurrency",
			c.MaxConcurrency,
			nil,
		).WithSuggestion("Set max_concurrency to a positive worker count")
	}
	if c.ProgressInterval < 0 {
		return errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"progress_interval",
			c.ProgressInterval,
			nil,
		)
	}
	return nil
}

// ReceiptDecision is the complete outcome for one processed receipt.
type ReceiptDecision struct {
	Receipt    models.ReceiptFields       `json:"receipt"`
	Match      *models.MatchResult        `json:"match"`
	Validation *validate.ValidationResult `json:"validation,omitempty"`
	Status     DecisionStatus             `json:"status"`
	Reasons    []string                   `json:"reasons,omitempty"`
	Elapsed    time.Duration              `json:"elapsed"`
}

// BatchSummary aggregates decision counts for a processed batch.
type BatchSummary struct {
	TotalReceipts int `json:"total_receipts"`
	Approved      int `json:"approved"`
	ManualReview  int `json:"manual_review"`
	Rejected      int `json:"rejected"`

	// Matched counts receipts where the matcher found an owner with enough
	// confidence, regardless of the final decision.
	Matched int `json:"matched"`

	AverageConfidence float64       `json:"average_confidence"`
	Elapsed           time.Duration `json:"elapsed"`
}

// BatchResult contains the ordered decisions and summary of a batch run.
type BatchResult struct {
	Decisions   []*ReceiptDecision `json:"decisions"`
	Summary     *BatchSummary      `json:"summary"`
	ProcessedAt time.Time          `json:"processed_at"`
}

// Processor runs receipts through matching, validation, and final decision.
type Processor struct {
	engine    *matcher.Engine
	validator *validate.Validator
	config    *Config
	logger    logger.Logger
}

// NewProcessor creates a processor over the given reference dataset.
// A nil matching config or processor config selects the defaults.
func NewProcessor(matchingConfig *matcher.MatchingConfig, data *models.ReferenceData, config *Config) (*Processor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	engine, err := matcher.NewEngine(matchingConfig)
	if err != nil {
		return nil, err
	}
	if err := engine.LoadReferenceData(data); err != nil {
		return nil, err
	}

	log := logger.GetGlobalLogger().WithComponent("processor")
	log.WithFields(logger.Fields{
		"max_concurrency":   config.MaxConcurrency,
		"validate_receipts": config.ValidateReceipts,
	}).Debug("Processor created")

	return &Processor{
		engine:    engine,
		validator: validate.NewValidator(data),
		config:    config,
		logger:    log,
	}, nil
}

// Config returns the processor configuration.
func (p *Processor) Config() *Config {
	return p.config
}

// Engine returns the underlying matching engine.
func (p *Processor) Engine() *matcher.Engine {
	return p.engine
}

// ProcessReceipt runs a single receipt through the full workflow.
func (p *Processor) ProcessReceipt(ctx context.Context, fields models.ReceiptFields) (*ReceiptDecision, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.MatchingError(errors.CodeProcessingError, "process_receipt", err)
	}

	start := time.Now()

	match, err := p.engine.Match(fields)
	if err != nil {
		return nil, errors.MatchingError(errors.CodeMatchingFailed, "match_receipt", err)
	}

	decision := &ReceiptDecision{
		Receipt: fields,
		Match:   match,
	}

	if p.config.ValidateReceipts {
		decision.Validation = p.validator.Validate(fields, match)
	}

	decision.Status = p.decide(match, decision.Validation)
	decision.Reasons = decisionReasons(match, decision.Validation)
	decision.Elapsed = time.Since(start)

	p.logger.WithFields(logger.Fields{
		"status":     decision.Status,
		"confidence": match.Confidence,
	}).Debug("Receipt processed")

	return decision, nil
}

// decide maps the matching and validation outcomes to a final decision.
//
// A receipt is approved only when the matcher is confident enough for
// auto-approval and every validation rule passed. A confirmed match that
// fails validation is rejected. Everything else goes to manual review,
// including unmatched receipts whose validation errors only restate that
// no owner was found.
func (p *Processor) decide(match *models.MatchResult, validation *validate.ValidationResult) DecisionStatus {
	if match.Status != models.MatchStatusMatched {
		return DecisionManualReview
	}

	if validation != nil && !validation.Valid {
		return DecisionRejected
	}

	if match.Confidence >= p.engine.Config().HighConfidence {
		return DecisionApproved
	}

	return DecisionManualReview
}

func decisionReasons(match *models.MatchResult, validation *validate.ValidationResult) []string {
	reasons := append([]string(nil), match.Messages...)
	if validation != nil {
		reasons = append(reasons, validation.Errors...)
		reasons = append(reasons, validation.Warnings...)
	}
	return reasons
}

// ProcessBatch runs a batch of receipts through a bounded worker pool.
// Decisions are returned in the same order as the input receipts.
func (p *Processor) ProcessBatch(ctx context.Context, receipts []models.ReceiptFields) (*BatchResult, error) {
	start := time.Now()

	op := logger.NewOperationLogger("process_batch", p.logger).
		WithField("receipts", len(receipts))
	op.Step("starting batch processing")

	if len(receipts) == 0 {
		op.Success("no receipts to process")
		return &BatchResult{
			Decisions:   []*ReceiptDecision{},
			Summary:     &BatchSummary{},
			ProcessedAt: time.Now(),
		}, nil
	}

	var tracker *logger.ProgressTracker
	if p.config.ProgressReporting {
		tracker = logger.NewProgressTracker(logger.ProgressConfig{
			Operation:   "process_batch",
			Total:       int64(len(receipts)),
			LogInterval: p.config.ProgressInterval,
			Logger:      p.logger,
		})
	}

	workers := p.config.MaxConcurrency
	if workers > len(receipts) {
		workers = len(receipts)
	}

	decisions := make([]*ReceiptDecision, len(receipts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				decision, err := p.ProcessReceipt(ctx, receipts[i])
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				decisions[i] = decision
				if tracker != nil {
					tracker.Increment()
				}
			}
		}()
	}

dispatch:
	for i := range receipts {
		select {
		case <-ctx.Done():
			errOnce.Do(func() {
				firstErr = errors.MatchingError(errors.CodeProcessingError, "process_batch", ctx.Err())
			})
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		if tracker != nil {
			tracker.CompleteWithError(firstErr)
		}
		op.Error(firstErr, "batch processing failed")
		return nil, firstErr
	}

	if tracker != nil {
		tracker.Complete()
	}

	result := &BatchResult{
		Decisions:   decisions,
		Summary:     summarize(decisions, time.Since(start)),
		ProcessedAt: time.Now(),
	}

	op.WithField("approved", result.Summary.Approved).
		WithField("manual_review", result.Summary.ManualReview).
		WithField("rejected", result.Summary.Rejected).
		Success("batch processing completed")

	return result, nil
}

func summarize(decisions []*ReceiptDecision, elapsed time.Duration) *BatchSummary {
	summary := &BatchSummary{
		TotalReceipts: len(decisions),
		Elapsed:       elapsed,
	}

	var confidenceSum float64
	for _, d := range decisions {
		switch d.Status {
		case DecisionApproved:
			summary.Approved++
		case DecisionManualReview:
			summary.ManualReview++
		case DecisionRejected:
			summary.Rejected++
		}
		if d.Match != nil {
			confidenceSum += d.Match.Confidence
			if d.Match.IsMatched() {
				summary.Matched++
			}
		}
	}

	if summary.TotalReceipts > 0 {
		summary.AverageConfidence = confidenceSum / float64(summary.TotalReceipts)
	}

	return summary
}
