// Package matcher provides the core receipt matching engine and its configuration.
//
// This package matches OCR-extracted bank receipt fields against property
// owner records, handling the real-world noise of scanned Turkish rent
// receipts:
//   - OCR character confusion in IBANs, names, and amounts
//   - Locale-ambiguous amount formats
//   - Free-text transfer descriptions standing in for addresses
//   - Configurable criterion weights and confidence thresholds
//
// The matching engine uses a multi-stage approach:
//  1. Candidate selection by exact IBAN lookup or fuzzy name similarity
//  2. Scoring across five weighted criteria (IBAN, amount, name, address, sender)
//  3. Confidence aggregation to a 0-100 scale
//  4. Best-candidate selection with deterministic tie-breaking
//
// Example usage:
//
//	config := matcher.DefaultMatchingConfig()
//	config.MinConfidence = 80.0
//
//	engine, err := matcher.NewEngine(config)
//	if err != nil {
//		return err
//	}
//	if err := engine.LoadReferenceData(data); err != nil {
//		return err
//	}
//
//	result, err := engine.Match(fields)
//	if err != nil {
//		return err
//	}
package matcher

import "fmt"

// CriterionWeights defines the relative importance of the five matching
// criteria. Weights are expressed on a 0-100 scale; confidence aggregation
// normalizes by their sum, so only the ratios matter.
type CriterionWeights struct {
	// IBAN is the weight of the receiver IBAN criterion
	IBAN float64 `json:"iban_weight"`

	// Amount is the weight of the amount versus property price criterion
	Amount float64 `json:"amount_weight"`

	// Name is the weight of the receiver name similarity criterion
	Name float64 `json:"name_weight"`

	// Address is the weight of the description versus property address criterion
	Address float64 `json:"address_weight"`

	// Sender is the weight of the sender versus customer registry criterion
	Sender float64 `json:"sender_weight"`
}

// Total returns the sum of all criterion weights.
func (cw CriterionWeights) Total() float64 {
	return cw.IBAN + cw.Amount + cw.Name + cw.Address + cw.Sender
}

// Validate checks that every weight is non-negative and that at least one
// criterion carries weight.
func (cw CriterionWeights) Validate() error {
	check := func(name string, w float64) error {
		if w < 0.0 {
			return fmt.Errorf("%s weight cannot be negative: %f", name, w)
		}
		return nil
	}

	if err := check("iban", cw.IBAN); err != nil {
		return err
	}
	if err := check("amount", cw.Amount); err != nil {
		return err
	}
	if err := check("name", cw.Name); err != nil {
		return err
	}
	if err := check("address", cw.Address); err != nil {
		return err
	}
	if err := check("sender", cw.Sender); err != nil {
		return err
	}

	if cw.Total() == 0.0 {
		return fmt.Errorf("criterion weights sum to zero")
	}

	return nil
}

// MatchingConfig holds configuration parameters for receipt matching.
// This configuration controls all aspects of the matching algorithm,
// from candidate selection through the final accept/review decision.
//
// Key configuration areas:
//   - Criterion weights: relative importance of the five scoring criteria
//   - Confidence thresholds: when to accept automatically versus flag for review
//   - Candidate selection: fuzzy name cutoff and candidate set limits
//   - Amount handling: tolerance band around the expected rent
//
// Use the provided factory functions for common scenarios:
//   - DefaultMatchingConfig(): balanced defaults for most deployments
//   - StrictMatchingConfig(): tight thresholds when false matches are costly
//   - RelaxedMatchingConfig(): loose thresholds for exploratory matching
type MatchingConfig struct {
	// Weights holds the relative importance of the five matching criteria
	Weights CriterionWeights `json:"weights"`

	// MinConfidence defines the minimum aggregate confidence (0-100) for a
	// receipt to be accepted as matched rather than flagged for manual review
	MinConfidence float64 `json:"min_confidence"`

	// HighConfidence defines the aggregate confidence (0-100) above which a
	// match is reported as high confidence and eligible for auto-approval
	HighConfidence float64 `json:"high_confidence"`

	// NameCandidateThreshold defines the minimum name similarity (0-1) for an
	// owner to enter the candidate set when no IBAN match exists
	NameCandidateThreshold float64 `json:"name_candidate_threshold"`

	// AmountTolerancePercent defines the percentage band around the property
	// price that still counts as a full amount match (0.0 to 100.0)
	AmountTolerancePercent float64 `json:"amount_tolerance_percent"`

	// MaxCandidates limits the number of candidates scored per receipt.
	// Zero means no limit.
	MaxCandidates int `json:"max_candidates"`
}

// DefaultMatchingConfig returns a configuration with the production defaults:
// criterion weights 95/85/75/70/60, acceptance at confidence 70, and
// high-confidence reporting at 90.
func DefaultMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		Weights: CriterionWeights{
			IBAN:    95.0,
			Amount:  85.0,
			Name:    75.0,
			Address: 70.0,
			Sender:  60.0,
		},
		MinConfidence:          70.0,
		HighConfidence:         90.0,
		NameCandidateThreshold: 0.7,
		AmountTolerancePercent: 5.0,
		MaxCandidates:          0,
	}
}

// StrictMatchingConfig returns a configuration for strict matching: higher
// acceptance threshold, tighter name cutoff, and a narrower amount band.
func StrictMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		Weights: CriterionWeights{
			IBAN:    95.0,
			Amount:  85.0,
			Name:    75.0,
			Address: 70.0,
			Sender:  60.0,
		},
		MinConfidence:          85.0,
		HighConfidence:         95.0,
		NameCandidateThreshold: 0.8,
		AmountTolerancePercent: 2.0,
		MaxCandidates:          10,
	}
}

// RelaxedMatchingConfig returns a configuration for relaxed matching, useful
// when operators prefer reviewing weak suggestions over empty results.
func RelaxedMatchingConfig() *MatchingConfig {
	return &MatchingConfig{
		Weights: CriterionWeights{
			IBAN:    95.0,
			Amount:  85.0,
			Name:    75.0,
			Address: 70.0,
			Sender:  60.0,
		},
		MinConfidence:          55.0,
		HighConfidence:         85.0,
		NameCandidateThreshold: 0.6,
		AmountTolerancePercent: 10.0,
		MaxCandidates:          0,
	}
}

// Validate checks if the matching configuration is valid
func (mc *MatchingConfig) Validate() error {
	if err := mc.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}

	if mc.MinConfidence < 0.0 || mc.MinConfidence > 100.0 {
		return fmt.Errorf("minimum confidence must be between 0.0 and 100.0: %f", mc.MinConfidence)
	}

	if mc.HighConfidence < mc.MinConfidence || mc.HighConfidence > 100.0 {
		return fmt.Errorf("high confidence must be between minimum confidence and 100.0: %f", mc.HighConfidence)
	}

	if mc.NameCandidateThreshold < 0.0 || mc.NameCandidateThreshold > 1.0 {
		return fmt.Errorf("name candidate threshold must be between 0.0 and 1.0: %f", mc.NameCandidateThreshold)
	}

	if mc.AmountTolerancePercent <= 0.0 || mc.AmountTolerancePercent > 100.0 {
		return fmt.Errorf("amount tolerance percent must be between 0.0 and 100.0: %f", mc.AmountTolerancePercent)
	}

	if mc.MaxCandidates < 0 {
		return fmt.Errorf("max candidates cannot be negative: %d", mc.MaxCandidates)
	}

	return nil
}

// Clone creates a deep copy of the matching configuration
func (mc *MatchingConfig) Clone() *MatchingConfig {
	if mc == nil {
		return nil
	}

	clone := *mc
	return &clone
}

// String returns a human-readable description of the configuration
func (mc *MatchingConfig) String() string {
	return fmt.Sprintf("MatchingConfig{MinConfidence: %.1f, HighConfidence: %.1f, NameThreshold: %.2f, AmountTolerance: %.1f%%}",
		mc.MinConfidence, mc.HighConfidence, mc.NameCandidateThreshold, mc.AmountTolerancePercent)
}
