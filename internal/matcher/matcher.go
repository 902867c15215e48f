package matcher

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/fuzzy"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
)

// Engine matches OCR-extracted receipt fields against indexed reference
// records. An Engine is created once with a configuration, loaded with
// reference data, and then reused across receipts; Match is safe for
// concurrent use once the data is loaded.
type Engine struct {
	config *MatchingConfig
	index  *ReferenceIndex
}

// candidate is one owner (optionally with a specific property) selected for
// full scoring.
type candidate struct {
	owner    *models.Owner
	property *models.Property
	reason   string

	scores     models.CriterionScores
	confidence float64
	customerID *int64
}

// NewEngine creates a matching engine with the given configuration. A nil
// configuration selects DefaultMatchingConfig. The configuration is cloned,
// so later mutation by the caller does not affect the engine.
func NewEngine(config *MatchingConfig) (*Engine, error) {
	if config == nil {
		config = DefaultMatchingConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}

	return &Engine{config: config.Clone()}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *MatchingConfig {
	return e.config.Clone()
}

// LoadReferenceData validates the reference data and builds the lookup index.
// Replaces any previously loaded data.
func (e *Engine) LoadReferenceData(data *models.ReferenceData) error {
	if data == nil {
		return fmt.Errorf("reference data is nil")
	}
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid reference data: %w", err)
	}

	e.index = NewReferenceIndex(data)
	return nil
}

// Index returns the current reference index, or nil when no data is loaded.
func (e *Engine) Index() *ReferenceIndex {
	return e.index
}

// Match matches a receipt against the loaded reference data using the
// configured minimum confidence. Calling Match before LoadReferenceData is a
// programming error and returns a non-nil error.
func (e *Engine) Match(fields models.ReceiptFields) (*models.MatchResult, error) {
	return e.MatchWithMinConfidence(fields, e.config.MinConfidence)
}

// MatchWithMinConfidence matches a receipt with a per-call acceptance
// threshold, overriding the configured MinConfidence for this receipt only.
//
// On success the result is never nil: with no viable candidate the status is
// manual_review and all record references are absent. The rejected status is
// reserved for downstream validation and is never produced here.
func (e *Engine) MatchWithMinConfidence(fields models.ReceiptFields, minConfidence float64) (*models.MatchResult, error) {
	if e.index == nil {
		return nil, fmt.Errorf("no reference data loaded: call LoadReferenceData first")
	}

	result := models.NewMatchResult()

	receiverIBAN := normalize.IBAN(fields.ReceiverIBAN)
	receiverName := normalize.Name(fields.ReceiverName)
	senderName := normalize.Name(fields.SenderName)
	amount, hasAmount := normalize.Amount(fields.AmountText)
	description := fields.Description

	candidates := e.generateCandidates(receiverIBAN, receiverName)
	if len(candidates) == 0 {
		result.Status = models.MatchStatusManualReview
		result.AddMessage("no matching records found")
		return result, nil
	}

	// The sender criterion depends only on the receipt, so the customer
	// registry scan runs once per receipt rather than once per candidate.
	senderScore, customerID := e.bestSenderMatch(senderName)

	best := -1
	for i := range candidates {
		c := &candidates[i]

		c.scores = models.CriterionScores{Sender: senderScore}
		c.customerID = customerID
		e.scoreIBAN(c, receiverIBAN)
		e.scoreAmount(c, amount, hasAmount)
		e.scoreName(c, receiverName)
		e.scoreAddress(c, description)
		c.confidence = e.aggregateConfidence(c.scores)

		if best < 0 || betterCandidate(c, &candidates[best]) {
			best = i
		}
	}

	result.Candidates = candidateScores(candidates)

	chosen := &candidates[best]
	result.OwnerID = int64Ptr(chosen.owner.ID)
	if chosen.property != nil {
		result.PropertyID = int64Ptr(chosen.property.ID)
	}
	result.CustomerID = chosen.customerID
	result.Confidence = chosen.confidence
	result.Scores = chosen.scores

	switch {
	case chosen.confidence >= minConfidence && chosen.confidence >= e.config.HighConfidence:
		result.Status = models.MatchStatusMatched
		result.AddMessage("matched with high confidence (score: %.1f/100)", chosen.confidence)
	case chosen.confidence >= minConfidence:
		result.Status = models.MatchStatusMatched
		result.AddMessage("matched (score: %.1f/100)", chosen.confidence)
	default:
		result.Status = models.MatchStatusManualReview
		result.AddMessage("low confidence score (%.1f/100), manual review required", chosen.confidence)
	}

	return result, nil
}

// generateCandidates selects owners worth scoring. An exact normalized IBAN
// match always qualifies; otherwise a receiver name similarity at or above
// the configured threshold does. IBAN matches expand to one candidate per
// property and fall back to an owner-only candidate when the owner has no
// properties; name matches require a property because without the IBAN the
// property is what anchors the match.
func (e *Engine) generateCandidates(receiverIBAN, receiverName string) []candidate {
	var candidates []candidate

	limit := e.config.MaxCandidates
	full := func() bool { return limit > 0 && len(candidates) >= limit }

	for _, owner := range e.index.Owners() {
		if full() {
			break
		}

		ownerIBAN := e.index.OwnerIBAN(owner.ID)
		ownerName := e.index.OwnerName(owner.ID)

		if receiverIBAN != "" && ownerIBAN != "" && receiverIBAN == ownerIBAN {
			properties := e.index.PropertiesOf(owner.ID)
			if len(properties) == 0 {
				candidates = append(candidates, candidate{owner: owner, reason: "iban_exact"})
				continue
			}
			for _, property := range properties {
				if full() {
					break
				}
				candidates = append(candidates, candidate{owner: owner, property: property, reason: "iban_exact"})
			}
		} else if receiverName != "" && ownerName != "" {
			similarity := fuzzy.NameSimilarity(receiverName, ownerName)
			if similarity < e.config.NameCandidateThreshold {
				continue
			}
			reason := fmt.Sprintf("name_similarity_%.2f", similarity)
			for _, property := range e.index.PropertiesOf(owner.ID) {
				if full() {
					break
				}
				candidates = append(candidates, candidate{owner: owner, property: property, reason: reason})
			}
		}
	}

	return candidates
}

// scoreIBAN sets the IBAN criterion: 1.0 for an exact normalized match, 0.5
// when only the last four characters agree, 0.0 otherwise or when either
// side is absent.
func (e *Engine) scoreIBAN(c *candidate, receiverIBAN string) {
	ownerIBAN := e.index.OwnerIBAN(c.owner.ID)
	if receiverIBAN == "" || ownerIBAN == "" {
		return
	}

	if receiverIBAN == ownerIBAN {
		c.scores.IBAN = 1.0
		return
	}

	if len(receiverIBAN) >= 4 && len(ownerIBAN) >= 4 &&
		receiverIBAN[len(receiverIBAN)-4:] == ownerIBAN[len(ownerIBAN)-4:] {
		c.scores.IBAN = 0.5
	}
}

// scoreAmount sets the amount criterion against the candidate property's
// price. Within the tolerance band the score falls linearly from 1.0 at an
// exact match to 0.8 at the band edge; within twice the band it is 0.5;
// beyond that 0.0. No amount, no property, or no price leaves the score at
// 0.0.
func (e *Engine) scoreAmount(c *candidate, amount decimal.Decimal, hasAmount bool) {
	if !hasAmount || c.property == nil || !c.property.HasPrice() {
		return
	}

	price := c.property.Price
	tolerance := price.Mul(decimal.NewFromFloat(e.config.AmountTolerancePercent / 100.0))
	diff := amount.Sub(price).Abs()

	if tolerance.IsZero() {
		if diff.IsZero() {
			c.scores.Amount = 1.0
		}
		return
	}

	switch {
	case diff.LessThanOrEqual(tolerance):
		ratio := diff.Div(tolerance).InexactFloat64()
		c.scores.Amount = 1.0 - ratio*0.2
	case diff.LessThanOrEqual(tolerance.Mul(decimal.NewFromInt(2))):
		c.scores.Amount = 0.5
	}
}

// scoreName sets the name criterion from receiver name similarity.
func (e *Engine) scoreName(c *candidate, receiverName string) {
	ownerName := e.index.OwnerName(c.owner.ID)
	if receiverName == "" || ownerName == "" {
		return
	}
	c.scores.Name = fuzzy.NameSimilarity(receiverName, ownerName)
}

// scoreAddress sets the address criterion by comparing the transfer
// description against the candidate property's address.
func (e *Engine) scoreAddress(c *candidate, description string) {
	if description == "" || c.property == nil || c.property.Address == "" {
		return
	}
	c.scores.Address = fuzzy.AddressSimilarity(description, c.property.Address)
}

// bestSenderMatch scans the customer registry for the highest name similarity
// against the sender. Returns 0.0 and no customer when the sender is absent
// or nothing in the registry resembles it.
func (e *Engine) bestSenderMatch(senderName string) (float64, *int64) {
	if senderName == "" {
		return 0.0, nil
	}

	bestScore := 0.0
	var bestID *int64

	for _, entry := range e.index.customers {
		if entry.normName == "" {
			continue
		}
		similarity := fuzzy.NameSimilarity(senderName, entry.normName)
		if similarity > bestScore {
			bestScore = similarity
			bestID = int64Ptr(entry.customer.ID)
		}
	}

	return bestScore, bestID
}

// aggregateConfidence folds the five criterion scores into a 0-100 confidence
// via the weighted average over the configured weights.
func (e *Engine) aggregateConfidence(scores models.CriterionScores) float64 {
	w := e.config.Weights
	total := w.Total()
	if total == 0.0 {
		return 0.0
	}

	weighted := scores.IBAN*w.IBAN +
		scores.Amount*w.Amount +
		scores.Name*w.Name +
		scores.Address*w.Address +
		scores.Sender*w.Sender

	return weighted / total * 100.0
}

// betterCandidate reports whether a should be preferred over b. Confidence
// decides; exact ties fall through to IBAN score, then amount score, then
// lower owner ID, then lower property ID, with property-less candidates
// ordered last. The chain is total, so the selection is deterministic
// regardless of input order.
func betterCandidate(a, b *candidate) bool {
	if a.confidence != b.confidence {
		return a.confidence > b.confidence
	}
	if a.scores.IBAN != b.scores.IBAN {
		return a.scores.IBAN > b.scores.IBAN
	}
	if a.scores.Amount != b.scores.Amount {
		return a.scores.Amount > b.scores.Amount
	}
	if a.owner.ID != b.owner.ID {
		return a.owner.ID < b.owner.ID
	}
	switch {
	case a.property == nil && b.property == nil:
		return false
	case a.property == nil:
		return false
	case b.property == nil:
		return true
	default:
		return a.property.ID < b.property.ID
	}
}

// candidateScores converts scored candidates into the result representation,
// ordered best first.
func candidateScores(candidates []candidate) []models.CandidateScore {
	ordered := make([]*candidate, len(candidates))
	for i := range candidates {
		ordered[i] = &candidates[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return betterCandidate(ordered[i], ordered[j])
	})

	out := make([]models.CandidateScore, len(ordered))
	for i, c := range ordered {
		cs := models.CandidateScore{
			OwnerID:    c.owner.ID,
			Reason:     c.reason,
			Scores:     c.scores,
			Confidence: c.confidence,
		}
		if c.property != nil {
			cs.PropertyID = int64Ptr(c.property.ID)
		}
		out[i] = cs
	}

	return out
}

func int64Ptr(v int64) *int64 {
	return &v
}
