// Package validate checks matched receipts against business rules before
// they are accepted: IBAN format, amount sanity against the expected rent,
// date plausibility, owner/property consistency, and active contract cover.
//
// Validation is deliberately separate from matching. The matcher answers
// "which records does this receipt refer to"; this package answers "should
// this payment be accepted against those records". Rule violations split
// into errors, which invalidate the receipt, and warnings, which only flag
// it for attention.
package validate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/normalize"
)

// turkishIBANPattern matches a normalized Turkish IBAN: TR plus 24 digits.
var turkishIBANPattern = regexp.MustCompile(`^TR\d{24}$`)

// ValidationResult collects the outcome of validating one receipt. Errors
// make the receipt invalid; warnings and messages are informational.
type ValidationResult struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// NewValidationResult returns a result that is valid until an error is added.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

// AddError records a rule violation and marks the result invalid.
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
	vr.Valid = false
}

// AddWarning records a non-fatal finding.
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// AddMessage records an informational message.
func (vr *ValidationResult) AddMessage(format string, args ...interface{}) {
	vr.Messages = append(vr.Messages, fmt.Sprintf(format, args...))
}

// Validator applies the receipt acceptance rules against reference data.
//
// The zero value is not usable; construct with NewValidator.
type Validator struct {
	propertiesByID      map[int64]*models.Property
	contractsByProperty map[int64][]*models.RentalContract

	// AmountTolerancePercent is the band around the expected rent within
	// which the paid amount passes without comment.
	AmountTolerancePercent float64

	// MaxReceiptAge is how far in the past a receipt date may lie before it
	// draws a warning.
	MaxReceiptAge time.Duration

	// Now supplies the current time for date checks; overridable in tests.
	Now func() time.Time
}

// NewValidator builds a validator over the given reference data.
func NewValidator(data *models.ReferenceData) *Validator {
	v := &Validator{
		propertiesByID:         make(map[int64]*models.Property, len(data.Properties)),
		contractsByProperty:    make(map[int64][]*models.RentalContract),
		AmountTolerancePercent: 5.0,
		MaxReceiptAge:          365 * 24 * time.Hour,
		Now:                    time.Now,
	}

	for _, property := range data.Properties {
		v.propertiesByID[property.ID] = property
	}
	for _, contract := range data.Contracts {
		v.contractsByProperty[contract.PropertyID] = append(v.contractsByProperty[contract.PropertyID], contract)
	}

	return v
}

// Validate runs all acceptance rules for a receipt and its match outcome.
// The match may reference no records at all; that is itself a violation.
func (v *Validator) Validate(fields models.ReceiptFields, match *models.MatchResult) *ValidationResult {
	result := NewValidationResult()

	v.validateIBANs(fields, result)
	v.validateAmount(fields, match, result)
	v.validateDate(fields, result)
	v.validateRelationships(match, result)
	v.validateActiveContract(match, result)
	v.validateRequiredFields(fields, result)

	switch {
	case result.Valid && len(result.Warnings) == 0:
		result.AddMessage("all validations passed")
	case result.Valid:
		result.AddMessage("validation passed with warnings")
	default:
		result.AddMessage("validation failed")
	}

	return result
}

// validateIBANs checks both IBANs against the Turkish format. A bad receiver
// IBAN is an error since it anchors the match; a bad sender IBAN only warns.
func (v *Validator) validateIBANs(fields models.ReceiptFields, result *ValidationResult) {
	if fields.ReceiverIBAN != "" {
		iban := normalize.IBAN(fields.ReceiverIBAN)
		if !turkishIBANPattern.MatchString(iban) {
			result.AddError("invalid receiver IBAN format: %s (expected TR followed by 24 digits)", fields.ReceiverIBAN)
		} else {
			result.AddMessage("receiver IBAN format valid: %s", iban)
		}
	} else {
		result.AddWarning("receiver IBAN missing")
	}

	if fields.SenderIBAN != "" {
		iban := normalize.IBAN(fields.SenderIBAN)
		if !turkishIBANPattern.MatchString(iban) {
			result.AddWarning("invalid sender IBAN format: %s", fields.SenderIBAN)
		} else {
			result.AddMessage("sender IBAN format valid: %s", iban)
		}
	}
}

// validateAmount checks that the paid amount parses, is positive, and sits
// close enough to the matched property's rent. Within tolerance passes,
// within twice the tolerance warns, beyond that is an error.
func (v *Validator) validateAmount(fields models.ReceiptFields, match *models.MatchResult, result *ValidationResult) {
	if fields.AmountText == "" {
		result.AddError("amount missing")
		return
	}

	amount, ok := normalize.Amount(fields.AmountText)
	if !ok {
		result.AddError("invalid amount format: %s", fields.AmountText)
		return
	}
	if !amount.IsPositive() {
		result.AddError("amount must be positive: %s", amount.String())
		return
	}

	result.AddMessage("amount: %s TL", amount.StringFixed(2))

	expected := v.expectedAmount(match)
	if expected == nil {
		return
	}

	tolerance := expected.Mul(decimal.NewFromFloat(v.AmountTolerancePercent / 100.0))
	diff := amount.Sub(*expected).Abs()

	switch {
	case diff.LessThanOrEqual(tolerance):
		result.AddMessage("amount close to expected rent (expected: %s TL, difference: %s TL)",
			expected.StringFixed(2), diff.StringFixed(2))
	case diff.LessThanOrEqual(tolerance.Mul(decimal.NewFromInt(2))):
		result.AddWarning("amount differs from expected rent (expected: %s TL, actual: %s TL, difference: %s TL)",
			expected.StringFixed(2), amount.StringFixed(2), diff.StringFixed(2))
	default:
		result.AddError("amount far from expected rent (expected: %s TL, actual: %s TL, difference: %s TL)",
			expected.StringFixed(2), amount.StringFixed(2), diff.StringFixed(2))
	}
}

// expectedAmount resolves the rent to compare against from the matched
// property, when one exists and carries a price.
func (v *Validator) expectedAmount(match *models.MatchResult) *decimal.Decimal {
	if match == nil || match.PropertyID == nil {
		return nil
	}
	property, ok := v.propertiesByID[*match.PropertyID]
	if !ok || !property.HasPrice() {
		return nil
	}
	return &property.Price
}

// validateDate checks the receipt date: unparseable or missing dates warn,
// a future date is an error, and a date older than MaxReceiptAge warns.
func (v *Validator) validateDate(fields models.ReceiptFields, result *ValidationResult) {
	if fields.DateText == "" {
		result.AddWarning("receipt date missing")
		return
	}

	date, ok := normalize.Date(fields.DateText)
	if !ok {
		result.AddWarning("unrecognized date format: %s", fields.DateText)
		return
	}

	result.AddMessage("receipt date: %s", date.Format("02.01.2006"))

	now := v.Now()
	if date.After(now) {
		result.AddError("receipt date cannot be in the future: %s", date.Format("02.01.2006"))
	}
	if now.Sub(date) > v.MaxReceiptAge {
		result.AddWarning("receipt date older than a year: %s", date.Format("02.01.2006"))
	}
}

// validateRelationships checks that an owner was matched at all and that the
// matched property actually belongs to the matched owner.
func (v *Validator) validateRelationships(match *models.MatchResult, result *ValidationResult) {
	if match == nil || match.OwnerID == nil {
		result.AddError("no owner matched")
		return
	}

	result.AddMessage("owner matched (ID: %d)", *match.OwnerID)

	if match.PropertyID != nil {
		if property, ok := v.propertiesByID[*match.PropertyID]; ok {
			if property.OwnerID != *match.OwnerID {
				result.AddError("property owner mismatch (property belongs to owner %d, matched owner %d)",
					property.OwnerID, *match.OwnerID)
			} else {
				result.AddMessage("property matched (ID: %d)", *match.PropertyID)
			}
		}
	}

	if match.CustomerID != nil {
		result.AddMessage("customer matched (ID: %d)", *match.CustomerID)
	}
}

// validateActiveContract warns when the matched property has no active
// rental contract to receive a payment against.
func (v *Validator) validateActiveContract(match *models.MatchResult, result *ValidationResult) {
	if match == nil || match.PropertyID == nil {
		return
	}

	active := 0
	for _, contract := range v.contractsByProperty[*match.PropertyID] {
		if contract.IsActive() {
			active++
		}
	}

	if active == 0 {
		result.AddWarning("no active rental contract for property (ID: %d)", *match.PropertyID)
		return
	}

	result.AddMessage("active rental contract present (count: %d)", active)
}

// validateRequiredFields checks the minimum field set a receipt must carry.
func (v *Validator) validateRequiredFields(fields models.ReceiptFields, result *ValidationResult) {
	if fields.AmountText == "" {
		result.AddError("required field missing: amount")
	}

	if fields.ReceiverIBAN == "" && fields.ReceiverName == "" {
		result.AddWarning("receiver information missing (IBAN or name required)")
	}
}
