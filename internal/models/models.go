package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MatchStatus represents the outcome classification of a receipt match attempt
type MatchStatus string

const (
	// MatchStatusPending is the only legal initial value before any decision is made
	MatchStatusPending MatchStatus = "pending"
	// MatchStatusMatched indicates the best candidate reached the confidence threshold
	MatchStatusMatched MatchStatus = "matched"
	// MatchStatusManualReview indicates no candidate reached the threshold and a
	// human has to look at the receipt
	MatchStatusManualReview MatchStatus = "manual_review"
	// MatchStatusRejected is reserved for downstream validation layers; the
	// matching engine itself never produces it
	MatchStatusRejected MatchStatus = "rejected"
)

// String returns the string representation of MatchStatus
func (s MatchStatus) String() string {
	return string(s)
}

// IsValid checks if the match status is a known value
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusPending, MatchStatusMatched, MatchStatusManualReview, MatchStatusRejected:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the status represents a completed decision
func (s MatchStatus) IsFinal() bool {
	return s != MatchStatusPending
}

// Owner represents a property owner reference record. Owner data is treated as
// immutable for the duration of a match call.
type Owner struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	IBAN     string `json:"iban"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Active   bool   `json:"is_active"`
}

// Validate performs basic validation on the Owner
func (o *Owner) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("owner ID must be positive: %d", o.ID)
	}

	if strings.TrimSpace(o.FullName) == "" && strings.TrimSpace(o.IBAN) == "" {
		return fmt.Errorf("owner %d must have a full name or an IBAN", o.ID)
	}

	return nil
}

// String returns a string representation of the Owner
func (o *Owner) String() string {
	return fmt.Sprintf("Owner{ID: %d, Name: %s, IBAN: %s}", o.ID, o.FullName, o.IBAN)
}

// Property represents a rental property reference record. A property always
// belongs to exactly one owner; an owner may have zero or more properties.
type Property struct {
	ID       int64           `json:"id"`
	OwnerID  int64           `json:"owner_id"`
	Price    decimal.Decimal `json:"price"`
	Address  string          `json:"address"`
	City     string          `json:"city,omitempty"`
	District string          `json:"district,omitempty"`
	Status   string          `json:"status,omitempty"`
}

// Validate performs basic validation on the Property
func (p *Property) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("property ID must be positive: %d", p.ID)
	}

	if p.OwnerID <= 0 {
		return fmt.Errorf("property %d must reference an owner", p.ID)
	}

	if p.Price.IsNegative() {
		return fmt.Errorf("property %d price cannot be negative: %s", p.ID, p.Price.String())
	}

	return nil
}

// HasPrice reports whether the property carries a usable rent price
func (p *Property) HasPrice() bool {
	return p.Price.IsPositive()
}

// String returns a string representation of the Property
func (p *Property) String() string {
	return fmt.Sprintf("Property{ID: %d, OwnerID: %d, Price: %s, Address: %s}",
		p.ID, p.OwnerID, p.Price.String(), p.Address)
}

// Customer represents a tenant/customer reference record, used only for
// independent sender resolution during matching.
type Customer struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	City     string `json:"city,omitempty"`
	Active   bool   `json:"is_active"`
}

// Validate performs basic validation on the Customer
func (c *Customer) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("customer ID must be positive: %d", c.ID)
	}

	if strings.TrimSpace(c.FullName) == "" {
		return fmt.Errorf("customer %d must have a full name", c.ID)
	}

	return nil
}

// String returns a string representation of the Customer
func (c *Customer) String() string {
	return fmt.Sprintf("Customer{ID: %d, Name: %s}", c.ID, c.FullName)
}

// RentalContract represents an active or historical rental agreement. It is
// consulted by the downstream validation layer, never by the matching engine.
type RentalContract struct {
	ID             int64           `json:"id"`
	ContractNumber string          `json:"contract_number,omitempty"`
	TenantID       int64           `json:"tenant_id"`
	PropertyID     int64           `json:"rental_property_id"`
	OwnerID        int64           `json:"owner_id"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent"`
	Status         string          `json:"status"`
}

// IsActive reports whether the contract is currently in force
func (rc *RentalContract) IsActive() bool {
	return rc.Status == "active"
}

// ReceiptFields is the resolved optional-field record produced at the system
// boundary from the raw OCR/NLP field map. Every field may be empty; absence
// reduces achievable confidence but never causes a match call to fail.
type ReceiptFields struct {
	SenderName      string `json:"sender_name,omitempty"`
	SenderIBAN      string `json:"sender_iban,omitempty"`
	ReceiverName    string `json:"receiver_name,omitempty"`
	ReceiverIBAN    string `json:"receiver_iban,omitempty"`
	AmountText      string `json:"amount_text,omitempty"`
	AmountCurrency  string `json:"amount_currency,omitempty"`
	DateText        string `json:"date,omitempty"`
	Description     string `json:"description,omitempty"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	BankName        string `json:"bank_name,omitempty"`
}

// IsEmpty reports whether no usable field was extracted at all
func (rf *ReceiptFields) IsEmpty() bool {
	return rf.SenderName == "" && rf.SenderIBAN == "" &&
		rf.ReceiverName == "" && rf.ReceiverIBAN == "" &&
		rf.AmountText == "" && rf.DateText == "" && rf.Description == ""
}

// CriterionScores holds the five per-criterion scores of a candidate, each in [0,1]
type CriterionScores struct {
	IBAN    float64 `json:"iban_match_score"`
	Amount  float64 `json:"amount_match_score"`
	Name    float64 `json:"name_match_score"`
	Address float64 `json:"address_match_score"`
	Sender  float64 `json:"sender_match_score"`
}

// CandidateScore is the diagnostic per-candidate breakdown attached to a
// match result. It is not part of the stable output contract.
type CandidateScore struct {
	OwnerID    int64           `json:"owner_id"`
	PropertyID *int64          `json:"property_id,omitempty"`
	Reason     string          `json:"reason"`
	Scores     CriterionScores `json:"scores"`
	Confidence float64         `json:"confidence"`
}

// MatchResult represents the outcome of matching one receipt against the
// reference dataset. Identifier fields are nil when no entity was resolved.
// Confidence is always derived from the per-criterion scores, never assigned
// directly; a nil OwnerID implies a status other than matched.
type MatchResult struct {
	OwnerID    *int64 `json:"owner_id"`
	PropertyID *int64 `json:"property_id"`
	CustomerID *int64 `json:"customer_id"`

	Status     MatchStatus `json:"match_status"`
	Confidence float64     `json:"confidence_score"`

	Scores   CriterionScores `json:"scores"`
	Messages []string        `json:"messages"`

	// Candidates is the open-ended diagnostics bag: the score breakdown of
	// every candidate that was considered, in generation order.
	Candidates []CandidateScore `json:"candidates,omitempty"`
}

// NewMatchResult creates a MatchResult in its initial pending state
func NewMatchResult() *MatchResult {
	return &MatchResult{Status: MatchStatusPending}
}

// AddMessage appends a human-readable diagnostic message
func (mr *MatchResult) AddMessage(format string, args ...interface{}) {
	mr.Messages = append(mr.Messages, fmt.Sprintf(format, args...))
}

// IsMatched reports whether the engine settled on a candidate with sufficient confidence
func (mr *MatchResult) IsMatched() bool {
	return mr.Status == MatchStatusMatched
}

// String returns a compact string representation of the MatchResult
func (mr *MatchResult) String() string {
	ownerID := int64(0)
	if mr.OwnerID != nil {
		ownerID = *mr.OwnerID
	}
	return fmt.Sprintf("MatchResult{Status: %s, Confidence: %.1f, OwnerID: %d}",
		mr.Status, mr.Confidence, ownerID)
}

// ReferenceData bundles the read-only reference collections a match call
// operates against. Callers must not mutate the collections while a match is
// in flight; the engine itself performs no writes.
type ReferenceData struct {
	Owners     []*Owner          `json:"owners"`
	Customers  []*Customer       `json:"customers"`
	Properties []*Property       `json:"properties"`
	Contracts  []*RentalContract `json:"rental_contracts,omitempty"`
}

// Validate checks every record in the reference collections
func (rd *ReferenceData) Validate() error {
	for _, owner := range rd.Owners {
		if err := owner.Validate(); err != nil {
			return fmt.Errorf("invalid owner: %w", err)
		}
	}

	for _, customer := range rd.Customers {
		if err := customer.Validate(); err != nil {
			return fmt.Errorf("invalid customer: %w", err)
		}
	}

	ownerIDs := make(map[int64]bool, len(rd.Owners))
	for _, owner := range rd.Owners {
		ownerIDs[owner.ID] = true
	}

	for _, property := range rd.Properties {
		if err := property.Validate(); err != nil {
			return fmt.Errorf("invalid property: %w", err)
		}
		if !ownerIDs[property.OwnerID] {
			return fmt.Errorf("property %d references unknown owner %d", property.ID, property.OwnerID)
		}
	}

	return nil
}

// PropertiesOf returns the properties owned by the given owner, in input order
func (rd *ReferenceData) PropertiesOf(ownerID int64) []*Property {
	var owned []*Property
	for _, property := range rd.Properties {
		if property.OwnerID == ownerID {
			owned = append(owned, property)
		}
	}
	return owned
}
