package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Furkanturan8/rent-receipt-matcher/pkg/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

const validReferenceJSON = `{
	"owners": [
		{"id": 1, "full_name": "Ahmet Yılmaz", "iban": "TR330006100519786457841326", "is_active": true},
		{"id": 2, "full_name": "Ayşe Kaya", "iban": "TR640001000268320315270001", "is_active": true}
	],
	"customers": [
		{"id": 10, "full_name": "Mehmet Can Demir", "is_active": true}
	],
	"properties": [
		{"id": 100, "owner_id": 1, "price": "15000", "address": "Kadıköy Moda Caddesi No 45", "status": "rented"}
	],
	"contracts": [
		{"id": 1, "tenant_id": 10, "rental_property_id": 100, "owner_id": 1, "monthly_rent": "15000", "status": "active"}
	]
}`

func TestLoadReferenceData(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "reference.json", validReferenceJSON)
	data, err := loader.LoadReferenceData(path)
	if err != nil {
		t.Fatalf("LoadReferenceData failed: %v", err)
	}

	if len(data.Owners) != 2 {
		t.Errorf("expected 2 owners, got %d", len(data.Owners))
	}
	if len(data.Customers) != 1 {
		t.Errorf("expected 1 customer, got %d", len(data.Customers))
	}
	if len(data.Properties) != 1 {
		t.Errorf("expected 1 property, got %d", len(data.Properties))
	}
	if len(data.Contracts) != 1 {
		t.Errorf("expected 1 contract, got %d", len(data.Contracts))
	}

	if data.Owners[0].FullName != "Ahmet Yılmaz" {
		t.Errorf("unexpected owner name: %q", data.Owners[0].FullName)
	}
	if !data.Properties[0].Price.Equal(data.Contracts[0].MonthlyRent) {
		t.Errorf("price %s and rent %s should match in fixture",
			data.Properties[0].Price, data.Contracts[0].MonthlyRent)
	}
}

func TestLoadReferenceDataFileNotFound(t *testing.T) {
	loader := NewLoader(nil)

	_, err := loader.LoadReferenceData(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	me, ok := errors.AsMatcherError(err)
	if !ok {
		t.Fatalf("expected MatcherError, got %T", err)
	}
	if me.Code != errors.CodeFileNotFound {
		t.Errorf("expected code %s, got %s", errors.CodeFileNotFound, me.Code)
	}
}

func TestLoadReferenceDataInvalidJSON(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "broken.json", `{"owners": [`)
	_, err := loader.LoadReferenceData(path)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	me, ok := errors.AsMatcherError(err)
	if !ok {
		t.Fatalf("expected MatcherError, got %T", err)
	}
	if me.Code != errors.CodeInvalidFormat {
		t.Errorf("expected code %s, got %s", errors.CodeInvalidFormat, me.Code)
	}
}

func TestLoadReferenceDataNoOwners(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "empty.json", `{"owners": [], "customers": [], "properties": [], "contracts": []}`)
	_, err := loader.LoadReferenceData(path)
	if err == nil {
		t.Fatal("expected error for dataset without owners")
	}

	me, ok := errors.AsMatcherError(err)
	if !ok {
		t.Fatalf("expected MatcherError, got %T", err)
	}
	if me.Code != errors.CodeMissingKey {
		t.Errorf("expected code %s, got %s", errors.CodeMissingKey, me.Code)
	}
}

func TestLoadReferenceDataInvalidEntities(t *testing.T) {
	loader := NewLoader(nil)

	// Owner without name and IBAN fails dataset validation.
	path := writeTempFile(t, "bad.json", `{"owners": [{"id": 1, "is_active": true}]}`)
	_, err := loader.LoadReferenceData(path)
	if err == nil {
		t.Fatal("expected error for invalid owner")
	}

	me, ok := errors.AsMatcherError(err)
	if !ok {
		t.Fatalf("expected MatcherError, got %T", err)
	}
	if me.Code != errors.CodeInvalidData {
		t.Errorf("expected code %s, got %s", errors.CodeInvalidData, me.Code)
	}
}

func TestLoadReceiptsArray(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "receipts.json", `[
		{"sender_name": "Mehmet Can Demir", "receiver_iban": "TR33 0006 1005 1978 6457 8413 26", "amount_text": "15.000,00 TL", "date": "15.01.2024"},
		{"sender": "Elif Şahin", "amount": 12000.5, "recipient": "Ayşe Kaya"}
	]`)

	receipts, err := loader.LoadReceipts(path)
	if err != nil {
		t.Fatalf("LoadReceipts failed: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}

	if receipts[0].SenderName != "Mehmet Can Demir" {
		t.Errorf("unexpected sender name: %q", receipts[0].SenderName)
	}
	if receipts[0].AmountText != "15.000,00 TL" {
		t.Errorf("unexpected amount text: %q", receipts[0].AmountText)
	}

	// Alias keys and numeric values resolve through field extraction.
	if receipts[1].SenderName != "Elif Şahin" {
		t.Errorf("alias sender not resolved: %q", receipts[1].SenderName)
	}
	if receipts[1].AmountText != "12000.5" {
		t.Errorf("numeric amount not preserved: %q", receipts[1].AmountText)
	}
	if receipts[1].ReceiverName != "Ayşe Kaya" {
		t.Errorf("alias recipient not resolved: %q", receipts[1].ReceiverName)
	}
}

func TestLoadReceiptsWrapper(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "wrapped.json", `{"receipts": [
		{"sender_name": "Ali Veli", "amount_text": "8.000 TL"},
		{}
	]}`)

	receipts, err := loader.LoadReceipts(path)
	if err != nil {
		t.Fatalf("LoadReceipts failed: %v", err)
	}
	if len(receipts) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(receipts))
	}
	if receipts[0].SenderName != "Ali Veli" {
		t.Errorf("unexpected sender name: %q", receipts[0].SenderName)
	}
	if !receipts[1].IsEmpty() {
		t.Error("expected second receipt to be empty")
	}
}

func TestLoadReceiptsInvalidShape(t *testing.T) {
	loader := NewLoader(nil)

	path := writeTempFile(t, "shape.json", `{"transactions": "nope"}`)
	_, err := loader.LoadReceipts(path)
	if err == nil {
		t.Fatal("expected error for unrecognized payload shape")
	}
}

func TestSampleReferenceData(t *testing.T) {
	data := SampleReferenceData()
	if err := data.Validate(); err != nil {
		t.Fatalf("sample data should be valid: %v", err)
	}

	if len(data.Owners) != 3 || len(data.Properties) != 3 || len(data.Contracts) != 3 {
		t.Errorf("unexpected sample sizes: %d owners, %d properties, %d contracts",
			len(data.Owners), len(data.Properties), len(data.Contracts))
	}
	for _, contract := range data.Contracts {
		if !contract.IsActive() {
			t.Errorf("sample contract %s should be active", contract.ContractNumber)
		}
	}
}
