// Package extract converts raw OCR payloads into the canonical receipt field
// set used by the matching engine.
//
// OCR pipelines emit loosely keyed JSON objects whose key names vary by bank
// template ("sender" versus "sender_name", "amount" versus "amount_text").
// Alias resolution happens here, once, at the system boundary; everything
// downstream works with models.ReceiptFields and never sees the raw keys.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// fieldAliases maps each canonical field to its accepted raw keys in
// preference order. The canonical key always wins over its aliases.
var fieldAliases = []struct {
	assign func(*models.ReceiptFields, string)
	keys   []string
}{
	{func(f *models.ReceiptFields, v string) { f.SenderName = v }, []string{"sender_name", "sender"}},
	{func(f *models.ReceiptFields, v string) { f.SenderIBAN = v }, []string{"sender_iban", "sender_account"}},
	{func(f *models.ReceiptFields, v string) { f.ReceiverName = v }, []string{"receiver_name", "recipient"}},
	{func(f *models.ReceiptFields, v string) { f.ReceiverIBAN = v }, []string{"receiver_iban", "receiver_account"}},
	{func(f *models.ReceiptFields, v string) { f.AmountText = v }, []string{"amount_text", "amount"}},
	{func(f *models.ReceiptFields, v string) { f.AmountCurrency = v }, []string{"amount_currency", "currency"}},
	{func(f *models.ReceiptFields, v string) { f.DateText = v }, []string{"date", "transaction_date"}},
	{func(f *models.ReceiptFields, v string) { f.Description = v }, []string{"description"}},
	{func(f *models.ReceiptFields, v string) { f.ReferenceNumber = v }, []string{"reference_number", "reference"}},
	{func(f *models.ReceiptFields, v string) { f.BankName = v }, []string{"bank_name", "bank"}},
}

// Resolve maps a raw OCR payload onto the canonical receipt fields. For each
// field the first present, non-empty key in alias preference order is taken.
// Unknown keys are ignored; values are whitespace-trimmed. Resolve never
// fails, a payload with no recognizable keys simply yields empty fields.
func Resolve(raw map[string]any) models.ReceiptFields {
	var fields models.ReceiptFields

	for _, alias := range fieldAliases {
		for _, key := range alias.keys {
			value, ok := raw[key]
			if !ok {
				continue
			}
			s := strings.TrimSpace(stringify(value))
			if s == "" {
				continue
			}
			alias.assign(&fields, s)
			break
		}
	}

	return fields
}

// stringify renders a raw payload value as text. Amounts sometimes arrive as
// JSON numbers rather than strings; json.Number preserves their exact source
// form, which matters because the normalizer interprets separators.
func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	case int:
		return fmt.Sprintf("%d", v)
	case int64:
		return fmt.Sprintf("%d", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
