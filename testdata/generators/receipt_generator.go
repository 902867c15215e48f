// Command receipt_generator produces synthetic rent receipt JSON files for
// testing the matching pipeline. Receipts are derived from a reference
// dataset so a configurable share of them should match, and optional OCR
// noise injection mimics the character confusions seen in scanned receipts.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/dataset"
	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// ReceiptGenerator generates receipt payloads from reference data.
type ReceiptGenerator struct {
	data       *models.ReferenceData
	rng        *rand.Rand
	matchRatio float64
	noiseRatio float64
}

var strangerNames = []string{
	"Hasan Koç",
	"Selin Aydın",
	"Burak Öztürk",
	"Derya Polat",
	"Kemal Aksoy",
}

var bankNames = []string{
	"Ziraat Bankası",
	"İş Bankası",
	"Garanti BBVA",
	"Akbank",
	"Yapı Kredi",
}

func main() {
	var (
		output     = flag.String("output", "generated_receipts.json", "Output JSON file path")
		refFile    = flag.String("reference-file", "", "Reference dataset JSON file (default: built-in sample)")
		count      = flag.Int("count", 100, "Number of receipts to generate")
		matchRatio = flag.Float64("match-ratio", 0.8, "Share of receipts that should match an owner (0.0-1.0)")
		noiseRatio = flag.Float64("noise-ratio", 0.3, "Share of receipts with injected OCR noise (0.0-1.0)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for reproducible generation")
	)
	flag.Parse()

	if *matchRatio < 0 || *matchRatio > 1 {
		log.Fatalf("match-ratio must be between 0.0 and 1.0, got %f", *matchRatio)
	}
	if *noiseRatio < 0 || *noiseRatio > 1 {
		log.Fatalf("noise-ratio must be between 0.0 and 1.0, got %f", *noiseRatio)
	}

	data := dataset.SampleReferenceData()
	if *refFile != "" {
		loaded, err := dataset.NewLoader(nil).LoadReferenceData(*refFile)
		if err != nil {
			log.Fatalf("Failed to load reference data: %v", err)
		}
		data = loaded
	}

	generator := &ReceiptGenerator{
		data:       data,
		rng:        rand.New(rand.NewSource(*seed)),
		matchRatio: *matchRatio,
		noiseRatio: *noiseRatio,
	}

	receipts := generator.Generate(*count)

	if err := writeJSON(*output, receipts); err != nil {
		log.Fatalf("Failed to write JSON: %v", err)
	}

	fmt.Printf("Generated %d receipts in %s\n", len(receipts), *output)
	fmt.Printf("Match ratio: %.0f%%, noise ratio: %.0f%%\n", *matchRatio*100, *noiseRatio*100)
	fmt.Printf("Seed used: %d\n", *seed)
}

// Generate builds the requested number of receipt payloads.
func (rg *ReceiptGenerator) Generate(count int) []map[string]string {
	receipts := make([]map[string]string, count)
	for i := range receipts {
		if rg.rng.Float64() < rg.matchRatio {
			receipts[i] = rg.matchingReceipt()
		} else {
			receipts[i] = rg.strangerReceipt()
		}
		if rg.rng.Float64() < rg.noiseRatio {
			rg.injectNoise(receipts[i])
		}
	}
	return receipts
}

// matchingReceipt builds a receipt for a random contract in the dataset.
func (rg *ReceiptGenerator) matchingReceipt() map[string]string {
	contract := rg.data.Contracts[rg.rng.Intn(len(rg.data.Contracts))]

	var owner *models.Owner
	for _, o := range rg.data.Owners {
		if o.ID == contract.OwnerID {
			owner = o
			break
		}
	}

	var property *models.Property
	for _, p := range rg.data.Properties {
		if p.ID == contract.PropertyID {
			property = p
			break
		}
	}

	var tenant *models.Customer
	for _, c := range rg.data.Customers {
		if c.ID == contract.TenantID {
			tenant = c
			break
		}
	}

	receipt := map[string]string{
		"amount_text": rg.formatAmount(contract.MonthlyRent.InexactFloat64()),
		"date":        rg.recentDate(),
		"bank_name":   bankNames[rg.rng.Intn(len(bankNames))],
	}

	if owner != nil {
		receipt["receiver_name"] = owner.FullName
		receipt["receiver_iban"] = spacedIBAN(owner.IBAN)
	}
	if tenant != nil {
		receipt["sender_name"] = tenant.FullName
	}
	if property != nil {
		receipt["description"] = "Kira " + property.Address
	}

	return receipt
}

// strangerReceipt builds a receipt that should not match anyone.
func (rg *ReceiptGenerator) strangerReceipt() map[string]string {
	amount := 3000 + rg.rng.Float64()*30000
	return map[string]string{
		"sender_name":   strangerNames[rg.rng.Intn(len(strangerNames))],
		"receiver_name": strangerNames[rg.rng.Intn(len(strangerNames))],
		"amount_text":   rg.formatAmount(amount),
		"date":          rg.recentDate(),
		"description":   "Havale",
		"bank_name":     bankNames[rg.rng.Intn(len(bankNames))],
	}
}

// injectNoise applies OCR-style character confusions to a receipt.
func (rg *ReceiptGenerator) injectNoise(receipt map[string]string) {
	for _, key := range []string{"receiver_iban", "amount_text", "receiver_name", "date"} {
		value, ok := receipt[key]
		if !ok || rg.rng.Float64() < 0.5 {
			continue
		}
		receipt[key] = confuseCharacters(value, rg.rng)
	}
}

// confuseCharacters substitutes a few characters with common OCR confusions.
func confuseCharacters(s string, rng *rand.Rand) string {
	runes := []rune(s)
	swaps := 1 + rng.Intn(2)
	for i := 0; i < swaps; i++ {
		pos := rng.Intn(len(runes))
		switch runes[pos] {
		case '0':
			runes[pos] = 'O'
		case 'O':
			runes[pos] = '0'
		case '1':
			runes[pos] = 'I'
		case 'I':
			runes[pos] = '1'
		case 'l':
			runes[pos] = '1'
		case 'ı':
			runes[pos] = '1'
		}
	}
	return string(runes)
}

// formatAmount renders an amount with Turkish separators and a currency token.
func (rg *ReceiptGenerator) formatAmount(amount float64) string {
	whole := int(amount)
	cents := int((amount - float64(whole)) * 100)

	var parts []string
	for whole > 0 {
		if whole >= 1000 {
			parts = append([]string{fmt.Sprintf("%03d", whole%1000)}, parts...)
		} else {
			parts = append([]string{fmt.Sprintf("%d", whole%1000)}, parts...)
		}
		whole /= 1000
	}
	if len(parts) == 0 {
		parts = []string{"0"}
	}

	text := strings.Join(parts, ".")
	if cents > 0 || rg.rng.Float64() < 0.5 {
		text = fmt.Sprintf("%s,%02d", text, cents)
	}

	currencies := []string{"TL", "TRY", "₺"}
	return text + " " + currencies[rg.rng.Intn(len(currencies))]
}

// recentDate returns a random date within the last few months.
func (rg *ReceiptGenerator) recentDate() string {
	daysAgo := rg.rng.Intn(90)
	date := time.Now().AddDate(0, 0, -daysAgo)

	formats := []string{"02.01.2006", "02/01/2006", "2006-01-02"}
	return date.Format(formats[rg.rng.Intn(len(formats))])
}

// spacedIBAN renders an IBAN in the 4-character grouping banks print.
func spacedIBAN(iban string) string {
	compact := strings.ReplaceAll(iban, " ", "")
	var groups []string
	for len(compact) > 4 {
		groups = append(groups, compact[:4])
		compact = compact[4:]
	}
	groups = append(groups, compact)
	return strings.Join(groups, " ")
}

func writeJSON(path string, receipts []map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{"receipts": receipts})
}
