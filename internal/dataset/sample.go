package dataset

import (
	"github.com/shopspring/decimal"

	"github.com/Furkanturan8/rent-receipt-matcher/internal/models"
)

// SampleReferenceData returns a small built-in reference dataset of Turkish
// owners, customers, properties, and active contracts. Used by the demo CLI
// command and as a convenient fixture; production runs load real data files.
func SampleReferenceData() *models.ReferenceData {
	return &models.ReferenceData{
		Owners: []*models.Owner{
			{ID: 1, FullName: "Ahmet Yılmaz", IBAN: "TR330006100519786457841326", City: "İstanbul", District: "Kadıköy", Active: true},
			{ID: 2, FullName: "Mehmet Kaya", IBAN: "TR640001000268320315270001", City: "Ankara", District: "Çankaya", Active: true},
			{ID: 3, FullName: "Ayşe Demir", IBAN: "TR210006200012300006298634", City: "İzmir", District: "Konak", Active: true},
		},
		Customers: []*models.Customer{
			{ID: 1, FullName: "Ali Veli", City: "İstanbul", Active: true},
			{ID: 2, FullName: "Fatma Yılmaz", City: "Ankara", Active: true},
			{ID: 3, FullName: "ABC Teknoloji A.Ş.", City: "İstanbul", Active: true},
		},
		Properties: []*models.Property{
			{ID: 1, OwnerID: 1, Price: decimal.NewFromInt(15000), Address: "Caferağa Mahallesi, Moda Caddesi No: 45", City: "İstanbul", District: "Kadıköy", Status: "rented"},
			{ID: 2, OwnerID: 2, Price: decimal.NewFromInt(12000), Address: "Kızılay Mahallesi, Atatürk Bulvarı No: 123", City: "Ankara", District: "Çankaya", Status: "rented"},
			{ID: 3, OwnerID: 3, Price: decimal.NewFromInt(8000), Address: "Alsancak Mahallesi, Kordon Boyu No: 78", City: "İzmir", District: "Konak", Status: "rented"},
		},
		Contracts: []*models.RentalContract{
			{ID: 1, ContractNumber: "KS20251100001", TenantID: 1, PropertyID: 1, OwnerID: 1, MonthlyRent: decimal.NewFromInt(15000), Status: "active"},
			{ID: 2, ContractNumber: "KS20251100002", TenantID: 2, PropertyID: 2, OwnerID: 2, MonthlyRent: decimal.NewFromInt(12000), Status: "active"},
			{ID: 3, ContractNumber: "KS20251100003", TenantID: 3, PropertyID: 3, OwnerID: 3, MonthlyRent: decimal.NewFromInt(8000), Status: "active"},
		},
	}
}
