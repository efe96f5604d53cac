package model

import "time"

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func datePtr(t time.Time) *time.Time { return &t }

// SeedProducts returns the demo catalogue inserted when the products table is
// empty. Expiry dates are offsets from now so the demo always has items in
// every risk band.
func SeedProducts(now time.Time) []Product {
	day := func(offset int) *time.Time {
		return datePtr(now.AddDate(0, 0, offset))
	}

	return []Product{
		{Name: "Lait entier", CategoryID: intPtr(1), Stock: 20, UnitPrice: 1.2, Supplier: strPtr("Ferme Duval"), ExpiryDate: day(10)},
		{Name: "Pain complet", CategoryID: intPtr(2), Stock: 15, UnitPrice: 2.5, Supplier: strPtr("Boulangerie Martin"), ExpiryDate: day(3)},
		{Name: "Pommes Golden", CategoryID: intPtr(3), Stock: 50, UnitPrice: 0.8, Supplier: strPtr("Vergers Bio"), ExpiryDate: day(15)},
		{Name: "Carottes", CategoryID: intPtr(4), Stock: 30, UnitPrice: 1.0, Supplier: strPtr("Ferme Bio Locale"), ExpiryDate: day(20)},
		{Name: "Yaourt nature", CategoryID: intPtr(1), Stock: 8, UnitPrice: 0.9, Supplier: strPtr("Ferme Duval"), ExpiryDate: day(5)},
		{Name: "Baguette tradition", CategoryID: intPtr(2), Stock: 3, UnitPrice: 1.2, Supplier: strPtr("Boulangerie Martin"), ExpiryDate: day(1)},
		{Name: "Bananes", CategoryID: intPtr(3), Stock: 25, UnitPrice: 1.5, Supplier: strPtr("Importation Équitable"), ExpiryDate: day(7)},
		{Name: "Tomates", CategoryID: intPtr(4), Stock: 0, UnitPrice: 2.0, Supplier: strPtr("Ferme Bio Locale"), ExpiryDate: day(5)},
		{Name: "Courgettes", CategoryID: intPtr(4), Stock: 15, UnitPrice: 1.8, Supplier: strPtr("Ferme des Légumes"), ExpiryDate: day(7)},
		{Name: "Saumon frais", CategoryID: intPtr(6), Stock: 8, UnitPrice: 12.0, Supplier: strPtr("Pêcherie Maritime"), ExpiryDate: day(2)},
		{Name: "Pâtes complètes", CategoryID: intPtr(7), Stock: 40, UnitPrice: 1.5, Supplier: strPtr("Épicerie Italienne"), ExpiryDate: day(180)},
		{Name: "Jus d'orange", CategoryID: intPtr(8), Stock: 25, UnitPrice: 2.0, Supplier: strPtr("Fruits Pressés"), ExpiryDate: day(20)},
		{Name: "Pizza surgelée", CategoryID: intPtr(9), Stock: 15, UnitPrice: 3.5, Supplier: strPtr("Surgelés Express"), ExpiryDate: day(90)},
		{Name: "Savon bio", CategoryID: intPtr(10), Stock: 30, UnitPrice: 3.0, Supplier: strPtr("Cosmétiques Naturels"), ExpiryDate: day(365)},
	}
}
