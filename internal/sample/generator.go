// Package sample generates plausible synthetic receipts.
//
// When the parser extracts zero items from OCR text, the service
// substitutes a generated receipt so the user always has something
// editable on screen. Generated receipts are structurally
// valid: totals are consistent with the item list and every item carries a
// fresh ID and an empty assignment set.
package sample

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/money"
)

// catalogEntry is a base item the generator draws from.
type catalogEntry struct {
	name  string
	price float64
	tax   float64
}

var catalog = []catalogEntry{
	{"Kirkland Water 40pk", 3.99, 0.29},
	{"Organic Eggs", 5.49, 0},
	{"Rotisserie Chicken", 4.99, 0.37},
	{"Paper Towels 12pk", 18.99, 1.42},
	{"Fresh Strawberries", 3.99, 0},
	{"Frozen Pizza 4pk", 12.99, 0.97},
	{"Organic Milk 2pk", 6.49, 0},
	{"Ground Coffee", 14.99, 1.12},
	{"Trail Mix", 10.99, 0.82},
	{"Salmon Fillet", 20.99, 0},
	{"Avocados 6pk", 6.99, 0},
	{"Toilet Paper 30pk", 21.99, 1.65},
	{"Sparkling Water 24pk", 7.99, 0.60},
	{"Peanut Butter", 8.49, 0.63},
	{"Maple Syrup", 12.99, 0.97},
	{"Organic Spinach", 4.49, 0},
	{"Chicken Breast 6pk", 17.99, 0},
	{"Olive Oil", 15.99, 1.20},
}

// Generator produces synthetic receipts.
type Generator struct {
	rand *rand.Rand
	now  func() time.Time
}

// New creates a Generator with its own PRNG.
func New() *Generator {
	return &Generator{
		rand: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:  time.Now,
	}
}

// NewSeeded creates a deterministic Generator for tests.
func NewSeeded(seed uint64) *Generator {
	return &Generator{
		rand: rand.New(rand.NewPCG(seed, seed)),
		now:  time.Now,
	}
}

// Generate returns a synthetic receipt with 5-10 catalog items, each with a
// small random price variation, dated today.
func (g *Generator) Generate() *models.Receipt {
	count := 5 + g.rand.IntN(6)

	picks := g.rand.Perm(len(catalog))[:count]
	items := make([]models.Item, 0, count)

	var subtotal, tax float64
	for _, idx := range picks {
		entry := catalog[idx]

		// Small variation so repeated fallbacks don't look identical.
		variation := g.rand.Float64()*0.4 - 0.2
		price := money.Round(entry.price + variation)
		itemTax := money.Round(entry.tax * (1 + variation/2))

		items = append(items, models.Item{
			ID:          uuid.New().String(),
			Description: entry.name,
			Price:       price,
			Tax:         itemTax,
			AssignedTo:  []string{},
		})
		subtotal += price
		tax += itemTax
	}

	subtotal = money.Round(subtotal)
	tax = money.Round(tax)

	return &models.Receipt{
		StoreName: models.DefaultStoreName,
		Date:      g.now().Format("2006-01-02"),
		Items:     items,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     money.Round(subtotal + tax),
	}
}
