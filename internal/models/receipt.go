package models

// DefaultStoreName is the placeholder used when the parser cannot identify
// the store from the receipt text.
const DefaultStoreName = "Costco"

// Receipt represents a parsed retail receipt with its line items and totals.
type Receipt struct {
	// ID is the unique identifier for the receipt (UUID format).
	ID string `json:"id"`

	// StoreName is the canonical store name, or DefaultStoreName when the
	// parser could not identify the store.
	StoreName string `json:"store_name"`

	// Date is the transaction date in YYYY-MM-DD form. Defaults to the
	// processing date when no date line was detected.
	Date string `json:"date"`

	// Items are the line items in their original receipt order.
	Items []Item `json:"items"`

	// Subtotal is the pre-tax amount. Derived from the item prices when no
	// subtotal line was found in the text.
	Subtotal float64 `json:"subtotal"`

	// Tax is the total sales tax. Derived from per-item estimates when no
	// tax line was found in the text.
	Tax float64 `json:"tax"`

	// Total is the final amount. Derived as Subtotal + Tax when no total
	// line was found in the text.
	Total float64 `json:"total"`

	// CreatedAt is the Unix timestamp when the receipt was stored.
	CreatedAt int64 `json:"created_at"`
}

// Item represents a single line item on a receipt.
// Items can be shared among multiple people.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Description is the item text as read off the receipt, trimmed and
	// bounded in length by the parser.
	Description string `json:"description"`

	// Price is the item's unit price. Never negative.
	Price float64 `json:"price"`

	// Tax is the estimated sales tax for this item; zero for non-taxable
	// items.
	Tax float64 `json:"tax"`

	// AssignedTo is the set of person IDs sharing this item. Unordered,
	// no duplicates. An item assigned to several people is split equally
	// among them.
	AssignedTo []string `json:"assigned_to"`
}

// IsAssignedTo reports whether the given person is in the item's
// assignment set.
func (i *Item) IsAssignedTo(personID string) bool {
	for _, id := range i.AssignedTo {
		if id == personID {
			return true
		}
	}
	return false
}

// ReceiptSummary is the listing view of a receipt, without items.
type ReceiptSummary struct {
	ID        string  `json:"id"`
	StoreName string  `json:"store_name"`
	Date      string  `json:"date"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"item_count"`
	CreatedAt int64   `json:"created_at"`
}
