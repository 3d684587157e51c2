// Package calculator computes per-person splits of a parsed receipt.
package calculator

import (
	"github.com/snapbill/snapbill/internal/money"
)

// Item represents a single receipt item for allocation purposes.
// The calculator is deliberately decoupled from the models package; the
// service layer converts.
type Item struct {
	Description string
	Price       float64
	Tax         float64
	AssignedTo  []string
}

// Options configures the allocation.
type Options struct {
	// IncludeTax divides price+tax per item instead of price alone.
	// The default (false) divides the bare price; the receipt-level tax
	// then surfaces through the unassigned amount. This is a single
	// consistent choice applied to every item.
	IncludeTax bool
}

// Allocation is the result of splitting a receipt across a roster.
type Allocation struct {
	// Shares maps person ID to the rounded amount they owe. Every roster
	// person appears, zero when nothing was assigned to them.
	Shares map[string]float64

	// Unassigned is the receipt total minus the sum of all per-person
	// shares: the portion no one has claimed yet. Items with empty
	// assignment sets end up here rather than being dropped.
	Unassigned float64
}

// Allocate computes how much each roster person owes for the given items.
//
// Each item with a non-empty assignment set is divided equally among its
// assignees. Per-person running totals accumulate unrounded; rounding to
// cents (half away from zero) happens exactly once per person, after all
// items. An empty roster is a valid degenerate case and yields an empty
// mapping with the full total unassigned.
func Allocate(items []Item, total float64, rosterIDs []string, opts Options) Allocation {
	shares := make(map[string]float64, len(rosterIDs))
	if len(rosterIDs) == 0 {
		return Allocation{Shares: shares, Unassigned: money.Round(total)}
	}

	running := make(map[string]float64, len(rosterIDs))
	for _, id := range rosterIDs {
		running[id] = 0
	}

	for _, item := range items {
		k := len(item.AssignedTo)
		if k == 0 {
			continue
		}
		amount := item.Price
		if opts.IncludeTax {
			amount += item.Tax
		}
		perPerson := amount / float64(k)
		for _, personID := range item.AssignedTo {
			if _, ok := running[personID]; ok {
				running[personID] += perPerson
			}
		}
	}

	var assigned float64
	for id, sum := range running {
		shares[id] = money.Round(sum)
		assigned += shares[id]
	}

	return Allocation{
		Shares:     shares,
		Unassigned: money.Round(total - assigned),
	}
}
