package parser

import (
	"strconv"
	"strings"

	"github.com/snapbill/snapbill/internal/money"
)

const (
	// minItemLineLen filters out stray OCR fragments before pattern matching.
	minItemLineLen = 5

	// maxDescriptionLen bounds item descriptions; longer text is truncated,
	// not rejected.
	maxDescriptionLen = 30

	// minDescriptionLen discards matches whose trimmed description is too
	// short to be a real item.
	minDescriptionLen = 2
)

// extractItems scans the normalized lines for item-like patterns. Anchor
// lines, starred lines and very short lines are skipped; everything else is
// tried against the item patterns in order, first match wins. Lines that
// match nothing are silently omitted; there is no partial-line recovery.
func (p *Parser) extractItems(lines []string, a anchors) []ExtractedItem {
	var items []ExtractedItem
	for _, line := range lines {
		if skipItemLine(line) {
			continue
		}
		item, ok := p.matchItem(line)
		if !ok {
			continue
		}
		if item.Taxable {
			item.Tax = p.estimateTax(item.Price, a)
		}
		items = append(items, item)
	}
	return items
}

// skipItemLine reports whether the line is a non-item line: an anchor line,
// a starred marker line, or too short to carry an item.
func skipItemLine(line string) bool {
	if len(line) < minItemLineLen {
		return true
	}
	if strings.Contains(line, "*") {
		return true
	}
	low := strings.ToLower(line)
	return strings.Contains(low, "subtotal") ||
		strings.Contains(low, "total") ||
		strings.Contains(low, "tax")
}

// matchItem tries the item patterns in order against the line.
func (p *Parser) matchItem(line string) (ExtractedItem, bool) {
	for _, pattern := range p.itemPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		desc := strings.TrimSpace(m[1])
		if r := []rune(desc); len(r) > maxDescriptionLen {
			desc = strings.TrimSpace(string(r[:maxDescriptionLen]))
		}
		if len([]rune(desc)) < minDescriptionLen {
			// Matched, but the description is noise; discard rather than
			// emit a junk item.
			return ExtractedItem{}, false
		}

		price, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return ExtractedItem{}, false
		}

		return ExtractedItem{
			Description: desc,
			Price:       price,
			Taxable:     m[3] == "Y",
		}, true
	}
	return ExtractedItem{}, false
}

// estimateTax computes the per-item tax estimate for a taxable item
// according to the configured policy. The proportional policy needs the
// textual tax and subtotal anchors; when either is missing it falls back
// per configuration.
func (p *Parser) estimateTax(price float64, a anchors) float64 {
	switch p.cfg.TaxPolicy {
	case TaxPolicyProportional:
		if a.taxFound && a.subtotalFound && a.subtotal > 0 {
			return money.Round(a.tax * price / a.subtotal)
		}
		if p.cfg.ProportionalFallback == FallbackFlatRate {
			return money.Round(price * p.cfg.FlatTaxRate)
		}
		return 0
	default:
		return money.Round(price * p.cfg.FlatTaxRate)
	}
}
