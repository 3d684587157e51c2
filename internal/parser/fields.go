package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// anchors holds the field values extracted from anchor lines, plus flags
// recording which were actually found in the text. Unfound monetary anchors
// are later derived from the item list by reconcile.
type anchors struct {
	store string
	date  string

	subtotal float64
	tax      float64
	total    float64

	subtotalFound bool
	taxFound      bool
	totalFound    bool
}

func (a *anchors) resolved() bool {
	return a.store != "" && a.date != "" && a.subtotalFound && a.taxFound && a.totalFound
}

// extractFields scans the normalized lines once, resolving each field by
// its first matching line. Earlier lines take precedence; once a field is
// resolved it is never reconsidered.
func (p *Parser) extractFields(lines []string) anchors {
	var a anchors
	for _, line := range lines {
		low := strings.ToLower(line)

		if a.store == "" {
			for _, st := range p.tokens {
				if strings.Contains(low, st.token) {
					a.store = st.name
					break
				}
			}
		}

		if a.date == "" {
			if d, ok := p.matchDate(line); ok {
				a.date = d
			}
		}

		// "subtotal" contains "total" as a substring, so the subtotal check
		// must run first and a subtotal line must never be considered a
		// total line.
		switch {
		case strings.Contains(low, "subtotal"):
			if !a.subtotalFound {
				if v, ok := p.firstAmount(line); ok {
					a.subtotal = v
					a.subtotalFound = true
				}
			}
		case strings.Contains(low, "total"):
			if !a.totalFound {
				if v, ok := p.firstAmount(line); ok {
					a.total = v
					a.totalFound = true
				}
			}
		}
		if !a.taxFound && strings.Contains(low, "tax") {
			if v, ok := p.firstAmount(line); ok {
				a.tax = v
				a.taxFound = true
			}
		}

		if a.resolved() {
			break
		}
	}
	return a
}

// matchDate matches the first M/D/Y token on the line and normalizes it to
// YYYY-MM-DD. Two-digit years get the current century prefix. The calendar
// itself is not validated: month 13 passes through unchanged. That is a
// known, accepted weakness of the heuristic, not something to correct here.
func (p *Parser) matchDate(line string) (string, bool) {
	m := p.datePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	return fmt.Sprintf("%s-%02d-%02d", year, month, day), true
}

// firstAmount returns the first two-decimal numeric token on the line.
func (p *Parser) firstAmount(line string) (float64, bool) {
	tok := p.amountPattern.FindString(line)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
