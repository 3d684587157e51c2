// Package parser turns noisy OCR text from a retail receipt photo into a
// structured receipt record.
//
// Extraction is purely heuristic: fields are resolved by first-match-wins
// scans over the normalized line sequence, item lines are matched against a
// small set of patterns, and any anchor value (subtotal, tax, total) the
// text did not yield is derived from the extracted items. The parser never
// fails on malformed input; it returns ErrNoItems alongside a structurally
// valid record when nothing item-like was found, and the caller decides
// whether to substitute fallback data.
package parser

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/money"
)

// ErrNoItems is returned by Parse when no line items could be extracted.
// The returned receipt is still structurally valid (defaulted store, date
// and zeroed totals); callers typically substitute synthetic data.
var ErrNoItems = errors.New("no items extracted from receipt text")

// TaxPolicy selects how per-item tax is estimated for taxable items.
type TaxPolicy string

const (
	// TaxPolicyFlatRate estimates tax as a fixed rate times the item price.
	TaxPolicyFlatRate TaxPolicy = "flat"

	// TaxPolicyProportional allocates the receipt's textual tax anchor
	// across taxable items in proportion to price/subtotal. Requires both
	// anchors to have been found in the text; see ProportionalFallback.
	TaxPolicyProportional TaxPolicy = "proportional"
)

// ProportionalFallback selects the behavior of TaxPolicyProportional when
// the tax or subtotal anchor was not found in the text.
type ProportionalFallback string

const (
	// FallbackFlatRate falls back to the flat-rate estimate.
	FallbackFlatRate ProportionalFallback = "flat"

	// FallbackZero estimates zero tax when anchors are unresolved.
	FallbackZero ProportionalFallback = "zero"
)

// Config controls the parser's heuristics.
type Config struct {
	// TaxPolicy selects the per-item tax estimation policy.
	TaxPolicy TaxPolicy

	// FlatTaxRate is the rate used by TaxPolicyFlatRate (and by the
	// proportional policy's flat fallback). E.g. 0.075 for 7.5%.
	FlatTaxRate float64

	// ProportionalFallback applies when TaxPolicyProportional lacks anchors.
	ProportionalFallback ProportionalFallback

	// StoreTokens maps lowercase brand tokens to canonical store names.
	// The first line containing any token (case-insensitive) sets the store.
	StoreTokens map[string]string

	// DefaultStore is used when no store token matched.
	DefaultStore string
}

// DefaultConfig returns the parser configuration used when no config file
// overrides it.
func DefaultConfig() Config {
	return Config{
		TaxPolicy:            TaxPolicyFlatRate,
		FlatTaxRate:          0.075,
		ProportionalFallback: FallbackFlatRate,
		StoreTokens: map[string]string{
			"costco":     "Costco",
			"walmart":    "Walmart",
			"target":     "Target",
			"safeway":    "Safeway",
			"kroger":     "Kroger",
			"trader joe": "Trader Joe's",
		},
		DefaultStore: models.DefaultStoreName,
	}
}

// ExtractedItem is the parser-internal representation of a matched item
// line, before identifiers and assignment sets are attached.
type ExtractedItem struct {
	Description string
	Price       float64
	Taxable     bool
	Tax         float64
}

// storeToken is a precompiled store lookup entry.
type storeToken struct {
	token string
	name  string
}

// Parser extracts structured receipts from OCR text.
// A Parser is safe for concurrent use; it holds only compiled patterns and
// immutable configuration.
type Parser struct {
	cfg    Config
	tokens []storeToken

	datePattern   *regexp.Regexp
	amountPattern *regexp.Regexp
	itemPatterns  []*regexp.Regexp

	now func() time.Time
}

// New creates a Parser with the given configuration.
func New(cfg Config) *Parser {
	tokens := make([]storeToken, 0, len(cfg.StoreTokens))
	for tok, name := range cfg.StoreTokens {
		tokens = append(tokens, storeToken{token: strings.ToLower(tok), name: name})
	}
	// Sorted so that lines containing several tokens resolve the same way
	// on every run.
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].token < tokens[j].token })

	return &Parser{
		cfg:    cfg,
		tokens: tokens,
		// M/D/Y with 1-2 digit month and day, 2- or 4-digit year, / or -.
		datePattern:   regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})`),
		amountPattern: regexp.MustCompile(`\d+\.\d{2}`),
		itemPatterns: []*regexp.Regexp{
			// Eligibility letter, item code, description, price, optional Y/N.
			regexp.MustCompile(`^[A-Za-z]\s?\d+\s+(.+?)\s+(\d+\.\d{2})(?:\s+([YN]))?$`),
			// Same without the leading eligibility letter.
			regexp.MustCompile(`^\d+\s+(.+?)\s+(\d+\.\d{2})(?:\s+([YN]))?$`),
		},
		now: time.Now,
	}
}

// Parse extracts a receipt from raw OCR text. It always returns a
// structurally valid receipt; ErrNoItems signals that no item lines were
// matched and the record carries only defaults.
func (p *Parser) Parse(raw string) (*models.Receipt, error) {
	lines := NormalizeLines(raw)

	anchors := p.extractFields(lines)
	extracted := p.extractItems(lines, anchors)
	subtotal, tax, total := reconcile(anchors, extracted)

	receipt := &models.Receipt{
		StoreName: anchors.store,
		Date:      anchors.date,
		Items:     assemble(extracted),
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
	}
	if receipt.StoreName == "" {
		receipt.StoreName = p.cfg.DefaultStore
	}
	if receipt.Date == "" {
		receipt.Date = p.now().Format("2006-01-02")
	}

	if len(extracted) == 0 {
		return receipt, ErrNoItems
	}
	return receipt, nil
}

// assemble maps extracted items to receipt items with fresh identifiers and
// empty assignment sets.
func assemble(extracted []ExtractedItem) []models.Item {
	items := make([]models.Item, len(extracted))
	for i, e := range extracted {
		items[i] = models.Item{
			ID:          uuid.New().String(),
			Description: e.Description,
			Price:       e.Price,
			Tax:         e.Tax,
			AssignedTo:  []string{},
		}
	}
	return items
}

// reconcile derives any anchor value that was not found in the text from
// the extracted items. Derivation order matters: subtotal and tax first,
// then total from their (possibly derived) values. Running reconcile on a
// fully resolved anchor set is a no-op, so the step is an idempotent
// fixpoint.
func reconcile(a anchors, items []ExtractedItem) (subtotal, tax, total float64) {
	subtotal, tax, total = a.subtotal, a.tax, a.total
	if !a.subtotalFound {
		var sum float64
		for _, it := range items {
			sum += it.Price
		}
		subtotal = money.Round(sum)
	}
	if !a.taxFound {
		var sum float64
		for _, it := range items {
			sum += it.Tax
		}
		tax = money.Round(sum)
	}
	if !a.totalFound {
		total = money.Round(subtotal + tax)
	}
	return subtotal, tax, total
}
