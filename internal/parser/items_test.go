package parser

import (
	"math"
	"strings"
	"testing"
)

func TestMatchItem(t *testing.T) {
	p := New(DefaultConfig())

	tests := []struct {
		name     string
		line     string
		wantOK   bool
		wantDesc string
		wantPrice float64
		wantTaxable bool
	}{
		{
			name:        "plain item code with N marker",
			line:        "123456 ORGANIC EGGS 5.49 N",
			wantOK:      true,
			wantDesc:    "ORGANIC EGGS",
			wantPrice:   5.49,
			wantTaxable: false,
		},
		{
			name:        "taxable item",
			line:        "789012 PAPER TOWELS 12PK 18.99 Y",
			wantOK:      true,
			wantDesc:    "PAPER TOWELS 12PK",
			wantPrice:   18.99,
			wantTaxable: true,
		},
		{
			name:      "no taxability marker",
			line:      "445566 ROTISSERIE CHICKEN 4.99",
			wantOK:    true,
			wantDesc:  "ROTISSERIE CHICKEN",
			wantPrice: 4.99,
		},
		{
			name:        "eligibility letter before item code",
			line:        "E 96716 ORG SPINACH 4.49 N",
			wantOK:      true,
			wantDesc:    "ORG SPINACH",
			wantPrice:   4.49,
			wantTaxable: false,
		},
		{
			name:        "eligibility letter glued to item code",
			line:        "A12345 TRAIL MIX 10.99 Y",
			wantOK:      true,
			wantDesc:    "TRAIL MIX",
			wantPrice:   10.99,
			wantTaxable: true,
		},
		{
			name:   "single character description is noise",
			line:   "123456 X 5.49",
			wantOK: false,
		},
		{
			name:   "no price token",
			line:   "123456 ORGANIC EGGS",
			wantOK: false,
		},
		{
			name:   "price without two decimals",
			line:   "123456 ORGANIC EGGS 5.4",
			wantOK: false,
		},
		{
			name:   "no item code",
			line:   "ORGANIC EGGS 5.49",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := p.matchItem(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("matchItem(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if item.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", item.Description, tt.wantDesc)
			}
			if math.Abs(item.Price-tt.wantPrice) > 0.001 {
				t.Errorf("price = %v, want %v", item.Price, tt.wantPrice)
			}
			if item.Taxable != tt.wantTaxable {
				t.Errorf("taxable = %v, want %v", item.Taxable, tt.wantTaxable)
			}
		})
	}
}

func TestMatchItemTruncatesLongDescription(t *testing.T) {
	p := New(DefaultConfig())

	long := strings.Repeat("VERYLONGNAME ", 5) // 65 chars of description
	item, ok := p.matchItem("123456 " + long + "9.99")
	if !ok {
		t.Fatal("expected long-description line to match")
	}
	if got := len([]rune(item.Description)); got > maxDescriptionLen {
		t.Errorf("description length = %d, want <= %d", got, maxDescriptionLen)
	}
}

func TestSkipItemLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"SUBTOTAL 45.67", true},
		{"TOTAL 48.99", true},
		{"TAX 3.42", true},
		{"*** MEMBER ***", true},
		{"A 1", true}, // under the minimum length
		{"123456 ORGANIC EGGS 5.49 N", false},
	}
	for _, tt := range tests {
		if got := skipItemLine(tt.line); got != tt.want {
			t.Errorf("skipItemLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestEstimateTax(t *testing.T) {
	anchored := anchors{subtotal: 45.67, tax: 3.42, subtotalFound: true, taxFound: true}

	tests := []struct {
		name    string
		cfg     Config
		anchors anchors
		price   float64
		want    float64
	}{
		{
			name:  "flat rate",
			cfg:   Config{TaxPolicy: TaxPolicyFlatRate, FlatTaxRate: 0.075},
			price: 10.00,
			want:  0.75,
		},
		{
			name:    "proportional with anchors",
			cfg:     Config{TaxPolicy: TaxPolicyProportional, FlatTaxRate: 0.075},
			anchors: anchored,
			price:   5.49,
			want:    0.41, // 3.42 * 5.49/45.67 = 0.411..
		},
		{
			name:  "proportional missing anchors falls back to flat",
			cfg:   Config{TaxPolicy: TaxPolicyProportional, FlatTaxRate: 0.075, ProportionalFallback: FallbackFlatRate},
			price: 10.00,
			want:  0.75,
		},
		{
			name:  "proportional missing anchors falls back to zero",
			cfg:   Config{TaxPolicy: TaxPolicyProportional, FlatTaxRate: 0.075, ProportionalFallback: FallbackZero},
			price: 10.00,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if got := p.estimateTax(tt.price, tt.anchors); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("estimateTax(%v) = %v, want %v", tt.price, got, tt.want)
			}
		})
	}
}
