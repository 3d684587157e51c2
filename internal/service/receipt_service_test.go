package service

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/snapbill/snapbill/internal/calculator"
	"github.com/snapbill/snapbill/internal/parser"
	"github.com/snapbill/snapbill/internal/storage/sqlite"
)

const sampleReceiptText = `COSTCO WHOLESALE
MEMBER 111222333
03/14/24 17:02
123456 ORGANIC EGGS 5.49 N
789012 PAPER TOWELS 12PK 18.99 Y
E 445566 ROTISSERIE CHICKEN 4.99 N
SUBTOTAL 29.47
TAX 1.42
TOTAL 30.89
**** THANK YOU ****`

func setupReceiptService(t *testing.T) (*ReceiptService, *PeopleService) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	p := parser.New(parser.DefaultConfig())
	return NewReceiptService(store, p, nil, calculator.Options{}), NewPeopleService(store)
}

func TestParseTextStoresReceipt(t *testing.T) {
	svc, _ := setupReceiptService(t)
	ctx := context.Background()

	result, err := svc.ParseText(ctx, sampleReceiptText)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if result.Fallback {
		t.Error("expected real parse, got fallback")
	}
	if result.Receipt.ID == "" {
		t.Fatal("expected stored receipt to have an ID")
	}

	got, err := svc.GetReceipt(ctx, result.Receipt.ID)
	if err != nil {
		t.Fatalf("GetReceipt failed: %v", err)
	}
	if len(got.Items) != 3 {
		t.Errorf("items = %d, want 3", len(got.Items))
	}
	if got.Total != 30.89 {
		t.Errorf("total = %v, want 30.89", got.Total)
	}
}

func TestParseTextFallsBackToSample(t *testing.T) {
	svc, _ := setupReceiptService(t)
	ctx := context.Background()

	result, err := svc.ParseText(ctx, "nothing here resembles a receipt")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !result.Fallback {
		t.Error("expected fallback flag")
	}
	if len(result.Receipt.Items) == 0 {
		t.Error("fallback receipt should have items")
	}

	// The fallback receipt is persisted like any other.
	if _, err := svc.GetReceipt(ctx, result.Receipt.ID); err != nil {
		t.Errorf("fallback receipt not stored: %v", err)
	}
}

func TestComputeSplit(t *testing.T) {
	svc, people := setupReceiptService(t)
	ctx := context.Background()

	alice, err := people.AddPerson(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}
	bob, err := people.AddPerson(ctx, "Bob")
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}

	result, err := svc.ParseText(ctx, sampleReceiptText)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	receipt := result.Receipt

	// Alice takes the eggs, both share the chicken; towels stay unassigned.
	if err := svc.AssignItem(ctx, receipt.Items[0].ID, alice.ID); err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}
	for _, id := range []string{alice.ID, bob.ID} {
		if err := svc.AssignItem(ctx, receipt.Items[2].ID, id); err != nil {
			t.Fatalf("AssignItem failed: %v", err)
		}
	}

	split, err := svc.ComputeSplit(ctx, receipt.ID)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}

	wantAlice := 5.49 + 4.99/2 // 7.99 after rounding (4.99/2 = 2.495 rounds up)
	if math.Abs(split.Shares[alice.ID]-7.99) > 0.001 {
		t.Errorf("alice share = %v, want 7.99 (from %v)", split.Shares[alice.ID], wantAlice)
	}
	if math.Abs(split.Shares[bob.ID]-2.50) > 0.001 {
		t.Errorf("bob share = %v, want 2.50", split.Shares[bob.ID])
	}

	sum := split.Shares[alice.ID] + split.Shares[bob.ID] + split.Unassigned
	if math.Abs(sum-receipt.Total) > 0.001 {
		t.Errorf("shares + unassigned = %v, want total %v", sum, receipt.Total)
	}
}

func TestComputeSplitEmptyRoster(t *testing.T) {
	svc, _ := setupReceiptService(t)
	ctx := context.Background()

	result, err := svc.ParseText(ctx, sampleReceiptText)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	split, err := svc.ComputeSplit(ctx, result.Receipt.ID)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	if len(split.Shares) != 0 {
		t.Errorf("shares = %v, want empty map", split.Shares)
	}
	if math.Abs(split.Unassigned-30.89) > 0.001 {
		t.Errorf("unassigned = %v, want 30.89", split.Unassigned)
	}
}

func TestRemovePersonDropsTheirShare(t *testing.T) {
	svc, people := setupReceiptService(t)
	ctx := context.Background()

	alice, err := people.AddPerson(ctx, "Alice")
	if err != nil {
		t.Fatalf("AddPerson failed: %v", err)
	}

	result, err := svc.ParseText(ctx, sampleReceiptText)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if err := svc.AssignItem(ctx, result.Receipt.Items[0].ID, alice.ID); err != nil {
		t.Fatalf("AssignItem failed: %v", err)
	}

	if err := people.RemovePerson(ctx, alice.ID); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}

	split, err := svc.ComputeSplit(ctx, result.Receipt.ID)
	if err != nil {
		t.Fatalf("ComputeSplit failed: %v", err)
	}
	if _, ok := split.Shares[alice.ID]; ok {
		t.Error("removed person should not appear in split")
	}
	if math.Abs(split.Unassigned-30.89) > 0.001 {
		t.Errorf("unassigned = %v, want full total after removal", split.Unassigned)
	}
}

func TestAddPersonValidation(t *testing.T) {
	_, people := setupReceiptService(t)

	if _, err := people.AddPerson(context.Background(), "   "); err == nil {
		t.Error("expected error for blank name")
	}
}
