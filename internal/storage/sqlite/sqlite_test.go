package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReceiptLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewPerson("Alice")
	bob := models.NewPerson("Bob")
	for _, p := range []*models.Person{alice, bob} {
		if err := store.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson failed: %v", err)
		}
	}

	receipt := &models.Receipt{
		StoreName: "Costco",
		Date:      "2024-03-14",
		Subtotal:  29.47,
		Tax:       1.42,
		Total:     30.89,
		Items: []models.Item{
			{Description: "ORGANIC EGGS", Price: 5.49, AssignedTo: []string{}},
			{Description: "PAPER TOWELS 12PK", Price: 18.99, Tax: 1.42, AssignedTo: []string{alice.ID}},
			{Description: "ROTISSERIE CHICKEN", Price: 4.99, AssignedTo: []string{}},
		},
	}

	t.Run("CreateReceipt generates IDs", func(t *testing.T) {
		if err := store.CreateReceipt(ctx, receipt); err != nil {
			t.Fatalf("CreateReceipt failed: %v", err)
		}
		if receipt.ID == "" || receipt.CreatedAt == 0 {
			t.Error("expected generated receipt ID and timestamp")
		}
		for _, item := range receipt.Items {
			if item.ID == "" {
				t.Error("expected generated item ID")
			}
		}
	})

	t.Run("GetReceipt preserves item order and assignments", func(t *testing.T) {
		got, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if len(got.Items) != 3 {
			t.Fatalf("items = %d, want 3", len(got.Items))
		}
		wantOrder := []string{"ORGANIC EGGS", "PAPER TOWELS 12PK", "ROTISSERIE CHICKEN"}
		for i, want := range wantOrder {
			if got.Items[i].Description != want {
				t.Errorf("item[%d] = %q, want %q", i, got.Items[i].Description, want)
			}
		}
		if !reflect.DeepEqual(got.Items[1].AssignedTo, []string{alice.ID}) {
			t.Errorf("assignments = %v, want [%s]", got.Items[1].AssignedTo, alice.ID)
		}
		if got.Items[0].AssignedTo == nil {
			t.Error("unassigned item should carry an empty, non-nil set")
		}
	})

	t.Run("AssignItem is idempotent", func(t *testing.T) {
		itemID := receipt.Items[0].ID
		for i := 0; i < 2; i++ {
			if err := store.AssignItem(ctx, itemID, bob.ID); err != nil {
				t.Fatalf("AssignItem failed: %v", err)
			}
		}
		got, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if !reflect.DeepEqual(got.Items[0].AssignedTo, []string{bob.ID}) {
			t.Errorf("assignments = %v, want just [%s]", got.Items[0].AssignedTo, bob.ID)
		}
	})

	t.Run("assign then unassign restores the prior set", func(t *testing.T) {
		itemID := receipt.Items[1].ID
		before, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}

		if err := store.AssignItem(ctx, itemID, bob.ID); err != nil {
			t.Fatalf("AssignItem failed: %v", err)
		}
		if err := store.UnassignItem(ctx, itemID, bob.ID); err != nil {
			t.Fatalf("UnassignItem failed: %v", err)
		}

		after, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if !reflect.DeepEqual(before.Items[1].AssignedTo, after.Items[1].AssignedTo) {
			t.Errorf("assignment set changed: %v -> %v", before.Items[1].AssignedTo, after.Items[1].AssignedTo)
		}

		// Unassigning again is a no-op, not an error.
		if err := store.UnassignItem(ctx, itemID, bob.ID); err != nil {
			t.Errorf("repeated UnassignItem failed: %v", err)
		}
	})

	t.Run("assigning unknown item or person reports not found", func(t *testing.T) {
		if err := store.AssignItem(ctx, "missing-item", alice.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		if err := store.AssignItem(ctx, receipt.Items[0].ID, "missing-person"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("UpdateReceipt replaces the record wholesale", func(t *testing.T) {
		updated := &models.Receipt{
			ID:        receipt.ID,
			StoreName: "Costco",
			Date:      "2024-03-14",
			Subtotal:  5.49,
			Tax:       0,
			Total:     5.49,
			Items: []models.Item{
				{Description: "ORGANIC EGGS", Price: 5.49, AssignedTo: []string{alice.ID, bob.ID}},
			},
		}
		if err := store.UpdateReceipt(ctx, updated); err != nil {
			t.Fatalf("UpdateReceipt failed: %v", err)
		}

		got, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if len(got.Items) != 1 {
			t.Fatalf("items = %d, want 1 after replacement", len(got.Items))
		}
		if len(got.Items[0].AssignedTo) != 2 {
			t.Errorf("assignments = %v, want both people", got.Items[0].AssignedTo)
		}
	})

	t.Run("DeletePerson unassigns them everywhere", func(t *testing.T) {
		if err := store.DeletePerson(ctx, bob.ID); err != nil {
			t.Fatalf("DeletePerson failed: %v", err)
		}
		got, err := store.GetReceipt(ctx, receipt.ID)
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		for _, item := range got.Items {
			for _, id := range item.AssignedTo {
				if id == bob.ID {
					t.Errorf("deleted person still assigned to item %q", item.Description)
				}
			}
		}
	})

	t.Run("ListReceipts and DeleteReceipt", func(t *testing.T) {
		summaries, err := store.ListReceipts(ctx)
		if err != nil {
			t.Fatalf("ListReceipts failed: %v", err)
		}
		if len(summaries) != 1 || summaries[0].ItemCount != 1 {
			t.Errorf("summaries = %+v, want one receipt with one item", summaries)
		}

		if err := store.DeleteReceipt(ctx, receipt.ID); err != nil {
			t.Fatalf("DeleteReceipt failed: %v", err)
		}
		if _, err := store.GetReceipt(ctx, receipt.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound after delete", err)
		}
	})
}

func TestPeople(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	p := models.NewPerson("Charlie")
	if err := store.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson failed: %v", err)
	}

	got, err := store.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPerson failed: %v", err)
	}
	if got.Name != "Charlie" {
		t.Errorf("name = %q, want Charlie", got.Name)
	}

	people, err := store.ListPeople(ctx)
	if err != nil {
		t.Fatalf("ListPeople failed: %v", err)
	}
	if len(people) != 1 {
		t.Errorf("people = %d, want 1", len(people))
	}

	if err := store.DeletePerson(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("got = %+v, want user %s", got, user.ID)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if missing != nil {
		t.Errorf("got = %+v, want nil for unknown email", missing)
	}
}
