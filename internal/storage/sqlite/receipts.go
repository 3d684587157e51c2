package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/storage"
)

// CreateReceipt persists a new receipt with its items.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if receipt.CreatedAt == 0 {
		receipt.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO receipts (id, store_name, purchase_date, subtotal, tax, total, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		receipt.ID, receipt.StoreName, receipt.Date, receipt.Subtotal, receipt.Tax, receipt.Total, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if err := insertItems(ctx, tx, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// insertItems writes the receipt's items and their assignment sets inside
// the given transaction. Item positions record the original receipt order.
func insertItems(ctx context.Context, tx *sql.Tx, receipt *models.Receipt) error {
	for i := range receipt.Items {
		item := &receipt.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err := tx.ExecContext(ctx,
			"INSERT INTO items (id, receipt_id, position, description, price, tax) VALUES (?, ?, ?, ?, ?, ?)",
			item.ID, receipt.ID, i, item.Description, item.Price, item.Tax,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for _, personID := range item.AssignedTo {
			_, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO item_assignments (item_id, person_id) VALUES (?, ?)",
				item.ID, personID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}
	return nil
}

// GetReceipt retrieves a receipt with its items in original order and each
// item's assignment set.
func (s *SQLiteStore) GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	receipt := &models.Receipt{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, store_name, purchase_date, subtotal, tax, total, created_at FROM receipts WHERE id = ?",
		receiptID,
	).Scan(&receipt.ID, &receipt.StoreName, &receipt.Date, &receipt.Subtotal, &receipt.Tax, &receipt.Total, &receipt.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	itemRows, err := s.db.QueryContext(ctx,
		"SELECT id, description, price, tax FROM items WHERE receipt_id = ? ORDER BY position",
		receiptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		item := models.Item{AssignedTo: []string{}}
		if err := itemRows.Scan(&item.ID, &item.Description, &item.Price, &item.Tax); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		receipt.Items = append(receipt.Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range receipt.Items {
		item := &receipt.Items[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT person_id FROM item_assignments WHERE item_id = ? ORDER BY person_id",
			item.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var personID string
			if err := assignRows.Scan(&personID); err != nil {
				assignRows.Close()
				return nil, fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.AssignedTo = append(item.AssignedTo, personID)
		}
		assignRows.Close()
		if err := assignRows.Err(); err != nil {
			return nil, fmt.Errorf("failed to iterate assignments: %w", err)
		}
	}

	return receipt, nil
}

// UpdateReceipt replaces the stored receipt wholesale: the header row is
// updated and the item list (with assignments) is rewritten to match the
// passed record.
func (s *SQLiteStore) UpdateReceipt(ctx context.Context, receipt *models.Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE receipts SET store_name = ?, purchase_date = ?, subtotal = ?, tax = ?, total = ? WHERE id = ?",
		receipt.StoreName, receipt.Date, receipt.Subtotal, receipt.Tax, receipt.Total, receipt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt %s: %w", receipt.ID, storage.ErrNotFound)
	}

	// Whole-record replacement: drop and rewrite items. Assignments go
	// with them via the cascade and are re-inserted from the record.
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE receipt_id = ?", receipt.ID); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	if err := insertItems(ctx, tx, receipt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteReceipt removes a receipt; items and assignments cascade.
func (s *SQLiteStore) DeleteReceipt(ctx context.Context, receiptID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM receipts WHERE id = ?", receiptID)
	if err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("receipt %s: %w", receiptID, storage.ErrNotFound)
	}
	return nil
}

// ListReceipts returns receipt summaries, newest first.
func (s *SQLiteStore) ListReceipts(ctx context.Context) ([]models.ReceiptSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.store_name, r.purchase_date, r.total, r.created_at,
		       (SELECT COUNT(*) FROM items i WHERE i.receipt_id = r.id)
		FROM receipts r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var summaries []models.ReceiptSummary
	for rows.Next() {
		var sum models.ReceiptSummary
		if err := rows.Scan(&sum.ID, &sum.StoreName, &sum.Date, &sum.Total, &sum.CreatedAt, &sum.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan receipt summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return summaries, nil
}

// AssignItem adds a person to an item's assignment set. INSERT OR IGNORE
// makes repeated assignment a no-op.
func (s *SQLiteStore) AssignItem(ctx context.Context, itemID, personID string) error {
	if err := s.checkItemAndPerson(ctx, itemID, personID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO item_assignments (item_id, person_id) VALUES (?, ?)",
		itemID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to assign item: %w", err)
	}
	return nil
}

// UnassignItem removes a person from an item's assignment set. Removing an
// absent assignment is a no-op.
func (s *SQLiteStore) UnassignItem(ctx context.Context, itemID, personID string) error {
	if err := s.checkItemAndPerson(ctx, itemID, personID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM item_assignments WHERE item_id = ? AND person_id = ?",
		itemID, personID,
	)
	if err != nil {
		return fmt.Errorf("failed to unassign item: %w", err)
	}
	return nil
}

// checkItemAndPerson verifies both sides of an assignment exist so the
// caller gets ErrNotFound instead of a silent no-op or an FK error.
func (s *SQLiteStore) checkItemAndPerson(ctx context.Context, itemID, personID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM items WHERE id = ?", itemID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check item: %w", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT 1 FROM people WHERE id = ?", personID).Scan(&one)
	if err == sql.ErrNoRows {
		return fmt.Errorf("person %s: %w", personID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check person: %w", err)
	}
	return nil
}
