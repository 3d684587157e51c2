// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/snapbill/snapbill/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for receipt, roster and user storage.
// The abstraction allows swapping backends without changing the service
// layer.
type Store interface {
	// CreateReceipt persists a new receipt. Missing IDs and timestamps are
	// populated on the passed record.
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error

	// GetReceipt retrieves a receipt with its items and assignment sets.
	GetReceipt(ctx context.Context, receiptID string) (*models.Receipt, error)

	// UpdateReceipt replaces the stored receipt wholesale: header, items
	// and assignments all reflect the passed record afterwards.
	UpdateReceipt(ctx context.Context, receipt *models.Receipt) error

	// DeleteReceipt removes a receipt and everything hanging off it.
	DeleteReceipt(ctx context.Context, receiptID string) error

	// ListReceipts returns summaries of all receipts, newest first.
	ListReceipts(ctx context.Context) ([]models.ReceiptSummary, error)

	// AssignItem adds a person to an item's assignment set. Idempotent:
	// assigning an already-assigned person is a no-op.
	AssignItem(ctx context.Context, itemID, personID string) error

	// UnassignItem removes a person from an item's assignment set.
	// Idempotent: removing an absent person is a no-op.
	UnassignItem(ctx context.Context, itemID, personID string) error

	// CreatePerson adds a roster member.
	CreatePerson(ctx context.Context, person *models.Person) error

	// DeletePerson removes a roster member and unassigns them from every
	// item they were assigned to.
	DeletePerson(ctx context.Context, personID string) error

	// GetPerson retrieves a roster member by ID.
	GetPerson(ctx context.Context, personID string) (*models.Person, error)

	// ListPeople returns the full roster, oldest first.
	ListPeople(ctx context.Context) ([]models.Person, error)

	// CreateUser persists a registered account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves an account by email; nil when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves an account by ID; nil when absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
