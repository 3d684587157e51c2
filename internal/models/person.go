package models

import (
	"time"

	"github.com/google/uuid"
)

// Person represents a roster member splitting receipts.
// People are plain display names, not user accounts.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string `json:"id"`

	// Name is the display name. Non-empty after trimming; the service layer
	// rejects blank names.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the person was added.
	CreatedAt int64 `json:"created_at"`
}

// NewPerson creates a Person with a fresh ID and the given display name.
// The name is expected to be trimmed and validated by the caller.
func NewPerson(name string) *Person {
	return &Person{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
}
