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

// CreatePerson adds a roster member.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.New().String()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO people (id, name, created_at) VALUES (?, ?, ?)",
		person.ID, person.Name, person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create person: %w", err)
	}
	return nil
}

// DeletePerson removes a roster member; the assignment cascade unassigns
// them from every item.
func (s *SQLiteStore) DeletePerson(ctx context.Context, personID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE id = ?", personID)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("person %s: %w", personID, storage.ErrNotFound)
	}
	return nil
}

// GetPerson retrieves a roster member by ID.
func (s *SQLiteStore) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	person := &models.Person{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM people WHERE id = ?",
		personID,
	).Scan(&person.ID, &person.Name, &person.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("person %s: %w", personID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// ListPeople returns the full roster, oldest first.
func (s *SQLiteStore) ListPeople(ctx context.Context) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM people ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}
