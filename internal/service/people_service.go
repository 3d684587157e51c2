package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/storage"
)

// PeopleService manages the roster of people a receipt can be split across.
type PeopleService struct {
	store storage.Store
}

// NewPeopleService creates a PeopleService with the given storage backend.
func NewPeopleService(store storage.Store) *PeopleService {
	return &PeopleService{store: store}
}

// AddPerson adds a named person to the roster. Names are trimmed and must
// be non-empty.
func (s *PeopleService) AddPerson(ctx context.Context, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("person name is required")
	}

	person := models.NewPerson(name)
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}
	return person, nil
}

// RemovePerson deletes a person and unassigns them from every item.
func (s *PeopleService) RemovePerson(ctx context.Context, id string) error {
	return s.store.DeletePerson(ctx, id)
}

// ListPeople returns the roster in the order people were added.
func (s *PeopleService) ListPeople(ctx context.Context) ([]models.Person, error) {
	return s.store.ListPeople(ctx)
}
