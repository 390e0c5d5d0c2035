package repository

import (
	"context"

	"personweb/internal/model"
)

// PersonQueryRepository reads persons from the Query API.
type PersonQueryRepository interface {
	// List returns every person known to the Query API.
	List(ctx context.Context) ([]model.Person, error)

	// FindByID returns a single person or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Person, error)
}

// PersonCommandRepository writes persons through the Command API.
// Only name and email are ever sent; ids and timestamps belong to the API.
type PersonCommandRepository interface {
	Create(ctx context.Context, in model.PersonInput) (*model.Person, error)

	// Update replaces name and email of an existing person. Missing ids yield ErrNotFound.
	Update(ctx context.Context, id string, in model.PersonInput) (*model.Person, error)

	// Delete removes a person. Missing ids yield ErrNotFound.
	Delete(ctx context.Context, id string) error
}
