package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"personweb/internal/model"
	"personweb/internal/repository"
	"personweb/internal/requestid"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("person not found")
)

// PersonListResult is the service-level DTO for the JSON list endpoint.
type PersonListResult struct {
	Items []model.Person `json:"data"`
	Total int            `json:"total"`
}

// PersonService defines the use cases for handling persons.
// Reads go to the query repository, writes to the command repository.
type PersonService interface {
	// List returns every person.
	List(ctx context.Context) ([]model.Person, error)

	// Get returns a single person by ID.
	Get(ctx context.Context, id string) (*model.Person, error)

	// Create validates in and creates a person. Invalid input yields *model.ValidationError.
	Create(ctx context.Context, in model.PersonInput) (*model.Person, error)

	// Update validates in and updates the person with the given ID.
	Update(ctx context.Context, id string, in model.PersonInput) (*model.Person, error)

	// Delete removes a person by ID.
	Delete(ctx context.Context, id string) error
}

// personService is a concrete implementation of PersonService.
type personService struct {
	query   repository.PersonQueryRepository
	command repository.PersonCommandRepository
	log     logrus.FieldLogger
}

// NewPersonService constructs a new PersonService.
func NewPersonService(query repository.PersonQueryRepository, command repository.PersonCommandRepository, log logrus.FieldLogger) PersonService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &personService{query: query, command: command, log: log}
}

func (s *personService) logger(ctx context.Context) logrus.FieldLogger {
	if id := requestid.From(ctx); id != "" {
		return s.log.WithField("request_id", id)
	}
	return s.log
}

func (s *personService) List(ctx context.Context) ([]model.Person, error) {
	log := s.logger(ctx)
	log.Info("fetching all persons from query api")

	persons, err := s.query.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	log.WithField("count", len(persons)).Info("fetched persons")
	return persons, nil
}

func (s *personService) Get(ctx context.Context, id string) (*model.Person, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.query.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	return p, nil
}

func (s *personService) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.logger(ctx).WithField("name", in.Name).Info("creating person")
	p, err := s.command.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create person: %w", err)
	}
	return p, nil
}

func (s *personService) Update(ctx context.Context, id string, in model.PersonInput) (*model.Person, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.logger(ctx).WithFields(logrus.Fields{"person_id": id, "name": in.Name}).Info("updating person")
	p, err := s.command.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update person %s: %w", id, err)
	}
	return p, nil
}

func (s *personService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	s.logger(ctx).WithField("person_id", id).Info("deleting person")
	if err := s.command.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	return nil
}
