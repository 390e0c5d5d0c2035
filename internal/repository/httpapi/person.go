// Package httpapi implements the Person repositories on top of the remote
// Command and Query HTTP APIs.
package httpapi

import (
	"context"
	"net/url"

	"personweb/internal/apiclient"
	"personweb/internal/model"
	"personweb/internal/repository"
)

const personsPath = "/persons"

func personPath(id string) string {
	return personsPath + "/" + url.PathEscape(id)
}

// mapErr translates a remote 404 into repository.ErrNotFound.
func mapErr(err error) error {
	if apiclient.IsNotFound(err) {
		return repository.ErrNotFound
	}
	return err
}

// PersonQuery reads persons from the Query API.
type PersonQuery struct {
	client *apiclient.Client
}

// NewPersonQuery creates a PersonQuery backed by the Query API client.
func NewPersonQuery(client *apiclient.Client) *PersonQuery {
	return &PersonQuery{client: client}
}

var _ repository.PersonQueryRepository = (*PersonQuery)(nil)

// List fetches GET /persons. A null or empty body yields an empty slice.
func (r *PersonQuery) List(ctx context.Context) ([]model.Person, error) {
	var persons []model.Person
	if err := r.client.Get(ctx, personsPath, &persons); err != nil {
		return nil, err
	}
	if persons == nil {
		persons = []model.Person{}
	}
	return persons, nil
}

// FindByID fetches GET /persons/{id}.
func (r *PersonQuery) FindByID(ctx context.Context, id string) (*model.Person, error) {
	var p model.Person
	if err := r.client.Get(ctx, personPath(id), &p); err != nil {
		return nil, mapErr(err)
	}
	if p.ID == "" && p.Name == "" && p.Email == "" {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// PersonCommand writes persons through the Command API.
type PersonCommand struct {
	client *apiclient.Client
}

// NewPersonCommand creates a PersonCommand backed by the Command API client.
func NewPersonCommand(client *apiclient.Client) *PersonCommand {
	return &PersonCommand{client: client}
}

var _ repository.PersonCommandRepository = (*PersonCommand)(nil)

// Create sends POST /persons with {name, email}.
func (r *PersonCommand) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	p := model.Person{Name: in.Name, Email: in.Email}
	if err := r.client.Post(ctx, personsPath, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update sends PATCH /persons/{id} with {name, email}.
func (r *PersonCommand) Update(ctx context.Context, id string, in model.PersonInput) (*model.Person, error) {
	p := model.Person{ID: id, Name: in.Name, Email: in.Email}
	if err := r.client.Patch(ctx, personPath(id), in, &p); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// Delete sends DELETE /persons/{id}; the response body is ignored.
func (r *PersonCommand) Delete(ctx context.Context, id string) error {
	return mapErr(r.client.Delete(ctx, personPath(id)))
}
