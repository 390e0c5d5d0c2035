package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"personweb/internal/model"
)

type MockPersonQueryRepository struct {
	mock.Mock
}

func (m *MockPersonQueryRepository) List(ctx context.Context) ([]model.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockPersonQueryRepository) FindByID(ctx context.Context, id string) (*model.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

type MockPersonCommandRepository struct {
	mock.Mock
}

func (m *MockPersonCommandRepository) Create(ctx context.Context, in model.PersonInput) (*model.Person, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonCommandRepository) Update(ctx context.Context, id string, in model.PersonInput) (*model.Person, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonCommandRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
