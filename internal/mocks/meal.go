package mocks

import (
	"context"

	"github.com/pageza/culinary-delights/backend/internal/model"
	"github.com/pageza/culinary-delights/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockMealGateway is a mock implementation of service.MealGateway
type MockMealGateway struct {
	mock.Mock
}

var _ service.MealGateway = (*MockMealGateway)(nil)

// ListCategories mocks the ListCategories method
func (m *MockMealGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// GetMealByID mocks the GetMealByID method
func (m *MockMealGateway) GetMealByID(ctx context.Context, id string) (*model.MealDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealDetail), args.Error(1)
}

// FilterByCategory mocks the FilterByCategory method
func (m *MockMealGateway) FilterByCategory(ctx context.Context, category string) ([]model.MealSummary, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MealSummary), args.Error(1)
}

// GetRandomMeal mocks the GetRandomMeal method
func (m *MockMealGateway) GetRandomMeal(ctx context.Context) (*model.MealDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MealDetail), args.Error(1)
}

// SearchByName mocks the SearchByName method
func (m *MockMealGateway) SearchByName(ctx context.Context, query string) ([]model.MealSummary, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MealSummary), args.Error(1)
}
