package service

import (
	"context"

	"github.com/pageza/culinary-delights/backend/internal/model"
)

// MealGateway is the only path from the application to TheMealDB.
//
// Expected upstream trouble (network errors, timeouts, canceled requests,
// non-2xx answers, malformed bodies, `"meals": null`) never surfaces as an
// error: list operations return an empty slice and lookups return a nil meal.
// A non-nil error means the request could not be built at all and must be
// forwarded by the caller.
type MealGateway interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetMealByID(ctx context.Context, id string) (*model.MealDetail, error)
	FilterByCategory(ctx context.Context, category string) ([]model.MealSummary, error)
	GetRandomMeal(ctx context.Context) (*model.MealDetail, error)
	SearchByName(ctx context.Context, query string) ([]model.MealSummary, error)
}
