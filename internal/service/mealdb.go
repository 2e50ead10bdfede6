package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pageza/culinary-delights/backend/internal/apperrors"
	"github.com/pageza/culinary-delights/backend/internal/model"
)

const (
	// DefaultMealDBBaseURL is the public TheMealDB v1 API with the free test key.
	DefaultMealDBBaseURL = "https://www.themealdb.com/api/json/v1/1"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	maxErrorBody   = 2048
)

// MealServiceConfig configures a MealService.
type MealServiceConfig struct {
	// BaseURL of the upstream API, without trailing slash. Defaults to DefaultMealDBBaseURL.
	BaseURL string
	// Timeout applied to every upstream call. Defaults to 10s.
	Timeout time.Duration
	// HTTPClient overrides the client used for upstream calls.
	HTTPClient *http.Client
	// Logger receives one record per call attempt or skip.
	Logger *slog.Logger
}

// MealService talks to TheMealDB and turns every expected failure into an
// empty or absent result.
type MealService struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ MealGateway = (*MealService)(nil)

// NewMealService creates a new MealService instance
func NewMealService(cfg MealServiceConfig) *MealService {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultMealDBBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MealService{
		baseURL: baseURL,
		client:  client,
		logger:  logger.With(slog.String("component", "mealdb")),
	}
}

// ListCategories returns every category name known upstream.
func (s *MealService) ListCategories(ctx context.Context) ([]model.Category, error) {
	s.logger.Info("fetching all categories")

	categories, err := fetchMeals[model.Category](ctx, s, endpointCategories, "/list.php", url.Values{"c": {"list"}})
	if err != nil {
		return []model.Category{}, s.absorb(endpointCategories, err)
	}
	return compact(categories), nil
}

// GetMealByID looks up a single meal. A nil meal means it does not exist or
// could not be fetched.
func (s *MealService) GetMealByID(ctx context.Context, id string) (*model.MealDetail, error) {
	if id == "" {
		s.skip(endpointLookup, "meal id is empty")
		return nil, nil
	}

	s.logger.Info("fetching meal by id", slog.String("id", id))
	meals, err := fetchMeals[model.MealDetail](ctx, s, endpointLookup, "/lookup.php", url.Values{"i": {id}})
	if err != nil {
		return nil, s.absorb(endpointLookup, err, slog.String("id", id))
	}
	return first(meals), nil
}

// FilterByCategory lists the meals of a category.
func (s *MealService) FilterByCategory(ctx context.Context, category string) ([]model.MealSummary, error) {
	if category == "" {
		s.skip(endpointFilter, "category filter is empty")
		return []model.MealSummary{}, nil
	}

	s.logger.Info("fetching meals by category", slog.String("category", category))
	meals, err := fetchMeals[model.MealSummary](ctx, s, endpointFilter, "/filter.php", url.Values{"c": {category}})
	if err != nil {
		return []model.MealSummary{}, s.absorb(endpointFilter, err, slog.String("category", category))
	}
	return compact(meals), nil
}

// GetRandomMeal draws one random meal. Every call is a separate upstream request.
func (s *MealService) GetRandomMeal(ctx context.Context) (*model.MealDetail, error) {
	s.logger.Info("fetching random meal")

	meals, err := fetchMeals[model.MealDetail](ctx, s, endpointRandom, "/random.php", nil)
	if err != nil {
		return nil, s.absorb(endpointRandom, err)
	}
	return first(meals), nil
}

// SearchByName searches meals by name.
func (s *MealService) SearchByName(ctx context.Context, query string) ([]model.MealSummary, error) {
	if query == "" {
		s.skip(endpointSearch, "search query is empty")
		return []model.MealSummary{}, nil
	}

	s.logger.Info("searching meals by name", slog.String("query", query))
	meals, err := fetchMeals[model.MealSummary](ctx, s, endpointSearch, "/search.php", url.Values{"s": {query}})
	if err != nil {
		return []model.MealSummary{}, s.absorb(endpointSearch, err, slog.String("query", query))
	}
	return compact(meals), nil
}

func (s *MealService) skip(endpoint, reason string) {
	recordOutcome(endpoint, outcomeSkipped)
	s.logger.Warn(reason, slog.String("endpoint", endpoint))
}

// absorb logs an upstream failure or a canceled call and swallows it. Any
// other error is returned so the caller can forward it.
func (s *MealService) absorb(endpoint string, err error, attrs ...any) error {
	args := append([]any{slog.String("endpoint", endpoint), slog.Any("error", err)}, attrs...)
	var se *apperrors.StructuredError
	if errors.As(err, &se) && len(se.Context) > 0 {
		args = append(args, slog.Any("detail", se.Context))
	}
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeUpstream:
		s.logger.Error("upstream request failed", args...)
		return nil
	case apperrors.ErrCodeCanceled:
		s.logger.Error("upstream request canceled", args...)
		return nil
	default:
		s.logger.Error("upstream request could not be made", args...)
		return err
	}
}

type mealsEnvelope[T any] struct {
	Meals []*T `json:"meals"`
}

// fetchMeals performs one GET against path and decodes the `meals` field.
// A null or missing field decodes to an empty slice. Upstream failures come
// back as ErrCodeUpstream errors.
func fetchMeals[T any](ctx context.Context, s *MealService, endpoint, path string, query url.Values) ([]*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		recordOutcome(endpoint, outcomeFailed)
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	start := time.Now()
	res, err := s.client.Do(req)
	upstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			recordOutcome(endpoint, outcomeCanceled)
			return nil, apperrors.Wrap(apperrors.ErrCodeCanceled, "request context done", ctxErr)
		}
		recordOutcome(endpoint, outcomeFailed)
		return nil, apperrors.Wrap(apperrors.ErrCodeUpstream, "send request", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		recordOutcome(endpoint, outcomeFailed)
		return nil, apperrors.NewWithContext(apperrors.ErrCodeUpstream,
			fmt.Sprintf("unexpected status %d", res.StatusCode),
			map[string]any{"url": req.URL.String(), "body": strings.TrimSpace(string(body))})
	}

	var envelope mealsEnvelope[T]
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		recordOutcome(endpoint, outcomeFailed)
		return nil, apperrors.Wrap(apperrors.ErrCodeUpstream, "decode response", err)
	}

	if len(envelope.Meals) == 0 {
		recordOutcome(endpoint, outcomeEmpty)
		return nil, nil
	}
	recordOutcome(endpoint, outcomeOK)
	return envelope.Meals, nil
}

// compact drops null entries so callers never see placeholders.
func compact[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func first[T any](items []*T) *T {
	if len(items) == 0 {
		return nil
	}
	return items[0]
}
