package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/culinary-delights/backend/internal/apperrors"
	"github.com/pageza/culinary-delights/backend/internal/model"
	"github.com/pageza/culinary-delights/backend/internal/service"
	"github.com/pageza/culinary-delights/backend/internal/web"
)

// homeRandomMealCount is the number of random draws shown on an unfiltered home page.
const homeRandomMealCount = 8

// RandomFetchMode selects how the home page issues its random draws.
type RandomFetchMode string

const (
	// RandomFetchSequential issues the draws one after another.
	RandomFetchSequential RandomFetchMode = "sequential"
	// RandomFetchConcurrent issues the draws in parallel. Result order still
	// follows draw order.
	RandomFetchConcurrent RandomFetchMode = "concurrent"
)

// ParseRandomFetchMode maps a config value to a mode, defaulting to sequential.
func ParseRandomFetchMode(raw string) RandomFetchMode {
	if RandomFetchMode(strings.ToLower(strings.TrimSpace(raw))) == RandomFetchConcurrent {
		return RandomFetchConcurrent
	}
	return RandomFetchSequential
}

// MealHandler renders the home and meal detail pages.
type MealHandler struct {
	meals      service.MealGateway
	logger     *slog.Logger
	randomMode RandomFetchMode
}

// NewMealHandler creates a new MealHandler instance
func NewMealHandler(meals service.MealGateway, logger *slog.Logger, randomMode RandomFetchMode) *MealHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if randomMode == "" {
		randomMode = RandomFetchSequential
	}
	return &MealHandler{
		meals:      meals,
		logger:     logger.With(slog.String("component", "meal_handler")),
		randomMode: randomMode,
	}
}

// HomePage lists categories and either the meals of the selected category or
// a handful of random meals.
func (h *MealHandler) HomePage(c *gin.Context) {
	ctx := c.Request.Context()
	categoryFilter := c.Query("category")

	categories, err := h.meals.ListCategories(ctx)
	if err != nil {
		h.forward(c, "HomePage", err)
		return
	}

	var meals []model.MealSummary
	if categoryFilter != "" {
		h.logger.Info("filtering meals by category", slog.String("category", categoryFilter))
		meals, err = h.meals.FilterByCategory(ctx, categoryFilter)
	} else {
		h.logger.Info("fetching random meals for homepage", slog.String("mode", string(h.randomMode)))
		meals, err = h.randomMeals(ctx)
	}
	if err != nil {
		h.forward(c, "HomePage", err)
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	if meals == nil {
		meals = []model.MealSummary{}
	}

	c.HTML(http.StatusOK, web.HomeTemplate, model.HomeView{
		Title:            model.HomeTitle,
		Meals:            meals,
		Categories:       categories,
		SelectedCategory: categoryFilter,
	})
}

// MealDetailPage renders a single meal, or the 404 page when it does not exist.
func (h *MealHandler) MealDetailPage(c *gin.Context) {
	id := c.Param("id")
	h.logger.Info("fetching meal details", slog.String("id", id))

	meal, err := h.findMeal(c.Request.Context(), id)
	switch {
	case apperrors.IsNotFound(err):
		h.logger.Warn("meal not found", slog.String("id", id))
		c.HTML(http.StatusNotFound, web.NotFoundTemplate, model.NotFoundView{Title: model.MealNotFoundTitle})
		return
	case err != nil:
		h.forward(c, "MealDetailPage", err)
		return
	}

	c.HTML(http.StatusOK, web.MealDetailTemplate, model.DetailView{
		Title: meal.Name,
		Meal:  meal,
	})
}

func (h *MealHandler) findMeal(ctx context.Context, id string) (*model.MealDetail, error) {
	meal, err := h.meals.GetMealByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if meal == nil {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "meal not found", map[string]any{"id": id})
	}
	return meal, nil
}

// randomMeals draws homeRandomMealCount meals. Absent draws are skipped, the
// rest keep their draw order.
func (h *MealHandler) randomMeals(ctx context.Context) ([]model.MealSummary, error) {
	slots := make([]*model.MealDetail, homeRandomMealCount)

	if h.randomMode == RandomFetchConcurrent {
		g, gctx := errgroup.WithContext(ctx)
		for i := range slots {
			g.Go(func() error {
				meal, err := h.meals.GetRandomMeal(gctx)
				if err != nil {
					return err
				}
				slots[i] = meal
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range slots {
			meal, err := h.meals.GetRandomMeal(ctx)
			if err != nil {
				return nil, err
			}
			slots[i] = meal
		}
	}

	meals := make([]model.MealSummary, 0, len(slots))
	for _, meal := range slots {
		if meal != nil {
			meals = append(meals, meal.MealSummary)
		}
	}
	return meals, nil
}

// forward hands err to the error middleware without rendering anything. The
// middleware owns the error log line.
func (h *MealHandler) forward(c *gin.Context, handler string, err error) {
	h.logger.Debug("forwarding handler error",
		slog.String("handler", handler),
		slog.String("path", c.Request.URL.Path),
		slog.Any("error", err),
	)
	_ = c.Error(err)
}
