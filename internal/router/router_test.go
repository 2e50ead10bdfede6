package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/culinary-delights/backend/internal/api"
	"github.com/pageza/culinary-delights/backend/internal/logging"
	"github.com/pageza/culinary-delights/backend/internal/mocks"
	"github.com/pageza/culinary-delights/backend/internal/model"
	"github.com/pageza/culinary-delights/backend/internal/web"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *mocks.MockMealGateway) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.LoadTemplates("")
	require.NoError(t, err)

	gateway := new(mocks.MockMealGateway)
	handler := api.NewMealHandler(gateway, logging.Discard(), api.RandomFetchSequential)

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	SetupRouter(engine, handler, Options{Logger: logging.Discard()})
	return engine, gateway
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestMealRouteBindsID(t *testing.T) {
	r, gateway := setupTestRouter(t)
	gateway.On("GetMealByID", mock.Anything, "123").
		Return(&model.MealDetail{MealSummary: model.MealSummary{ID: "123", Name: "Test Meal"}}, nil).Once()

	w := serve(r, http.MethodGet, "/meal/123")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Test Meal</title>")
	gateway.AssertExpectations(t)
}

func TestMealRouteUnknownID(t *testing.T) {
	r, gateway := setupTestRouter(t)
	gateway.On("GetMealByID", mock.Anything, "999").Return(nil, nil).Once()

	w := serve(r, http.MethodGet, "/meal/999")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Resep Tidak Ditemukan</title>")
}

func TestHomeRouteBindsCategory(t *testing.T) {
	r, gateway := setupTestRouter(t)
	gateway.On("ListCategories", mock.Anything).Return([]model.Category{{Name: "Beef"}}, nil).Once()
	gateway.On("FilterByCategory", mock.Anything, "Beef").
		Return([]model.MealSummary{{ID: "3", Name: "Filtered Meal 1"}}, nil).Once()

	w := serve(r, http.MethodGet, "/?category=Beef")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/meal/3"`)
	gateway.AssertNotCalled(t, "GetRandomMeal", mock.Anything)
	gateway.AssertExpectations(t)
}

func TestHomeRouteUpstreamDefectRendersErrorPage(t *testing.T) {
	r, gateway := setupTestRouter(t)
	gateway.On("ListCategories", mock.Anything).Return(nil, assert.AnError).Once()

	w := serve(r, http.MethodGet, "/")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Server Error</title>")
}

func TestPageRoutesRejectOtherMethods(t *testing.T) {
	r, gateway := setupTestRouter(t)

	for _, target := range []string{"/", "/meal/123"} {
		w := serve(r, http.MethodPost, target)
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, target)
	}
	gateway.AssertNotCalled(t, "ListCategories", mock.Anything)
}

func TestUnmatchedRoute(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := serve(r, http.MethodGet, "/recipes/1")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Halaman Tidak Ditemukan")
}

func TestAmbientRoutes(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := serve(r, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "culinary_http_requests_total")
}
