package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/culinary-delights/backend/config"
	"github.com/pageza/culinary-delights/backend/internal/logging"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Environment:       config.Test,
		ServerHost:        "localhost",
		ServerPort:        "0",
		MealDBBaseURL:     baseURL,
		MealDBTimeout:     2 * time.Second,
		RandomFetchMode:   "sequential",
		RateLimitRequests: 0,
	}
}

func TestNew(t *testing.T) {
	srv, err := New(testConfig("http://127.0.0.1:1"), Deps{Logger: logging.Discard()})
	require.NoError(t, err)
	require.NotNil(t, srv)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "localhost:0", srv.http.Addr)
}

func TestNewRejectsMissingTemplateDir(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.TemplateDir = t.TempDir()

	_, err := New(cfg, Deps{Logger: logging.Discard()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load templates")
}

// TestHomePageAgainstFakeMealDB runs the whole stack against a stand-in for
// TheMealDB.
func TestHomePageAgainstFakeMealDB(t *testing.T) {
	var randomCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/list.php":
			fmt.Fprint(w, `{"meals":[{"strCategory":"Beef"},{"strCategory":"Dessert"}]}`)
		case "/random.php":
			n := randomCalls.Add(1)
			if n == 4 {
				fmt.Fprint(w, `{"meals":null}`)
				return
			}
			fmt.Fprintf(w, `{"meals":[{"idMeal":"%d","strMeal":"Meal %d","strMealThumb":"m%d.jpg"}]}`, n, n, n)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	srv, err := New(testConfig(upstream.URL), Deps{Logger: logging.Discard()})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Culinary Delights - Resep Lezat</title>")
	assert.Contains(t, body, `<option value="Dessert">`)
	assert.Contains(t, body, `href="/meal/1"`)
	assert.Contains(t, body, `href="/meal/8"`)
	assert.NotContains(t, body, `href="/meal/4"`)
	assert.EqualValues(t, 8, randomCalls.Load())
}

func TestRateLimitingUsesInProcessLimiterWithoutRedis(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Hour

	srv, err := New(cfg, Deps{Logger: logging.Discard()})
	require.NoError(t, err)

	get := func(target string) int {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w.Code
	}

	// The upstream is unreachable, so the lookup falls back to the 404 page.
	assert.Equal(t, http.StatusNotFound, get("/meal/1"))
	assert.Equal(t, http.StatusTooManyRequests, get("/meal/1"))

	// Ambient routes are not limited.
	assert.Equal(t, http.StatusOK, get("/health"))
	assert.Equal(t, http.StatusOK, get("/health"))
}

// getFrom issues a request from httptest's default peer 192.0.2.1 carrying the
// given X-Forwarded-For value.
func getFrom(h http.Handler, target, forwardedFor string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	h.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeers(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Hour

	srv, err := New(cfg, Deps{Logger: logging.Discard()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, getFrom(srv.Handler(), "/meal/1", "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, getFrom(srv.Handler(), "/meal/1", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, getFrom(srv.Handler(), "/meal/1", "198.51.100.7, 203.0.113.3"))
}

func TestRateLimitHonorsForwardedForFromTrustedProxy(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.RateLimitRequests = 1
	cfg.RateLimitWindow = time.Hour
	cfg.TrustedProxies = []string{"192.0.2.0/24"}

	srv, err := New(cfg, Deps{Logger: logging.Discard()})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, getFrom(srv.Handler(), "/meal/1", "203.0.113.1"))
	assert.Equal(t, http.StatusNotFound, getFrom(srv.Handler(), "/meal/1", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, getFrom(srv.Handler(), "/meal/1", "203.0.113.1"))
}

func TestNewRejectsInvalidTrustedProxy(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.TrustedProxies = []string{"not-an-ip"}

	_, err := New(cfg, Deps{Logger: logging.Discard()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set trusted proxies")
}
