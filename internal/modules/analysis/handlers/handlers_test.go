package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/internal/modules/analysis"
	"github.com/aristath/pfa/internal/modules/pricecache"
	testingpkg "github.com/aristath/pfa/internal/testing"
)

type staticTickers struct {
	symbols []domain.TickerSymbol
}

func (s *staticTickers) Load() []domain.TickerSymbol {
	return s.symbols
}

type envelope struct {
	Data     json.RawMessage        `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func setupRouter(t *testing.T, tickers ...string) (http.Handler, *pricecache.Store) {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	db, cleanup := testingpkg.NewTestDB(t, "handlers")
	t.Cleanup(cleanup)
	store, err := pricecache.NewStore(db, log)
	require.NoError(t, err)

	list := &staticTickers{}
	for _, s := range tickers {
		list.symbols = append(list.symbols, domain.NewTickerSymbol(s))
	}

	source := testingpkg.NewMockPriceSource(testingpkg.NewWatchlistSeries())
	builder := analysis.NewBuilder(source, store, log)
	service := analysis.NewService(list, builder, analysis.Settings{StartDate: testingpkg.FixtureStart}, log)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(service, store, log).RegisterRoutes(r)
	})
	return router, store
}

func do(t *testing.T, router http.Handler, method, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body envelope
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, body.Metadata["timestamp"])
	}
	return w, body
}

func TestRegisterRoutes(t *testing.T) {
	router, _ := setupRouter(t)
	assert.NotNil(t, router)
}

func TestHandleGetPCA(t *testing.T) {
	router, _ := setupRouter(t, "AAA", "BBB", "CCC")

	w, body := do(t, router, http.MethodGet, "/api/analysis/pca")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body.Metadata["empty"])

	var result analysis.FactorResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, []string{"P1", "P2", "P3"}, result.Components)
	assert.InDelta(t, 1.0, result.CumulativeVariance[2], 1e-9)
}

func TestHandleGetRisk(t *testing.T) {
	router, _ := setupRouter(t, "AAA", "BBB")

	w, body := do(t, router, http.MethodGet, "/api/analysis/risk")
	require.Equal(t, http.StatusOK, w.Code)

	var result analysis.RiskResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Len(t, result.StdDev, 2)
	assert.Len(t, result.Covariance, 2)
	assert.Len(t, result.Correlation, 2)
}

func TestHandleGetReturns(t *testing.T) {
	router, _ := setupRouter(t, "AAA", "CCC")

	w, body := do(t, router, http.MethodGet, "/api/analysis/returns")
	require.Equal(t, http.StatusOK, w.Code)

	var result analysis.ReturnMatrix
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, 5, result.Rows())
	assert.Equal(t, []domain.TickerSymbol{"AAA", "CCC"}, result.Tickers)
}

func TestHandleEmptySentinel(t *testing.T) {
	router, _ := setupRouter(t)

	for _, path := range []string{"/api/analysis/pca", "/api/analysis/risk", "/api/analysis/returns", "/api/tickers"} {
		t.Run(path, func(t *testing.T) {
			w, body := do(t, router, http.MethodGet, path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "null", string(body.Data))
			assert.Equal(t, true, body.Metadata["empty"])
		})
	}
}

func TestHandleGetVolatility(t *testing.T) {
	router, _ := setupRouter(t, "AAA", "BBB")

	w, body := do(t, router, http.MethodGet, "/api/analysis/volatility?window=3")
	require.Equal(t, http.StatusOK, w.Code)

	var result analysis.VolatilityResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	assert.Equal(t, 3, result.Window)
	assert.Len(t, result.Values, 4)

	for _, bad := range []string{"abc", "1", "-5"} {
		w, _ := do(t, router, http.MethodGet, "/api/analysis/volatility?window="+bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestHandleGetTickers(t *testing.T) {
	router, _ := setupRouter(t, "aaa", "BBB")

	w, body := do(t, router, http.MethodGet, "/api/tickers")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Tickers []string `json:"tickers"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, []string{"AAA", "BBB"}, data.Tickers)
	assert.Equal(t, 2, data.Count)
}

func TestHandleCacheLifecycle(t *testing.T) {
	router, store := setupRouter(t, "AAA", "BBB", "MISSING")
	ctx := context.Background()

	w, body := do(t, router, http.MethodPost, "/api/cache/prefetch")
	require.Equal(t, http.StatusOK, w.Code)
	var report analysis.PrefetchReport
	require.NoError(t, json.Unmarshal(body.Data, &report))
	assert.Equal(t, 2, report.Fetched)
	assert.Equal(t, []string{"MISSING"}, report.Unavailable)

	w, body = do(t, router, http.MethodGet, "/api/cache/tables")
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Tables []pricecache.TableInfo `json:"tables"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &listing))
	assert.Equal(t, 2, listing.Count)
	assert.Equal(t, "AAA_1d", listing.Tables[0].Name)

	w, _ = do(t, router, http.MethodDelete, "/api/cache/tables/AAA_1d")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, store.Exists(ctx, "AAA_1d"))

	w, _ = do(t, router, http.MethodDelete, "/api/cache/tables/AAA_1d")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
