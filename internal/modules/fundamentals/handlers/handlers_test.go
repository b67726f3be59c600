package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/pfa/internal/domain"
	"github.com/aristath/pfa/internal/modules/fundamentals"
	testingpkg "github.com/aristath/pfa/internal/testing"
)

type envelope struct {
	Data     *domain.Fundamentals   `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

func setupRouter(source domain.FundamentalsSource) http.Handler {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(fundamentals.NewService(source, log), log).RegisterRoutes(r)
	})
	return router
}

func get(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body envelope
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHandleGetFundamentals(t *testing.T) {
	source := testingpkg.NewMockFundamentalsSource()
	source.Set("AAPL", []domain.FundamentalPeriod{
		{Period: "2023", Values: map[string]float64{"TotalRevenue": 383285000000}},
		{Period: "2024", Values: map[string]float64{"TotalRevenue": 391035000000}},
	})
	router := setupRouter(source)

	w, body := get(t, router, "/api/fundamentals/aapl?freq=annual")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, false, body.Metadata["empty"])

	require.NotNil(t, body.Data)
	assert.Equal(t, domain.TickerSymbol("AAPL"), body.Data.Symbol)
	assert.Equal(t, domain.FrequencyAnnual, body.Data.Frequency)
	require.Len(t, body.Data.Periods, 2)
	assert.Equal(t, "2024", body.Data.Periods[1].Period)
}

func TestHandleGetFundamentals_Empty(t *testing.T) {
	router := setupRouter(testingpkg.NewMockFundamentalsSource())

	w, body := get(t, router, "/api/fundamentals/NONE")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body.Data)
	assert.Equal(t, true, body.Metadata["empty"])
}

func TestHandleGetFundamentals_InvalidFrequency(t *testing.T) {
	router := setupRouter(testingpkg.NewMockFundamentalsSource())

	w, _ := get(t, router, "/api/fundamentals/AAPL?freq=weekly")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
