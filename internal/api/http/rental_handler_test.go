package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"fleet-rental-pricing/internal/metrics"
	"fleet-rental-pricing/internal/pricing"
	"fleet-rental-pricing/internal/repository/memory"
	"fleet-rental-pricing/internal/service"
)

func newTestRouter() *mux.Router {
	reg := prometheus.NewRegistry()
	store := memory.NewStore()
	svc := service.NewRentalService(store.CarRepository, store.RentalRepository,
		pricing.NewEngine(pricing.DefaultParams()), metrics.New(reg))
	router := mux.NewRouter()
	RegisterRentalRoutes(router, svc, reg)
	return router
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seed(t *testing.T, router http.Handler) {
	t.Helper()
	rec := do(t, router, "POST", "/api/v1/cars", `{"id":1,"price_per_day":2000,"price_per_km":10}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = do(t, router, "POST", "/api/v1/rentals",
		`{"id":1,"car_id":1,"start_date":"2015-12-08","end_date":"2015-12-10","distance":100}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRentalHandler_CreateAndGet(t *testing.T) {
	router := newTestRouter()
	seed(t, router)

	rec := do(t, router, "GET", "/api/v1/rentals/1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view rentalView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(6600), view.Price)
	assert.Equal(t, "PAYMENTS_ISSUED", view.State)
	assert.Equal(t, "2015-12-08", view.StartDate)
	require.Len(t, view.Statements["driver"], 1)
	assert.False(t, view.Statements["driver"][0].Paid)
	assert.Equal(t, "debit", view.Statements["driver"][0].Entries[0].Direction)
	assert.Empty(t, view.Outstanding)
}

func TestRentalHandler_Errors(t *testing.T) {
	router := newTestRouter()
	seed(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Malformed body", "POST", "/api/v1/cars", `{"id":`, http.StatusBadRequest},
		{"Missing field", "POST", "/api/v1/cars", `{"id":2,"price_per_day":10}`, http.StatusBadRequest},
		{"Negative price", "POST", "/api/v1/cars", `{"id":2,"price_per_day":-1,"price_per_km":1}`, http.StatusUnprocessableEntity},
		{"Duplicate car", "POST", "/api/v1/cars", `{"id":1,"price_per_day":1,"price_per_km":1}`, http.StatusBadRequest},
		{"Unknown car", "POST", "/api/v1/rentals", `{"id":5,"car_id":9,"start_date":"2015-12-08","end_date":"2015-12-10","distance":1}`, http.StatusNotFound},
		{"Negative span", "POST", "/api/v1/rentals", `{"id":6,"car_id":1,"start_date":"2015-12-10","end_date":"2015-12-08","distance":1}`, http.StatusUnprocessableEntity},
		{"Unknown rental", "GET", "/api/v1/rentals/99", "", http.StatusNotFound},
		{"Bad id", "GET", "/api/v1/rentals/abc", "", http.StatusBadRequest},
		{"Mismatched rental id", "POST", "/api/v1/rentals/1/modifications", `{"rental_id":2,"distance":1}`, http.StatusBadRequest},
		{"Negative distance", "POST", "/api/v1/rentals/1/modifications", `{"distance":-1}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestRentalHandler_PaymentsAndModification(t *testing.T) {
	router := newTestRouter()
	seed(t, router)

	rec := do(t, router, "POST", "/api/v1/rentals/1/payments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"issued":5}`, rec.Body.String())

	rec = do(t, router, "POST", "/api/v1/rentals/1/modifications", `{"id":1,"distance":150}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view rentalView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(150), view.Distance)
	assert.Equal(t, int64(500), view.Outstanding["driver"].Amount)
	assert.Len(t, view.Statements["owner"], 2)

	rec = do(t, router, "GET", "/api/v1/reports/level6", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "level6", rec.Header().Get("X-Report-Style"))
	assert.JSONEq(t, `{"rental_modifications":[{"id":1,"rental_id":1,"actions":[
		{"who":"driver","type":"debit","amount":500},
		{"who":"owner","type":"credit","amount":350},
		{"who":"insurance","type":"credit","amount":75},
		{"who":"assistance","type":"credit","amount":0},
		{"who":"platform","type":"credit","amount":75}
	]}]}`, rec.Body.String())
}

func TestRentalHandler_Report(t *testing.T) {
	router := newTestRouter()
	seed(t, router)

	t.Run("Unknown style falls back", func(t *testing.T) {
		rec := do(t, router, "GET", "/api/v1/reports/level42", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "level1", rec.Header().Get("X-Report-Style"))
		assert.Equal(t, "0", rec.Header().Get("X-Report-Skipped"))
		assert.JSONEq(t, `{"rentals":[{"id":1,"price":6600}]}`, rec.Body.String())
	})

	t.Run("Workbook", func(t *testing.T) {
		rec := do(t, router, "GET", "/api/v1/reports/level5?format=xlsx", "")
		require.Equal(t, http.StatusOK, rec.Code)
		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("rentals")
		require.NoError(t, err)
		assert.Len(t, rows, 6)
	})
}

func TestRentalHandler_Metrics(t *testing.T) {
	router := newTestRouter()
	seed(t, router)
	do(t, router, "POST", "/api/v1/rentals", `{"id":2}`)

	rec := do(t, router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `fleet_pricing_rentals_priced_total{result="success"} 1`)
	assert.Contains(t, body, `fleet_pricing_records_rejected_total{kind="rental",reason="validation"} 1`)
}
