package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshelton/car-value-tracker/internal/api/handlers"
	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/store"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func newCarsAPI(t *testing.T, st store.Store, svc *auth.Service, maxPrice float64) humatest.TestAPI {
	t.Helper()

	h := handlers.NewCarsHandler(st, svc, maxPrice)
	_, api := humatest.New(t)
	handlers.RegisterCarRoutes(api, h)
	return api
}

func seedCar(t *testing.T, st store.Store, c domain.Listing) domain.Listing {
	t.Helper()

	c.Normalize()
	require.NoError(t, st.CreateCar(context.Background(), &c))
	return c
}

func TestCarsHandler_List(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedCar(t, st, domain.Listing{Make: "Toyota", Model: "Camry", Year: 2018, Price: 18000, Mileage: 60000})
	seedCar(t, st, domain.Listing{Make: "Honda", Model: "Civic", Year: 2020, Price: 21000, Mileage: 30000, Pinned: true})

	api := newCarsAPI(t, st, nil, 0)

	tests := []struct {
		name      string
		path      string
		wantTotal string
		wantBody  string
	}{
		{
			name:      "all cars",
			path:      "/api/v1/cars",
			wantTotal: `"total":2`,
			wantBody:  `"Camry"`,
		},
		{
			name:      "make filter",
			path:      "/api/v1/cars?make=hon",
			wantTotal: `"total":1`,
			wantBody:  `"Civic"`,
		},
		{
			name:      "pinned filter",
			path:      "/api/v1/cars?pinned=true",
			wantTotal: `"total":1`,
			wantBody:  `"Civic"`,
		},
		{
			name:      "price range excludes all",
			path:      "/api/v1/cars?price_min=50000",
			wantTotal: `"total":0`,
			wantBody:  `"cars":[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := api.Get(tt.path)
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantTotal)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestCarsHandler_ListEchoesEffectiveLimit(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedCar(t, st, domain.Listing{Make: "Toyota", Model: "Camry", Year: 2018, Price: 18000, Mileage: 60000})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Get("/api/v1/cars")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"limit":50`)

	resp = api.Get("/api/v1/cars?limit=5")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"limit":5`)
}

func TestCarsHandler_Get(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	c := seedCar(t, st, domain.Listing{Make: "Mazda", Model: "3", Year: 2019, Price: 15000, Mileage: 45000})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Get("/api/v1/cars/" + c.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Mazda"`)
	assert.Contains(t, resp.Body.String(), c.ID)

	resp = api.Get("/api/v1/cars/missing-id")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "car not found")
}

func TestCarsHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       any
		maxPrice   float64
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid car",
			body: map[string]any{
				"make":    "Toyota",
				"model":   "Corolla",
				"year":    2021,
				"price":   19500.0,
				"mileage": 22000,
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"Corolla"`,
		},
		{
			name: "condition defaults to good",
			body: map[string]any{
				"make":    "Subaru",
				"model":   "Outback",
				"year":    2017,
				"price":   16000.0,
				"mileage": 80000,
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"condition":"good"`,
		},
		{
			name: "missing make returns 422",
			body: map[string]any{
				"model":   "Corolla",
				"year":    2021,
				"price":   19500.0,
				"mileage": 22000,
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "expected required property make to be present",
		},
		{
			name: "negative price returns 422",
			body: map[string]any{
				"make":    "Toyota",
				"model":   "Corolla",
				"year":    2021,
				"price":   -1.0,
				"mileage": 22000,
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "",
		},
		{
			name: "price above configured maximum",
			body: map[string]any{
				"make":    "Porsche",
				"model":   "911",
				"year":    2022,
				"price":   150000.0,
				"mileage": 5000,
			},
			maxPrice:   100000,
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   "price exceeds the configured maximum",
		},
		{
			name:       "invalid JSON",
			body:       strings.NewReader(`{invalid}`),
			wantStatus: http.StatusBadRequest,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := newCarsAPI(t, store.NewMemoryStore(), nil, tt.maxPrice)

			resp := api.Post("/api/v1/cars", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code)
			if tt.wantBody != "" {
				assert.Contains(t, resp.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCarsHandler_CreateRequiresToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := auth.NewService(st, time.Hour)

	_, err := svc.Register(ctx, "kim@example.com", "correct horse battery")
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "kim@example.com", "correct horse battery")
	require.NoError(t, err)

	api := newCarsAPI(t, st, svc, 0)

	body := map[string]any{
		"make":    "Toyota",
		"model":   "Corolla",
		"year":    2021,
		"price":   19500.0,
		"mileage": 22000,
	}

	resp := api.Post("/api/v1/cars", body)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.Post("/api/v1/cars", "Authorization: Bearer bogus-token", body)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.Post("/api/v1/cars", "Authorization: Bearer "+sess.Token, body)
	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestCarsHandler_Update(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	c := seedCar(t, st, domain.Listing{Make: "Honda", Model: "Accord", Year: 2016, Price: 14000, Mileage: 90000, Pinned: true})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Put("/api/v1/cars/"+c.ID, map[string]any{
		"make":    "Honda",
		"model":   "Accord",
		"year":    2016,
		"price":   13500.0,
		"mileage": 91000,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"price":13500`)

	// Identity and pin state survive an update that does not set them.
	got, err := st.GetCar(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.True(t, got.Pinned)
	assert.Equal(t, c.CreatedAt, got.CreatedAt)

	resp = api.Put("/api/v1/cars/missing-id", map[string]any{
		"make":    "Honda",
		"model":   "Accord",
		"year":    2016,
		"price":   13500.0,
		"mileage": 91000,
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCarsHandler_Delete(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	c := seedCar(t, st, domain.Listing{Make: "Ford", Model: "Focus", Year: 2015, Price: 9000, Mileage: 110000})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Delete("/api/v1/cars/" + c.ID)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Get("/api/v1/cars/" + c.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.Delete("/api/v1/cars/" + c.ID)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCarsHandler_DeleteBatch(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	a := seedCar(t, st, domain.Listing{Make: "Kia", Model: "Soul", Year: 2019, Price: 13000, Mileage: 40000})
	b := seedCar(t, st, domain.Listing{Make: "Kia", Model: "Rio", Year: 2018, Price: 11000, Mileage: 55000})
	keep := seedCar(t, st, domain.Listing{Make: "Kia", Model: "Sportage", Year: 2021, Price: 24000, Mileage: 15000})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Post("/api/v1/cars/delete", map[string]any{
		"ids": []string{a.ID, b.ID, "missing-id"},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deleted":2`)

	_, err := st.GetCar(context.Background(), keep.ID)
	require.NoError(t, err)
}

func TestCarsHandler_Pin(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	c := seedCar(t, st, domain.Listing{Make: "Toyota", Model: "RAV4", Year: 2020, Price: 26000, Mileage: 28000})

	api := newCarsAPI(t, st, nil, 0)

	resp := api.Post("/api/v1/cars/"+c.ID+"/pin", map[string]any{"pinned": true})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"pinned":true`)

	resp = api.Post("/api/v1/cars/missing-id/pin", map[string]any{"pinned": true})
	require.Equal(t, http.StatusNotFound, resp.Code)
}
