package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mshelton/car-value-tracker/internal/api/handlers"
	"github.com/mshelton/car-value-tracker/internal/store"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func newListsAPI(t *testing.T, st store.Store) humatest.TestAPI {
	t.Helper()

	h := handlers.NewListsHandler(st, nil)
	_, api := humatest.New(t)
	handlers.RegisterListRoutes(api, h)
	return api
}

func seedList(t *testing.T, st store.Store, name string, listings []domain.Listing) {
	t.Helper()
	require.NoError(t, st.UpsertSavedList(context.Background(), name, listings))
}

func TestListsHandler_ListAndGet(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedList(t, st, "deals", []domain.Listing{
		{Make: "Toyota", Model: "Camry", Year: 2018, Price: 18000, Mileage: 60000, Condition: domain.ConditionGood},
	})

	api := newListsAPI(t, st)

	resp := api.Get("/api/v1/lists")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deals"`)

	resp = api.Get("/api/v1/lists/deals")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"Camry"`)

	resp = api.Get("/api/v1/lists/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Contains(t, resp.Body.String(), "saved list not found")
}

func TestListsHandler_Save(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	api := newListsAPI(t, st)

	body := map[string]any{
		"listings": []map[string]any{
			{"make": "Honda", "model": "Civic", "year": 2020, "price": 21000.0, "mileage": 30000},
		},
	}

	resp := api.Put("/api/v1/lists/shortlist", body)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"shortlist"`)

	// Saving the same name again without replace is rejected.
	resp = api.Put("/api/v1/lists/shortlist", body)
	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "already exists")

	// replace=true overwrites.
	resp = api.Put("/api/v1/lists/shortlist?replace=true", map[string]any{
		"listings": []map[string]any{},
	})
	require.Equal(t, http.StatusOK, resp.Code)

	sl, err := st.GetSavedList(context.Background(), "shortlist")
	require.NoError(t, err)
	assert.Empty(t, sl.Listings)
}

func TestListsHandler_Delete(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedList(t, st, "deals", []domain.Listing{})

	api := newListsAPI(t, st)

	resp := api.Delete("/api/v1/lists/deals")
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Delete("/api/v1/lists/deals")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListsHandler_Import(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedList(t, st, "deals", []domain.Listing{})

	api := newListsAPI(t, st)

	payload := `[
	  {
	    "name": "deals",
	    "listings": [
	      {"make": "Mazda", "model": "3", "year": 2019, "price": 15000, "mileage": 45000}
	    ]
	  },
	  {
	    "name": "winter cars",
	    "listings": []
	  }
	]`

	resp := api.Post("/api/v1/lists/import", strings.NewReader(payload))
	require.Equal(t, http.StatusOK, resp.Code)

	// The colliding name was renamed, not overwritten.
	assert.Contains(t, resp.Body.String(), `"deals (1)"`)
	assert.Contains(t, resp.Body.String(), `"winter cars"`)

	sl, err := st.GetSavedList(context.Background(), "deals")
	require.NoError(t, err)
	assert.Empty(t, sl.Listings)

	sl, err = st.GetSavedList(context.Background(), "deals (1)")
	require.NoError(t, err)
	require.Len(t, sl.Listings, 1)
	assert.Equal(t, "Mazda", sl.Listings[0].Make)
}

func TestListsHandler_ImportInvalidPayload(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	api := newListsAPI(t, st)

	// One bad listing fails the whole import; nothing is stored.
	payload := `[
	  {"name": "good", "listings": []},
	  {"name": "bad", "listings": [{"make": "", "model": "3", "year": 2019, "price": 1, "mileage": 1}]}
	]`

	resp := api.Post("/api/v1/lists/import", strings.NewReader(payload))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid import payload")

	lists, err := st.ListSavedLists(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestListsHandler_Export(t *testing.T) {
	t.Parallel()

	st := store.NewMemoryStore()
	seedList(t, st, "deals", []domain.Listing{
		{ID: "internal-id", Make: "Toyota", Model: "Camry", Year: 2018, Price: 18000, Mileage: 60000, Condition: domain.ConditionGood},
	})

	api := newListsAPI(t, st)

	resp := api.Get("/api/v1/lists/export")
	require.Equal(t, http.StatusOK, resp.Code)

	body := resp.Body.String()
	assert.Contains(t, body, `"deals"`)
	assert.Contains(t, body, `"Camry"`)
	// Internal bookkeeping stays out of the export document.
	assert.NotContains(t, body, "internal-id")
	assert.NotContains(t, body, "created_at")
}
