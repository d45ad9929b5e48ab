package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func seedCar(t *testing.T, s *MemoryStore, mk, model string, year int, price float64, mileage int) *domain.Listing {
	t.Helper()

	c := &domain.Listing{Make: mk, Model: model, Year: year, Price: price, Mileage: mileage}
	require.NoError(t, s.CreateCar(context.Background(), c))
	return c
}

func TestMemoryStore_CarCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	created := seedCar(t, s, "Toyota", "Camry", 2018, 21000, 43000)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.ConditionGood, created.Condition)

	got, err := s.GetCar(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Camry", got.Model)

	got.Price = 19500
	require.NoError(t, s.UpdateCar(ctx, got))
	updated, err := s.GetCar(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 19500.0, updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, s.DeleteCar(ctx, created.ID))
	_, err = s.GetCar(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteCar(ctx, created.ID), ErrNotFound)
}

func TestMemoryStore_ListCarsFilters(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	seedCar(t, s, "Toyota", "Camry", 2018, 21000, 43000)
	seedCar(t, s, "Toyota", "Corolla", 2015, 9000, 110000)
	honda := seedCar(t, s, "Honda", "Accord", 2019, 18500, 52000)

	cars, total, err := s.ListCars(ctx, &CarQuery{MakeContains: ptr("toy")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, cars, 2)

	cars, total, err = s.ListCars(ctx, &CarQuery{
		PriceMax:   ptr(20000.0),
		MileageMax: ptr(60000),
	})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, honda.ID, cars[0].ID)

	cars, _, err = s.ListCars(ctx, &CarQuery{OrderBy: "price"})
	require.NoError(t, err)
	require.Len(t, cars, 3)
	assert.Equal(t, "Corolla", cars[0].Model)
	assert.Equal(t, "Camry", cars[2].Model)

	cars, total, err = s.ListCars(ctx, &CarQuery{OrderBy: "price", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, cars, 1)
	assert.Equal(t, "Accord", cars[0].Model)
}

func TestMemoryStore_DeleteCarsAndPin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	a := seedCar(t, s, "Toyota", "Camry", 2018, 21000, 43000)
	b := seedCar(t, s, "Honda", "Accord", 2019, 18500, 52000)
	seedCar(t, s, "Mazda", "3", 2017, 12000, 70000)

	pinned, err := s.SetPinned(ctx, b.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	_, err = s.SetPinned(ctx, "no-such-id", true)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := s.DeleteCars(ctx, []string{a.ID, b.ID, "no-such-id"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, total, err := s.ListCars(ctx, &CarQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestMemoryStore_SavedLists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	one := []domain.Listing{{Make: "Toyota", Model: "Camry", Year: 2018}}
	two := []domain.Listing{
		{Make: "Honda", Model: "Accord", Year: 2019},
		{Make: "Mazda", Model: "3", Year: 2017},
	}

	require.NoError(t, s.UpsertSavedList(ctx, "first", one))
	require.NoError(t, s.UpsertSavedList(ctx, "second", two))

	got, err := s.GetSavedList(ctx, "first")
	require.NoError(t, err)
	assert.Len(t, got.Listings, 1)

	// Upsert replaces contents but keeps creation order.
	require.NoError(t, s.UpsertSavedList(ctx, "first", two))
	lists, err := s.ListSavedLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "first", lists[0].Name)
	assert.Len(t, lists[0].Listings, 2)

	require.NoError(t, s.DeleteSavedList(ctx, "first"))
	_, err = s.GetSavedList(ctx, "first")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteSavedList(ctx, "first"), ErrNotFound)
}

func TestMemoryStore_UsersAndSessions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMemoryStore()

	u := &domain.User{Email: "kim@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotEmpty(t, u.ID)

	dup := &domain.User{Email: "kim@example.com", PasswordHash: "y"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	live := &domain.Session{
		Token:     "token-live",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	stale := &domain.Session{
		Token:     "token-stale",
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, live))
	require.NoError(t, s.CreateSession(ctx, stale))

	purged, err := s.DeleteExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = s.GetSession(ctx, "token-stale")
	assert.ErrorIs(t, err, ErrNotFound)

	sess, err := s.GetSession(ctx, "token-live")
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.UserID)

	require.NoError(t, s.DeleteSession(ctx, "token-live"))
	_, err = s.GetSession(ctx, "token-live")
	assert.ErrorIs(t, err, ErrNotFound)
}
