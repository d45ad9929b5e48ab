// Package store defines the datastore abstraction for the hosted deployment
// of car-value-tracker. Handlers depend on the Store interface, never on
// concrete implementations, so they can be tested against the in-memory
// store without a running database.
package store

import (
	"context"
	"errors"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// Sentinel errors shared by every Store implementation.
var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: already exists")
)

// CarQuery defines optional filters for car listing queries.
type CarQuery struct {
	MakeContains  *string
	ModelContains *string
	PriceMin      *float64
	PriceMax      *float64
	MileageMin    *int
	MileageMax    *int
	YearMin       *int
	YearMax       *int
	Conditions    []domain.Condition
	Pinned        *bool
	Limit         int // default 50
	Offset        int
	OrderBy       string // "price", "mileage", "year", "created_at"
}

// Store defines all data access operations for car-value-tracker.
type Store interface {
	// Cars
	CreateCar(ctx context.Context, c *domain.Listing) error
	GetCar(ctx context.Context, id string) (*domain.Listing, error)
	ListCars(ctx context.Context, opts *CarQuery) ([]domain.Listing, int, error)
	UpdateCar(ctx context.Context, c *domain.Listing) error
	DeleteCar(ctx context.Context, id string) error
	DeleteCars(ctx context.Context, ids []string) (int, error)
	SetPinned(ctx context.Context, id string, pinned bool) (*domain.Listing, error)

	// Saved lists
	UpsertSavedList(ctx context.Context, name string, listings []domain.Listing) error
	GetSavedList(ctx context.Context, name string) (*domain.SavedList, error)
	ListSavedLists(ctx context.Context) ([]domain.SavedList, error)
	DeleteSavedList(ctx context.Context, name string) error

	// Users and sessions
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
