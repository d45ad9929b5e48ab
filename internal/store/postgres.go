package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

const defaultPoolSize = 10

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
// poolSize caps the pool's connections; zero or negative uses the default.
func NewPostgresStore(ctx context.Context, connString string, poolSize int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	cfg.MaxConns = int32(poolSize)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// mapRowError converts driver-level errors to store sentinels.
func mapRowError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}

// CreateCar inserts a car and fills in its assigned id and timestamps.
func (s *PostgresStore) CreateCar(ctx context.Context, c *domain.Listing) error {
	c.Normalize()
	args := pgx.NamedArgs{
		"make":      c.Make,
		"model":     c.Model,
		"year":      c.Year,
		"price":     c.Price,
		"mileage":   c.Mileage,
		"condition": string(c.Condition),
		"url":       c.URL,
		"pinned":    c.Pinned,
	}

	err := s.pool.QueryRow(ctx, queryCreateCar, args).Scan(
		&c.ID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating car: %w", err)
	}
	return nil
}

// GetCar retrieves a car by its UUID.
func (s *PostgresStore) GetCar(ctx context.Context, id string) (*domain.Listing, error) {
	c := &domain.Listing{}
	if err := scanCar(s.pool.QueryRow(ctx, queryGetCar, id), c); err != nil {
		return nil, mapRowError(err)
	}
	return c, nil
}

// ListCars queries cars with optional filters, returning results and total count.
func (s *PostgresStore) ListCars(
	ctx context.Context,
	opts *CarQuery,
) ([]domain.Listing, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting cars: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying cars: %w", err)
	}
	defer rows.Close()

	var cars []domain.Listing
	for rows.Next() {
		var c domain.Listing
		if err := scanCar(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("scanning car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating cars: %w", err)
	}

	return cars, total, nil
}

// UpdateCar replaces the stored record for c.ID with c's fields.
func (s *PostgresStore) UpdateCar(ctx context.Context, c *domain.Listing) error {
	c.Normalize()
	args := pgx.NamedArgs{
		"id":        c.ID,
		"make":      c.Make,
		"model":     c.Model,
		"year":      c.Year,
		"price":     c.Price,
		"mileage":   c.Mileage,
		"condition": string(c.Condition),
		"url":       c.URL,
		"pinned":    c.Pinned,
	}

	if err := s.pool.QueryRow(ctx, queryUpdateCar, args).Scan(&c.UpdatedAt); err != nil {
		return fmt.Errorf("updating car: %w", mapRowError(err))
	}
	return nil
}

// DeleteCar removes a car by id.
func (s *PostgresStore) DeleteCar(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteCar, id)
	if err != nil {
		return fmt.Errorf("deleting car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCars removes a batch of cars and returns how many rows were deleted.
func (s *PostgresStore) DeleteCars(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx, queryDeleteCars, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting cars: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// SetPinned updates the pinned flag and returns the updated record.
func (s *PostgresStore) SetPinned(ctx context.Context, id string, pinned bool) (*domain.Listing, error) {
	c := &domain.Listing{}
	if err := scanCar(s.pool.QueryRow(ctx, querySetPinned, id, pinned), c); err != nil {
		return nil, mapRowError(err)
	}
	return c, nil
}

// UpsertSavedList stores listings under name, replacing any existing list.
func (s *PostgresStore) UpsertSavedList(
	ctx context.Context,
	name string,
	listings []domain.Listing,
) error {
	payload, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("marshaling saved list: %w", err)
	}
	if _, err := s.pool.Exec(ctx, queryUpsertSavedList, name, payload); err != nil {
		return fmt.Errorf("upserting saved list: %w", err)
	}
	return nil
}

// GetSavedList retrieves a saved list by name.
func (s *PostgresStore) GetSavedList(ctx context.Context, name string) (*domain.SavedList, error) {
	var payload []byte
	sl := &domain.SavedList{}
	err := s.pool.QueryRow(ctx, queryGetSavedList, name).Scan(&sl.Name, &payload)
	if err != nil {
		return nil, mapRowError(err)
	}
	if err := json.Unmarshal(payload, &sl.Listings); err != nil {
		return nil, fmt.Errorf("decoding saved list %q: %w", name, err)
	}
	return sl, nil
}

// ListSavedLists returns every saved list in creation order.
func (s *PostgresStore) ListSavedLists(ctx context.Context) ([]domain.SavedList, error) {
	rows, err := s.pool.Query(ctx, queryListSavedLists)
	if err != nil {
		return nil, fmt.Errorf("querying saved lists: %w", err)
	}
	defer rows.Close()

	var lists []domain.SavedList
	for rows.Next() {
		var sl domain.SavedList
		var payload []byte
		if err := rows.Scan(&sl.Name, &payload); err != nil {
			return nil, fmt.Errorf("scanning saved list: %w", err)
		}
		if err := json.Unmarshal(payload, &sl.Listings); err != nil {
			return nil, fmt.Errorf("decoding saved list %q: %w", sl.Name, err)
		}
		lists = append(lists, sl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating saved lists: %w", err)
	}
	return lists, nil
}

// DeleteSavedList removes a saved list by name.
func (s *PostgresStore) DeleteSavedList(ctx context.Context, name string) error {
	tag, err := s.pool.Exec(ctx, queryDeleteSavedList, name)
	if err != nil {
		return fmt.Errorf("deleting saved list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateUser inserts a user and fills in its assigned id.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	err := s.pool.QueryRow(ctx, queryCreateUser, u.Email, u.PasswordHash).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", mapRowError(err))
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := s.pool.QueryRow(ctx, queryGetUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return u, nil
}

// CreateSession stores a bearer token session.
func (s *PostgresStore) CreateSession(ctx context.Context, sess *domain.Session) error {
	_, err := s.pool.Exec(ctx, queryCreateSession,
		sess.Token, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token.
func (s *PostgresStore) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	sess := &domain.Session{}
	err := s.pool.QueryRow(ctx, queryGetSession, token).
		Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, mapRowError(err)
	}
	return sess, nil
}

// DeleteSession removes a session by token.
func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, queryDeleteSession, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions purges sessions past their expiry.
func (s *PostgresStore) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, queryDeleteExpiredSessions)
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner, c *domain.Listing) error {
	return row.Scan(
		&c.ID, &c.Make, &c.Model, &c.Year, &c.Price, &c.Mileage,
		&c.Condition, &c.URL, &c.Pinned,
		&c.CreatedAt, &c.UpdatedAt,
	)
}
