package store

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// MemoryStore is an in-process Store used by handler tests and by the
// server's --in-memory mode. Behavior mirrors PostgresStore, including
// sentinel errors and query semantics.
type MemoryStore struct {
	mu sync.RWMutex

	cars      []domain.Listing
	lists     []domain.SavedList
	users     map[string]domain.User    // keyed by email
	sessions  map[string]domain.Session // keyed by token
	listOrder map[string]int            // creation order for saved lists
	listSeq   int

	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		sessions:  make(map[string]domain.Session),
		listOrder: make(map[string]int),
		now:       time.Now,
	}
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Migrate is a no-op; the in-memory store has no schema.
func (s *MemoryStore) Migrate(context.Context) error { return nil }

// CreateCar inserts a car and assigns its id and timestamps.
func (s *MemoryStore) CreateCar(_ context.Context, c *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Normalize()
	c.ID = uuid.New().String()
	c.CreatedAt = s.now().UTC()
	c.UpdatedAt = c.CreatedAt
	s.cars = append(s.cars, *c)
	return nil
}

// GetCar retrieves a car by id.
func (s *MemoryStore) GetCar(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.cars {
		if s.cars[i].ID == id {
			c := s.cars[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// ListCars applies the query filters over the in-memory set.
func (s *MemoryStore) ListCars(
	_ context.Context,
	opts *CarQuery,
) ([]domain.Listing, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Listing
	for i := range s.cars {
		if carMatches(&s.cars[i], opts) {
			matched = append(matched, s.cars[i])
		}
	}
	total := len(matched)

	orderCars(matched, opts.OrderBy)

	limit := opts.EffectiveLimit()
	offset := max(opts.Offset, 0)

	if offset >= len(matched) {
		return nil, total, nil
	}
	end := min(offset+limit, len(matched))
	return slices.Clone(matched[offset:end]), total, nil
}

func carMatches(c *domain.Listing, q *CarQuery) bool {
	if q.MakeContains != nil &&
		!strings.Contains(strings.ToLower(c.Make), strings.ToLower(*q.MakeContains)) {
		return false
	}
	if q.ModelContains != nil &&
		!strings.Contains(strings.ToLower(c.Model), strings.ToLower(*q.ModelContains)) {
		return false
	}
	if q.PriceMin != nil && c.Price < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && c.Price > *q.PriceMax {
		return false
	}
	if q.MileageMin != nil && c.Mileage < *q.MileageMin {
		return false
	}
	if q.MileageMax != nil && c.Mileage > *q.MileageMax {
		return false
	}
	if q.YearMin != nil && c.Year < *q.YearMin {
		return false
	}
	if q.YearMax != nil && c.Year > *q.YearMax {
		return false
	}
	if len(q.Conditions) > 0 {
		cond := c.Condition
		if cond == "" {
			cond = domain.ConditionGood
		}
		if !slices.Contains(q.Conditions, cond) {
			return false
		}
	}
	if q.Pinned != nil && c.Pinned != *q.Pinned {
		return false
	}
	return true
}

func orderCars(cars []domain.Listing, orderBy string) {
	switch orderBy {
	case orderByPrice:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Price < cars[j].Price })
	case orderByMileage:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Mileage < cars[j].Mileage })
	case orderByYear:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Year > cars[j].Year })
	default:
		sort.SliceStable(cars, func(i, j int) bool {
			return cars[i].CreatedAt.After(cars[j].CreatedAt)
		})
	}
}

// UpdateCar replaces the stored record for c.ID.
func (s *MemoryStore) UpdateCar(_ context.Context, c *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cars {
		if s.cars[i].ID == c.ID {
			c.Normalize()
			c.CreatedAt = s.cars[i].CreatedAt
			c.UpdatedAt = s.now().UTC()
			s.cars[i] = *c
			return nil
		}
	}
	return ErrNotFound
}

// DeleteCar removes a car by id.
func (s *MemoryStore) DeleteCar(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cars {
		if s.cars[i].ID == id {
			s.cars = slices.Delete(s.cars, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}

// DeleteCars removes a batch of cars, returning how many were deleted.
func (s *MemoryStore) DeleteCars(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := s.cars[:0]
	deleted := 0
	for _, c := range s.cars {
		if _, gone := drop[c.ID]; gone {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	s.cars = kept
	return deleted, nil
}

// SetPinned updates the pinned flag and returns the updated record.
func (s *MemoryStore) SetPinned(_ context.Context, id string, pinned bool) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.cars {
		if s.cars[i].ID == id {
			s.cars[i].Pinned = pinned
			s.cars[i].UpdatedAt = s.now().UTC()
			c := s.cars[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// UpsertSavedList stores listings under name, replacing any existing list.
func (s *MemoryStore) UpsertSavedList(
	_ context.Context,
	name string,
	listings []domain.Listing,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := domain.SavedList{Name: name, Listings: slices.Clone(listings)}
	for i := range s.lists {
		if s.lists[i].Name == name {
			s.lists[i] = snapshot
			return nil
		}
	}
	s.lists = append(s.lists, snapshot)
	s.listOrder[name] = s.listSeq
	s.listSeq++
	return nil
}

// GetSavedList retrieves a saved list by name.
func (s *MemoryStore) GetSavedList(_ context.Context, name string) (*domain.SavedList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.lists {
		if s.lists[i].Name == name {
			sl := domain.SavedList{
				Name:     s.lists[i].Name,
				Listings: slices.Clone(s.lists[i].Listings),
			}
			return &sl, nil
		}
	}
	return nil, ErrNotFound
}

// ListSavedLists returns every saved list in creation order.
func (s *MemoryStore) ListSavedLists(_ context.Context) ([]domain.SavedList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.SavedList, len(s.lists))
	for i, sl := range s.lists {
		out[i] = domain.SavedList{Name: sl.Name, Listings: slices.Clone(sl.Listings)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.listOrder[out[i].Name] < s.listOrder[out[j].Name]
	})
	return out, nil
}

// DeleteSavedList removes a saved list by name.
func (s *MemoryStore) DeleteSavedList(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].Name == name {
			s.lists = slices.Delete(s.lists, i, i+1)
			delete(s.listOrder, name)
			return nil
		}
	}
	return ErrNotFound
}

// CreateUser inserts a user, enforcing email uniqueness.
func (s *MemoryStore) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[u.Email]; exists {
		return ErrDuplicate
	}
	u.ID = uuid.New().String()
	u.CreatedAt = s.now().UTC()
	s.users[u.Email] = *u
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// CreateSession stores a bearer token session.
func (s *MemoryStore) CreateSession(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.CreatedAt = s.now().UTC()
	s.sessions[sess.Token] = *sess
	return nil
}

// GetSession retrieves a session by token.
func (s *MemoryStore) GetSession(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// DeleteSession removes a session by token.
func (s *MemoryStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// DeleteExpiredSessions purges sessions past their expiry.
func (s *MemoryStore) DeleteExpiredSessions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	deleted := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
			deleted++
		}
	}
	return deleted, nil
}
