// Package workspace manages the active set of listings and the named saved
// lists behind the local deployment variant. Every mutation persists the
// full workspace state through the gateway before it takes effect in
// memory, so a failed write never leaves the session ahead of storage.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mshelton/car-value-tracker/internal/codec"
	"github.com/mshelton/car-value-tracker/internal/gateway"
	"github.com/mshelton/car-value-tracker/internal/metrics"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// stateVersion tags the persisted envelope so future schema changes can
// migrate old records.
const stateVersion = 1

// Sentinel errors for workspace operations.
var (
	ErrIndexOutOfRange = errors.New("workspace: listing index out of range")
	ErrNameExists      = errors.New("workspace: a saved list with that name already exists")
	ErrListNotFound    = errors.New("workspace: saved list not found")
	ErrEmptyName       = errors.New("workspace: list name must not be empty")
)

// state is the single persisted record.
type state struct {
	Version    int                `json:"version"`
	Listings   []domain.Listing   `json:"listings"`
	SavedLists []domain.SavedList `json:"saved_lists"`
	ActiveList string             `json:"active_list,omitempty"`
}

// Workspace is the single-writer session over the persisted state. Methods
// are safe under the session's goroutine; callers needing concurrent access
// serialize externally, matching the one-session-per-store model.
type Workspace struct {
	gw  gateway.Gateway
	log *slog.Logger

	now func() time.Time

	st state
}

// Open loads the persisted workspace state, starting empty when no record
// exists yet.
func Open(ctx context.Context, gw gateway.Gateway, log *slog.Logger) (*Workspace, error) {
	w := &Workspace{
		gw:  gw,
		log: log,
		now: time.Now,
		st:  state{Version: stateVersion},
	}

	data, err := gw.Get(ctx, gateway.KeyWorkspace)
	if errors.Is(err, gateway.ErrNotFound) {
		w.log.Debug("no workspace state found, starting empty")
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading workspace state: %w", err)
	}

	if err := json.Unmarshal(data, &w.st); err != nil {
		return nil, fmt.Errorf("decoding workspace state: %w", err)
	}
	for i := range w.st.Listings {
		w.st.Listings[i].Normalize()
	}
	for i := range w.st.SavedLists {
		for j := range w.st.SavedLists[i].Listings {
			w.st.SavedLists[i].Listings[j].Normalize()
		}
	}
	w.log.Debug("workspace state loaded",
		"listings", len(w.st.Listings), "saved_lists", len(w.st.SavedLists))
	return w, nil
}

// commit persists next and, only on success, makes it the live state.
func (w *Workspace) commit(ctx context.Context, next state) error {
	next.Version = stateVersion
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding workspace state: %w", err)
	}
	if err := w.gw.Set(ctx, gateway.KeyWorkspace, data); err != nil {
		return fmt.Errorf("persisting workspace state: %w", err)
	}
	metrics.WorkspacePersistsTotal.Inc()
	w.st = next
	return nil
}

// clone deep-copies the live state so a mutation can be staged without
// touching what callers may already hold.
func (w *Workspace) clone() state {
	next := state{
		Version:    w.st.Version,
		Listings:   slices.Clone(w.st.Listings),
		ActiveList: w.st.ActiveList,
		SavedLists: make([]domain.SavedList, len(w.st.SavedLists)),
	}
	for i, sl := range w.st.SavedLists {
		next.SavedLists[i] = domain.SavedList{
			Name:     sl.Name,
			Listings: slices.Clone(sl.Listings),
		}
	}
	return next
}

// Listings returns a copy of the active listings in insertion order.
func (w *Workspace) Listings() []domain.Listing {
	return slices.Clone(w.st.Listings)
}

// ActiveList returns the name of the loaded saved list, empty when the
// active set is unsaved.
func (w *Workspace) ActiveList() string {
	return w.st.ActiveList
}

// Add appends a listing to the active set and returns it with its assigned
// identity and timestamps.
func (w *Workspace) Add(ctx context.Context, l domain.Listing) (domain.Listing, error) {
	l.Normalize()
	l.ID = uuid.New().String()
	l.CreatedAt = w.now().UTC()
	l.UpdatedAt = l.CreatedAt

	next := w.clone()
	next.Listings = append(next.Listings, l)
	if err := w.commit(ctx, next); err != nil {
		return domain.Listing{}, err
	}
	w.log.Debug("listing added", "id", l.ID, "vehicle", l.Label())
	return l, nil
}

// UpdateAt replaces the listing at index with l, preserving its identity,
// creation time, and pin state.
func (w *Workspace) UpdateAt(ctx context.Context, index int, l domain.Listing) (domain.Listing, error) {
	if index < 0 || index >= len(w.st.Listings) {
		return domain.Listing{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	prev := w.st.Listings[index]
	l.Normalize()
	l.ID = prev.ID
	l.Pinned = prev.Pinned
	l.CreatedAt = prev.CreatedAt
	l.UpdatedAt = w.now().UTC()

	next := w.clone()
	next.Listings[index] = l
	if err := w.commit(ctx, next); err != nil {
		return domain.Listing{}, err
	}
	return l, nil
}

// DeleteMany removes the listings at the given indices in one atomic
// operation. Duplicate indices are tolerated; any out-of-range index fails
// the whole call before anything is removed. Remaining listings keep their
// relative order.
func (w *Workspace) DeleteMany(ctx context.Context, indices []int) error {
	if len(indices) == 0 {
		return nil
	}

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(w.st.Listings) {
			return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
		}
		drop[i] = struct{}{}
	}

	next := w.clone()
	kept := next.Listings[:0]
	for i, l := range next.Listings {
		if _, gone := drop[i]; !gone {
			kept = append(kept, l)
		}
	}
	next.Listings = kept
	if err := w.commit(ctx, next); err != nil {
		return err
	}
	w.log.Debug("listings deleted", "count", len(drop))
	return nil
}

// TogglePin flips the pinned flag of the listing at index and returns the
// new value.
func (w *Workspace) TogglePin(ctx context.Context, index int) (bool, error) {
	if index < 0 || index >= len(w.st.Listings) {
		return false, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	next := w.clone()
	next.Listings[index].Pinned = !next.Listings[index].Pinned
	next.Listings[index].UpdatedAt = w.now().UTC()
	if err := w.commit(ctx, next); err != nil {
		return false, err
	}
	return w.st.Listings[index].Pinned, nil
}

// Clear empties the active set. Saved lists are untouched and the active
// list name is reset.
func (w *Workspace) Clear(ctx context.Context) error {
	next := w.clone()
	next.Listings = nil
	next.ActiveList = ""
	return w.commit(ctx, next)
}

// SavedLists returns a copy of every saved list in stored order.
func (w *Workspace) SavedLists() []domain.SavedList {
	out := make([]domain.SavedList, len(w.st.SavedLists))
	for i, sl := range w.st.SavedLists {
		out[i] = domain.SavedList{Name: sl.Name, Listings: slices.Clone(sl.Listings)}
	}
	return out
}

// SaveAs snapshots the active set under name. Without replace a name
// collision fails with ErrNameExists; with replace the existing entry is
// overwritten in place, keeping its position.
func (w *Workspace) SaveAs(ctx context.Context, name string, replace bool) error {
	if name == "" {
		return ErrEmptyName
	}

	next := w.clone()
	snapshot := domain.SavedList{Name: name, Listings: slices.Clone(next.Listings)}

	at := slices.IndexFunc(next.SavedLists, func(sl domain.SavedList) bool {
		return sl.Name == name
	})
	switch {
	case at >= 0 && !replace:
		return fmt.Errorf("%w: %q", ErrNameExists, name)
	case at >= 0:
		next.SavedLists[at] = snapshot
	default:
		next.SavedLists = append(next.SavedLists, snapshot)
	}

	next.ActiveList = name
	if err := w.commit(ctx, next); err != nil {
		return err
	}
	w.log.Debug("list saved", "name", name, "listings", len(snapshot.Listings), "replaced", at >= 0)
	return nil
}

// Load replaces the active set with a copy of the named saved list.
func (w *Workspace) Load(ctx context.Context, name string) error {
	at := slices.IndexFunc(w.st.SavedLists, func(sl domain.SavedList) bool {
		return sl.Name == name
	})
	if at < 0 {
		return fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	next := w.clone()
	next.Listings = slices.Clone(next.SavedLists[at].Listings)
	next.ActiveList = name
	return w.commit(ctx, next)
}

// DeleteList removes the named saved list. The active set is untouched,
// but the active-name marker is cleared when it pointed at the deleted
// list.
func (w *Workspace) DeleteList(ctx context.Context, name string) error {
	at := slices.IndexFunc(w.st.SavedLists, func(sl domain.SavedList) bool {
		return sl.Name == name
	})
	if at < 0 {
		return fmt.Errorf("%w: %q", ErrListNotFound, name)
	}

	next := w.clone()
	next.SavedLists = slices.Delete(next.SavedLists, at, at+1)
	if next.ActiveList == name {
		next.ActiveList = ""
	}
	return w.commit(ctx, next)
}

// Export renders every saved list in interchange form.
func (w *Workspace) Export() ([]byte, error) {
	return codec.Encode(w.st.SavedLists)
}

// Import merges the lists decoded from data into the saved collection.
// The whole payload is validated before any state changes; name collisions
// are resolved by renaming the incoming list, never by overwriting. It
// returns the names the lists were stored under.
func (w *Workspace) Import(ctx context.Context, data []byte) ([]string, error) {
	lists, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	next := w.clone()
	exists := func(name string) bool {
		return slices.ContainsFunc(next.SavedLists, func(sl domain.SavedList) bool {
			return sl.Name == name
		})
	}

	names := make([]string, 0, len(lists))
	for _, sl := range lists {
		sl.Name = codec.UniqueName(sl.Name, exists)
		next.SavedLists = append(next.SavedLists, sl)
		names = append(names, sl.Name)
	}

	if err := w.commit(ctx, next); err != nil {
		return nil, err
	}
	w.log.Info("lists imported", "count", len(names))
	return names, nil
}
