// Package codec encodes saved lists to and from their JSON interchange
// form. Decoding validates the whole payload before anything is returned,
// so a bad file never results in a partial import.
package codec

import (
	"encoding/json"
	"fmt"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// listingPayload is the public shape of a listing on the wire. Internal
// bookkeeping (ids, timestamps) never leaves the process. The numeric
// fields are pointers so a decode can tell an absent key from a zero.
type listingPayload struct {
	Make      string   `json:"make"`
	Model     string   `json:"model"`
	Year      *int     `json:"year"`
	Price     *float64 `json:"price"`
	Mileage   *int     `json:"mileage"`
	Condition string   `json:"condition,omitempty"`
	URL       string   `json:"url,omitempty"`
	Pinned    bool     `json:"pinned,omitempty"`
}

type listPayload struct {
	Name     string           `json:"name"`
	Listings []listingPayload `json:"listings"`
}

// Encode renders lists as indented JSON in export form.
func Encode(lists []domain.SavedList) ([]byte, error) {
	out := make([]listPayload, 0, len(lists))
	for _, sl := range lists {
		p := listPayload{
			Name:     sl.Name,
			Listings: make([]listingPayload, 0, len(sl.Listings)),
		}
		for _, l := range sl.Listings {
			p.Listings = append(p.Listings, listingPayload{
				Make:      l.Make,
				Model:     l.Model,
				Year:      &l.Year,
				Price:     &l.Price,
				Mileage:   &l.Mileage,
				Condition: string(l.Condition),
				URL:       l.URL,
				Pinned:    l.Pinned,
			})
		}
		out = append(out, p)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding lists: %w", err)
	}
	return data, nil
}

// Decode parses and validates an export payload. The entire payload is
// checked before any list is returned; the first violation aborts the
// decode with an error naming the offending list and listing.
func Decode(data []byte) ([]domain.SavedList, error) {
	var payload []listPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing import payload: %w", err)
	}

	lists := make([]domain.SavedList, 0, len(payload))
	for i, p := range payload {
		if p.Name == "" {
			return nil, fmt.Errorf("list %d: name must not be empty", i)
		}
		if p.Listings == nil {
			return nil, fmt.Errorf("list %q: missing listings array", p.Name)
		}

		sl := domain.SavedList{
			Name:     p.Name,
			Listings: make([]domain.Listing, 0, len(p.Listings)),
		}
		for j, lp := range p.Listings {
			l, err := toListing(lp)
			if err != nil {
				return nil, fmt.Errorf("list %q, listing %d: %w", p.Name, j, err)
			}
			sl.Listings = append(sl.Listings, l)
		}
		lists = append(lists, sl)
	}
	return lists, nil
}

func toListing(p listingPayload) (domain.Listing, error) {
	switch {
	case p.Make == "":
		return domain.Listing{}, fmt.Errorf("make must not be empty")
	case p.Model == "":
		return domain.Listing{}, fmt.Errorf("model must not be empty")
	case p.Year == nil:
		return domain.Listing{}, fmt.Errorf("missing year")
	case p.Price == nil:
		return domain.Listing{}, fmt.Errorf("missing price")
	case p.Mileage == nil:
		return domain.Listing{}, fmt.Errorf("missing mileage")
	case *p.Year < 0:
		return domain.Listing{}, fmt.Errorf("year must not be negative, got %d", *p.Year)
	case *p.Price < 0:
		return domain.Listing{}, fmt.Errorf("price must not be negative, got %v", *p.Price)
	case *p.Mileage < 0:
		return domain.Listing{}, fmt.Errorf("mileage must not be negative, got %d", *p.Mileage)
	}

	cond := domain.Condition(p.Condition)
	if p.Condition != "" && !cond.IsValid() {
		return domain.Listing{}, fmt.Errorf("unknown condition %q", p.Condition)
	}

	l := domain.Listing{
		Make:      p.Make,
		Model:     p.Model,
		Year:      *p.Year,
		Price:     *p.Price,
		Mileage:   *p.Mileage,
		Condition: cond,
		URL:       p.URL,
		Pinned:    p.Pinned,
	}
	l.Normalize()
	return l, nil
}

// UniqueName returns name unchanged when exists reports it free, otherwise
// the first "name (n)" variant, n starting at 1, that exists does not
// report taken. Imports use it to merge without overwriting.
func UniqueName(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !exists(candidate) {
			return candidate
		}
	}
}
