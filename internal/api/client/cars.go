package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// CarsResponse wraps a paginated cars response.
type CarsResponse struct {
	Cars   []domain.Listing `json:"cars"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// ListCarsParams defines query parameters for car queries.
type ListCarsParams struct {
	Make       string
	Model      string
	PriceMin   float64
	PriceMax   float64
	MileageMin int
	MileageMax int
	YearMin    int
	YearMax    int
	Condition  string
	Pinned     string // "true", "false", or empty for both
	Limit      int
	Offset     int
	OrderBy    string
}

// ListCars returns cars matching the given parameters.
func (c *Client) ListCars(
	ctx context.Context,
	params *ListCarsParams,
) (*CarsResponse, error) {
	q := url.Values{}
	if params.Make != "" {
		q.Set("make", params.Make)
	}
	if params.Model != "" {
		q.Set("model", params.Model)
	}
	if params.PriceMin > 0 {
		q.Set("price_min", strconv.FormatFloat(params.PriceMin, 'f', -1, 64))
	}
	if params.PriceMax > 0 {
		q.Set("price_max", strconv.FormatFloat(params.PriceMax, 'f', -1, 64))
	}
	if params.MileageMin > 0 {
		q.Set("mileage_min", strconv.Itoa(params.MileageMin))
	}
	if params.MileageMax > 0 {
		q.Set("mileage_max", strconv.Itoa(params.MileageMax))
	}
	if params.YearMin > 0 {
		q.Set("year_min", strconv.Itoa(params.YearMin))
	}
	if params.YearMax > 0 {
		q.Set("year_max", strconv.Itoa(params.YearMax))
	}
	if params.Condition != "" {
		q.Set("condition", params.Condition)
	}
	if params.Pinned != "" {
		q.Set("pinned", params.Pinned)
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}

	path := "/api/v1/cars"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp CarsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCar returns a single car by ID.
func (c *Client) GetCar(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := c.get(ctx, "/api/v1/cars/"+url.PathEscape(id), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateCar adds a new car record.
func (c *Client) CreateCar(ctx context.Context, l *domain.Listing) (*domain.Listing, error) {
	var created domain.Listing
	if err := c.post(ctx, "/api/v1/cars", l, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCar replaces a car record by ID.
func (c *Client) UpdateCar(ctx context.Context, id string, l *domain.Listing) (*domain.Listing, error) {
	var updated domain.Listing
	if err := c.put(ctx, "/api/v1/cars/"+url.PathEscape(id), l, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCar removes a car by ID.
func (c *Client) DeleteCar(ctx context.Context, id string) error {
	return c.del(ctx, "/api/v1/cars/"+url.PathEscape(id), nil)
}

// DeleteCars removes a batch of cars, returning how many were deleted.
func (c *Client) DeleteCars(ctx context.Context, ids []string) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	body := map[string]any{"ids": ids}
	if err := c.post(ctx, "/api/v1/cars/delete", body, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// PinCar sets the pinned flag on a car.
func (c *Client) PinCar(ctx context.Context, id string, pinned bool) (*domain.Listing, error) {
	var l domain.Listing
	body := map[string]any{"pinned": pinned}
	if err := c.post(ctx, fmt.Sprintf("/api/v1/cars/%s/pin", url.PathEscape(id)), body, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
