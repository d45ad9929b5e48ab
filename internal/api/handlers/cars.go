// Package handlers implements HTTP handlers for the car-value-tracker API.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/internal/auth"
	"github.com/mshelton/car-value-tracker/internal/store"
	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

// CarsHandler handles car CRUD operations.
type CarsHandler struct {
	store store.Store
	auth  *auth.Service

	// maxPrice rejects listings priced above it; zero disables the bound.
	maxPrice float64
}

// NewCarsHandler creates a new CarsHandler. A nil auth service disables
// token checks on mutating routes.
func NewCarsHandler(s store.Store, a *auth.Service, maxPrice float64) *CarsHandler {
	return &CarsHandler{store: s, auth: a, maxPrice: maxPrice}
}

// --- Input/Output types ---

// CarPayload is the writable portion of a car record.
type CarPayload struct {
	Make      string  `json:"make"                doc:"Manufacturer name"                     minLength:"1"`
	Model     string  `json:"model"               doc:"Model name"                            minLength:"1"`
	Year      int     `json:"year"                doc:"Model year"                            minimum:"0"`
	Price     float64 `json:"price"               doc:"Asking price in dollars"               minimum:"0"`
	Mileage   int     `json:"mileage"             doc:"Odometer reading in miles"             minimum:"0"`
	Condition string  `json:"condition,omitempty" doc:"Reported condition" enum:"fair,good,excellent,"`
	URL       string  `json:"url,omitempty"       doc:"Listing URL"`
	Pinned    bool    `json:"pinned,omitempty"    doc:"Keep this car visible through filters"`
}

func (p *CarPayload) toListing() domain.Listing {
	l := domain.Listing{
		Make:      p.Make,
		Model:     p.Model,
		Year:      p.Year,
		Price:     p.Price,
		Mileage:   p.Mileage,
		Condition: domain.Condition(p.Condition),
		URL:       p.URL,
		Pinned:    p.Pinned,
	}
	l.Normalize()
	return l
}

// ListCarsInput is the input for listing cars with optional filters.
type ListCarsInput struct {
	Make       string  `query:"make"         doc:"Substring match on make"`
	Model      string  `query:"model"        doc:"Substring match on model"`
	PriceMin   float64 `query:"price_min"    doc:"Minimum price"            minimum:"0"`
	PriceMax   float64 `query:"price_max"    doc:"Maximum price"            minimum:"0"`
	MileageMin int     `query:"mileage_min"  doc:"Minimum mileage"          minimum:"0"`
	MileageMax int     `query:"mileage_max"  doc:"Maximum mileage"          minimum:"0"`
	YearMin    int     `query:"year_min"     doc:"Minimum model year"       minimum:"0"`
	YearMax    int     `query:"year_max"     doc:"Maximum model year"       minimum:"0"`
	Condition  string  `query:"condition"    doc:"Condition filter"         enum:"fair,good,excellent,"`
	Pinned     string  `query:"pinned"       doc:"Filter by pinned flag"    enum:"true,false,"`
	Limit      int     `query:"limit"        doc:"Number of results (default 50)" minimum:"1" maximum:"500"`
	Offset     int     `query:"offset"       doc:"Pagination offset"        minimum:"0"`
	OrderBy    string  `query:"order_by"     doc:"Sort field"               enum:"price,mileage,year,created_at,"`
}

// ListCarsOutput is the response for listing cars.
type ListCarsOutput struct {
	Body struct {
		Cars   []domain.Listing `json:"cars"`
		Total  int              `json:"total"`
		Limit  int              `json:"limit"`
		Offset int              `json:"offset"`
	}
}

// GetCarInput is the input for getting a single car.
type GetCarInput struct {
	ID string `path:"id" doc:"Car UUID"`
}

// GetCarOutput is the response for getting a single car.
type GetCarOutput struct {
	Body domain.Listing
}

// CreateCarInput is the input for creating a car.
type CreateCarInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          CarPayload
}

// CreateCarOutput is the response for creating a car.
type CreateCarOutput struct {
	Body domain.Listing
}

// UpdateCarInput is the input for replacing a car record.
type UpdateCarInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Car UUID"`
	Body          CarPayload
}

// UpdateCarOutput is the response for replacing a car record.
type UpdateCarOutput struct {
	Body domain.Listing
}

// DeleteCarInput is the input for deleting a car.
type DeleteCarInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Car UUID"`
}

// DeleteCarsInput is the input for batch-deleting cars.
type DeleteCarsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          struct {
		IDs []string `json:"ids" doc:"Car UUIDs to delete" minItems:"1"`
	}
}

// DeleteCarsOutput reports how many cars were deleted.
type DeleteCarsOutput struct {
	Body struct {
		Deleted int `json:"deleted"`
	}
}

// PinCarInput is the input for setting a car's pinned flag.
type PinCarInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Car UUID"`
	Body          struct {
		Pinned bool `json:"pinned" doc:"New pinned state"`
	}
}

// PinCarOutput is the response for setting a car's pinned flag.
type PinCarOutput struct {
	Body domain.Listing
}

// --- Handlers ---

// ListCars returns cars with optional filters and pagination.
func (h *CarsHandler) ListCars(
	ctx context.Context,
	input *ListCarsInput,
) (*ListCarsOutput, error) {
	q := &store.CarQuery{
		Offset:  input.Offset,
		OrderBy: input.OrderBy,
	}

	if input.Make != "" {
		q.MakeContains = &input.Make
	}
	if input.Model != "" {
		q.ModelContains = &input.Model
	}
	if input.PriceMin != 0 {
		q.PriceMin = &input.PriceMin
	}
	if input.PriceMax != 0 {
		q.PriceMax = &input.PriceMax
	}
	if input.MileageMin != 0 {
		q.MileageMin = &input.MileageMin
	}
	if input.MileageMax != 0 {
		q.MileageMax = &input.MileageMax
	}
	if input.YearMin != 0 {
		q.YearMin = &input.YearMin
	}
	if input.YearMax != 0 {
		q.YearMax = &input.YearMax
	}
	if input.Condition != "" {
		q.Conditions = []domain.Condition{domain.Condition(input.Condition)}
	}
	if input.Pinned != "" {
		pinned := input.Pinned == "true"
		q.Pinned = &pinned
	}
	if input.Limit != 0 {
		q.Limit = input.Limit
	}

	cars, total, err := h.store.ListCars(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("car query failed: " + err.Error())
	}
	if cars == nil {
		cars = []domain.Listing{}
	}

	resp := &ListCarsOutput{}
	resp.Body.Cars = cars
	resp.Body.Total = total
	resp.Body.Limit = q.EffectiveLimit()
	resp.Body.Offset = q.Offset

	return resp, nil
}

// GetCar returns a single car by ID.
func (h *CarsHandler) GetCar(
	ctx context.Context,
	input *GetCarInput,
) (*GetCarOutput, error) {
	c, err := h.store.GetCar(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("car not found")
		}
		return nil, huma.Error500InternalServerError("fetching car: " + err.Error())
	}
	return &GetCarOutput{Body: *c}, nil
}

// CreateCar adds a new car record.
func (h *CarsHandler) CreateCar(
	ctx context.Context,
	input *CreateCarInput,
) (*CreateCarOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}
	if h.maxPrice > 0 && input.Body.Price > h.maxPrice {
		return nil, huma.Error422UnprocessableEntity("price exceeds the configured maximum")
	}

	c := input.Body.toListing()
	if err := h.store.CreateCar(ctx, &c); err != nil {
		return nil, huma.Error500InternalServerError("creating car: " + err.Error())
	}
	return &CreateCarOutput{Body: c}, nil
}

// UpdateCar replaces a car record, preserving its identity and pin state
// unless the payload sets one.
func (h *CarsHandler) UpdateCar(
	ctx context.Context,
	input *UpdateCarInput,
) (*UpdateCarOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}
	if h.maxPrice > 0 && input.Body.Price > h.maxPrice {
		return nil, huma.Error422UnprocessableEntity("price exceeds the configured maximum")
	}

	prev, err := h.store.GetCar(ctx, input.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("car not found")
		}
		return nil, huma.Error500InternalServerError("fetching car: " + err.Error())
	}

	c := input.Body.toListing()
	c.ID = input.ID
	c.CreatedAt = prev.CreatedAt
	if !input.Body.Pinned {
		c.Pinned = prev.Pinned
	}

	if err := h.store.UpdateCar(ctx, &c); err != nil {
		return nil, huma.Error500InternalServerError("updating car: " + err.Error())
	}
	return &UpdateCarOutput{Body: c}, nil
}

// DeleteCar removes a car by ID.
func (h *CarsHandler) DeleteCar(
	ctx context.Context,
	input *DeleteCarInput,
) (*struct{}, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	if err := h.store.DeleteCar(ctx, input.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("car not found")
		}
		return nil, huma.Error500InternalServerError("deleting car: " + err.Error())
	}
	return &struct{}{}, nil
}

// DeleteCars removes a batch of cars in one operation.
func (h *CarsHandler) DeleteCars(
	ctx context.Context,
	input *DeleteCarsInput,
) (*DeleteCarsOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	deleted, err := h.store.DeleteCars(ctx, input.Body.IDs)
	if err != nil {
		return nil, huma.Error500InternalServerError("deleting cars: " + err.Error())
	}

	resp := &DeleteCarsOutput{}
	resp.Body.Deleted = deleted
	return resp, nil
}

// PinCar sets the pinned flag on a car.
func (h *CarsHandler) PinCar(
	ctx context.Context,
	input *PinCarInput,
) (*PinCarOutput, error) {
	if err := authorize(ctx, h.auth, input.Authorization); err != nil {
		return nil, err
	}

	c, err := h.store.SetPinned(ctx, input.ID, input.Body.Pinned)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, huma.Error404NotFound("car not found")
		}
		return nil, huma.Error500InternalServerError("pinning car: " + err.Error())
	}
	return &PinCarOutput{Body: *c}, nil
}

// RegisterCarRoutes registers car endpoints with the Huma API.
func RegisterCarRoutes(api huma.API, h *CarsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-cars",
		Method:      http.MethodGet,
		Path:        "/api/v1/cars",
		Summary:     "List cars",
		Description: "Returns cars with optional filters and pagination.",
		Tags:        []string{"cars"},
	}, h.ListCars)

	huma.Register(api, huma.Operation{
		OperationID: "get-car",
		Method:      http.MethodGet,
		Path:        "/api/v1/cars/{id}",
		Summary:     "Get a car by ID",
		Description: "Returns a single car by its UUID.",
		Tags:        []string{"cars"},
		Errors:      []int{http.StatusNotFound},
	}, h.GetCar)

	huma.Register(api, huma.Operation{
		OperationID:   "create-car",
		Method:        http.MethodPost,
		Path:          "/api/v1/cars",
		Summary:       "Create a car",
		Description:   "Adds a new car record.",
		Tags:          []string{"cars"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnauthorized, http.StatusUnprocessableEntity},
	}, h.CreateCar)

	huma.Register(api, huma.Operation{
		OperationID: "update-car",
		Method:      http.MethodPut,
		Path:        "/api/v1/cars/{id}",
		Summary:     "Update a car",
		Description: "Replaces a car record by its UUID.",
		Tags:        []string{"cars"},
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, h.UpdateCar)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-car",
		Method:        http.MethodDelete,
		Path:          "/api/v1/cars/{id}",
		Summary:       "Delete a car",
		Description:   "Deletes a car by its UUID.",
		Tags:          []string{"cars"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusUnauthorized, http.StatusNotFound},
	}, h.DeleteCar)

	huma.Register(api, huma.Operation{
		OperationID: "delete-cars",
		Method:      http.MethodPost,
		Path:        "/api/v1/cars/delete",
		Summary:     "Delete multiple cars",
		Description: "Deletes a batch of cars in one operation.",
		Tags:        []string{"cars"},
		Errors:      []int{http.StatusUnauthorized},
	}, h.DeleteCars)

	huma.Register(api, huma.Operation{
		OperationID: "pin-car",
		Method:      http.MethodPost,
		Path:        "/api/v1/cars/{id}/pin",
		Summary:     "Pin or unpin a car",
		Description: "Sets the pinned flag on a car.",
		Tags:        []string{"cars"},
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, h.PinCar)
}
