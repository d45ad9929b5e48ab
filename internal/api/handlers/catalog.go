package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/pkg/catalog"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
)

// CatalogHandler serves make/model suggestions and fuel-economy lookups.
type CatalogHandler struct {
	data *fueleconomy.Dataset
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(data *fueleconomy.Dataset) *CatalogHandler {
	return &CatalogHandler{data: data}
}

// --- Input/Output types ---

// MakesOutput is the response carrying a list of makes.
type MakesOutput struct {
	Body struct {
		Makes []string `json:"makes"`
	}
}

// ModelsInput is the input for model suggestions.
type ModelsInput struct {
	Make string `path:"make" doc:"Manufacturer name"`
}

// ModelsOutput is the response carrying a list of models.
type ModelsOutput struct {
	Body struct {
		Models []string `json:"models"`
	}
}

// FuelYearsOutput is the response carrying dataset years.
type FuelYearsOutput struct {
	Body struct {
		Years []int `json:"years"`
	}
}

// FuelMakesInput is the input for dataset makes.
type FuelMakesInput struct {
	Year int `query:"year" doc:"Model year" required:"true"`
}

// FuelModelsInput is the input for dataset models.
type FuelModelsInput struct {
	Year int    `query:"year" doc:"Model year"        required:"true"`
	Make string `query:"make" doc:"Manufacturer name" required:"true"`
}

// FuelLookupInput is the input for a fuel-economy lookup.
type FuelLookupInput struct {
	Year  int    `query:"year"  doc:"Model year"        required:"true"`
	Make  string `query:"make"  doc:"Manufacturer name" required:"true"`
	Model string `query:"model" doc:"Model name"        required:"true"`
}

// FuelLookupOutput is the response for a fuel-economy lookup.
type FuelLookupOutput struct {
	Body struct {
		Type                   string `json:"type,omitempty"`
		CombinedMPG            int    `json:"combined_mpg"`
		EstimatedLifetimeMiles int    `json:"estimated_lifetime_miles,omitempty"`
	}
}

// --- Handlers ---

// CatalogMakes returns the static make suggestions.
func (*CatalogHandler) CatalogMakes(
	_ context.Context,
	_ *struct{},
) (*MakesOutput, error) {
	resp := &MakesOutput{}
	resp.Body.Makes = catalog.Makes()
	return resp, nil
}

// CatalogModels returns model suggestions for a make. Unknown makes get an
// empty list, not an error; free-text entry is always allowed.
func (*CatalogHandler) CatalogModels(
	_ context.Context,
	input *ModelsInput,
) (*ModelsOutput, error) {
	resp := &ModelsOutput{}
	resp.Body.Models = catalog.ModelsFor(input.Make)
	return resp, nil
}

// FuelYears returns the years covered by the fuel-economy dataset.
func (h *CatalogHandler) FuelYears(
	_ context.Context,
	_ *struct{},
) (*FuelYearsOutput, error) {
	resp := &FuelYearsOutput{}
	resp.Body.Years = h.data.Years()
	return resp, nil
}

// FuelMakes returns the makes covered for a year.
func (h *CatalogHandler) FuelMakes(
	_ context.Context,
	input *FuelMakesInput,
) (*MakesOutput, error) {
	resp := &MakesOutput{}
	resp.Body.Makes = h.data.Makes(input.Year)
	return resp, nil
}

// FuelModels returns the models covered for a year and make.
func (h *CatalogHandler) FuelModels(
	_ context.Context,
	input *FuelModelsInput,
) (*ModelsOutput, error) {
	resp := &ModelsOutput{}
	resp.Body.Models = h.data.Models(input.Year, input.Make)
	return resp, nil
}

// FuelLookup returns the fuel-economy record for one vehicle.
func (h *CatalogHandler) FuelLookup(
	_ context.Context,
	input *FuelLookupInput,
) (*FuelLookupOutput, error) {
	m := h.data.Lookup(input.Year, input.Make, input.Model)
	if m == nil {
		return nil, huma.Error404NotFound("no fuel economy data for that vehicle")
	}

	resp := &FuelLookupOutput{}
	resp.Body.Type = m.Type
	resp.Body.CombinedMPG = m.CombinedMPG()
	resp.Body.EstimatedLifetimeMiles = m.EstimatedLifetimeMiles
	return resp, nil
}

// RegisterCatalogRoutes registers catalog and fuel-economy endpoints with
// the Huma API.
func RegisterCatalogRoutes(api huma.API, h *CatalogHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "catalog-makes",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/makes",
		Summary:     "List known makes",
		Description: "Returns the static make suggestions for form autofill.",
		Tags:        []string{"catalog"},
	}, h.CatalogMakes)

	huma.Register(api, huma.Operation{
		OperationID: "catalog-models",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/makes/{make}/models",
		Summary:     "List known models for a make",
		Description: "Returns model suggestions for a make; unknown makes get an empty list.",
		Tags:        []string{"catalog"},
	}, h.CatalogModels)

	huma.Register(api, huma.Operation{
		OperationID: "fueleconomy-years",
		Method:      http.MethodGet,
		Path:        "/api/v1/fueleconomy/years",
		Summary:     "List dataset years",
		Description: "Returns the years covered by the fuel-economy dataset.",
		Tags:        []string{"fueleconomy"},
	}, h.FuelYears)

	huma.Register(api, huma.Operation{
		OperationID: "fueleconomy-makes",
		Method:      http.MethodGet,
		Path:        "/api/v1/fueleconomy/makes",
		Summary:     "List dataset makes for a year",
		Description: "Returns the makes the dataset covers for a year.",
		Tags:        []string{"fueleconomy"},
	}, h.FuelMakes)

	huma.Register(api, huma.Operation{
		OperationID: "fueleconomy-models",
		Method:      http.MethodGet,
		Path:        "/api/v1/fueleconomy/models",
		Summary:     "List dataset models for a year and make",
		Description: "Returns the models the dataset covers for a year and make.",
		Tags:        []string{"fueleconomy"},
	}, h.FuelModels)

	huma.Register(api, huma.Operation{
		OperationID: "fueleconomy-lookup",
		Method:      http.MethodGet,
		Path:        "/api/v1/fueleconomy/lookup",
		Summary:     "Look up one vehicle",
		Description: "Returns the fuel-economy record for a year, make, and model.",
		Tags:        []string{"fueleconomy"},
		Errors:      []int{http.StatusNotFound},
	}, h.FuelLookup)
}
