package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mshelton/car-value-tracker/internal/metrics"
	"github.com/mshelton/car-value-tracker/pkg/fueleconomy"
	score "github.com/mshelton/car-value-tracker/pkg/scorer"
)

// ScoreHandler computes value scores. Scoring is pure; the handler only
// adds the configured thresholds and fuel price.
type ScoreHandler struct {
	data       *fueleconomy.Dataset
	thresholds score.Thresholds
	fuelPrice  float64
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(data *fueleconomy.Dataset, t score.Thresholds, fuelPrice float64) *ScoreHandler {
	return &ScoreHandler{data: data, thresholds: t, fuelPrice: fuelPrice}
}

// ScoreInput is the input for computing a value score.
type ScoreInput struct {
	Body struct {
		Make    string  `json:"make"    doc:"Manufacturer name" minLength:"1"`
		Model   string  `json:"model"   doc:"Model name"`
		Year    int     `json:"year"    doc:"Model year"        minimum:"0"`
		Price   float64 `json:"price"   doc:"Asking price in dollars"   minimum:"0"`
		Mileage int     `json:"mileage" doc:"Odometer reading in miles" minimum:"0"`

		// FuelPricePerGallon overrides the server's configured fuel
		// price; zero leaves fuel adjustment to the server default.
		FuelPricePerGallon float64 `json:"fuel_price_per_gallon,omitempty" doc:"Fuel price for cost adjustment" minimum:"0"`
	}
}

// ScoreOutput is the response for computing a value score.
type ScoreOutput struct {
	Body score.Result
}

// Score computes the value score for a hypothetical or stored listing.
func (h *ScoreHandler) Score(
	_ context.Context,
	input *ScoreInput,
) (*ScoreOutput, error) {
	fuelPrice := h.fuelPrice
	if input.Body.FuelPricePerGallon > 0 {
		fuelPrice = input.Body.FuelPricePerGallon
	}

	result := score.Score(score.Input{
		Make:               input.Body.Make,
		Model:              input.Body.Model,
		Year:               input.Body.Year,
		Price:              input.Body.Price,
		Mileage:            input.Body.Mileage,
		FuelPricePerGallon: fuelPrice,
	}, h.data, h.thresholds)

	metrics.ScoringRequestsTotal.Inc()
	if result.Exhausted {
		metrics.ScoringExhaustedTotal.Inc()
	} else {
		metrics.ScoringDistribution.Observe(result.Score)
	}

	return &ScoreOutput{Body: result}, nil
}

// RegisterScoreRoutes registers the scoring endpoint with the Huma API.
func RegisterScoreRoutes(api huma.API, h *ScoreHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "score-car",
		Method:      http.MethodPost,
		Path:        "/api/v1/score",
		Summary:     "Score a car",
		Description: "Computes the heuristic value score for a car without storing it.",
		Tags:        []string{"score"},
	}, h.Score)
}
