package client

import (
	"context"

	score "github.com/mshelton/car-value-tracker/pkg/scorer"
)

// ScoreRequest is the input for a remote score computation.
type ScoreRequest struct {
	Make               string  `json:"make"`
	Model              string  `json:"model,omitempty"`
	Year               int     `json:"year"`
	Price              float64 `json:"price"`
	Mileage            int     `json:"mileage"`
	FuelPricePerGallon float64 `json:"fuel_price_per_gallon,omitempty"`
}

// Score computes the value score for a car without storing it.
func (c *Client) Score(ctx context.Context, req *ScoreRequest) (*score.Result, error) {
	var result score.Result
	if err := c.post(ctx, "/api/v1/score", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
