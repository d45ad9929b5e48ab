package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mshelton/car-value-tracker/pkg/types"
)

func ptr[T any](v T) *T { return &v }

func TestCarQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         CarQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string // substrings that must appear in dataSQL
		wantDataNotIn []string // substrings that must NOT appear
	}{
		{
			name:  "empty query uses defaults",
			query: CarQuery{},
			wantDataHas: []string{
				"FROM cars",
				"ORDER BY created_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM cars",
			wantArgs:      nil,
		},
		{
			name: "make substring filter",
			query: CarQuery{
				MakeContains: ptr("toy"),
			},
			wantDataHas:  []string{"WHERE make ILIKE $1"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE make ILIKE $1",
			wantArgs:     []any{"%toy%"},
		},
		{
			name: "model substring filter",
			query: CarQuery{
				ModelContains: ptr("cam"),
			},
			wantDataHas:  []string{"WHERE model ILIKE $1"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE model ILIKE $1",
			wantArgs:     []any{"%cam%"},
		},
		{
			name: "price range",
			query: CarQuery{
				PriceMin: ptr(5000.0),
				PriceMax: ptr(25000.0),
			},
			wantDataHas:  []string{"WHERE price >= $1 AND price <= $2"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE price >= $1 AND price <= $2",
			wantArgs:     []any{5000.0, 25000.0},
		},
		{
			name: "mileage and year ranges",
			query: CarQuery{
				MileageMax: ptr(100000),
				YearMin:    ptr(2015),
			},
			wantDataHas:  []string{"WHERE mileage <= $1 AND year >= $2"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE mileage <= $1 AND year >= $2",
			wantArgs:     []any{100000, 2015},
		},
		{
			name: "condition set",
			query: CarQuery{
				Conditions: []domain.Condition{domain.ConditionGood, domain.ConditionExcellent},
			},
			wantDataHas:  []string{"COALESCE(condition, 'good') IN ($1, $2)"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE COALESCE(condition, 'good') IN ($1, $2)",
			wantArgs:     []any{"good", "excellent"},
		},
		{
			name: "pinned filter",
			query: CarQuery{
				Pinned: ptr(true),
			},
			wantDataHas:  []string{"WHERE pinned = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE pinned = $1",
			wantArgs:     []any{true},
		},
		{
			name: "combined filters number parameters sequentially",
			query: CarQuery{
				MakeContains: ptr("honda"),
				PriceMax:     ptr(20000.0),
				Pinned:       ptr(false),
			},
			wantDataHas: []string{
				"WHERE make ILIKE $1 AND price <= $2 AND pinned = $3",
			},
			wantCountSQL: "SELECT COUNT(*) FROM cars WHERE make ILIKE $1 AND price <= $2 AND pinned = $3",
			wantArgs:     []any{"%honda%", 20000.0, false},
		},
		{
			name: "order by price",
			query: CarQuery{
				OrderBy: "price",
			},
			wantDataHas:  []string{"ORDER BY price ASC"},
			wantCountSQL: "SELECT COUNT(*) FROM cars",
			wantArgs:     nil,
		},
		{
			name: "unknown order by falls back to default",
			query: CarQuery{
				OrderBy: "price; DROP TABLE cars",
			},
			wantDataHas:  []string{"ORDER BY created_at DESC"},
			wantCountSQL: "SELECT COUNT(*) FROM cars",
			wantArgs:     nil,
		},
		{
			name: "limit capped at maximum",
			query: CarQuery{
				Limit: 10000,
			},
			wantDataHas:  []string{"LIMIT 500"},
			wantCountSQL: "SELECT COUNT(*) FROM cars",
			wantArgs:     nil,
		},
		{
			name: "negative offset clamped to zero",
			query: CarQuery{
				Limit:  10,
				Offset: -5,
			},
			wantDataHas:  []string{"LIMIT 10", "OFFSET 0"},
			wantCountSQL: "SELECT COUNT(*) FROM cars",
			wantArgs:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, sub := range tt.wantDataHas {
				assert.Contains(t, dataSQL, sub)
			}
			for _, sub := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, sub)
			}
			require.Equal(t, tt.wantCountSQL, countSQL)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCarQuery_EffectiveLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, (&CarQuery{}).EffectiveLimit())
	assert.Equal(t, 50, (&CarQuery{Limit: -1}).EffectiveLimit())
	assert.Equal(t, 10, (&CarQuery{Limit: 10}).EffectiveLimit())
	assert.Equal(t, 500, (&CarQuery{Limit: 9999}).EffectiveLimit())
}
