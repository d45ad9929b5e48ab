package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByPrice     = "price"
	orderByMileage   = "mileage"
	orderByYear      = "year"
	orderByCreatedAt = "created_at"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByPrice:     "price ASC",
	orderByMileage:   "mileage ASC",
	orderByYear:      "year DESC",
	orderByCreatedAt: "created_at DESC",
}

const defaultOrderBy = "created_at DESC"

const baseCarsSelect = `SELECT id, make, model, year, price, mileage,
	COALESCE(condition, 'good'), COALESCE(url, ''), pinned,
	created_at, updated_at
FROM cars`

const countCarsSelect = "SELECT COUNT(*) FROM cars"

// EffectiveLimit resolves the limit actually applied to the query: the
// default when unset, clamped to the maximum otherwise. Handlers echo this
// value in pagination metadata.
func (q *CarQuery) EffectiveLimit() int {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for a car query.
// It returns two SQL strings (one for the data query, one for the count query)
// and the positional parameters.
func (q *CarQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.MakeContains != nil {
		conditions = append(conditions, fmt.Sprintf("make ILIKE $%d", paramIdx))
		args = append(args, "%"+*q.MakeContains+"%")
		paramIdx++
	}

	if q.ModelContains != nil {
		conditions = append(conditions, fmt.Sprintf("model ILIKE $%d", paramIdx))
		args = append(args, "%"+*q.ModelContains+"%")
		paramIdx++
	}

	if q.PriceMin != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", paramIdx))
		args = append(args, *q.PriceMin)
		paramIdx++
	}

	if q.PriceMax != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", paramIdx))
		args = append(args, *q.PriceMax)
		paramIdx++
	}

	if q.MileageMin != nil {
		conditions = append(conditions, fmt.Sprintf("mileage >= $%d", paramIdx))
		args = append(args, *q.MileageMin)
		paramIdx++
	}

	if q.MileageMax != nil {
		conditions = append(conditions, fmt.Sprintf("mileage <= $%d", paramIdx))
		args = append(args, *q.MileageMax)
		paramIdx++
	}

	if q.YearMin != nil {
		conditions = append(conditions, fmt.Sprintf("year >= $%d", paramIdx))
		args = append(args, *q.YearMin)
		paramIdx++
	}

	if q.YearMax != nil {
		conditions = append(conditions, fmt.Sprintf("year <= $%d", paramIdx))
		args = append(args, *q.YearMax)
		paramIdx++
	}

	if len(q.Conditions) > 0 {
		placeholders := make([]string, len(q.Conditions))
		for i, c := range q.Conditions {
			placeholders[i] = fmt.Sprintf("$%d", paramIdx)
			args = append(args, string(c))
			paramIdx++
		}
		conditions = append(conditions, fmt.Sprintf(
			"COALESCE(condition, 'good') IN (%s)", strings.Join(placeholders, ", "),
		))
	}

	if q.Pinned != nil {
		conditions = append(conditions, fmt.Sprintf("pinned = $%d", paramIdx))
		args = append(args, *q.Pinned)
		paramIdx++
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	// Order by
	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.EffectiveLimit()
	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseCarsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countCarsSelect + whereClause

	return dataSQL, countSQL, args
}
