package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Car queries.
const (
	queryCreateCar = `
		INSERT INTO cars (
			make, model, year, price, mileage,
			condition, url, pinned, created_at, updated_at
		) VALUES (
			@make, @model, @year, @price, @mileage,
			@condition, @url, @pinned, now(), now()
		)
		RETURNING id, created_at, updated_at`

	queryGetCar = `
		SELECT id, make, model, year, price, mileage,
			COALESCE(condition, 'good'), COALESCE(url, ''), pinned,
			created_at, updated_at
		FROM cars
		WHERE id = $1`

	queryUpdateCar = `
		UPDATE cars SET
			make       = @make,
			model      = @model,
			year       = @year,
			price      = @price,
			mileage    = @mileage,
			condition  = @condition,
			url        = @url,
			pinned     = @pinned,
			updated_at = now()
		WHERE id = @id
		RETURNING updated_at`

	queryDeleteCar = `DELETE FROM cars WHERE id = $1`

	queryDeleteCars = `DELETE FROM cars WHERE id = ANY($1)`

	querySetPinned = `
		UPDATE cars SET
			pinned     = $2,
			updated_at = now()
		WHERE id = $1
		RETURNING id, make, model, year, price, mileage,
			COALESCE(condition, 'good'), COALESCE(url, ''), pinned,
			created_at, updated_at`
)

// Saved list queries.
const (
	queryUpsertSavedList = `
		INSERT INTO saved_lists (name, listings, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		ON CONFLICT (name) DO UPDATE SET
			listings   = EXCLUDED.listings,
			updated_at = now()`

	queryGetSavedList = `
		SELECT name, listings
		FROM saved_lists
		WHERE name = $1`

	queryListSavedLists = `
		SELECT name, listings
		FROM saved_lists
		ORDER BY created_at`

	queryDeleteSavedList = `DELETE FROM saved_lists WHERE name = $1`
)

// User and session queries.
const (
	queryCreateUser = `
		INSERT INTO users (email, password_hash, created_at)
		VALUES ($1, $2, now())
		RETURNING id, created_at`

	queryGetUserByEmail = `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = $1`

	queryCreateSession = `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, now())`

	queryGetSession = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1`

	queryDeleteSession = `DELETE FROM sessions WHERE token = $1`

	queryDeleteExpiredSessions = `DELETE FROM sessions WHERE expires_at < now()`
)
