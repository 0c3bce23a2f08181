package test_utils

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/equilibrium-app/equilibrium/pkg/user"
)

// CreateTestUser inserts a user row and returns its id. Repository tests need
// a real row because domain tables reference users with foreign keys.
func CreateTestUser(ctx context.Context, db *pgxpool.Pool, username string) (int, error) {
	var id int
	err := db.QueryRow(ctx,
		`INSERT INTO users (uid, username, display_name) VALUES ($1, $2, $3) RETURNING id`,
		"uid-"+username, username, "Test User").Scan(&id)
	return id, err
}

// WithTestUser returns a context carrying the given user id, the way the HTTP
// middleware does for real requests.
func WithTestUser(ctx context.Context, id int, username string) context.Context {
	return user.WithUser(ctx, user.User{Id: id, Username: username})
}
