package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, userId int, user User) (User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

func (u *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, display_name, timezone, currency)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := u.db.QueryRow(ctx, query,
		user.Uid,
		user.Username,
		user.DisplayName,
		user.Settings.Timezone,
		user.Settings.Currency,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (u *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	query := `SELECT id, uid, username, display_name, timezone, currency FROM users WHERE id = $1`
	return u.scanUser(u.db.QueryRow(ctx, query, id))
}

func (u *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT id, uid, username, display_name, timezone, currency FROM users WHERE uid = $1`
	return u.scanUser(u.db.QueryRow(ctx, query, uid))
}

func (u *UserRepoImpl) scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.Id,
		&user.Uid,
		&user.Username,
		&user.DisplayName,
		&user.Settings.Timezone,
		&user.Settings.Currency,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return user, nil
}

func (u *UserRepoImpl) UpdateUser(ctx context.Context, userId int, user User) (User, error) {
	query := `UPDATE users SET display_name = $1, timezone = $2, currency = $3 WHERE id = $4`
	tag, err := u.db.Exec(ctx, query,
		user.DisplayName,
		user.Settings.Timezone,
		user.Settings.Currency,
		userId,
	)
	if err != nil {
		log.Errorf("failed to update user: %v", err)
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrUserNotFound
	}
	return u.GetUser(ctx, userId)
}

func (u *UserRepoImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	var exists bool
	if err := u.db.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		log.Errorf("failed to check username availability: %v", err)
		return false, err
	}
	return !exists, nil
}
