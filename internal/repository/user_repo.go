package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AyyappaSannidhi/backend/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, userID string) (domain.User, error)
	GetByUserName(ctx context.Context, userName string) (domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `user_id, full_name, user_name, password_hash, email, phone_number, picture, user_type, account_type, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.FullName,
		user.UserName,
		user.PasswordHash,
		user.Email,
		user.PhoneNumber,
		user.Picture,
		string(user.UserType),
		string(user.AccountType),
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, userID string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *PgUserRepository) GetByUserName(ctx context.Context, userName string) (domain.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE user_name = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userName))
}

func (r *PgUserRepository) UpdateProfile(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET full_name = $2, email = $3, phone_number = $4, picture = $5
		WHERE user_id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.Picture,
	)
	return err
}

func (r *PgUserRepository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	var userType, accountType string
	err := row.Scan(
		&u.UserID,
		&u.FullName,
		&u.UserName,
		&u.PasswordHash,
		&u.Email,
		&u.PhoneNumber,
		&u.Picture,
		&userType,
		&accountType,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	u.UserType = domain.UserType(userType)
	u.AccountType = domain.AccountType(accountType)
	return u, err
}
