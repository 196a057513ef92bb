package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Deek-011/formbot/internal/common/db"
	"github.com/Deek-011/formbot/internal/user/domain"
)

var (
	ErrUserNotFound       = fmt.Errorf("user: %w", db.ErrNoRecord)
	ErrEmailAlreadyExists = fmt.Errorf("user email: %w", db.ErrDuplicate)
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

const usersTable = "users"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", usersTable, start)
		return ErrEmailAlreadyExists
	}
	return db.HandleExecError(err, "create user", usersTable, start)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`,
		email,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err = db.HandleQueryError(err, ErrUserNotFound, "find user by email", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if !db.IsUUID(string(id)) {
		return domain.User{}, ErrUserNotFound
	}

	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, username, email, password_hash, created_at, updated_at
		 FROM users WHERE id = $1`,
		string(id),
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err = db.HandleQueryError(err, ErrUserNotFound, "find user by id", usersTable, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) Update(ctx context.Context, user domain.User) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE users
		 SET username = $2, email = $3, password_hash = $4, updated_at = $5
		 WHERE id = $1`,
		string(user.ID),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("update user", usersTable, start)
		return ErrEmailAlreadyExists
	}
	if err := db.HandleExecError(err, "update user", usersTable, start); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
