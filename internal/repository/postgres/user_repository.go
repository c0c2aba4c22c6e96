package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"user-api/internal/domain"
	"user-api/internal/repository"
)

const (
	createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	uniqueViolation = "23505"

	selectUserColumns = `SELECT id, name, email, phone, created_at, updated_at FROM users`
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns a UserRepository backed by PostgreSQL.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

func (r *userRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user id: %w", err)
	}
	return exists, nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, selectUserColumns+` WHERE id = $1`, id))
}

func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUserColumns+` ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	if user.ID == 0 {
		now := repository.Timestamp()
		row := r.db.QueryRowContext(ctx, `
INSERT INTO users (name, email, phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING id, name, email, phone, created_at, updated_at`,
			user.Name, user.Email, user.Phone, now,
		)
		saved, err := scanUser(row)
		if err != nil {
			return domain.User{}, translate("insert user", err)
		}
		return saved, nil
	}

	row := r.db.QueryRowContext(ctx, `
UPDATE users
SET name = $1, email = $2, phone = $3, updated_at = $4
WHERE id = $5
RETURNING id, name, email, phone, created_at, updated_at`,
		user.Name, user.Email, user.Phone, repository.Touch(user.UpdatedAt), user.ID,
	)
	saved, err := scanUser(row)
	if err != nil {
		return domain.User{}, translate("update user", err)
	}
	return saved, nil
}

func (r *userRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, repository.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

func translate(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, repository.ErrDuplicateEmail)
	}
	return fmt.Errorf("%s: %w", op, err)
}
