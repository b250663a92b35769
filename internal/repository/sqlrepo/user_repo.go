package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"issue_tracker/internal/domain"
	"issue_tracker/internal/repository"
)

type userRepo struct {
	db *sql.DB
}

// NewUserRepository создаёт репозиторий пользователей поверх database/sql.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepo{db: db}
}

// Create вставляет пользователя. Занятый логин не перезаписывается, а даёт domain.Conflict.
func (r *userRepo) Create(ctx context.Context, u domain.User) error {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (login, name)
        VALUES ($1, $2)
        ON CONFLICT (login) DO NOTHING
    `, u.Login, u.Name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.Conflict("user %s already exists", u.Login)
	}
	return nil
}

// Save создаёт пользователя или обновляет его имя.
func (r *userRepo) Save(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO users (login, name)
        VALUES ($1, $2)
        ON CONFLICT (login) DO UPDATE
        SET name = EXCLUDED.name
    `, u.Login, u.Name)
	return err
}

// GetByLogin возвращает пользователя или domain.ErrNotFound.
func (r *userRepo) GetByLogin(ctx context.Context, login string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx, `
        SELECT login, name
        FROM users
        WHERE login = $1
    `, login).Scan(&u.Login, &u.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.NotFound("user", login)
		}
		return domain.User{}, err
	}
	return u, nil
}

// Exists проверяет, зарегистрирован ли логин.
func (r *userRepo) Exists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM users WHERE login = $1
        )
    `, login).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List возвращает всех пользователей по алфавиту логинов.
func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT login, name
        FROM users
        ORDER BY login
    `)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Login, &u.Name); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}
