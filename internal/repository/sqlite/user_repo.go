package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type UserRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO users (id, email, name, password_hash, preferences, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, string(prefs), formatTime(u.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrEmailExists
		}
		r.logger.Error("Failed to insert user", zap.Error(err))
		return err
	}
	r.logger.Info("User created", zap.String("user_id", u.ID))
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx, `
        SELECT id, email, name, password_hash, preferences, created_at
        FROM users WHERE email = ?
    `, email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.scanOne(ctx, `
        SELECT id, email, name, password_hash, preferences, created_at
        FROM users WHERE id = ?
    `, id)
}

func (r *UserRepository) scanOne(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User
	var prefs, created string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &prefs, &created)
	if err != nil {
		return nil, notFound(err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	u.Preferences = model.DefaultPreferences()
	if prefs != "" {
		if err := json.Unmarshal([]byte(prefs), &u.Preferences); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

