package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO users (id, email, name, password_hash, preferences, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err = r.db.Exec(ctx, query, u.ID, u.Email, u.Name, u.PasswordHash, prefs, u.CreatedAt)
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

// FindByEmail returns user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, email, name, password_hash, preferences, created_at
        FROM users
        WHERE email = $1
    `
	return r.scanOne(ctx, query, email)
}

// FindByID returns user by id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `
        SELECT id, email, name, password_hash, preferences, created_at
        FROM users
        WHERE id = $1
    `
	return r.scanOne(ctx, query, id)
}

func (r *UserRepository) scanOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var u model.User
	var prefs []byte
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &prefs, &u.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	u.Preferences = model.DefaultPreferences()
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
			return nil, err
		}
	}
	return &u, nil
}
