package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TushantKaura1/ai-micro-motivation/internal/clock"
	"github.com/TushantKaura1/ai-micro-motivation/internal/model"
	"github.com/TushantKaura1/ai-micro-motivation/internal/repository"
	"github.com/TushantKaura1/ai-micro-motivation/pkg/util"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"max=100"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by register and login
type Session struct {
	Token string            `json:"token"`
	User  model.UserProfile `json:"user"`
}

var validate = validator.New()

type Service struct {
	users     repository.UserRepository
	stats     repository.StatsRepository
	jwtSecret string
	tokenTTL  time.Duration
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(users repository.UserRepository, stats repository.StatsRepository, jwtSecret string, tokenTTL time.Duration, c clock.Clock, logger *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = util.DefaultTokenTTL
	}
	if c == nil {
		c = clock.System
	}
	return &Service{
		users:     users,
		stats:     stats,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		clock:     c,
		logger:    logger,
	}
}

// Register creates a new user and signs a token for it.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: email and password are required", model.ErrValidation)
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Preferences:  model.DefaultPreferences(),
		CreatedAt:    s.clock.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return s.session(ctx, u)
}

// Login checks credentials. Unknown email and wrong password both return
// model.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate.Struct(in); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.CheckPassword(in.Password, u.PasswordHash) {
		return nil, model.ErrInvalidCredentials
	}

	return s.session(ctx, u)
}

func (s *Service) session(ctx context.Context, u *model.User) (*Session, error) {
	st, err := s.stats.Get(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	token, err := util.GenerateJWT(u.ID, s.jwtSecret, s.tokenTTL, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Session issued", zap.String("user_id", u.ID))
	return &Session{
		Token: token,
		User: model.UserProfile{
			UserID:      u.ID,
			Email:       u.Email,
			Name:        u.Name,
			Streak:      st.Streak,
			TotalPoints: st.TotalPoints,
		},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
