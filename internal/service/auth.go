package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Codec
	Events events.Publisher
}

type AuthResult struct {
	Token string
	User  models.PublicUser
}

type registerInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in := registerInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: email %s", ErrConflict, in.Email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(&user)
	if err != nil {
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	s.publish(ctx, user.ID, events.UserEvent{
		Type:   events.TypeUserRegistered,
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		At:     time.Now().UTC(),
	})
	return res, nil
}

// Login reports ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	in := loginInput{Email: strings.TrimSpace(req.Email), Password: req.Password}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, in.Password) {
		l.Warn("login_failed", "reason", "password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID, events.UserEvent{
		Type:   events.TypeUserLoggedIn,
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		At:     time.Now().UTC(),
	})
	return res, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	pub := user.Public()
	return &pub, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	tok, err := s.Tokens.Mint(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}
	return &AuthResult{Token: tok, User: user.Public()}, nil
}

func (s *AuthService) publish(ctx context.Context, key string, ev events.UserEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicUsers, key, ev); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", events.TopicUsers, "type", ev.Type, "error", err)
	}
}
