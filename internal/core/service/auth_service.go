package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users      ports.UserRepository
	store      ports.StoreHealth
	events     ports.ActivitySink
	logger     zerolog.Logger
	bcryptCost int
}

func NewAuthService(users ports.UserRepository, store ports.StoreHealth, events ports.ActivitySink, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		store:      store,
		events:     sinkOrDiscard(events),
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register creates an account. Emails are unique across all users.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.User, error) {
	user, err := domain.NewUser(reg, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Ready(); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, user.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	s.events.Emit(domain.ActivityEvent{
		Type:        domain.ActivityUserRegistered,
		AggregateID: user.ID,
		ActorID:     user.ID,
		OccurredAt:  user.JoinedAt,
		Attributes:  map[string]string{"role": user.Role},
	})
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := s.store.Ready(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}
