package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gigboard/marketplace/internal/core/domain"
	"github.com/gigboard/marketplace/internal/core/ports"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// SessionService issues signed session tokens and resolves them back to the
// acting user. The token carries the user id as its subject and a random
// session id that must still be present in the session store.
type SessionService struct {
	users    ports.UserRepository
	store    ports.StoreHealth
	sessions ports.SessionStore
	secret   []byte
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewSessionService(
	users ports.UserRepository,
	store ports.StoreHealth,
	sessions ports.SessionStore,
	secret string,
	ttl time.Duration,
	logger zerolog.Logger,
) *SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionService{
		users:    users,
		store:    store,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
	}
}

// TTL is how long a session stays valid after Start.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Start opens a session for user and returns its token.
func (s *SessionService) Start(ctx context.Context, user *domain.User) (string, error) {
	sessionID := uuid.NewString()
	if err := s.sessions.Set(ctx, sessionID, user.ID, s.ttl); err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Resolve returns the user behind token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.parse(token, true)
	if err != nil {
		return nil, domain.ErrSessionExpired
	}

	userID, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.Subject {
		s.clear(ctx, claims.ID)
		return nil, domain.ErrSessionExpired
	}

	if err := s.store.Ready(); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("user_id", userID).Msg("session user no longer exists, clearing session")
			s.clear(ctx, claims.ID)
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return user, nil
}

// End clears the session behind token. Tokens that cannot be parsed have
// nothing to clear.
func (s *SessionService) End(ctx context.Context, token string) error {
	claims, err := s.parse(token, false)
	if err != nil {
		return nil
	}
	return s.sessions.Clear(ctx, claims.ID)
}

func (s *SessionService) parse(token string, validateClaims bool) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if !validateClaims {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return nil, errors.Join(domain.ErrSessionExpired, err)
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, domain.ErrSessionExpired
	}
	return claims, nil
}

func (s *SessionService) clear(ctx context.Context, sessionID string) {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear session")
	}
}
