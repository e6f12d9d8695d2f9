package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/noppadol/classdesk-api/internal/dto"
)

// ErrInvalidCredentials indicates the username/password pair did not match any
// configured teacher account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// TeacherRole is the role claim carried by teacher session tokens.
const TeacherRole = "teacher"

// AuthService manages teacher sessions. Login issues a signed token; Logout
// revokes it so it stops authenticating immediately, regardless of its expiry.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

type authService struct {
	accounts  map[string]string
	secret    string
	tokenTTL  time.Duration
	redis     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewAuthService constructs the auth service. Accounts map usernames to bcrypt
// password hashes. The redis client is optional; without it revocations live in
// process memory only.
func NewAuthService(accounts map[string]string, secret string, tokenTTL time.Duration, redisClient *redis.Client, validate *validator.Validate, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}

	return &authService{
		accounts:  accounts,
		secret:    secret,
		tokenTTL:  tokenTTL,
		redis:     redisClient,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
		revoked:   make(map[string]time.Time),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	hash, ok := s.accounts[payload.Username]
	if !ok {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":  payload.Username,
		"role": TeacherRole,
		"jti":  uuid.NewString(),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info().Str("username", payload.Username).Msg("teacher logged in")

	return dto.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing left to revoke.
		return nil
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, revocationKey(tokenID), "1", ttl).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist token revocation, falling back to process memory")
		} else {
			return nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return false
	}

	if s.redis != nil {
		exists, err := s.redis.Exists(ctx, revocationKey(tokenID)).Result()
		if err == nil {
			return exists > 0
		}
		s.logger.Warn().Err(err).Msg("failed to read token revocation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[tokenID]
	if !ok {
		return false
	}
	if s.now().After(expiresAt) {
		delete(s.revoked, tokenID)
		return false
	}
	return true
}

func revocationKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}
