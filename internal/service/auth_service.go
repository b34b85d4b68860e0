package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/classroom-backend/internal/config"
	"github.com/stemsi/classroom-backend/internal/model"
	"github.com/stemsi/classroom-backend/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is inactive or deleted")
	ErrNotStaff           = errors.New("account has no console access")
	ErrNoActiveSession    = errors.New("no active session")
	ErrSessionInvalidated = errors.New("session invalidated")
)

// Claims extends JWT standard claims with console fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int        `json:"user_id"`
	ClassID     int        `json:"class_id"`
	Role        model.Role `json:"role"`
	IsSuperuser bool       `json:"is_superuser,omitempty"`
	Permissions []string   `json:"permissions"`
}

// Has reports whether the token grants p.
func (c *Claims) Has(p model.Permission) bool {
	for _, code := range c.Permissions {
		if code == string(p) {
			return true
		}
	}
	return false
}

// AuthService handles console login, JWTs and Redis-backed sessions.
type AuthService struct {
	cfg      *config.Config
	rdb      *redis.Client
	userRepo *repository.UserRepository
	manager  *UserManager
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	rdb *redis.Client,
	userRepo *repository.UserRepository,
	manager *UserManager,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		rdb:      rdb,
		userRepo: userRepo,
		manager:  manager,
		log:      log.With().Str("component", "auth_service").Logger(),
	}
}

// Login authenticates by email and password and opens a console session.
// A new login replaces any previous session of the same user.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.manager.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		if user.IsActive && !user.IsDeleted {
			return nil, ErrNotStaff
		}
		return nil, ErrAccountDisabled
	}

	perms := model.PermissionsFor(user)
	jti := uuid.New().String()
	token, err := s.signToken(user, perms, jti, time.Now())
	if err != nil {
		return nil, err
	}

	// Store session in Redis with same expiry as JWT.
	if err := s.rdb.Set(ctx, config.CacheKey.UserSessionKey(user.ID), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	return &model.LoginResponse{Token: token, User: *user, Permissions: perms}, nil
}

func (s *AuthService) signToken(user *model.User, perms []string, jti string, now time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID:      user.ID,
		ClassID:     user.ClassID,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		Permissions: perms,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks that the token's JTI matches the live session in Redis.
func (s *AuthService) ValidateSession(ctx context.Context, userID int, jti string) error {
	stored, err := s.rdb.Get(ctx, config.CacheKey.UserSessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoActiveSession
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// ResetSession removes a user's session, forcing a fresh login.
func (s *AuthService) ResetSession(ctx context.Context, userID int) error {
	return s.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID)).Err()
}
