package user

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Akshu121796/Personalized-Recommendation-System/config"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultJWTSecret signs tokens when no secret is configured
const DefaultJWTSecret = "change-me-in-production"

// service implements the Service interface
type service struct {
	repo      Repository
	jwtSecret string
	jwtExpiry time.Duration
	logger    *logger.Logger
}

// NewService creates a user service with JWT validation and defaults
func NewService(cfg *config.JWTConfig, repo Repository, log *logger.Logger) (Service, error) {
	secret := JWTSecret(cfg)

	expiry := 24 * time.Hour
	if cfg != nil && cfg.Expiration != "" {
		duration, err := time.ParseDuration(cfg.Expiration)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT expiration '%s': %v", cfg.Expiration, err)
		}
		expiry = duration
	}

	return &service{
		repo:      repo,
		jwtSecret: secret,
		jwtExpiry: expiry,
		logger:    log.WithComponent("user-service"),
	}, nil
}

// JWTSecret returns the configured signing secret or the default
func JWTSecret(cfg *config.JWTConfig) string {
	if cfg == nil || cfg.Secret == "" {
		return DefaultJWTSecret
	}
	return cfg.Secret
}

// Claims represents JWT claims
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NormalizeUsername trims surrounding whitespace and validates the length
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Login returns a session token for username, creating the user on first login
func (s *service) Login(username string) (string, *User, error) {
	username, err := NormalizeUsername(username)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("User login attempt for username: " + username)

	user, err := s.repo.FindByUsername(username)
	if errors.Is(err, ErrUserNotFound) {
		user = &User{
			ID:        uuid.New(),
			Username:  username,
			CreatedAt: time.Now(),
		}
		if err := s.repo.Create(user); err != nil {
			// a concurrent first login may have created the same username
			existing, findErr := s.repo.FindByUsername(username)
			if findErr != nil {
				s.logger.Error("Failed to create user " + username + ": " + err.Error())
				return "", nil, fmt.Errorf("failed to create user: %w", err)
			}
			user = existing
		} else {
			s.logger.Info("User created: " + username + " (ID: " + user.ID.String() + ")")
		}
	} else if err != nil {
		s.logger.Error("Failed to look up user " + username + ": " + err.Error())
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		s.logger.Error("Failed to generate JWT token for " + username + " (ID: " + user.ID.String() + "): " + err.Error())
		return "", nil, err
	}

	s.logger.Info("User logged in successfully: " + username + " (ID: " + user.ID.String() + ")")
	return token, user, nil
}

func (s *service) GetUserByID(id uuid.UUID) (*User, error) {
	return s.repo.FindByID(id)
}

func (s *service) ValidateToken(tokenString string) (*User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.New("invalid user ID in token")
	}

	return s.repo.FindByID(userID)
}

func (s *service) generateToken(user *User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "trendmatrix",
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
