package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUsername = errors.New("invalid username")
)

// MaxUsernameLength is the longest accepted username, in characters
const MaxUsernameLength = 64

// User represents a user in the system with optimized GORM tags
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null;size:64"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Repository defines the interface for user data access.
// Lookups return ErrUserNotFound when no user matches.
type Repository interface {
	Create(user *User) error
	FindByUsername(username string) (*User, error)
	FindByID(id uuid.UUID) (*User, error)
}

// Service defines the interface for user business logic
type Service interface {
	Login(username string) (string, *User, error)
	GetUserByID(id uuid.UUID) (*User, error)
	ValidateToken(tokenString string) (*User, error)
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
}

// LoginResponse carries the session token and the logged in user
type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// UserResponse represents user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}
