package repository

import (
	"errors"
	"fmt"

	userPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormUserRepository implements the user.Repository interface with GORM optimizations
type gormUserRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMUserRepository creates a new GORM-based user repository
func NewGORMUserRepository(db *gorm.DB, log *logger.Logger) userPkg.Repository {
	return &gormUserRepository{
		db:     db,
		logger: log.WithComponent("gorm-user-repository"),
	}
}

func (r *gormUserRepository) Create(user *userPkg.User) error {
	if err := r.db.Create(user).Error; err != nil {
		r.logger.Error("Failed to create user " + user.ID.String() + " with username " + user.Username + ": " + err.Error())
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("User created successfully: " + user.ID.String() + " with username " + user.Username)

	return nil
}

func (r *gormUserRepository) FindByUsername(username string) (*userPkg.User, error) {
	var user userPkg.User

	// Served by the unique index on username
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug("User not found by username: " + username)
			return nil, userPkg.ErrUserNotFound
		}

		r.logger.Error("Database error finding user by username " + username + ": " + err.Error())
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

func (r *gormUserRepository) FindByID(id uuid.UUID) (*userPkg.User, error) {
	var user userPkg.User

	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Debug("User not found by ID: " + id.String())
			return nil, userPkg.ErrUserNotFound
		}

		r.logger.Error("Database error finding user by ID " + id.String() + ": " + err.Error())
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}
