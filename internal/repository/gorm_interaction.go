package repository

import (
	"fmt"
	"strconv"
	"time"

	interactionPkg "github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormInteractionRepository implements the interaction.Repository interface with GORM
type gormInteractionRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMInteractionRepository creates a new GORM-based interaction repository
func NewGORMInteractionRepository(db *gorm.DB, log *logger.Logger) interactionPkg.Repository {
	return &gormInteractionRepository{
		db:     db,
		logger: log.WithComponent("gorm-interaction-repository"),
	}
}

func (r *gormInteractionRepository) Create(interaction *interactionPkg.Interaction) error {
	if err := r.db.Create(interaction).Error; err != nil {
		r.logger.Error("Failed to create interaction for user " + interaction.UserID.String() + " item " + interaction.ItemID + ": " + err.Error())
		return fmt.Errorf("failed to create interaction: %w", err)
	}
	return nil
}

func (r *gormInteractionRepository) FindItemIDsByUser(userID uuid.UUID, action interactionPkg.Action, limit int) ([]string, error) {
	var itemIDs []string

	// Uses the composite (user_id, created_at DESC) index
	query := r.db.Model(&interactionPkg.Interaction{}).
		Where("user_id = ?", userID)
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("created_at DESC").Pluck("item_id", &itemIDs).Error
	if err != nil {
		r.logger.Error("Database error listing interactions for user " + userID.String() + ": " + err.Error())
		return nil, fmt.Errorf("database error: %w", err)
	}

	return itemIDs, nil
}

func (r *gormInteractionRepository) DeleteViewedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("action = ? AND created_at < ?", interactionPkg.ActionViewed, cutoff).
		Delete(&interactionPkg.Interaction{})
	if err := result.Error; err != nil {
		r.logger.Error("Failed to delete viewed interactions before " + cutoff.Format(time.RFC3339) + ": " + err.Error())
		return 0, fmt.Errorf("failed to delete interactions: %w", err)
	}

	r.logger.Debug("Deleted " + strconv.FormatInt(result.RowsAffected, 10) + " viewed interactions")

	return result.RowsAffected, nil
}
