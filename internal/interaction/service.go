package interaction

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/metrics"
	"github.com/Akshu121796/Personalized-Recommendation-System/pkg/logger"
	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo   Repository
	items  ItemChecker
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates a new interaction service. A nil items checker accepts any item id.
func NewService(repo Repository, items ItemChecker, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		items:  items,
		logger: log.WithComponent("interaction-service"),
		now:    time.Now,
	}
}

func (s *service) Record(userID uuid.UUID, itemID string, action Action) (*Interaction, error) {
	if action == "" {
		action = ActionViewed
	}
	if !action.Valid() {
		s.logger.Warn("Rejected interaction with invalid action '" + string(action) + "' by user " + userID.String())
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	itemID = strings.TrimSpace(itemID)
	if itemID == "" || (s.items != nil && !s.items.HasItem(itemID)) {
		s.logger.Warn("Rejected interaction with unknown item '" + itemID + "' by user " + userID.String())
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}

	interaction := &Interaction{
		ID:        uuid.New(),
		UserID:    userID,
		ItemID:    itemID,
		Action:    action,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(interaction); err != nil {
		s.logger.Error("Failed to record " + string(action) + " of item " + itemID + " by user " + userID.String() + ": " + err.Error())
		return nil, fmt.Errorf("failed to record interaction: %w", err)
	}

	metrics.RecordInteraction(string(action))
	s.logger.Debug("Recorded " + string(action) + " of item " + itemID + " by user " + userID.String())

	return interaction, nil
}

func (s *service) History(userID uuid.UUID, limit int) ([]string, error) {
	return s.find(userID, "", limit)
}

func (s *service) Likes(userID uuid.UUID, limit int) ([]string, error) {
	return s.find(userID, ActionLiked, limit)
}

func (s *service) find(userID uuid.UUID, action Action, limit int) ([]string, error) {
	ids, err := s.repo.FindItemIDsByUser(userID, action, limit)
	if err != nil {
		s.logger.Error("Failed to load interactions for user " + userID.String() + ": " + err.Error())
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// PruneViewed deletes views older than retention. Likes are kept.
func (s *service) PruneViewed(retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", retention)
	}

	cutoff := s.now().Add(-retention)
	deleted, err := s.repo.DeleteViewedBefore(cutoff)
	if err != nil {
		s.logger.Error("Failed to prune viewed interactions before " + cutoff.Format(time.RFC3339) + ": " + err.Error())
		return 0, fmt.Errorf("failed to prune interactions: %w", err)
	}

	metrics.RecordHistoryPruned(deleted)
	s.logger.Info("Pruned " + strconv.FormatInt(deleted, 10) + " viewed interactions older than " + cutoff.Format(time.RFC3339))

	return deleted, nil
}
