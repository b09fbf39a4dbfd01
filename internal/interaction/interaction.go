package interaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAction = errors.New("invalid action")
	ErrUnknownItem   = errors.New("unknown item")
)

// Action is the kind of engagement a user had with a catalog item
type Action string

const (
	ActionViewed Action = "viewed"
	ActionLiked  Action = "liked"
)

// Valid reports whether a is a recognised action
func (a Action) Valid() bool {
	return a == ActionViewed || a == ActionLiked
}

// Interaction records a single view or like of a catalog item by a user
type Interaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_user_interactions,priority:1"`
	ItemID    string    `json:"item_id" gorm:"not null;size:128"`
	Action    Action    `json:"action" gorm:"type:varchar(16);not null;index:idx_action_created,priority:1"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_user_interactions,priority:2,sort:desc;index:idx_action_created,priority:2"`
}

// Repository defines the interface for interaction data access.
// FindItemIDsByUser returns item ids most recent first; an empty action matches
// every action and a limit of zero or less returns all rows.
type Repository interface {
	Create(interaction *Interaction) error
	FindItemIDsByUser(userID uuid.UUID, action Action, limit int) ([]string, error)
	DeleteViewedBefore(cutoff time.Time) (int64, error)
}

// Service defines the interface for interaction business logic
type Service interface {
	Record(userID uuid.UUID, itemID string, action Action) (*Interaction, error)
	History(userID uuid.UUID, limit int) ([]string, error)
	Likes(userID uuid.UUID, limit int) ([]string, error)
	PruneViewed(retention time.Duration) (int64, error)
}

// ItemChecker reports whether an item id exists in the catalog
type ItemChecker interface {
	HasItem(itemID string) bool
}

// RecordRequest represents an interaction creation request
type RecordRequest struct {
	ItemID string `json:"item_id" binding:"required"`
	Action Action `json:"action"`
}

// InteractionResponse represents an interaction in API responses
type InteractionResponse struct {
	ID        uuid.UUID `json:"id"`
	ItemID    string    `json:"item_id"`
	Action    Action    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryResponse lists item ids, most recent first
type HistoryResponse struct {
	ItemIDs []string `json:"item_ids"`
	Count   int      `json:"count"`
}

// ToResponse converts Interaction to InteractionResponse
func (i *Interaction) ToResponse() *InteractionResponse {
	return &InteractionResponse{
		ID:        i.ID,
		ItemID:    i.ItemID,
		Action:    i.Action,
		CreatedAt: i.CreatedAt,
	}
}

// TableName returns the table name for GORM
func (Interaction) TableName() string {
	return "interactions"
}
