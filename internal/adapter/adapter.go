package adapter

import (
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/recommendation"
	"github.com/google/uuid"
)

// InteractionHistory adapts interaction.Service to recommendation.HistoryProvider
type InteractionHistory struct {
	service interaction.Service
	limit   int
}

// NewInteractionHistory creates a new adapter. A limit of zero or less reads the full history.
func NewInteractionHistory(s interaction.Service, limit int) recommendation.HistoryProvider {
	return &InteractionHistory{
		service: s,
		limit:   limit,
	}
}

func (a *InteractionHistory) History(userID uuid.UUID) ([]string, error) {
	return a.service.History(userID, a.limit)
}

func (a *InteractionHistory) Likes(userID uuid.UUID) ([]string, error) {
	return a.service.Likes(userID, a.limit)
}

// EngineItemChecker adapts recommendation.Engine to interaction.ItemChecker
type EngineItemChecker struct {
	engine recommendation.Engine
}

// NewEngineItemChecker creates a new adapter
func NewEngineItemChecker(e recommendation.Engine) interaction.ItemChecker {
	return &EngineItemChecker{
		engine: e,
	}
}

func (a *EngineItemChecker) HasItem(itemID string) bool {
	_, ok := a.engine.Item(itemID)
	return ok
}
