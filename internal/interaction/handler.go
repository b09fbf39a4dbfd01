package interaction

import (
	"errors"
	"net/http"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/utils"
	"github.com/gin-gonic/gin"
)

// DefaultHistoryLimit caps the history endpoint when no limit is given
const DefaultHistoryLimit = 50

// Handler handles HTTP requests for interaction operations
type Handler struct {
	service Service
}

// NewHandler creates a new interaction handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Record handles view and like recording for the authenticated user
func (h *Handler) Record(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	interaction, err := h.service.Record(userID, req.ItemID, req.Action)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be 'viewed' or 'liked'"})
		case errors.Is(err, ErrUnknownItem):
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record interaction"})
		}
		return
	}

	c.JSON(http.StatusCreated, interaction.ToResponse())
}

// GetHistory returns the authenticated user's item history, most recent first
func (h *Handler) GetHistory(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	limit := utils.QueryInt(c, "limit", DefaultHistoryLimit)
	if limit < 1 || limit > 500 {
		limit = DefaultHistoryLimit
	}

	ids, err := h.service.History(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{ItemIDs: ids, Count: len(ids)})
}

// RegisterRoutes registers all interaction routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	interactions := router.Group("/interactions")
	interactions.Use(authMiddleware)
	{
		interactions.POST("", h.Record)
		interactions.GET("/history", h.GetHistory)
	}
}
