package recommendation

import (
	"errors"
	"net/http"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/catalog"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for catalog and recommendation operations
type Handler struct {
	service Service
}

// NewHandler creates a new recommendation handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// PersonalizeRequest is the body of a raw personalization call
type PersonalizeRequest struct {
	SeedIDs []string `json:"seed_ids"`
	Limit   int      `json:"limit"`
}

// ItemPageResponse is a page of the catalog
type ItemPageResponse struct {
	Items      []*catalog.ItemResponse `json:"items"`
	Pagination utils.PaginationMeta    `json:"pagination"`
}

// optionalUserID returns the authenticated user, or uuid.Nil for anonymous callers
func optionalUserID(c *gin.Context) uuid.UUID {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil
	}
	return userID
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	case errors.Is(err, ErrEngineUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Catalog is unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}

// GetFeed handles the home feed, personalized when the caller is authenticated
func (h *Handler) GetFeed(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", DefaultLimit)
	c.JSON(http.StatusOK, h.service.GetFeed(optionalUserID(c), limit))
}

// GetRecommendations handles personalized recommendations from the caller's history
func (h *Handler) GetRecommendations(c *gin.Context) {
	limit := utils.QueryInt(c, "limit", DefaultLimit)
	c.JSON(http.StatusOK, h.service.GetRecommendations(optionalUserID(c), limit))
}

// Personalize handles a raw personalization call with explicit seeds
func (h *Handler) Personalize(c *gin.Context) {
	var req PersonalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	items, err := h.service.Personalize(req.SeedIDs, req.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildItemsResponse(items))
}

// GetTrending handles the most popular items
func (h *Handler) GetTrending(c *gin.Context) {
	items, err := h.service.GetTrending(utils.QueryInt(c, "limit", DefaultLimit))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildItemsResponse(items))
}

// GetSimilar handles items similar to the one in the path
func (h *Handler) GetSimilar(c *gin.Context) {
	items, err := h.service.GetSimilar(c.Param("id"), utils.QueryInt(c, "limit", DefaultLimit))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildItemsResponse(items))
}

// GetItem handles a single catalog item
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, item.ToResponse())
}

// ListItems handles paged catalog browsing
func (h *Handler) ListItems(c *gin.Context) {
	page := utils.QueryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := NormalizeLimit(utils.QueryInt(c, "limit", DefaultLimit))

	items, total, err := h.service.ListItems(page, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ItemPageResponse{
		Items:      catalog.ToResponses(items),
		Pagination: utils.CalculatePagination(int64(total), page, limit),
	})
}

// GetSavedItems handles the caller's liked items
func (h *Handler) GetSavedItems(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	items, err := h.service.GetSavedItems(userID)
	if err != nil {
		if errors.Is(err, ErrHistoryUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "History is unavailable"})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, BuildItemsResponse(items))
}

// RegisterRoutes registers catalog and recommendation routes. Feed and
// recommendations identify the caller when a token is present.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	items := router.Group("/items")
	{
		items.GET("", h.ListItems)
		items.GET("/:id", h.GetItem)
		items.GET("/:id/similar", h.GetSimilar)
	}

	router.GET("/trending", h.GetTrending)
	router.GET("/feed", optionalAuth, h.GetFeed)

	recommendations := router.Group("/recommendations")
	{
		recommendations.GET("", optionalAuth, h.GetRecommendations)
		recommendations.POST("/personalize", h.Personalize)
	}
}

// RegisterSavedItemsRoutes registers the caller's saved items, which need a store
func (h *Handler) RegisterSavedItemsRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	router.GET("/interactions/likes", authMiddleware, h.GetSavedItems)
}
