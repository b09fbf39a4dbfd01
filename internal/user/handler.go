package user

import (
	"errors"
	"net/http"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/utils"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for user operations
type Handler struct {
	service Service
}

// NewHandler creates a new user handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Login handles username login, creating the account on first use
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.service.Login(req.Username)
	if err != nil {
		if errors.Is(err, ErrInvalidUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: user.ToResponse()})
}

// GetMe returns current user information
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	user, err := h.service.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// RegisterRoutes registers all user routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	router.POST("/login", h.Login)

	protected := router.Group("/users")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.GetMe)
	}
}
