package main

import (
	"net/http"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/recommendation"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/gin-gonic/gin"
)

// apiHandlers groups the feature handlers. users and interactions are nil
// when the service runs without a store.
type apiHandlers struct {
	recommendations *recommendation.Handler
	users           *user.Handler
	interactions    *interaction.Handler
}

func (h apiHandlers) storeEnabled() bool {
	return h.users != nil && h.interactions != nil
}

// registerAPIRoutes registers feature routes - each feature manages its own routes
func registerAPIRoutes(v1 *gin.RouterGroup, h apiHandlers, authMiddleware, optionalAuth gin.HandlerFunc) {
	h.recommendations.RegisterRoutes(v1, optionalAuth)
	if !h.storeEnabled() {
		registerStoreUnavailableRoutes(v1)
		return
	}

	h.users.RegisterRoutes(v1, authMiddleware)
	h.interactions.RegisterRoutes(v1, authMiddleware)
	h.recommendations.RegisterSavedItemsRoutes(v1, authMiddleware)
}

// registerStoreUnavailableRoutes answers user and interaction endpoints when
// the service runs without a store
func registerStoreUnavailableRoutes(router *gin.RouterGroup) {
	unavailable := func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "User features are disabled: no store configured"})
	}
	router.POST("/login", unavailable)
	router.GET("/users/me", unavailable)
	router.POST("/interactions", unavailable)
	router.GET("/interactions/history", unavailable)
	router.GET("/interactions/likes", unavailable)
}
