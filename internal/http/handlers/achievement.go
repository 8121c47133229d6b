package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListAchievements returns the catalog with the caller's unlock state.
func (h *Handler) ListAchievements(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievements, err := h.Achievements.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}
