package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spudverse/internal/game"
)

// Levels returns the static level ladder.
func (h *Handler) Levels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": game.Levels})
}

// Progress returns the caller's rung and the distance to the next one.
func (h *Handler) Progress(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	st, err := h.Progression.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// LevelUp promotes the caller when their total_farmed crosses the next
// threshold. Levels gained through taps make this a no-op 400.
func (h *Handler) LevelUp(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Progression.LevelUp(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
