package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"spudverse/internal/http/middleware"
	"spudverse/internal/logger"
	"spudverse/internal/service"
)

type TapRequest struct {
	Taps int64 `json:"taps"`
	// older clients send the batch size as "amount"
	Amount int64 `json:"amount"`
}

func (r TapRequest) count() int64 {
	if r.Taps > 0 {
		return r.Taps
	}
	return r.Amount
}

// Tap settles a batch of taps. All-or-nothing: if energy cannot cover the
// whole batch the authoritative energy state comes back with a 400 and the
// client reconciles.
func (h *Handler) Tap(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req TapRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	taps := req.count()
	res, err := h.Taps.RecordTaps(c.Request.Context(), userID, taps)
	if err != nil {
		var energyErr *service.EnergyError
		if errors.As(err, &energyErr) {
			middleware.TapsRejected.Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "insufficient energy",
				"energy":     energyErr.Current,
				"max_energy": energyErr.Max,
			})
			return
		}
		respondError(c, err)
		return
	}

	middleware.TapsSettled.Add(float64(taps))
	middleware.SpudMinted.Add(float64(res.Earned))

	// newly unlocked achievements ride along in the tap response
	unlocked, aerr := h.Achievements.Evaluate(c.Request.Context(), userID)
	if aerr != nil {
		logger.Warn("achievement evaluation failed", "user_id", userID, "error", aerr)
	}

	resp := gin.H{
		"earned":       res.Earned,
		"balance":      res.Balance,
		"total_farmed": res.TotalFarmed,
		"per_tap":      res.PerTap,
		"energy":       res.Energy,
		"max_energy":   res.MaxEnergy,
		"leveled_up":   res.LeveledUp,
		"level":        res.Level,
	}
	if len(unlocked) > 0 {
		resp["achievements"] = unlocked
	}
	c.JSON(http.StatusOK, resp)
}

// Energy returns the authoritative energy state without consuming anything.
func (h *Handler) Energy(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	view, err := h.Accounts.Energy(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
