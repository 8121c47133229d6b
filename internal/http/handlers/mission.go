package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spudverse/internal/logger"
)

// ListMissions lists the active catalog with the caller's progress.
func (h *Handler) ListMissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	missions, err := h.Missions.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"missions": missions})
}

// MissionRequest carries the mission id in the body. Older clients send it
// camelCased.
type MissionRequest struct {
	MissionID       int64 `json:"mission_id"`
	MissionIDLegacy int64 `json:"missionId"`
}

func (r MissionRequest) id() int64 {
	if r.MissionID > 0 {
		return r.MissionID
	}
	return r.MissionIDLegacy
}

// VerifyMission checks the mission requirement and marks it completed when
// met. Verification failures are retryable.
func (h *Handler) VerifyMission(c *gin.Context) {
	missionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	h.verifyMission(c, missionID)
}

// VerifyChannelMission is the body-based form: POST /missions/verify-channel
// with {"missionId": N}.
func (h *Handler) VerifyChannelMission(c *gin.Context) {
	var req MissionRequest
	if err := c.BindJSON(&req); err != nil || req.id() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	h.verifyMission(c, req.id())
}

func (h *Handler) verifyMission(c *gin.Context, missionID int64) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	completed, err := h.Missions.Verify(c.Request.Context(), userID, missionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed, "verified": completed})
}

// ClaimMission pays out a completed mission exactly once.
func (h *Handler) ClaimMission(c *gin.Context) {
	missionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	h.claimMission(c, missionID)
}

// ClaimMissionByBody is the body-based form: POST /missions/claim with
// {"missionId": N}.
func (h *Handler) ClaimMissionByBody(c *gin.Context) {
	var req MissionRequest
	if err := c.BindJSON(&req); err != nil || req.id() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mission id"})
		return
	}
	h.claimMission(c, req.id())
}

func (h *Handler) claimMission(c *gin.Context, missionID int64) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Missions.Claim(c.Request.Context(), userID, missionID)
	if err != nil {
		respondError(c, err)
		return
	}

	// a claimed mission may complete a missions-count achievement
	if _, aerr := h.Achievements.Evaluate(c.Request.Context(), userID); aerr != nil {
		logger.Warn("achievement evaluation failed", "user_id", userID, "error", aerr)
	}

	c.JSON(http.StatusOK, res)
}
