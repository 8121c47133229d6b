package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListUpgrades returns the upgrade catalog priced for the caller.
func (h *Handler) ListUpgrades(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	upgrades, err := h.Shop.ListUpgrades(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upgrades": upgrades})
}

type BuyUpgradeRequest struct {
	Name string `json:"name"`
	// older clients send "upgradeName"
	UpgradeName string `json:"upgradeName"`
}

func (r BuyUpgradeRequest) name() string {
	if r.Name != "" {
		return r.Name
	}
	return r.UpgradeName
}

// BuyUpgrade purchases the next level of a permanent stat upgrade.
func (h *Handler) BuyUpgrade(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req BuyUpgradeRequest
	if err := c.BindJSON(&req); err != nil || req.name() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	res, err := h.Shop.BuyUpgrade(c.Request.Context(), userID, req.name())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
