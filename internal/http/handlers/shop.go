package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spudverse/internal/logger"
)

// ShopItems returns the catalog priced for the caller.
func (h *Handler) ShopItems(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Shop.ListItems(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// BuyItemRequest carries the item id in the body. Older clients send it
// camelCased.
type BuyItemRequest struct {
	ItemID       int64 `json:"item_id"`
	ItemIDLegacy int64 `json:"itemId"`
}

func (r BuyItemRequest) id() int64 {
	if r.ItemID > 0 {
		return r.ItemID
	}
	return r.ItemIDLegacy
}

// BuyShopItem purchases one unit of a passive-income item.
func (h *Handler) BuyShopItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	h.buyShopItem(c, itemID)
}

// BuyShopItemByBody is the body-based form: POST /shop/buy with
// {"itemId": N}.
func (h *Handler) BuyShopItemByBody(c *gin.Context) {
	var req BuyItemRequest
	if err := c.BindJSON(&req); err != nil || req.id() <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	h.buyShopItem(c, req.id())
}

func (h *Handler) buyShopItem(c *gin.Context, itemID int64) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Shop.BuyItem(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}

	// settled passive income may cross a balance threshold
	if _, aerr := h.Achievements.Evaluate(c.Request.Context(), userID); aerr != nil {
		logger.Warn("achievement evaluation failed", "user_id", userID, "error", aerr)
	}

	c.JSON(http.StatusOK, res)
}

// SyncBalance settles pending passive income into the balance.
func (h *Handler) SyncBalance(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	res, err := h.Shop.SyncPassive(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	// a balance threshold can be crossed by passive income alone
	unlocked, aerr := h.Achievements.Evaluate(c.Request.Context(), userID)
	if aerr != nil {
		logger.Warn("achievement evaluation failed", "user_id", userID, "error", aerr)
	}

	resp := gin.H{
		"earned":  res.Earned,
		"balance": res.Balance,
		"sph":     res.SPH,
	}
	if len(unlocked) > 0 {
		resp["achievements"] = unlocked
	}
	c.JSON(http.StatusOK, resp)
}
