package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"spudverse/internal/domain"
	"spudverse/internal/logger"
	"spudverse/internal/repository"
	"spudverse/internal/service"
)

type AuthRequest struct {
	InitData string `json:"init_data"`
}

type CreateUserRequest struct {
	InitData     string `json:"init_data"`
	ReferralCode string `json:"referral_code"`
}

type telegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// Auth validates Telegram init data, creates the account on first visit and
// issues a JWT. A start_param of the form "ref_<id>" registers a referral for
// new users.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	tgUser, values, ok := h.authenticateInitData(c, req.InitData)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	acc, isNew, err := h.ensureAccount(ctx, tgUser, values.Get("start_param"))
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := service.GenerateJWT(acc.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	profile, err := h.Accounts.Profile(ctx, acc.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"is_new":  isNew,
		"profile": profile,
	})
}

// CreateUser is the explicit account-creation endpoint. Identity comes from
// the same signed init data as Auth; an explicit referral_code in the body
// wins over the start_param. Returns the created account snapshot.
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	tgUser, values, ok := h.authenticateInitData(c, req.InitData)
	if !ok {
		return
	}

	refParam := req.ReferralCode
	if refParam == "" {
		refParam = values.Get("start_param")
	}

	ctx := c.Request.Context()
	acc, isNew, err := h.ensureAccount(ctx, tgUser, refParam)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := service.GenerateJWT(acc.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	profile, err := h.Accounts.Profile(ctx, acc.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"is_new":  isNew,
		"profile": profile,
	})
}

// authenticateInitData checks the Mini App payload signature and freshness
// and parses the identity out of it. Writes the error response itself.
func (h *Handler) authenticateInitData(c *gin.Context, initData string) (telegramUser, url.Values, bool) {
	var tgUser telegramUser

	if len(initData) > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data too long"})
		return tgUser, nil, false
	}

	values, ok := service.ValidateTelegramInitData(initData, h.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or stale telegram data"})
		return tgUser, nil, false
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
		return tgUser, nil, false
	}
	if err := json.Unmarshal([]byte(userJSON), &tgUser); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user json"})
		return tgUser, nil, false
	}
	return tgUser, values, true
}

// ensureAccount fetches the account, creating it on first contact. New
// accounts get their welcome missions opened and, when refParam carries a
// valid referrer, the referral registered. Referral problems never block
// account creation.
func (h *Handler) ensureAccount(ctx context.Context, tgUser telegramUser, refParam string) (*domain.Account, bool, error) {
	acc, err := h.AccountRepo.GetByID(ctx, tgUser.ID)
	if err == nil {
		return acc, false, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, false, err
	}

	acc = &domain.Account{
		UserID:    tgUser.ID,
		Username:  tgUser.Username,
		FirstName: tgUser.FirstName,
	}
	if err := h.AccountRepo.Create(ctx, acc); err != nil {
		return nil, false, err
	}

	if err := h.Missions.CompleteWelcome(ctx, acc.UserID); err != nil {
		logger.Warn("welcome mission setup failed", "user_id", acc.UserID, "error", err)
	}

	if referrerID, ok := parseReferralCode(refParam); ok {
		if err := h.Referrals.Register(ctx, referrerID, acc.UserID); err != nil {
			logger.Warn("referral registration failed",
				"referrer_id", referrerID, "user_id", acc.UserID, "error", err)
		}
	}
	return acc, true, nil
}

// parseStartParam extracts the referrer id from a "ref_<id>" start parameter.
func parseStartParam(param string) (int64, bool) {
	raw, ok := strings.CutPrefix(param, "ref_")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseReferralCode accepts both the "ref_<id>" start-param form and a bare
// numeric id.
func parseReferralCode(code string) (int64, bool) {
	if id, ok := parseStartParam(code); ok {
		return id, true
	}
	id, err := strconv.ParseInt(code, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
