package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/config"
	"spudverse/internal/game"
	"spudverse/internal/logger"
	"spudverse/internal/repository"
	"spudverse/internal/service"
	"spudverse/internal/verifier"
)

type Handler struct {
	DB          *pgxpool.Pool
	BotToken    string
	BotUsername string

	AccountRepo *repository.AccountRepository

	Accounts     *service.AccountService
	Taps         *service.TapService
	Progression  *service.ProgressionService
	Missions     *service.MissionService
	Achievements *service.AchievementService
	Referrals    *service.ReferralService
	Shop         *service.ShopService
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config, v verifier.Verifier) *Handler {
	accountRepo := repository.NewAccountRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	shopRepo := repository.NewShopRepository(db)

	clock := game.RealClock{}
	ledger := service.NewLedgerService(txRepo)
	missions := service.NewMissionService(db, missionRepo, referralRepo, ledger, v, cfg.ChannelUsername)
	achievements := service.NewAchievementService(db, achievementRepo, accountRepo, referralRepo, missionRepo, ledger)

	return &Handler{
		DB:          db,
		BotToken:    cfg.BotToken,
		BotUsername: cfg.BotUsername,
		AccountRepo: accountRepo,

		Accounts:     service.NewAccountService(accountRepo, txRepo, referralRepo, clock),
		Taps:         service.NewTapService(db, accountRepo, shopRepo, txRepo, clock, cfg.MaxTapsPerBatch),
		Progression:  service.NewProgressionService(db, accountRepo, shopRepo, clock),
		Missions:     missions,
		Achievements: achievements,
		Referrals: service.NewReferralService(db, referralRepo, accountRepo, ledger, missions, achievements,
			cfg.ReferralBonus, cfg.ReferredBonus),
		Shop: service.NewShopService(db, shopRepo, accountRepo, ledger, clock),
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrMissionNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrAlreadyReferred),
		errors.Is(err, service.ErrSelfReferral):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrVerifierUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInsufficientEnergy),
		errors.Is(err, service.ErrMaxLevelReached),
		errors.Is(err, service.ErrThresholdNotMet),
		errors.Is(err, service.ErrNotCompleted),
		errors.Is(err, service.ErrAlreadyClaimed),
		errors.Is(err, service.ErrUnknownUpgrade),
		errors.Is(err, service.ErrNotVerifiable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
