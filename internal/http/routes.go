package http

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/config"
	"spudverse/internal/http/handlers"
	"spudverse/internal/http/middleware"
	"spudverse/internal/verifier"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, vf verifier.Verifier, version string) {
	h := handlers.NewHandler(db, cfg, vf)
	healthHandler := handlers.NewHealthHandler(db, version)

	// read limits from env, with safe defaults
	apiRateLimit := 30
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	tapRateWindow := time.Duration(cfg.TapRateWindow) * time.Second

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, authRateLimit, authRateWindow, cfg.TapRateLimit, tapRateWindow)

	// Legacy /api routes (backward compatibility)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, authRateLimit, authRateWindow, cfg.TapRateLimit, tapRateWindow)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRateLimit int, authRateWindow time.Duration, tapRateLimit int, tapRateWindow time.Duration) {
	// Auth
	authRL := middleware.RedisRateLimit(authRateLimit, authRateWindow)
	api.POST("/auth", authRL, h.Auth)
	api.POST("/user/create", authRL, h.CreateUser)

	// User state
	api.GET("/user", middleware.JWT(), h.Me)
	api.GET("/user/transactions", middleware.JWT(), h.History)
	api.GET("/user/sync-balance", middleware.JWT(), h.SyncBalance)

	// Tap loop (per user, not per IP)
	tapRL := middleware.TapRateLimit(tapRateLimit, tapRateWindow)
	api.POST("/tap", middleware.JWT(), tapRL, h.Tap)
	api.GET("/energy", middleware.JWT(), h.Energy)

	// Progression
	api.GET("/levels", h.Levels)
	api.GET("/progress", middleware.JWT(), h.Progress)
	api.POST("/level-up", middleware.JWT(), h.LevelUp)
	api.POST("/user/level-up", middleware.JWT(), h.LevelUp)

	// Missions. The body-based verify-channel/claim forms match what older
	// clients call.
	api.GET("/missions", middleware.JWT(), h.ListMissions)
	api.POST("/missions/:id/verify", middleware.JWT(), h.VerifyMission)
	api.POST("/missions/:id/claim", middleware.JWT(), h.ClaimMission)
	api.POST("/missions/verify-channel", middleware.JWT(), h.VerifyChannelMission)
	api.POST("/missions/claim", middleware.JWT(), h.ClaimMissionByBody)

	// Achievements
	api.GET("/achievements", middleware.JWT(), h.ListAchievements)

	// Leaderboard
	api.GET("/leaderboard", middleware.JWT(), h.Leaderboard)

	// Referral system
	referral := api.Group("/referral")
	referral.Use(middleware.JWT())
	{
		referral.GET("/link", h.ReferralLink)
		referral.GET("/stats", h.ReferralStats)
		referral.POST("/apply", h.ApplyReferral)
	}

	// Shop and upgrades
	shop := api.Group("/shop")
	shop.Use(middleware.JWT())
	{
		shop.GET("/items", h.ShopItems)
		shop.POST("/items/:id/buy", h.BuyShopItem)
		shop.POST("/buy", h.BuyShopItemByBody)
	}
	upgrade := api.Group("/upgrades")
	upgrade.Use(middleware.JWT())
	{
		upgrade.GET("", h.ListUpgrades)
		upgrade.POST("/buy", h.BuyUpgrade)
		upgrade.POST("/purchase", h.BuyUpgrade)
	}
}
