package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/game"
	"spudverse/internal/repository"
)

// ProgressionService advances users along the level ladder. Taps level up
// implicitly; this service backs the explicit level-up endpoint and the
// progress view.
type ProgressionService struct {
	db       *pgxpool.Pool
	accounts *repository.AccountRepository
	shop     *repository.ShopRepository
	clock    game.Clock
}

func NewProgressionService(db *pgxpool.Pool, accounts *repository.AccountRepository, shop *repository.ShopRepository, clock game.Clock) *ProgressionService {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &ProgressionService{db: db, accounts: accounts, shop: shop, clock: clock}
}

type LevelUpResult struct {
	Level     game.LevelInfo `json:"level"`
	PerTap    int64          `json:"per_tap"`
	Energy    int64          `json:"energy"`
	MaxEnergy int64          `json:"max_energy"`
}

// LevelUp promotes the user to the highest rung their total_farmed allows.
// Fails with ErrThresholdNotMet when the threshold for the next rung is not
// reached, or ErrMaxLevelReached at the top of the ladder.
func (s *ProgressionService) LevelUp(ctx context.Context, userID int64) (*LevelUpResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := s.accounts.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	if game.NextLevel(acc.Level) == nil {
		return nil, ErrMaxLevelReached
	}

	rung := game.LevelFor(acc.TotalFarmed)
	if rung.Level <= acc.Level {
		return nil, ErrThresholdNotMet
	}

	upgrades, err := s.shop.GetUpgradeLevelsTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	perTap, maxEnergy := statsForLevel(rung, upgrades)

	now := s.clock.Now()
	_, err = tx.Exec(ctx,
		`UPDATE accounts
		 SET level = $1, per_tap = $2, max_energy = $3, energy = $3, last_energy_update = $4
		 WHERE user_id = $5`,
		rung.Level, perTap, maxEnergy, now, userID,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &LevelUpResult{Level: rung, PerTap: perTap, Energy: maxEnergy, MaxEnergy: maxEnergy}, nil
}

type ProgressStatus struct {
	Level       game.LevelInfo  `json:"level"`
	NextLevel   *game.LevelInfo `json:"next_level,omitempty"`
	TotalFarmed int64           `json:"total_farmed"`
	// Remaining is the farmed amount still needed for the next rung, 0 at
	// the top of the ladder.
	Remaining int64 `json:"remaining"`
}

// Status reports the current rung and the distance to the next one.
func (s *ProgressionService) Status(ctx context.Context, userID int64) (*ProgressStatus, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := &ProgressStatus{
		Level:       game.LevelByNumber(acc.Level),
		NextLevel:   game.NextLevel(acc.Level),
		TotalFarmed: acc.TotalFarmed,
	}
	if st.NextLevel != nil && st.NextLevel.Required > acc.TotalFarmed {
		st.Remaining = st.NextLevel.Required - acc.TotalFarmed
	}
	return st, nil
}
