package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/game"
	"spudverse/internal/repository"
)

// TapService settles tap batches. The whole batch is atomic: energy is
// recomputed, checked and consumed, the reward credited and the level ladder
// advanced inside one row-locked transaction.
type TapService struct {
	db           *pgxpool.Pool
	accounts     *repository.AccountRepository
	shop         *repository.ShopRepository
	transactions *repository.TransactionRepository
	clock        game.Clock
	maxBatch     int64
}

func NewTapService(db *pgxpool.Pool, accounts *repository.AccountRepository, shop *repository.ShopRepository, transactions *repository.TransactionRepository, clock game.Clock, maxBatch int64) *TapService {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &TapService{db: db, accounts: accounts, shop: shop, transactions: transactions, clock: clock, maxBatch: maxBatch}
}

// TapResult is the authoritative state after a settled batch.
type TapResult struct {
	Earned      int64          `json:"earned"`
	Balance     int64          `json:"balance"`
	TotalFarmed int64          `json:"total_farmed"`
	PerTap      int64          `json:"per_tap"`
	Energy      int64          `json:"energy"`
	MaxEnergy   int64          `json:"max_energy"`
	LeveledUp   bool           `json:"leveled_up"`
	Level       game.LevelInfo `json:"level"`
}

// RecordTaps applies a batch of tapCount taps for the user. Reward is
// tapCount * the server-side per_tap value, the client-claimed amount is
// never trusted. If recomputed energy cannot cover the whole batch, nothing
// is applied and an EnergyError reports the authoritative state.
func (s *TapService) RecordTaps(ctx context.Context, userID, tapCount int64) (*TapResult, error) {
	if tapCount <= 0 || tapCount > s.maxBatch {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := s.accounts.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	st := game.CurrentEnergy(acc.Energy, acc.LastEnergyUpdate, acc.EnergyRegenRate, acc.MaxEnergy, now)
	if st.Current < tapCount {
		return nil, &EnergyError{Current: st.Current, Max: acc.MaxEnergy}
	}

	earned := acc.PerTap * tapCount
	newEnergy := st.Current - tapCount
	newTotal := acc.TotalFarmed + earned
	newBalance := acc.Balance + earned

	perTap := acc.PerTap
	maxEnergy := acc.MaxEnergy
	level := acc.Level
	lastUpdate := st.LastUpdate

	rung := game.LevelFor(newTotal)
	leveledUp := rung.Level > acc.Level
	if leveledUp {
		upgrades, uerr := s.shop.GetUpgradeLevelsTx(ctx, tx, userID)
		if uerr != nil {
			return nil, uerr
		}
		perTap, maxEnergy = statsForLevel(rung, upgrades)
		level = rung.Level
		// level-up refills energy to the new capacity
		newEnergy = maxEnergy
		lastUpdate = now
	}

	_, err = tx.Exec(ctx,
		`UPDATE accounts
		 SET balance = $1, total_farmed = $2, energy = $3, max_energy = $4,
		     per_tap = $5, level = $6, last_energy_update = $7, last_tap_time = $8
		 WHERE user_id = $9`,
		newBalance, newTotal, newEnergy, maxEnergy, perTap, level, lastUpdate, now, userID,
	)
	if err != nil {
		return nil, err
	}

	entry := &domain.Transaction{
		UserID: userID,
		Type:   domain.TxTypeTap,
		Amount: earned,
		Meta:   map[string]interface{}{"taps": tapCount, "per_tap": acc.PerTap},
	}
	if err := s.transactions.CreateWithTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &TapResult{
		Earned:      earned,
		Balance:     newBalance,
		TotalFarmed: newTotal,
		PerTap:      perTap,
		Energy:      newEnergy,
		MaxEnergy:   maxEnergy,
		LeveledUp:   leveledUp,
		Level:       rung,
	}, nil
}

// statsForLevel resolves the effective per-tap and max-energy stats for a
// ladder rung, folding in the permanent upgrade bonuses on top of the rung
// base values.
func statsForLevel(rung game.LevelInfo, upgrades map[domain.UpgradeName]int) (perTap, maxEnergy int64) {
	perTap = rung.PerTap
	maxEnergy = rung.MaxEnergy
	if u := game.UpgradeByName(string(domain.UpgradePerTap)); u != nil {
		perTap += u.UpgradeBonus(upgrades[domain.UpgradePerTap])
	}
	if u := game.UpgradeByName(string(domain.UpgradeMaxEnergy)); u != nil {
		maxEnergy += u.UpgradeBonus(upgrades[domain.UpgradeMaxEnergy])
	}
	return perTap, maxEnergy
}
