package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/game"
	"spudverse/internal/repository"
)

// ShopService sells passive-income items and permanent stat upgrades. Every
// purchase settles pending passive income first, then debits from the settled
// balance, all inside one row-locked transaction.
type ShopService struct {
	db       *pgxpool.Pool
	shop     *repository.ShopRepository
	accounts *repository.AccountRepository
	ledger   *LedgerService
	clock    game.Clock
}

func NewShopService(db *pgxpool.Pool, shop *repository.ShopRepository, accounts *repository.AccountRepository, ledger *LedgerService, clock game.Clock) *ShopService {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &ShopService{db: db, shop: shop, accounts: accounts, ledger: ledger, clock: clock}
}

// ShopItemView is a catalog entry priced for the caller.
type ShopItemView struct {
	domain.ShopItem
	Owned      int64 `json:"owned"`
	NextCost   int64 `json:"next_cost"`
	ProfitNow  int64 `json:"profit_per_hour"`
	NextProfit int64 `json:"next_profit_per_hour"`
}

func (s *ShopService) ListItems(ctx context.Context, userID int64) ([]*ShopItemView, error) {
	items, err := s.shop.GetItems(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.shop.GetOwnedCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*ShopItemView, 0, len(items))
	for _, it := range items {
		n := owned[it.ID]
		res = append(res, &ShopItemView{
			ShopItem:   *it,
			Owned:      n,
			NextCost:   game.ItemCost(it.BaseCost, it.ScalingFactor, n),
			ProfitNow:  game.ItemProfit(it.BaseProfit, it.ScalingFactor, n),
			NextProfit: game.ItemProfit(it.BaseProfit, it.ScalingFactor, n+1),
		})
	}
	return res, nil
}

// PurchaseResult is the post-purchase snapshot.
type PurchaseResult struct {
	Balance       int64 `json:"balance"`
	SPH           int64 `json:"sph"`
	Owned         int64 `json:"owned"`
	Cost          int64 `json:"cost"`
	PassiveEarned int64 `json:"passive_earned"`
}

// BuyItem purchases one unit of a shop item. Pending passive income is
// credited before the price check, so a purchase affordable only with
// accrued income goes through.
func (s *ShopService) BuyItem(ctx context.Context, userID, itemID int64) (*PurchaseResult, error) {
	item, err := s.shop.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.shop.GetItems(ctx)
	if err != nil {
		return nil, err
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
	passive, err := s.settlePassiveWithTx(ctx, tx, acc, now)
	if err != nil {
		return nil, err
	}

	ownedCounts, err := s.shop.GetOwnedCountsTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	owned := ownedCounts[itemID]
	cost := game.ItemCost(item.BaseCost, item.ScalingFactor, owned)

	balance, err := s.ledger.DebitWithTx(ctx, tx, userID, cost, domain.TxTypeShopPurchase,
		map[string]interface{}{"item_id": itemID, "unit": owned + 1})
	if err != nil {
		return nil, err
	}

	if err := s.shop.IncrementOwnedWithTx(ctx, tx, userID, itemID); err != nil {
		return nil, err
	}
	ownedCounts[itemID] = owned + 1

	sph := totalSPH(catalog, ownedCounts)
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET sph = $1 WHERE user_id = $2`, sph, userID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &PurchaseResult{
		Balance:       balance,
		SPH:           sph,
		Owned:         owned + 1,
		Cost:          cost,
		PassiveEarned: passive,
	}, nil
}

// SyncResult reports a passive income settlement.
type SyncResult struct {
	Earned  int64 `json:"earned"`
	Balance int64 `json:"balance"`
	SPH     int64 `json:"sph"`
}

// SyncPassive settles pending passive income into the balance.
func (s *ShopService) SyncPassive(ctx context.Context, userID int64) (*SyncResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	acc, err := s.accounts.GetByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.settlePassiveWithTx(ctx, tx, acc, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &SyncResult{Earned: earned, Balance: acc.Balance, SPH: acc.SPH}, nil
}

// settlePassiveWithTx credits accrued passive income and advances the sync
// timestamp by exactly the time converted. Mutates acc to the settled state.
// The caller holds the row lock.
func (s *ShopService) settlePassiveWithTx(ctx context.Context, tx pgx.Tx, acc *domain.Account, now time.Time) (int64, error) {
	earned, newSync := game.PassiveIncome(acc.SPH, acc.LastPassiveSync, now)
	if earned == 0 {
		return 0, nil
	}

	balance, err := s.ledger.CreditWithTx(ctx, tx, acc.UserID, earned, domain.TxTypePassiveIncome,
		map[string]interface{}{"sph": acc.SPH})
	if err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET last_passive_sync = $1 WHERE user_id = $2`,
		newSync, acc.UserID,
	); err != nil {
		return 0, err
	}

	acc.Balance = balance
	acc.LastPassiveSync = newSync
	return earned, nil
}

// UpgradeView is a catalog upgrade priced for the caller.
type UpgradeView struct {
	game.UpgradeInfo
	Level    int   `json:"level"`
	NextCost int64 `json:"next_cost"`
	Maxed    bool  `json:"maxed"`
}

func (s *ShopService) ListUpgrades(ctx context.Context, userID int64) ([]*UpgradeView, error) {
	levels, err := s.shop.GetUpgradeLevels(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*UpgradeView, 0, len(game.UpgradeCatalog))
	for i := range game.UpgradeCatalog {
		u := &game.UpgradeCatalog[i]
		lvl := levels[domain.UpgradeName(u.Name)]
		v := &UpgradeView{UpgradeInfo: *u, Level: lvl, Maxed: lvl >= u.MaxLevel}
		if !v.Maxed {
			v.NextCost = u.UpgradeCost(lvl)
		}
		res = append(res, v)
	}
	return res, nil
}

// UpgradeResult is the post-purchase stat snapshot.
type UpgradeResult struct {
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Cost      int64  `json:"cost"`
	Balance   int64  `json:"balance"`
	PerTap    int64  `json:"per_tap"`
	MaxEnergy int64  `json:"max_energy"`
	RegenRate int64  `json:"energy_regen_rate"`
}

// BuyUpgrade purchases the next level of a permanent stat upgrade and applies
// its effect to the account stat immediately.
func (s *ShopService) BuyUpgrade(ctx context.Context, userID int64, name string) (*UpgradeResult, error) {
	u := game.UpgradeByName(name)
	if u == nil {
		return nil, ErrUnknownUpgrade
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

	levels, err := s.shop.GetUpgradeLevelsTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	lvl := levels[domain.UpgradeName(name)]
	if lvl >= u.MaxLevel {
		return nil, ErrMaxLevelReached
	}

	cost := u.UpgradeCost(lvl)
	balance, err := s.ledger.DebitWithTx(ctx, tx, userID, cost, domain.TxTypeUpgradePurchase,
		map[string]interface{}{"upgrade": name, "level": lvl + 1})
	if err != nil {
		return nil, err
	}

	if err := s.shop.IncrementUpgradeWithTx(ctx, tx, userID, domain.UpgradeName(name)); err != nil {
		return nil, err
	}

	perTap, maxEnergy, regen := acc.PerTap, acc.MaxEnergy, acc.EnergyRegenRate
	switch domain.UpgradeName(name) {
	case domain.UpgradePerTap:
		perTap += u.Effect
		_, err = tx.Exec(ctx, `UPDATE accounts SET per_tap = $1 WHERE user_id = $2`, perTap, userID)
	case domain.UpgradeMaxEnergy:
		maxEnergy += u.Effect
		_, err = tx.Exec(ctx, `UPDATE accounts SET max_energy = $1 WHERE user_id = $2`, maxEnergy, userID)
	case domain.UpgradeRegenRate:
		regen += u.Effect
		_, err = tx.Exec(ctx, `UPDATE accounts SET energy_regen_rate = $1 WHERE user_id = $2`, regen, userID)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &UpgradeResult{
		Name:      name,
		Level:     lvl + 1,
		Cost:      cost,
		Balance:   balance,
		PerTap:    perTap,
		MaxEnergy: maxEnergy,
		RegenRate: regen,
	}, nil
}

// totalSPH recomputes hourly passive income across all owned items.
func totalSPH(catalog []*domain.ShopItem, owned map[int64]int64) int64 {
	var sph int64
	for _, it := range catalog {
		sph += game.ItemProfit(it.BaseProfit, it.ScalingFactor, owned[it.ID])
	}
	return sph
}
