package repository

import (
	"context"
	"errors"

	"spudverse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrItemNotFound = errors.New("shop item not found")

type ShopRepository struct {
	db *pgxpool.Pool
}

func NewShopRepository(db *pgxpool.Pool) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) GetItems(ctx context.Context) ([]*domain.ShopItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, category, base_cost, base_profit, scaling_factor
		 FROM shop_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ShopItem
	for rows.Next() {
		var it domain.ShopItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.BaseCost, &it.BaseProfit, &it.ScalingFactor); err != nil {
			return nil, err
		}
		res = append(res, &it)
	}
	return res, rows.Err()
}

func (r *ShopRepository) GetItemByID(ctx context.Context, id int64) (*domain.ShopItem, error) {
	var it domain.ShopItem
	err := r.db.QueryRow(ctx,
		`SELECT id, name, category, base_cost, base_profit, scaling_factor
		 FROM shop_items WHERE id = $1`, id,
	).Scan(&it.ID, &it.Name, &it.Category, &it.BaseCost, &it.BaseProfit, &it.ScalingFactor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &it, nil
}

// GetOwnedCounts returns item_id -> owned count for the user.
func (r *ShopRepository) GetOwnedCounts(ctx context.Context, userID int64) (map[int64]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT item_id, count FROM user_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		res[id] = n
	}
	return res, rows.Err()
}

// GetOwnedCountsTx reads the counts inside a purchase transaction. The
// account row lock taken by the caller serializes concurrent purchases.
func (r *ShopRepository) GetOwnedCountsTx(ctx context.Context, tx pgx.Tx, userID int64) (map[int64]int64, error) {
	rows, err := tx.Query(ctx,
		`SELECT item_id, count FROM user_items WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]int64)
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		res[id] = n
	}
	return res, rows.Err()
}

// IncrementOwnedWithTx adds one unit of the item for the user.
func (r *ShopRepository) IncrementOwnedWithTx(ctx context.Context, tx pgx.Tx, userID, itemID int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_items (user_id, item_id, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, item_id) DO UPDATE SET count = user_items.count + 1`,
		userID, itemID,
	)
	return err
}

// GetUpgradeLevels returns upgrade name -> current level for the user.
// Missing rows mean level 0.
func (r *ShopRepository) GetUpgradeLevels(ctx context.Context, userID int64) (map[domain.UpgradeName]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name, level FROM user_upgrades WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[domain.UpgradeName]int)
	for rows.Next() {
		var name domain.UpgradeName
		var level int
		if err := rows.Scan(&name, &level); err != nil {
			return nil, err
		}
		res[name] = level
	}
	return res, rows.Err()
}

func (r *ShopRepository) GetUpgradeLevelsTx(ctx context.Context, tx pgx.Tx, userID int64) (map[domain.UpgradeName]int, error) {
	rows, err := tx.Query(ctx,
		`SELECT name, level FROM user_upgrades WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[domain.UpgradeName]int)
	for rows.Next() {
		var name domain.UpgradeName
		var level int
		if err := rows.Scan(&name, &level); err != nil {
			return nil, err
		}
		res[name] = level
	}
	return res, rows.Err()
}

// IncrementUpgradeWithTx bumps the upgrade level by one.
func (r *ShopRepository) IncrementUpgradeWithTx(ctx context.Context, tx pgx.Tx, userID int64, name domain.UpgradeName) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO user_upgrades (user_id, name, level)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, name) DO UPDATE SET level = user_upgrades.level + 1`,
		userID, name,
	)
	return err
}
