package domain

// ShopItem - catalog entry for passive-income items. Cost and profit both
// scale geometrically with the number of units already owned.
type ShopItem struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	Category      string  `db:"category" json:"category"`
	BaseCost      int64   `db:"base_cost" json:"base_cost"`
	BaseProfit    int64   `db:"base_profit" json:"base_profit_per_hour"`
	ScalingFactor float64 `db:"scaling_factor" json:"scaling_factor"`
}

// OwnedItem - how many units of a shop item a user owns
type OwnedItem struct {
	UserID int64 `db:"user_id" json:"user_id"`
	ItemID int64 `db:"item_id" json:"item_id"`
	Count  int64 `db:"count" json:"count"`
}

// UpgradeName identifies one of the three permanent stat upgrades.
type UpgradeName string

const (
	UpgradePerTap    UpgradeName = "per_tap"
	UpgradeMaxEnergy UpgradeName = "max_energy"
	UpgradeRegenRate UpgradeName = "energy_regen_rate"
)

// UserUpgrade - current level of one upgrade for one user
type UserUpgrade struct {
	UserID int64       `db:"user_id" json:"user_id"`
	Name   UpgradeName `db:"name" json:"name"`
	Level  int         `db:"level" json:"level"`
}
