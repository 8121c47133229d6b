package game

import "math"

// UpgradeInfo describes one of the permanent stat upgrades. Effect is the
// stat increment granted per level.
type UpgradeInfo struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxLevel    int     `json:"max_level"`
	BaseCost    int64   `json:"base_cost"`
	CostScale   float64 `json:"cost_scale"`
	Effect      int64   `json:"effect_per_level"`
}

var UpgradeCatalog = []UpgradeInfo{
	{"per_tap", "+1 SPUD per tap", 10, 500, 2.0, 1},
	{"max_energy", "+50 max energy", 10, 400, 1.8, 50},
	{"energy_regen_rate", "+1 energy per tick", 5, 1000, 2.5, 1},
}

// UpgradeByName returns the catalog entry, or nil for an unknown name.
func UpgradeByName(name string) *UpgradeInfo {
	for i := range UpgradeCatalog {
		if UpgradeCatalog[i].Name == name {
			return &UpgradeCatalog[i]
		}
	}
	return nil
}

// UpgradeCost returns the price of moving from `level` to `level+1`.
func (u *UpgradeInfo) UpgradeCost(level int) int64 {
	return int64(math.Floor(float64(u.BaseCost) * math.Pow(u.CostScale, float64(level))))
}

// UpgradeBonus returns the total stat bonus accumulated at `level`.
func (u *UpgradeInfo) UpgradeBonus(level int) int64 {
	return u.Effect * int64(level)
}
