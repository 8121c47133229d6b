package domain

import "time"

// Account is the per-user economy state. One row per Telegram user; all
// energy/balance math recomputes lazily from the persisted timestamps, the
// server keeps no in-memory session state.
type Account struct {
	UserID           int64     `db:"user_id" json:"user_id"`
	Username         string    `db:"username" json:"username"`
	FirstName        string    `db:"first_name" json:"first_name"`
	Balance          int64     `db:"balance" json:"balance"`
	TotalFarmed      int64     `db:"total_farmed" json:"total_farmed"`
	Level            int       `db:"level" json:"level"`
	PerTap           int64     `db:"per_tap" json:"per_tap"`
	Energy           int64     `db:"energy" json:"energy"`
	MaxEnergy        int64     `db:"max_energy" json:"max_energy"`
	EnergyRegenRate  int64     `db:"energy_regen_rate" json:"energy_regen_rate"`
	LastEnergyUpdate time.Time `db:"last_energy_update" json:"-"`
	LastTapTime      time.Time `db:"last_tap_time" json:"-"`
	SPH              int64     `db:"sph" json:"sph"`
	LastPassiveSync  time.Time `db:"last_passive_sync" json:"-"`
	ReferrerID       *int64    `db:"referrer_id" json:"referrer_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
