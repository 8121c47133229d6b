package domain

import "time"

// Transaction types recorded in the SPUD journal
const (
	TxTypeTap             = "tap"
	TxTypeMissionReward   = "mission_reward"
	TxTypeAchievement     = "achievement_reward"
	TxTypeReferralBonus   = "referral_bonus"
	TxTypeWelcomeBonus    = "welcome_bonus"
	TxTypePassiveIncome   = "passive_income"
	TxTypeUpgradePurchase = "upgrade_purchase"
	TxTypeShopPurchase    = "shop_purchase"
)

// Transaction is one journal entry of a balance mutation. Amount is signed:
// positive for credits, negative for debits.
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}
