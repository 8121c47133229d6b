package domain

import "time"

// AchievementType - which stat the unlock threshold is compared against
type AchievementType string

const (
	AchievementBalance   AchievementType = "balance"
	AchievementReferrals AchievementType = "referrals"
	AchievementMissions  AchievementType = "missions"
	AchievementRank      AchievementType = "rank"
)

// Achievement - static catalog entry. Unlocks automatically once the user's
// stat crosses Threshold; for the rank type the predicate is rank <= Threshold
// and is best-effort against the live leaderboard.
type Achievement struct {
	ID          int64           `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"desc"`
	Type        AchievementType `db:"type" json:"type"`
	Threshold   int64           `db:"threshold" json:"threshold"`
	Reward      int64           `db:"reward" json:"reward"`
}

// UserAchievement - existence of the row means unlocked. Unlocking is
// one-time and credits the reward in the same transaction.
type UserAchievement struct {
	UserID        int64     `db:"user_id" json:"user_id"`
	AchievementID int64     `db:"achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time `db:"unlocked_at" json:"unlocked_at"`
}
