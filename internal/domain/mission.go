package domain

import "time"

// MissionType - catalog category of a mission
type MissionType string

const (
	MissionTypeWelcome  MissionType = "welcome"
	MissionTypeSocial   MissionType = "social"
	MissionTypeReferral MissionType = "referral"
	MissionTypeDaily    MissionType = "daily"
)

// MissionStatus - per-user progress state; transitions only forward:
// pending -> completed -> claimed.
type MissionStatus string

const (
	MissionPending   MissionStatus = "pending"
	MissionCompleted MissionStatus = "completed"
	MissionClaimed   MissionStatus = "claimed"
)

// Mission - static catalog entry
type Mission struct {
	ID           int64       `db:"id" json:"id"`
	Title        string      `db:"title" json:"title"`
	Description  string      `db:"description" json:"description"`
	Reward       int64       `db:"reward" json:"reward"`
	Type         MissionType `db:"type" json:"type"`
	Requirements string      `db:"requirements" json:"requirements,omitempty"` // opaque JSON for the verifier
	IsActive     bool        `db:"is_active" json:"is_active"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
}

// UserMission - progress of one user on one mission
type UserMission struct {
	ID          int64         `db:"id" json:"id"`
	UserID      int64         `db:"user_id" json:"user_id"`
	MissionID   int64         `db:"mission_id" json:"mission_id"`
	Status      MissionStatus `db:"status" json:"status"`
	CompletedAt *time.Time    `db:"completed_at" json:"completed_at,omitempty"`
	ClaimedAt   *time.Time    `db:"claimed_at" json:"claimed_at,omitempty"`
}

// CanClaim reports whether the reward is currently collectible.
func (um *UserMission) CanClaim() bool {
	return um.Status == MissionCompleted
}

// MissionWithStatus - catalog entry plus the caller's progress (API shape)
type MissionWithStatus struct {
	Mission
	Status  MissionStatus `json:"status"`
	Claimed bool          `json:"claimed"`
}
