package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Referral is one referrer -> referred edge, created at most once per
// referred user.
type Referral struct {
	ID           int64     `json:"id"`
	ReferrerID   int64     `json:"referrer_id"`
	ReferredID   int64     `json:"referred_id"`
	BonusClaimed bool      `json:"bonus_claimed"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReferralRepository struct {
	db *pgxpool.Pool
}

func NewReferralRepository(db *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// CreateWithTx inserts the edge inside tx. The unique constraint on
// referred_id makes a second referral for the same user a no-op; the caller
// checks the returned flag before granting bonuses.
func (r *ReferralRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, referrerID, referredID int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO referrals (referrer_id, referred_id, bonus_claimed)
		 VALUES ($1, $2, true)
		 ON CONFLICT (referred_id) DO NOTHING`,
		referrerID, referredID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CountByReferrer returns how many users this user has referred.
func (r *ReferralRepository) CountByReferrer(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM referrals WHERE referrer_id = $1`, userID,
	).Scan(&n)
	return n, err
}

// IsReferred reports whether the user already has a referrer edge.
func (r *ReferralRepository) IsReferred(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM referrals WHERE referred_id = $1)`, userID,
	).Scan(&exists)
	return exists, err
}

// GetByReferrer returns all edges created by a user, newest first.
func (r *ReferralRepository) GetByReferrer(ctx context.Context, userID int64) ([]Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, referrer_id, referred_id, bonus_claimed, created_at
		 FROM referrals
		 WHERE referrer_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Referral
	for rows.Next() {
		var ref Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.BonusClaimed, &ref.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, rows.Err()
}
