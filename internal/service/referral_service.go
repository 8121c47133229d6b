package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/logger"
	"spudverse/internal/repository"
)

// ReferralService registers referrer -> referred edges and grants both-sided
// bonuses. An edge is created at most once per referred user and both bonuses
// commit atomically with it.
type ReferralService struct {
	db           *pgxpool.Pool
	referrals    *repository.ReferralRepository
	accounts     *repository.AccountRepository
	ledger       *LedgerService
	missions     *MissionService
	achievements *AchievementService

	referrerBonus int64
	referredBonus int64
}

func NewReferralService(db *pgxpool.Pool, referrals *repository.ReferralRepository, accounts *repository.AccountRepository, ledger *LedgerService, missions *MissionService, achievements *AchievementService, referrerBonus, referredBonus int64) *ReferralService {
	return &ReferralService{
		db:            db,
		referrals:     referrals,
		accounts:      accounts,
		ledger:        ledger,
		missions:      missions,
		achievements:  achievements,
		referrerBonus: referrerBonus,
		referredBonus: referredBonus,
	}
}

// Register links referredID to referrerID and credits both bonuses. Rejects
// self-referral and a second referrer for the same user; an unknown referrer
// is ErrUserNotFound.
func (s *ReferralService) Register(ctx context.Context, referrerID, referredID int64) error {
	if referrerID == referredID {
		return ErrSelfReferral
	}

	if _, err := s.accounts.GetByID(ctx, referrerID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// lock both account rows in id order so two concurrent mutual
	// registrations cannot deadlock
	lo, hi := referrerID, referredID
	if lo > hi {
		lo, hi = hi, lo
	}
	if _, err := tx.Exec(ctx,
		`SELECT user_id FROM accounts WHERE user_id IN ($1, $2) ORDER BY user_id FOR UPDATE`,
		lo, hi,
	); err != nil {
		return err
	}

	inserted, err := s.referrals.CreateWithTx(ctx, tx, referrerID, referredID)
	if err != nil {
		return err
	}
	if !inserted {
		return ErrAlreadyReferred
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET referrer_id = $1 WHERE user_id = $2 AND referrer_id IS NULL`,
		referrerID, referredID,
	); err != nil {
		return err
	}

	meta := map[string]interface{}{"referrer_id": referrerID, "referred_id": referredID}
	if _, err := s.ledger.CreditWithTx(ctx, tx, referrerID, s.referrerBonus, domain.TxTypeReferralBonus, meta); err != nil {
		return err
	}
	if _, err := s.ledger.CreditWithTx(ctx, tx, referredID, s.referredBonus, domain.TxTypeWelcomeBonus, meta); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	// best effort: mission and achievement progress for the referrer
	if s.missions != nil {
		if err := s.missions.CheckReferralProgress(ctx, referrerID); err != nil {
			logger.Warn("referral mission check failed", "user_id", referrerID, "error", err)
		}
	}
	if s.achievements != nil {
		if _, err := s.achievements.Evaluate(ctx, referrerID); err != nil {
			logger.Warn("referral achievement check failed", "user_id", referrerID, "error", err)
		}
	}
	return nil
}

// ReferralStats is the referrer-side view.
type ReferralStats struct {
	Count          int64                 `json:"count"`
	TotalEarned    int64                 `json:"total_earned"`
	BonusPerInvite int64                 `json:"bonus_per_invite"`
	Referrals      []repository.Referral `json:"referrals"`
}

func (s *ReferralService) Stats(ctx context.Context, userID int64) (*ReferralStats, error) {
	edges, err := s.referrals.GetByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ReferralStats{
		Count:          int64(len(edges)),
		TotalEarned:    int64(len(edges)) * s.referrerBonus,
		BonusPerInvite: s.referrerBonus,
		Referrals:      edges,
	}, nil
}
