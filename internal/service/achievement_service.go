package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/logger"
	"spudverse/internal/repository"
)

// AchievementService evaluates unlock predicates against live stats and pays
// each reward exactly once. Evaluation runs after economy writes commit, so a
// failed evaluation never rolls back the action that triggered it.
type AchievementService struct {
	db           *pgxpool.Pool
	achievements *repository.AchievementRepository
	accounts     *repository.AccountRepository
	referrals    *repository.ReferralRepository
	missions     *repository.MissionRepository
	ledger       *LedgerService
}

func NewAchievementService(db *pgxpool.Pool, achievements *repository.AchievementRepository, accounts *repository.AccountRepository, referrals *repository.ReferralRepository, missions *repository.MissionRepository, ledger *LedgerService) *AchievementService {
	return &AchievementService{
		db:           db,
		achievements: achievements,
		accounts:     accounts,
		referrals:    referrals,
		missions:     missions,
		ledger:       ledger,
	}
}

// AchievementView is a catalog entry plus the caller's unlock state.
type AchievementView struct {
	domain.Achievement
	Unlocked bool `json:"unlocked"`
}

func (s *AchievementService) List(ctx context.Context, userID int64) ([]*AchievementView, error) {
	catalog, err := s.achievements.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.achievements.GetUnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*AchievementView, 0, len(catalog))
	for _, a := range catalog {
		res = append(res, &AchievementView{Achievement: *a, Unlocked: unlocked[a.ID]})
	}
	return res, nil
}

// Evaluate checks every locked achievement against the user's current stats
// and unlocks the ones whose threshold is met. Returns the newly unlocked
// entries. Each unlock and its reward commit together.
func (s *AchievementService) Evaluate(ctx context.Context, userID int64) ([]*domain.Achievement, error) {
	catalog, err := s.achievements.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	unlocked, err := s.achievements.GetUnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.collectStats(ctx, userID, catalog, unlocked)
	if err != nil {
		return nil, err
	}

	var newly []*domain.Achievement
	for _, a := range catalog {
		if unlocked[a.ID] || !stats.meets(a) {
			continue
		}
		if err := s.unlock(ctx, userID, a); err != nil {
			return newly, err
		}
		logger.Info("achievement unlocked", "user_id", userID, "achievement", a.Title)
		newly = append(newly, a)
	}
	return newly, nil
}

type achievementStats struct {
	balance   int64
	referrals int64
	missions  int64
	rank      int64
}

func (st achievementStats) meets(a *domain.Achievement) bool {
	switch a.Type {
	case domain.AchievementBalance:
		return st.balance >= a.Threshold
	case domain.AchievementReferrals:
		return st.referrals >= a.Threshold
	case domain.AchievementMissions:
		return st.missions >= a.Threshold
	case domain.AchievementRank:
		return st.rank > 0 && st.rank <= a.Threshold
	default:
		return false
	}
}

// collectStats gathers only the stats some locked achievement actually
// compares against.
func (s *AchievementService) collectStats(ctx context.Context, userID int64, catalog []*domain.Achievement, unlocked map[int64]bool) (achievementStats, error) {
	need := map[domain.AchievementType]bool{}
	for _, a := range catalog {
		if !unlocked[a.ID] {
			need[a.Type] = true
		}
	}

	var st achievementStats
	if need[domain.AchievementBalance] {
		acc, err := s.accounts.GetByID(ctx, userID)
		if err != nil {
			return st, err
		}
		st.balance = acc.Balance
	}
	if need[domain.AchievementReferrals] {
		n, err := s.referrals.CountByReferrer(ctx, userID)
		if err != nil {
			return st, err
		}
		st.referrals = n
	}
	if need[domain.AchievementMissions] {
		n, err := s.missions.CountClaimed(ctx, userID)
		if err != nil {
			return st, err
		}
		st.missions = n
	}
	if need[domain.AchievementRank] {
		rank, _, err := s.accounts.GetRank(ctx, userID)
		if err != nil {
			return st, err
		}
		st.rank = int64(rank)
	}
	return st, nil
}

func (s *AchievementService) unlock(ctx context.Context, userID int64, a *domain.Achievement) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	inserted, err := s.achievements.UnlockWithTx(ctx, tx, userID, a.ID)
	if err != nil {
		return err
	}
	if !inserted {
		// concurrent evaluation already granted it
		return nil
	}

	if a.Reward > 0 {
		if _, err := s.ledger.CreditWithTx(ctx, tx, userID, a.Reward, domain.TxTypeAchievement,
			map[string]interface{}{"achievement_id": a.ID}); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
