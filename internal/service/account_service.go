package service

import (
	"context"

	"spudverse/internal/domain"
	"spudverse/internal/game"
	"spudverse/internal/repository"
)

// AccountService serves read-only views of the economy state. Energy and
// pending passive income are recomputed at read time and never persisted
// here; only spending paths persist.
type AccountService struct {
	accounts     *repository.AccountRepository
	transactions *repository.TransactionRepository
	referrals    *repository.ReferralRepository
	clock        game.Clock
}

func NewAccountService(accounts *repository.AccountRepository, transactions *repository.TransactionRepository, referrals *repository.ReferralRepository, clock game.Clock) *AccountService {
	if clock == nil {
		clock = game.RealClock{}
	}
	return &AccountService{accounts: accounts, transactions: transactions, referrals: referrals, clock: clock}
}

// Profile is the account snapshot with derived fields resolved.
type Profile struct {
	*domain.Account
	LevelTitle     string          `json:"level_title"`
	NextLevel      *game.LevelInfo `json:"next_level,omitempty"`
	PendingPassive int64           `json:"pending_passive"`
	ReferralCount  int64           `json:"referral_count"`
}

func (s *AccountService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	st := game.CurrentEnergy(acc.Energy, acc.LastEnergyUpdate, acc.EnergyRegenRate, acc.MaxEnergy, now)
	acc.Energy = st.Current
	acc.LastEnergyUpdate = st.LastUpdate

	pending, _ := game.PassiveIncome(acc.SPH, acc.LastPassiveSync, now)

	referralCount, err := s.referrals.CountByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Account:        acc,
		LevelTitle:     game.LevelByNumber(acc.Level).Title,
		NextLevel:      game.NextLevel(acc.Level),
		PendingPassive: pending,
		ReferralCount:  referralCount,
	}, nil
}

// EnergyView is the authoritative energy state for client reconciliation.
type EnergyView struct {
	Current    int64 `json:"current"`
	Max        int64 `json:"max"`
	RegenRate  int64 `json:"regen_rate"`
	NextTickMs int64 `json:"next_tick_ms"`
	FullInMs   int64 `json:"full_in_ms"`
}

func (s *AccountService) Energy(ctx context.Context, userID int64) (*EnergyView, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := game.CurrentEnergy(acc.Energy, acc.LastEnergyUpdate, acc.EnergyRegenRate, acc.MaxEnergy, s.clock.Now())
	return &EnergyView{
		Current:    st.Current,
		Max:        acc.MaxEnergy,
		RegenRate:  acc.EnergyRegenRate,
		NextTickMs: st.NextTickIn.Milliseconds(),
		FullInMs:   st.TimeToFull.Milliseconds(),
	}, nil
}

// Leaderboard returns the top accounts by balance plus the caller's own rank,
// so a user outside the page still sees where they stand.
type Leaderboard struct {
	Entries []repository.LeaderboardEntry `json:"entries"`
	Rank    int                           `json:"rank"`
	Balance int64                         `json:"balance"`
}

func (s *AccountService) Leaderboard(ctx context.Context, userID int64, limit int) (*Leaderboard, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := s.accounts.GetTop(ctx, limit)
	if err != nil {
		return nil, err
	}
	rank, balance, err := s.accounts.GetRank(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Leaderboard{Entries: entries, Rank: rank, Balance: balance}, nil
}

// History returns the most recent journal entries for the user.
func (s *AccountService) History(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.transactions.GetByUserID(ctx, userID, limit)
}
