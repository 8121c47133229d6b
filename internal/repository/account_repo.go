package repository

import (
	"context"
	"errors"
	"time"

	"spudverse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrAccountNotFound = errors.New("account not found")

const accountColumns = `user_id, COALESCE(username, ''), COALESCE(first_name, ''), balance, total_farmed,
	level, per_tap, energy, max_energy, energy_regen_rate,
	last_energy_update, last_tap_time, sph, last_passive_sync, referrer_id, created_at`

type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.UserID, &a.Username, &a.FirstName, &a.Balance, &a.TotalFarmed,
		&a.Level, &a.PerTap, &a.Energy, &a.MaxEnergy, &a.EnergyRegenRate,
		&a.LastEnergyUpdate, &a.LastTapTime, &a.SPH, &a.LastPassiveSync,
		&a.ReferrerID, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, userID int64) (*domain.Account, error) {
	return scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID))
}

// GetByIDForUpdate locks the account row inside tx. All balance/energy
// mutations for one user serialize on this lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.Account, error) {
	return scanAccount(tx.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 FOR UPDATE`, userID))
}

// Create inserts a new account with starting stats. ReferrerID is set here or
// never; it is immutable afterwards.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	now := time.Now()
	if a.MaxEnergy == 0 {
		a.Level = 1
		a.PerTap = 1
		a.Energy = 100
		a.MaxEnergy = 100
		a.EnergyRegenRate = 1
	}
	a.LastEnergyUpdate = now
	a.LastTapTime = now
	a.LastPassiveSync = now
	a.CreatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (user_id, username, first_name, balance, total_farmed, level, per_tap,
			energy, max_energy, energy_regen_rate, last_energy_update, last_tap_time,
			sph, last_passive_sync, referrer_id, created_at)
		 VALUES ($1, $2, $3, 0, 0, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12, $13)
		 ON CONFLICT (user_id) DO NOTHING`,
		a.UserID, a.Username, a.FirstName, a.Level, a.PerTap,
		a.Energy, a.MaxEnergy, a.EnergyRegenRate, a.LastEnergyUpdate, a.LastTapTime,
		a.LastPassiveSync, a.ReferrerID, a.CreatedAt,
	)
	return err
}

// LeaderboardEntry is one row of the balance leaderboard.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Balance   int64  `json:"balance"`
	Level     int    `json:"level"`
}

// GetTop returns accounts ordered by balance desc.
func (r *AccountRepository) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, COALESCE(username, ''), COALESCE(first_name, ''), balance, level
		FROM accounts
		ORDER BY balance DESC, user_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.FirstName, &e.Balance, &e.Level); err != nil {
			return nil, err
		}
		e.Rank = rank
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// GetRank returns the user's rank by balance and their balance.
func (r *AccountRepository) GetRank(ctx context.Context, userID int64) (int, int64, error) {
	var rank int
	var balance int64
	err := r.db.QueryRow(ctx, `
		WITH ranked AS (
			SELECT user_id, balance,
			       RANK() OVER (ORDER BY balance DESC) AS rank
			FROM accounts
		)
		SELECT rank, balance FROM ranked WHERE user_id = $1`, userID,
	).Scan(&rank, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrAccountNotFound
		}
		return 0, 0, err
	}
	return rank, balance, nil
}
