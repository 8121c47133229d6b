package repository

import (
	"context"
	"errors"
	"time"

	"spudverse/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMissionNotFound = errors.New("mission not found")

type MissionRepository struct {
	db *pgxpool.Pool
}

func NewMissionRepository(db *pgxpool.Pool) *MissionRepository {
	return &MissionRepository{db: db}
}

// GetActive returns all active catalog missions.
func (r *MissionRepository) GetActive(ctx context.Context) ([]*domain.Mission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, reward, type, COALESCE(requirements::text, ''), is_active, created_at
		 FROM missions
		 WHERE is_active = true
		 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Mission
	for rows.Next() {
		var m domain.Mission
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Reward, &m.Type,
			&m.Requirements, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (r *MissionRepository) GetByID(ctx context.Context, id int64) (*domain.Mission, error) {
	var m domain.Mission
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, reward, type, COALESCE(requirements::text, ''), is_active, created_at
		 FROM missions WHERE id = $1`, id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.Reward, &m.Type,
		&m.Requirements, &m.IsActive, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}
	return &m, nil
}

// GetUserProgress returns the user's progress rows keyed by mission id.
func (r *MissionRepository) GetUserProgress(ctx context.Context, userID int64) (map[int64]*domain.UserMission, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, mission_id, status, completed_at, claimed_at
		 FROM user_missions WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]*domain.UserMission)
	for rows.Next() {
		var um domain.UserMission
		if err := rows.Scan(&um.ID, &um.UserID, &um.MissionID, &um.Status,
			&um.CompletedAt, &um.ClaimedAt); err != nil {
			return nil, err
		}
		res[um.MissionID] = &um
	}
	return res, rows.Err()
}

func (r *MissionRepository) GetUserMission(ctx context.Context, userID, missionID int64) (*domain.UserMission, error) {
	var um domain.UserMission
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, mission_id, status, completed_at, claimed_at
		 FROM user_missions WHERE user_id = $1 AND mission_id = $2`,
		userID, missionID,
	).Scan(&um.ID, &um.UserID, &um.MissionID, &um.Status, &um.CompletedAt, &um.ClaimedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &um, nil
}

// MarkCompleted moves the mission to completed. Strictly forward-only:
// a row already completed or claimed is left untouched, so retried
// verifications can never regress or double the state.
func (r *MissionRepository) MarkCompleted(ctx context.Context, userID, missionID int64) error {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_missions (user_id, mission_id, status, completed_at)
		 VALUES ($1, $2, 'completed', $3)
		 ON CONFLICT (user_id, mission_id) DO UPDATE
		 SET status = 'completed', completed_at = $3
		 WHERE user_missions.status = 'pending'`,
		userID, missionID, now,
	)
	return err
}

// EnsurePending creates the pending progress row if none exists yet.
func (r *MissionRepository) EnsurePending(ctx context.Context, userID, missionID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_missions (user_id, mission_id, status)
		 VALUES ($1, $2, 'pending')
		 ON CONFLICT (user_id, mission_id) DO NOTHING`,
		userID, missionID,
	)
	return err
}

// ClaimWithTx flips completed -> claimed inside tx and returns the reward
// amount from the catalog. Returns pgx.ErrNoRows via scan when the mission is
// not in a claimable state, which callers translate to a state error.
func (r *MissionRepository) ClaimWithTx(ctx context.Context, tx pgx.Tx, userID, missionID int64) (int64, error) {
	var reward int64
	err := tx.QueryRow(ctx,
		`UPDATE user_missions um
		 SET status = 'claimed', claimed_at = $1
		 FROM missions m
		 WHERE um.user_id = $2
		   AND um.mission_id = $3
		   AND um.mission_id = m.id
		   AND um.status = 'completed'
		 RETURNING m.reward`,
		time.Now(), userID, missionID,
	).Scan(&reward)
	return reward, err
}

// ReopenDaily flips a claimed daily mission back to completed once the claim
// is from a previous day. No-op within the same day, so the reward stays
// once-per-day.
func (r *MissionRepository) ReopenDaily(ctx context.Context, userID, missionID int64) error {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`UPDATE user_missions
		 SET status = 'completed', completed_at = $1
		 WHERE user_id = $2
		   AND mission_id = $3
		   AND status = 'claimed'
		   AND claimed_at < date_trunc('day', now())`,
		now, userID, missionID,
	)
	return err
}

// CountClaimed returns how many missions the user has claimed (achievement
// predicate input).
func (r *MissionRepository) CountClaimed(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM user_missions WHERE user_id = $1 AND status = 'claimed'`,
		userID,
	).Scan(&n)
	return n, err
}
