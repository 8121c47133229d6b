package service

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spudverse/internal/domain"
	"spudverse/internal/logger"
	"spudverse/internal/repository"
	"spudverse/internal/verifier"
)

// MissionService drives the pending -> completed -> claimed lifecycle.
// Completion is verified server-side per mission type; claiming pays the
// reward exactly once.
type MissionService struct {
	db        *pgxpool.Pool
	missions  *repository.MissionRepository
	referrals *repository.ReferralRepository
	ledger    *LedgerService
	verifier  verifier.Verifier
	channel   string
}

func NewMissionService(db *pgxpool.Pool, missions *repository.MissionRepository, referrals *repository.ReferralRepository, ledger *LedgerService, v verifier.Verifier, channel string) *MissionService {
	return &MissionService{db: db, missions: missions, referrals: referrals, ledger: ledger, verifier: v, channel: channel}
}

// missionRequirements is the catalog's opaque requirements JSON.
type missionRequirements struct {
	Action    string `json:"action,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Referrals int64  `json:"referrals,omitempty"`
}

func parseRequirements(raw string) missionRequirements {
	var req missionRequirements
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			logger.Warn("unparseable mission requirements", "raw", raw, "error", err)
		}
	}
	return req
}

// List returns the active catalog with the caller's progress merged in.
// Users with no progress row yet show as pending.
func (s *MissionService) List(ctx context.Context, userID int64) ([]*domain.MissionWithStatus, error) {
	missions, err := s.missions.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.missions.GetUserProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.MissionWithStatus, 0, len(missions))
	for _, m := range missions {
		status := domain.MissionPending
		if um, ok := progress[m.ID]; ok {
			status = um.Status
		}
		res = append(res, &domain.MissionWithStatus{
			Mission: *m,
			Status:  status,
			Claimed: status == domain.MissionClaimed,
		})
	}
	return res, nil
}

// Verify checks the mission's requirement and marks it completed when met.
// Returns whether the mission is now completed. Verification failures leave
// the mission pending and are retryable.
func (s *MissionService) Verify(ctx context.Context, userID, missionID int64) (bool, error) {
	m, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return false, err
	}
	req := parseRequirements(m.Requirements)

	switch m.Type {
	case domain.MissionTypeWelcome:
		if err := s.missions.MarkCompleted(ctx, userID, missionID); err != nil {
			return false, err
		}
		return true, nil

	case domain.MissionTypeSocial:
		if req.Action != "join_channel" {
			// Off-platform socials (e.g. a Twitter follow) cannot be
			// checked through the bot; trust the client's attestation.
			if err := s.missions.MarkCompleted(ctx, userID, missionID); err != nil {
				return false, err
			}
			return true, nil
		}
		if s.verifier == nil {
			return false, ErrVerifierUnavailable
		}
		channel := req.Channel
		if channel == "" {
			channel = s.channel
		}
		member, err := s.verifier.IsChannelMember(ctx, channel, userID)
		if err != nil {
			logger.Warn("channel membership check failed", "user_id", userID, "channel", channel, "error", err)
			return false, ErrVerifierUnavailable
		}
		if !member {
			return false, nil
		}
		if err := s.missions.MarkCompleted(ctx, userID, missionID); err != nil {
			return false, err
		}
		return true, nil

	case domain.MissionTypeReferral:
		need := req.Referrals
		if need <= 0 {
			need = 1
		}
		count, err := s.referrals.CountByReferrer(ctx, userID)
		if err != nil {
			return false, err
		}
		if count < need {
			return false, nil
		}
		if err := s.missions.MarkCompleted(ctx, userID, missionID); err != nil {
			return false, err
		}
		return true, nil

	case domain.MissionTypeDaily:
		if err := s.missions.ReopenDaily(ctx, userID, missionID); err != nil {
			return false, err
		}
		if err := s.missions.MarkCompleted(ctx, userID, missionID); err != nil {
			return false, err
		}
		// MarkCompleted is a no-op when today's reward is already claimed
		um, err := s.missions.GetUserMission(ctx, userID, missionID)
		if err != nil {
			return false, err
		}
		return um != nil && um.CanClaim(), nil

	default:
		return false, ErrNotVerifiable
	}
}

type ClaimResult struct {
	Reward  int64 `json:"reward"`
	Balance int64 `json:"balance"`
}

// Claim pays out a completed mission. The status flip and the credit commit
// together, so a retried claim can never pay twice.
func (s *MissionService) Claim(ctx context.Context, userID, missionID int64) (*ClaimResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	reward, err := s.missions.ClaimWithTx(ctx, tx, userID, missionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.claimStateError(ctx, userID, missionID)
		}
		return nil, err
	}

	balance, err := s.ledger.CreditWithTx(ctx, tx, userID, reward, domain.TxTypeMissionReward,
		map[string]interface{}{"mission_id": missionID})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ClaimResult{Reward: reward, Balance: balance}, nil
}

// claimStateError maps a failed claim to the precise state error.
func (s *MissionService) claimStateError(ctx context.Context, userID, missionID int64) error {
	if _, err := s.missions.GetByID(ctx, missionID); err != nil {
		return err
	}
	um, err := s.missions.GetUserMission(ctx, userID, missionID)
	if err != nil {
		return err
	}
	if um != nil && um.Status == domain.MissionClaimed {
		return ErrAlreadyClaimed
	}
	return ErrNotCompleted
}

// CompleteWelcome marks all active welcome missions completed. Called once
// at registration so the welcome reward is immediately claimable.
func (s *MissionService) CompleteWelcome(ctx context.Context, userID int64) error {
	missions, err := s.missions.GetActive(ctx)
	if err != nil {
		return err
	}
	for _, m := range missions {
		if m.Type != domain.MissionTypeWelcome {
			continue
		}
		if err := s.missions.MarkCompleted(ctx, userID, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// CheckReferralProgress re-evaluates the user's referral missions. Called
// after a successful referral registration.
func (s *MissionService) CheckReferralProgress(ctx context.Context, userID int64) error {
	missions, err := s.missions.GetActive(ctx)
	if err != nil {
		return err
	}
	count, err := s.referrals.CountByReferrer(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range missions {
		if m.Type != domain.MissionTypeReferral {
			continue
		}
		need := parseRequirements(m.Requirements).Referrals
		if need <= 0 {
			need = 1
		}
		if count >= need {
			if err := s.missions.MarkCompleted(ctx, userID, m.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
