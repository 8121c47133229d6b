package service

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientEnergy  = errors.New("insufficient energy")
	ErrMaxLevelReached     = errors.New("max level reached")
	ErrThresholdNotMet     = errors.New("level threshold not met")
	ErrNotCompleted        = errors.New("mission not completed")
	ErrAlreadyClaimed      = errors.New("reward already claimed")
	ErrSelfReferral        = errors.New("cannot refer yourself")
	ErrAlreadyReferred     = errors.New("user already referred")
	ErrUnknownUpgrade      = errors.New("unknown upgrade")
	ErrNotVerifiable       = errors.New("mission has no channel verification")
	ErrVerifierUnavailable = errors.New("verifier unavailable, try again later")
)

// EnergyError carries the authoritative energy state back to the client so it
// can reconcile its prediction. Matches ErrInsufficientEnergy via errors.Is.
type EnergyError struct {
	Current int64
	Max     int64
}

func (e *EnergyError) Error() string {
	return fmt.Sprintf("insufficient energy: %d/%d", e.Current, e.Max)
}

func (e *EnergyError) Unwrap() error { return ErrInsufficientEnergy }
