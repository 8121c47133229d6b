package service

import (
	"testing"

	"spudverse/internal/domain"
	"spudverse/internal/game"
)

func TestStatsForLevel(t *testing.T) {
	rung := game.LevelByNumber(3) // per_tap 3, max_energy 200

	perTap, maxEnergy := statsForLevel(rung, map[domain.UpgradeName]int{})
	if perTap != 3 || maxEnergy != 200 {
		t.Fatalf("base stats = %d/%d, want 3/200", perTap, maxEnergy)
	}

	perTap, maxEnergy = statsForLevel(rung, map[domain.UpgradeName]int{
		domain.UpgradePerTap:    2,
		domain.UpgradeMaxEnergy: 1,
	})
	if perTap != 5 {
		t.Fatalf("per_tap with 2 upgrade levels = %d, want 5", perTap)
	}
	if maxEnergy != 250 {
		t.Fatalf("max_energy with 1 upgrade level = %d, want 250", maxEnergy)
	}
}

func TestEnergyErrorMatchesSentinel(t *testing.T) {
	err := &EnergyError{Current: 3, Max: 100}
	if err.Unwrap() != ErrInsufficientEnergy {
		t.Fatalf("EnergyError must unwrap to ErrInsufficientEnergy")
	}
	if err.Error() != "insufficient energy: 3/100" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
