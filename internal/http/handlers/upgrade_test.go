package handlers

import "testing"

func TestBuyUpgradeRequestName(t *testing.T) {
	if got := (BuyUpgradeRequest{Name: "per_tap"}).name(); got != "per_tap" {
		t.Errorf("name = %q, want per_tap", got)
	}
	if got := (BuyUpgradeRequest{UpgradeName: "max_energy"}).name(); got != "max_energy" {
		t.Errorf("legacy name = %q, want max_energy", got)
	}
	if got := (BuyUpgradeRequest{Name: "per_tap", UpgradeName: "max_energy"}).name(); got != "per_tap" {
		t.Errorf("name = %q, want per_tap to win", got)
	}
}
