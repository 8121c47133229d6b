package game

import "testing"

func TestLevelFor(t *testing.T) {
	cases := []struct {
		farmed int64
		want   int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{4999, 2},
		{5000, 3},
		{500000, 7},
		{99999999, 7},
	}

	for _, tc := range cases {
		if got := LevelFor(tc.farmed); got.Level != tc.want {
			t.Fatalf("LevelFor(%d) = %d; want %d", tc.farmed, got.Level, tc.want)
		}
	}
}

func TestLevelForCrossesMultipleThresholds(t *testing.T) {
	// one large reward jumping from 0 to 16k lands on level 4 directly,
	// with level 4 stats rather than level 2's
	l := LevelFor(16000)
	if l.Level != 4 || l.PerTap != 5 || l.MaxEnergy != 250 {
		t.Fatalf("got level %d perTap %d maxEnergy %d; want 4/5/250", l.Level, l.PerTap, l.MaxEnergy)
	}
}

func TestNextLevel(t *testing.T) {
	n := NextLevel(1)
	if n == nil || n.Level != 2 || n.Required != 1000 {
		t.Fatalf("NextLevel(1) = %+v; want level 2 at 1000", n)
	}
	if NextLevel(7) != nil {
		t.Fatal("NextLevel(7) should be nil at top of ladder")
	}
}

func TestLadderOrdering(t *testing.T) {
	for i := 1; i < len(Levels); i++ {
		prev, cur := Levels[i-1], Levels[i]
		if cur.Required <= prev.Required {
			t.Fatalf("ladder thresholds not strictly increasing at level %d", cur.Level)
		}
		if cur.PerTap < prev.PerTap || cur.MaxEnergy < prev.MaxEnergy {
			t.Fatalf("level %d bonuses regress", cur.Level)
		}
	}
}
