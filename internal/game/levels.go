package game

// LevelInfo is one rung of the progression ladder. PerTap and MaxEnergy are
// absolute values for the level, not increments.
type LevelInfo struct {
	Level     int    `json:"level"`
	Required  int64  `json:"required_farmed"`
	PerTap    int64  `json:"per_tap"`
	MaxEnergy int64  `json:"max_energy"`
	Title     string `json:"title"`
}

// Levels is the strictly ordered ladder. Level is always the highest rung
// whose Required <= totalFarmed.
var Levels = []LevelInfo{
	{1, 0, 1, 100, "Spud Starter 🌱"},
	{2, 1000, 2, 150, "Tater Tot 🥔"},
	{3, 5000, 3, 200, "Farm Hand 🧑‍🌾"},
	{4, 15000, 5, 250, "Crop Captain 🚀"},
	{5, 50000, 8, 350, "Potato Baron 👑"},
	{6, 150000, 12, 500, "Spud-nik Explorer 🧑‍🚀"},
	{7, 500000, 20, 750, "Legendary Spud Master 🌟"},
}

// LevelFor returns the highest rung reachable with the given cumulative
// farmed total. A single large reward crossing several thresholds lands
// directly on the final rung.
func LevelFor(totalFarmed int64) LevelInfo {
	cur := Levels[0]
	for _, l := range Levels {
		if totalFarmed >= l.Required {
			cur = l
		}
	}
	return cur
}

// LevelByNumber returns the rung for a level number, defaulting to rung 1.
func LevelByNumber(level int) LevelInfo {
	for _, l := range Levels {
		if l.Level == level {
			return l
		}
	}
	return Levels[0]
}

// NextLevel returns the rung after `level`, or nil at the top of the ladder.
func NextLevel(level int) *LevelInfo {
	for i := range Levels {
		if Levels[i].Level == level+1 {
			return &Levels[i]
		}
	}
	return nil
}
