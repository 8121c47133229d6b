package game

import "time"

// Energy regenerates in discrete ticks of a fixed interval. The authoritative
// last-update timestamp only ever advances by whole consumed ticks, so
// fractional progress toward the next tick survives repeated recomputation.
const EnergyTick = 10 * time.Second

// EnergyState is the result of a lazy recompute.
type EnergyState struct {
	Current    int64
	LastUpdate time.Time     // persist this alongside Current
	NextTickIn time.Duration // display only, never used for accounting
	TimeToFull time.Duration // display only
}

// CurrentEnergy recomputes energy at `now` from the last persisted state.
// Calling it again with the same inputs yields the same result, and a later
// `now` never yields less energy.
func CurrentEnergy(last int64, lastUpdate time.Time, regenRate, maxEnergy int64, now time.Time) EnergyState {
	if regenRate < 1 {
		regenRate = 1
	}
	if last > maxEnergy {
		last = maxEnergy
	}

	elapsed := now.Sub(lastUpdate)
	if elapsed < 0 {
		elapsed = 0
	}

	ticks := int64(elapsed / EnergyTick)
	current := last + ticks*regenRate

	var upd time.Time
	if current >= maxEnergy {
		current = maxEnergy
		// at cap the remainder is meaningless; restart the tick from now so
		// stale timestamps cannot mint a free refill after the next spend
		upd = now
	} else {
		upd = lastUpdate.Add(time.Duration(ticks) * EnergyTick)
	}

	st := EnergyState{Current: current, LastUpdate: upd}
	if current < maxEnergy {
		st.NextTickIn = EnergyTick - now.Sub(upd)
		ticksNeeded := (maxEnergy - current + regenRate - 1) / regenRate
		st.TimeToFull = time.Duration(ticksNeeded-1)*EnergyTick + st.NextTickIn
	}
	return st
}
