package game

import (
	"math"
	"time"
)

// ItemCost returns the price of the next unit of an item when `owned` units
// are already held: base * scaling^owned.
func ItemCost(baseCost int64, scaling float64, owned int64) int64 {
	return int64(math.Floor(float64(baseCost) * math.Pow(scaling, float64(owned))))
}

// ItemProfit returns the hourly profit contributed by all `owned` units.
// Each successive unit yields base * scaling^k, matching the cost curve.
func ItemProfit(baseProfit int64, scaling float64, owned int64) int64 {
	var total int64
	for k := int64(0); k < owned; k++ {
		total += int64(math.Floor(float64(baseProfit) * math.Pow(scaling, float64(k))))
	}
	return total
}

// PassiveIncome computes SPUD accrued at `sph` since lastSync, using the same
// elapsed-real-time discipline as the energy engine: the returned sync
// timestamp advances only by the time actually converted into whole SPUD, so
// fractional progress is never lost across restarts.
func PassiveIncome(sph int64, lastSync, now time.Time) (earned int64, newSync time.Time) {
	if sph <= 0 {
		return 0, lastSync
	}
	elapsed := now.Sub(lastSync)
	if elapsed <= 0 {
		return 0, lastSync
	}

	earned = sph * int64(elapsed/time.Millisecond) / int64(time.Hour/time.Millisecond)
	if earned == 0 {
		return 0, lastSync
	}
	consumed := time.Duration(earned*int64(time.Hour/time.Millisecond)/sph) * time.Millisecond
	return earned, lastSync.Add(consumed)
}
