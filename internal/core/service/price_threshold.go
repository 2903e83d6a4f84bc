package service

import (
	"github.com/berfenger/felicity2mqtt/internal/core/domain"
)

// ManualThreshold interpolates a price threshold from a 1-10 level: levels 1..5 span min..avg and
// levels 5..10 span avg..max.
func ManualThreshold(prices domain.PriceData, level float64) (float64, bool) {
	lo, avg, hi, ok := prices.Stats()
	if !ok {
		return 0, false
	}
	if level < 1 {
		level = 1
	} else if level > 10 {
		level = 10
	}
	if level <= 5 {
		return lo + (avg-lo)*(level-1)/4, true
	}
	return avg + (hi-avg)*(level-5)/5, true
}
