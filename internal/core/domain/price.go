package domain

import (
	"math"
	"time"
)

// PriceData is the latest snapshot of the spot price source. Nil fields mean no data.
type PriceData struct {
	Current  *float64
	Today    []float64
	Tomorrow []float64
	Min      *float64
	Avg      *float64
	Max      *float64
	Updated  time.Time
}

func (p PriceData) HasToday() bool {
	return len(p.Today) > 0
}

// SlotDuration is the duration of one slot of today's array.
func (p PriceData) SlotDuration() time.Duration {
	return SlotDuration(len(p.Today))
}

// CurrentPrice returns the reported current price, falling back to today's slot price at now.
func (p PriceData) CurrentPrice(now time.Time) *float64 {
	if p.Current != nil {
		return p.Current
	}
	if !p.HasToday() {
		return nil
	}
	v := p.Today[SlotIndex(now, len(p.Today))]
	return &v
}

// Stats returns min, avg and max, preferring the source attributes over values computed from today.
func (p PriceData) Stats() (lo, avg, hi float64, ok bool) {
	if p.Min != nil && p.Avg != nil && p.Max != nil {
		return *p.Min, *p.Avg, *p.Max, true
	}
	if !p.HasToday() {
		return 0, 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	sum := 0.0
	for _, v := range p.Today {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		sum += v
	}
	return lo, sum / float64(len(p.Today)), hi, true
}

type ForecastData struct {
	RemainingKWh *float64
	Updated      time.Time
}

// SlotDuration divides a day into n equal slots.
func SlotDuration(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return 24 * time.Hour / time.Duration(n)
}

// SlotIndex is the slot of now in an array of n slots, clamped to the array bounds.
func SlotIndex(now time.Time, n int) int {
	if n <= 0 {
		return 0
	}
	minutes := float64(now.Hour()*60+now.Minute()) + float64(now.Second())/60
	slotMinutes := 1440 / float64(n)
	idx := int(math.Floor(minutes / slotMinutes))
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

// RemainingDayFraction is the part of the local day still ahead of now.
func RemainingDayFraction(now time.Time) float64 {
	seconds := now.Hour()*3600 + now.Minute()*60 + now.Second()
	return math.Max(0, 1-float64(seconds)/86400)
}
