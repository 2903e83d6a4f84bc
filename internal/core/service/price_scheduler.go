package service

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/port"
	"go.uber.org/zap"
)

type DefaultPriceScheduler struct {
	Logger *zap.Logger
}

var _ port.PriceScheduler = (*DefaultPriceScheduler)(nil)

type candidateSlot struct {
	index    int
	price    float64
	duration time.Duration
}

// Plan selects the grid slots of today and tomorrow that cover the energy need of the battery.
func (s *DefaultPriceScheduler) Plan(in domain.SchedulerInput) domain.Schedule {
	opts := in.Options
	if opts.GridMode == domain.GridModeOff {
		return domain.EmptySchedule(domain.ScheduleOff)
	}
	if !in.Prices.HasToday() {
		return domain.EmptySchedule(domain.ScheduleNoPriceData)
	}

	capacity := opts.BatteryCapacityKWh
	currentKWh := in.SOC / 100 * capacity

	var need float64
	var deficit float64
	if opts.GridMode == domain.GridModeFromGrid {
		consumption := opts.DailyConsumptionEstimateKWh
		if avg, ok := in.History.Average(); ok {
			consumption = avg
		}
		netPV := math.Max(0, in.ForecastRemainingKWh-consumption*domain.RemainingDayFraction(in.Now))
		targetKWh := opts.BatteryChargeMaxLevel / 100 * capacity
		deficit = math.Max(0, targetKWh-currentKWh-netPV)
		need = deficit + in.CarriedDeficitKWh
	} else {
		minKWh := opts.BatteryDischargeMinLevel / 100 * capacity
		need = math.Max(0, currentKWh-minKWh) * opts.EfficiencyFactor
	}

	schedule := domain.EmptySchedule(domain.ScheduleNoActionNeeded)
	schedule.SlotsPerDay = len(in.Prices.Today)
	schedule.DeficitKWh = deficit
	if need <= 0 {
		return schedule
	}

	candidates := candidateSlots(in.Now, in.Prices)
	if opts.GridMode == domain.GridModeFromGrid {
		s.planCharge(&schedule, candidates, in.PowerKW, opts.EfficiencyFactor, need)
	} else {
		s.planDischarge(&schedule, candidates, in.PowerKW, need)
	}

	current := domain.SlotIndex(in.Now, schedule.SlotsPerDay)
	switch {
	case len(schedule.SelectedSlots) == 0:
		schedule.Status = domain.ScheduleDayComplete
	case schedule.IsSelected(current):
		schedule.Status = domain.ScheduleActive
	default:
		schedule.Status = domain.ScheduleWaiting
	}
	if s.Logger != nil {
		s.Logger.Debug("schedule planned",
			zap.String("mode", string(opts.GridMode)),
			zap.Float64("need_kwh", need),
			zap.Ints("slots", schedule.Slots()),
			zap.Float64("threshold", schedule.ThresholdPrice),
			zap.String("status", string(schedule.Status)))
	}
	return schedule
}

// planCharge always takes negative price slots and then the cheapest remaining slots until the
// deliverable energy covers need. Negative slots are not credited against need.
func (s *DefaultPriceScheduler) planCharge(schedule *domain.Schedule, candidates []candidateSlot, powerKW, efficiency, need float64) {
	var positive []candidateSlot
	threshold := math.Inf(-1)
	for _, c := range candidates {
		if c.price < 0 {
			schedule.SelectedSlots[c.index] = struct{}{}
			schedule.EnergyPlannedKWh += powerKW * c.duration.Hours() * efficiency
			threshold = math.Max(threshold, c.price)
			continue
		}
		positive = append(positive, c)
	}
	slices.SortStableFunc(positive, func(a, b candidateSlot) int {
		return cmp.Compare(a.price, b.price)
	})

	covered := 0.0
	for _, c := range positive {
		if covered >= need {
			break
		}
		energy := powerKW * c.duration.Hours() * efficiency
		if energy <= 0 {
			break
		}
		schedule.SelectedSlots[c.index] = struct{}{}
		schedule.EnergyPlannedKWh += energy
		covered += energy
		threshold = math.Max(threshold, c.price)
	}
	if len(schedule.SelectedSlots) > 0 {
		schedule.ThresholdPrice = threshold
	}
}

// planDischarge takes the most expensive slots until need is sold. Negative price slots are never used.
func (s *DefaultPriceScheduler) planDischarge(schedule *domain.Schedule, candidates []candidateSlot, powerKW, need float64) {
	var sellable []candidateSlot
	for _, c := range candidates {
		if c.price >= 0 {
			sellable = append(sellable, c)
		}
	}
	slices.SortStableFunc(sellable, func(a, b candidateSlot) int {
		return cmp.Compare(b.price, a.price)
	})

	threshold := math.Inf(1)
	covered := 0.0
	for _, c := range sellable {
		if covered >= need {
			break
		}
		energy := powerKW * c.duration.Hours()
		if energy <= 0 {
			break
		}
		schedule.SelectedSlots[c.index] = struct{}{}
		schedule.EnergyPlannedKWh += energy
		covered += energy
		threshold = math.Min(threshold, c.price)
	}
	if len(schedule.SelectedSlots) > 0 {
		schedule.ThresholdPrice = threshold
	}
}

// candidateSlots lists today's slots from the current one onward, followed by tomorrow's.
func candidateSlots(now time.Time, prices domain.PriceData) []candidateSlot {
	today := prices.Today
	var out []candidateSlot
	todayDuration := domain.SlotDuration(len(today))
	for i := domain.SlotIndex(now, len(today)); i < len(today); i++ {
		out = append(out, candidateSlot{index: i, price: today[i], duration: todayDuration})
	}
	tomorrowDuration := domain.SlotDuration(len(prices.Tomorrow))
	for i, p := range prices.Tomorrow {
		out = append(out, candidateSlot{index: len(today) + i, price: p, duration: tomorrowDuration})
	}
	return out
}

func (s *DefaultPriceScheduler) IsSlotSelected(schedule domain.Schedule, now time.Time) bool {
	if schedule.SlotsPerDay == 0 {
		return false
	}
	return schedule.IsSelected(domain.SlotIndex(now, schedule.SlotsPerDay))
}

func (s *DefaultPriceScheduler) CurrentThreshold(schedule domain.Schedule) float64 {
	return schedule.ThresholdPrice
}
