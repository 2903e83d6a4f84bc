package domain

import (
	"slices"
	"time"
)

type ScheduleStatus string

const (
	ScheduleOff            ScheduleStatus = "off"
	ScheduleNoPriceData    ScheduleStatus = "no_price_data"
	ScheduleNoSOC          ScheduleStatus = "no_soc"
	ScheduleNoActionNeeded ScheduleStatus = "no_action_needed"
	ScheduleDayComplete    ScheduleStatus = "day_complete"
	ScheduleWaiting        ScheduleStatus = "waiting"
	ScheduleActive         ScheduleStatus = "active"
)

// Schedule is the slot plan of one scheduler run. Slot indices of tomorrow are offset by SlotsPerDay.
type Schedule struct {
	SelectedSlots    map[int]struct{}
	ThresholdPrice   float64
	EnergyPlannedKWh float64
	// DeficitKWh is the energy need of the plan, carried deficit excluded.
	DeficitKWh  float64
	Status      ScheduleStatus
	SlotsPerDay int
}

func EmptySchedule(status ScheduleStatus) Schedule {
	return Schedule{
		SelectedSlots: map[int]struct{}{},
		Status:        status,
	}
}

func (s Schedule) IsSelected(slot int) bool {
	_, ok := s.SelectedSlots[slot]
	return ok
}

// Slots returns the selected slot indices in ascending order.
func (s Schedule) Slots() []int {
	out := make([]int, 0, len(s.SelectedSlots))
	for i := range s.SelectedSlots {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

type EnergyState string

const (
	EnergyIdle        EnergyState = "idle"
	EnergyCharging    EnergyState = "charging"
	EnergyDischarging EnergyState = "discharging"
)

// SafePowerState is the throttling memory carried between poll cycles.
type SafePowerState struct {
	BaseLevel            float64
	LastKnownCeilingAmps float64
	Initialized          bool
	// last level written to the device
	WrittenLevel float64
	Written      bool
}

type SafePowerInput struct {
	TargetLevel  float64
	CeilingAmps  float64
	MeasuredAmps *float64
	AppliedLevel *float64
}

type SafePowerResult struct {
	State       SafePowerState
	Level       float64
	WriteNeeded bool
}

const MaxConsumptionHistory = 7

type ConsumptionEntry struct {
	Date string  `json:"date"`
	KWh  float64 `json:"kwh"`
}

type ConsumptionHistory []ConsumptionEntry

// Append adds or replaces the entry of a date, keeping the newest MaxConsumptionHistory entries.
func (h ConsumptionHistory) Append(e ConsumptionEntry) ConsumptionHistory {
	out := make(ConsumptionHistory, 0, len(h)+1)
	for _, old := range h {
		if old.Date != e.Date {
			out = append(out, old)
		}
	}
	out = append(out, e)
	slices.SortStableFunc(out, func(a, b ConsumptionEntry) int {
		if a.Date < b.Date {
			return -1
		} else if a.Date > b.Date {
			return 1
		}
		return 0
	})
	if len(out) > MaxConsumptionHistory {
		out = out[len(out)-MaxConsumptionHistory:]
	}
	return out
}

func (h ConsumptionHistory) Average() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, e := range h {
		sum += e.KWh
	}
	return sum / float64(len(h)), true
}

// DayState is the persisted, day scoped part of the coordinator state.
type DayState struct {
	Day                string             `json:"day"`
	CarriedDeficitKWh  float64            `json:"carried_deficit_kwh"`
	LastDeficitKWh     float64            `json:"last_deficit_kwh"`
	LastConsumptionKWh float64            `json:"last_consumption_kwh"`
	History            ConsumptionHistory `json:"history"`
}

const DayLayout = "2006-01-02"

func DayOf(t time.Time) string {
	return t.Format(DayLayout)
}

type SchedulerInput struct {
	Now                  time.Time
	Prices               PriceData
	ForecastRemainingKWh float64
	SOC                  float64
	Options              ControlOptions
	PowerKW              float64
	History              ConsumptionHistory
	CarriedDeficitKWh    float64
}
