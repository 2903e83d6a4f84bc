package port

import (
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
)

type PriceScheduler interface {
	Plan(in domain.SchedulerInput) domain.Schedule
	IsSlotSelected(s domain.Schedule, now time.Time) bool
	CurrentThreshold(s domain.Schedule) float64
}

type SafePowerControl interface {
	Step(state domain.SafePowerState, in domain.SafePowerInput) domain.SafePowerResult
}

// StateStore persists the coordinator state that must survive a restart.
type StateStore interface {
	LoadDayState() (*domain.DayState, error)
	SaveDayState(state domain.DayState) error
	LoadOptions() (*domain.ControlOptions, error)
	SaveOptions(options domain.ControlOptions) error
}
