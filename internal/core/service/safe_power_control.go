package service

import (
	"math"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/port"
	"go.uber.org/zap"
)

const (
	safePowerMinLevel      = 1.0
	safePowerCriticalRatio = 0.95
	safePowerHighRatio     = 0.80
	safePowerLowRatio      = 0.70
	// a device value this far from the tracked level was set by someone else
	safePowerExternalDelta = 1.0
)

type DefaultSafePowerControl struct {
	Logger *zap.Logger
}

var _ port.SafePowerControl = (*DefaultSafePowerControl)(nil)

// Step throttles the requested power level against the per phase current ceiling. A zero ceiling
// disables throttling.
func (c *DefaultSafePowerControl) Step(state domain.SafePowerState, in domain.SafePowerInput) domain.SafePowerResult {
	next := state
	target := in.TargetLevel

	switch {
	case in.CeilingAmps <= 0:
		next.BaseLevel = target
		next.LastKnownCeilingAmps = in.CeilingAmps
		next.Initialized = true
		return c.result(state, next, in.AppliedLevel)
	case !state.Initialized || state.LastKnownCeilingAmps != in.CeilingAmps:
		c.debug("safe power reset", zap.Float64("ceiling", in.CeilingAmps), zap.Float64("target", target))
		next.BaseLevel = target
		next.LastKnownCeilingAmps = in.CeilingAmps
		next.Initialized = true
	case in.AppliedLevel != nil && math.Abs(*in.AppliedLevel-state.BaseLevel) >= safePowerExternalDelta:
		c.debug("safe power external change", zap.Float64("applied", *in.AppliedLevel), zap.Float64("tracked", state.BaseLevel))
		next.BaseLevel = *in.AppliedLevel
	}
	// never above what the user asked for
	next.BaseLevel = math.Min(next.BaseLevel, target)

	if in.MeasuredAmps != nil {
		ratio := *in.MeasuredAmps / in.CeilingAmps
		switch {
		case ratio > safePowerCriticalRatio:
			next.BaseLevel = math.Max(safePowerMinLevel, next.BaseLevel-2)
		case ratio > safePowerHighRatio:
			next.BaseLevel = math.Max(safePowerMinLevel, next.BaseLevel-1)
		case ratio < safePowerLowRatio:
			next.BaseLevel = math.Min(target, next.BaseLevel+1)
		}
	}
	return c.result(state, next, in.AppliedLevel)
}

// result compares the new level with the last written one, or with the device value before the
// first write.
func (c *DefaultSafePowerControl) result(prev, next domain.SafePowerState, applied *float64) domain.SafePowerResult {
	write := true
	if prev.Written {
		write = prev.WrittenLevel != next.BaseLevel
	} else if applied != nil {
		write = math.Abs(*applied-next.BaseLevel) > 1e-9
	}
	next.Written = true
	next.WrittenLevel = next.BaseLevel
	return domain.SafePowerResult{
		State:       next,
		Level:       next.BaseLevel,
		WriteNeeded: write,
	}
}

func (c *DefaultSafePowerControl) debug(msg string, fields ...zap.Field) {
	if c.Logger != nil {
		c.Logger.Debug(msg, fields...)
	}
}
