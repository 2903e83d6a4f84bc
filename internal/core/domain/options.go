package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type GridMode string

const (
	GridModeOff      GridMode = "off"
	GridModeFromGrid GridMode = "from_grid"
	GridModeToGrid   GridMode = "to_grid"
)

type PriceMode string

const (
	PriceModeManual PriceMode = "manual"
	PriceModeAuto   PriceMode = "auto"
)

const (
	NUMBER_ID_POWER_LEVEL                 = "power_level"
	NUMBER_ID_PRICE_THRESHOLD_LEVEL       = "price_threshold_level"
	NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL    = "battery_charge_max_level"
	NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL = "battery_discharge_min_level"
	NUMBER_ID_VOLTAGE_LEVEL               = "voltage_level"
	NUMBER_ID_SAFE_MAX_CURRENT            = "safe_max_current"

	SELECT_ID_GRID_MODE  = "grid_mode"
	SELECT_ID_PRICE_MODE = "price_mode"
)

var NumberOptionIds = []string{
	NUMBER_ID_POWER_LEVEL,
	NUMBER_ID_PRICE_THRESHOLD_LEVEL,
	NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL,
	NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL,
	NUMBER_ID_VOLTAGE_LEVEL,
	NUMBER_ID_SAFE_MAX_CURRENT,
}

var GridModes = []GridMode{GridModeOff, GridModeFromGrid, GridModeToGrid}
var PriceModes = []PriceMode{PriceModeManual, PriceModeAuto}

type NumberBounds struct {
	Min  float64
	Max  float64
	Step float64
	Unit string
}

var OptionBounds = map[string]NumberBounds{
	NUMBER_ID_POWER_LEVEL:                 {Min: 1, Max: 10, Step: 0.5, Unit: "kW"},
	NUMBER_ID_PRICE_THRESHOLD_LEVEL:       {Min: 1, Max: 10, Step: 1},
	NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL:    {Min: 30, Max: 100, Step: 1, Unit: "%"},
	NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL: {Min: 10, Max: 70, Step: 1, Unit: "%"},
	NUMBER_ID_VOLTAGE_LEVEL:               {Min: 50, Max: 60, Step: 0.1, Unit: "V"},
	NUMBER_ID_SAFE_MAX_CURRENT:            {Min: 0, Max: 63, Step: 1, Unit: "A"},
}

// ControlOptions are the user controllable inputs of the controller. The installation fields
// (capacity, efficiency, consumption estimate) come from configuration only.
type ControlOptions struct {
	GridMode                 GridMode  `json:"grid_mode"`
	PriceMode                PriceMode `json:"price_mode"`
	PowerLevel               float64   `json:"power_level"`
	PriceThresholdLevel      float64   `json:"price_threshold_level"`
	BatteryChargeMaxLevel    float64   `json:"battery_charge_max_level"`
	BatteryDischargeMinLevel float64   `json:"battery_discharge_min_level"`
	VoltageLevel             float64   `json:"voltage_level"`
	SafeMaxCurrent           float64   `json:"safe_max_current"`

	BatteryCapacityKWh          float64 `json:"-"`
	EfficiencyFactor            float64 `json:"-"`
	DailyConsumptionEstimateKWh float64 `json:"-"`
}

func DefaultControlOptions() ControlOptions {
	return ControlOptions{
		GridMode:                    GridModeOff,
		PriceMode:                   PriceModeManual,
		PowerLevel:                  5,
		PriceThresholdLevel:         5,
		BatteryChargeMaxLevel:       100,
		BatteryDischargeMinLevel:    20,
		VoltageLevel:                58,
		SafeMaxCurrent:              0,
		BatteryCapacityKWh:          10,
		EfficiencyFactor:            0.9,
		DailyConsumptionEstimateKWh: 10,
	}
}

// RestoreUserOptions takes the user controllable fields from a persisted copy, keeping the
// installation fields of o. Out of range values are ignored.
func (o ControlOptions) RestoreUserOptions(stored ControlOptions) ControlOptions {
	out := o
	if validGridMode(stored.GridMode) {
		out.GridMode = stored.GridMode
	}
	if validPriceMode(stored.PriceMode) {
		out.PriceMode = stored.PriceMode
	}
	for _, id := range NumberOptionIds {
		v, _ := stored.Number(id)
		if next, err := out.WithNumber(id, v); err == nil {
			out = next
		}
	}
	return out
}

func (o ControlOptions) Number(id string) (float64, bool) {
	switch id {
	case NUMBER_ID_POWER_LEVEL:
		return o.PowerLevel, true
	case NUMBER_ID_PRICE_THRESHOLD_LEVEL:
		return o.PriceThresholdLevel, true
	case NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL:
		return o.BatteryChargeMaxLevel, true
	case NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL:
		return o.BatteryDischargeMinLevel, true
	case NUMBER_ID_VOLTAGE_LEVEL:
		return o.VoltageLevel, true
	case NUMBER_ID_SAFE_MAX_CURRENT:
		return o.SafeMaxCurrent, true
	}
	return 0, false
}

// WithNumber returns a copy with the number option set, snapped to its step.
func (o ControlOptions) WithNumber(id string, value float64) (ControlOptions, error) {
	b, ok := OptionBounds[id]
	if !ok {
		return o, fmt.Errorf("unknown number option %s", id)
	}
	if math.IsNaN(value) || value < b.Min || value > b.Max {
		return o, fmt.Errorf("%s out of range [%v, %v]: %v", id, b.Min, b.Max, value)
	}
	value = math.Round(value/b.Step) * b.Step
	// clean float noise from the step snap
	value = math.Round(value*1000) / 1000

	switch id {
	case NUMBER_ID_POWER_LEVEL:
		o.PowerLevel = value
	case NUMBER_ID_PRICE_THRESHOLD_LEVEL:
		o.PriceThresholdLevel = value
	case NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL:
		o.BatteryChargeMaxLevel = value
	case NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL:
		o.BatteryDischargeMinLevel = value
	case NUMBER_ID_VOLTAGE_LEVEL:
		o.VoltageLevel = value
	case NUMBER_ID_SAFE_MAX_CURRENT:
		o.SafeMaxCurrent = value
	}
	return o, nil
}

// WithOption applies a raw command payload to a number or select option.
func (o ControlOptions) WithOption(id string, payload string) (ControlOptions, error) {
	payload = strings.TrimSpace(payload)
	switch id {
	case SELECT_ID_GRID_MODE:
		if !validGridMode(GridMode(payload)) {
			return o, fmt.Errorf("invalid grid mode %q", payload)
		}
		o.GridMode = GridMode(payload)
		return o, nil
	case SELECT_ID_PRICE_MODE:
		if !validPriceMode(PriceMode(payload)) {
			return o, fmt.Errorf("invalid price mode %q", payload)
		}
		o.PriceMode = PriceMode(payload)
		return o, nil
	}
	value, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return o, err
	}
	return o.WithNumber(id, value)
}

func validGridMode(m GridMode) bool {
	for _, v := range GridModes {
		if v == m {
			return true
		}
	}
	return false
}

func validPriceMode(m PriceMode) bool {
	for _, v := range PriceModes {
		if v == m {
			return true
		}
	}
	return false
}

func IsOptionId(id string) bool {
	if id == SELECT_ID_GRID_MODE || id == SELECT_ID_PRICE_MODE {
		return true
	}
	_, ok := OptionBounds[id]
	return ok
}
