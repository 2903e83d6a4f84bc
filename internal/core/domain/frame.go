package domain

import (
	"encoding/json"
	"maps"
	"time"

	"github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"
)

// DerivedState holds the model independent values computed during a poll cycle.
type DerivedState struct {
	BatteryVoltage   *float64       `json:"battery_voltage"`
	BatterySOC       *float64       `json:"battery_soc"`
	MaxPhaseCurrent  *float64       `json:"max_phase_current"`
	OperationalMode  string         `json:"operational_mode"`
	SafeMaxPower     float64        `json:"safe_max_power"`
	CurrentPrice     *float64       `json:"current_price"`
	PriceThreshold   *float64       `json:"price_threshold"`
	ScheduleStatus   ScheduleStatus `json:"schedule_status"`
	SelectedSlots    []int          `json:"selected_slots"`
	EnergyPlannedKWh float64        `json:"energy_planned_kwh"`
	EnergyState      EnergyState    `json:"energy_state"`
	LastTransition   time.Time      `json:"last_transition"`
	Connected        bool           `json:"connected"`
	GroupErrors      int            `json:"group_errors"`
}

// Frame is the immutable result of one poll cycle. Consumers must not modify its maps.
type Frame struct {
	Time    time.Time
	Values  map[string]felicity_modbus.Value
	Text    map[string]string
	Derived DerivedState
}

func NewFrame(t time.Time, values map[string]felicity_modbus.Value, text map[string]string, derived DerivedState) Frame {
	return Frame{
		Time:    t,
		Values:  maps.Clone(values),
		Text:    maps.Clone(text),
		Derived: derived,
	}
}

func (f Frame) Value(key string) (felicity_modbus.Value, bool) {
	v, ok := f.Values[key]
	return v, ok
}

func (f Frame) Float(key string) *float64 {
	v, ok := f.Values[key]
	if !ok {
		return nil
	}
	x := v.AsFloat()
	return &x
}

// MarshalJSON flattens register values, textual values and derived fields into one object.
func (f Frame) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Values)+len(f.Text)+16)
	for k, v := range f.Values {
		out[k] = v
	}
	for k, v := range f.Text {
		out[k] = v
	}
	derived, err := json.Marshal(f.Derived)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(derived, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		// an unknown derived value never hides a register of the same key
		if _, ok := out[k]; ok && v == nil {
			continue
		}
		out[k] = v
	}
	out["time"] = f.Time
	return json.Marshal(out)
}
