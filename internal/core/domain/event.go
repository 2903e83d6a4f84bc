package domain

import "fmt"

type SensorUpdateEventMixIn struct {
	Id string
}

type SensorUpdateEvent interface {
	SensorUpdateEvent() string
	SensorId() string
}

func (e SensorUpdateEventMixIn) SensorUpdateEvent() string {
	return fmt.Sprintf("%T", e)
}

func (e SensorUpdateEventMixIn) SensorId() string {
	return e.Id
}

type FloatSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type BinarySensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value bool
}

type TextSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

type InputNumberSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value    float64
	Decimals uint
}

type SelectSensorUpdateEvent struct {
	SensorUpdateEventMixIn
	Value string
}

// FrameUpdateEvent carries the whole frame of a finished poll cycle.
type FrameUpdateEvent struct {
	Frame Frame
}

// FrameToUpdateEvents flattens a frame into per-entity update events.
func FrameToUpdateEvents(f Frame, precision map[string]uint8) []any {
	var events []any
	for key, v := range f.Values {
		// enum registers are published by label
		if _, ok := f.Text[key]; ok {
			continue
		}
		events = append(events, FloatSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: key},
			Value:                  v.AsFloat(),
			Decimals:               uint(precision[key]),
		})
	}
	for key, s := range f.Text {
		events = append(events, TextSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: key},
			Value:                  s,
		})
	}

	d := f.Derived
	events = append(events,
		TextSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_OPERATIONAL_MODE}, d.OperationalMode},
		TextSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_SCHEDULE_STATUS}, string(d.ScheduleStatus)},
		TextSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_ENERGY_STATE}, string(d.EnergyState)},
		FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_SAFE_MAX_POWER}, d.SafeMaxPower, 1},
		FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_ENERGY_PLANNED}, d.EnergyPlannedKWh, 2},
		BinarySensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_CONNECTED}, d.Connected},
	)
	if d.CurrentPrice != nil {
		events = append(events, FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_CURRENT_PRICE}, *d.CurrentPrice, 4})
	}
	if d.PriceThreshold != nil {
		events = append(events, FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_PRICE_THRESHOLD}, *d.PriceThreshold, 4})
	}
	if d.BatterySOC != nil {
		events = append(events, FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_BATTERY_SOC}, *d.BatterySOC, 0})
	}
	if d.MaxPhaseCurrent != nil {
		events = append(events, FloatSensorUpdateEvent{SensorUpdateEventMixIn{SENSOR_ID_MAX_PHASE_CURRENT}, *d.MaxPhaseCurrent, 1})
	}
	return events
}

// OptionsToUpdateEvents reports the current control options as number and select states.
func OptionsToUpdateEvents(o ControlOptions) []any {
	var events []any
	for _, id := range NumberOptionIds {
		v, _ := o.Number(id)
		events = append(events, InputNumberSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{Id: id},
			Value:                  v,
			Decimals:               1,
		})
	}
	events = append(events,
		SelectSensorUpdateEvent{SensorUpdateEventMixIn{SELECT_ID_GRID_MODE}, string(o.GridMode)},
		SelectSensorUpdateEvent{SensorUpdateEventMixIn{SELECT_ID_PRICE_MODE}, string(o.PriceMode)},
	)
	return events
}
