package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 {
	return &v
}

func TestWithOption(t *testing.T) {

	require := require.New(t)

	o := DefaultControlOptions()

	o2, err := o.WithOption(NUMBER_ID_VOLTAGE_LEVEL, " 55.04 ")
	require.NoError(err)
	require.Equal(55.0, o2.VoltageLevel)
	// receiver untouched
	require.Equal(58.0, o.VoltageLevel)

	o2, err = o.WithOption(NUMBER_ID_POWER_LEVEL, "3.3")
	require.NoError(err)
	require.Equal(3.5, o2.PowerLevel)

	_, err = o.WithOption(NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL, "80")
	require.Error(err)
	_, err = o.WithOption(NUMBER_ID_POWER_LEVEL, "abc")
	require.Error(err)
	_, err = o.WithOption(SELECT_ID_GRID_MODE, "sideways")
	require.Error(err)

	o2, err = o.WithOption(SELECT_ID_PRICE_MODE, "auto")
	require.NoError(err)
	require.Equal(PriceModeAuto, o2.PriceMode)

	require.True(IsOptionId(NUMBER_ID_SAFE_MAX_CURRENT))
	require.True(IsOptionId(SELECT_ID_GRID_MODE))
	require.False(IsOptionId("battery_capacity_kwh"))
}

func TestRestoreUserOptions(t *testing.T) {

	current := DefaultControlOptions()
	current.BatteryCapacityKWh = 15

	stored := DefaultControlOptions()
	stored.GridMode = GridModeToGrid
	stored.PowerLevel = 7.5
	stored.VoltageLevel = 99 // out of range, ignored
	stored.BatteryCapacityKWh = 3

	out := current.RestoreUserOptions(stored)
	assert.Equal(t, GridModeToGrid, out.GridMode)
	assert.Equal(t, 7.5, out.PowerLevel)
	assert.Equal(t, current.VoltageLevel, out.VoltageLevel)
	assert.Equal(t, 15.0, out.BatteryCapacityKWh)
}

func TestPriceDataCurrentPrice(t *testing.T) {

	today := make([]float64, 24)
	for i := range today {
		today[i] = float64(i) / 100
	}
	now := time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC)

	p := PriceData{Today: today}
	require.NotNil(t, p.CurrentPrice(now))
	assert.Equal(t, 0.13, *p.CurrentPrice(now))

	p.Current = ptr(0.5)
	assert.Equal(t, 0.5, *p.CurrentPrice(now))

	assert.Nil(t, PriceData{}.CurrentPrice(now))
}

func TestPriceDataStats(t *testing.T) {

	p := PriceData{Today: []float64{0.1, 0.3, 0.2, 0.2}}
	lo, avg, hi, ok := p.Stats()
	require.True(t, ok)
	assert.Equal(t, 0.1, lo)
	assert.InDelta(t, 0.2, avg, 1e-9)
	assert.Equal(t, 0.3, hi)

	p.Min, p.Avg, p.Max = ptr(0), ptr(1), ptr(2)
	lo, avg, hi, ok = p.Stats()
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 2}, []float64{lo, avg, hi})

	_, _, _, ok = PriceData{}.Stats()
	assert.False(t, ok)
}

func TestSlots(t *testing.T) {

	assert.Equal(t, time.Hour, SlotDuration(24))
	assert.Equal(t, 15*time.Minute, SlotDuration(96))
	assert.Zero(t, SlotDuration(0))

	assert.Equal(t, 0, SlotIndex(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 24))
	assert.Equal(t, 23, SlotIndex(time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC), 24))
	assert.Equal(t, 54, SlotIndex(time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC), 96))

	assert.Equal(t, 1.0, RemainingDayFraction(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.5, RemainingDayFraction(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}

func TestFrameJSON(t *testing.T) {

	require := require.New(t)

	f := NewFrame(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		map[string]felicity_modbus.Value{
			"battery_voltage": felicity_modbus.FloatValue(52.4),
			"working_mode":    felicity_modbus.IntValue(3),
		},
		map[string]string{"working_mode": "Line"},
		DerivedState{BatterySOC: ptr(80), EnergyState: EnergyIdle, Connected: true})

	b, err := json.Marshal(f)
	require.NoError(err)

	var out map[string]any
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(52.4, out["battery_voltage"])
	// text wins over the raw enum value
	require.Equal("Line", out["working_mode"])
	require.Equal(80.0, out["battery_soc"])
	require.Equal(true, out["connected"])
	require.Contains(out, "time")
	// derived values without a register keep their null
	require.Contains(out, "current_price")
	require.Nil(out["current_price"])

	// a known derived value is published over the register
	f.Derived.BatteryVoltage = ptr(52.5)
	b, err = json.Marshal(f)
	require.NoError(err)
	out = nil
	require.NoError(json.Unmarshal(b, &out))
	require.Equal(52.5, out["battery_voltage"])
}

func TestFrameToUpdateEvents(t *testing.T) {

	f := NewFrame(time.Now(),
		map[string]felicity_modbus.Value{
			"battery_voltage": felicity_modbus.FloatValue(52.4),
			"working_mode":    felicity_modbus.IntValue(3),
		},
		map[string]string{"working_mode": "Line"},
		DerivedState{CurrentPrice: ptr(0.12), Connected: true})

	events := FrameToUpdateEvents(f, map[string]uint8{"battery_voltage": 1})

	var voltage *FloatSensorUpdateEvent
	var mode *TextSensorUpdateEvent
	var price, soc bool
	for _, e := range events {
		switch ev := e.(type) {
		case FloatSensorUpdateEvent:
			switch ev.Id {
			case "battery_voltage":
				voltage = &ev
			case "working_mode":
				t.Fatal("enum register published as a number")
			case SENSOR_ID_CURRENT_PRICE:
				price = true
			case SENSOR_ID_BATTERY_SOC:
				soc = true
			}
		case TextSensorUpdateEvent:
			if ev.Id == "working_mode" {
				mode = &ev
			}
		}
	}

	require.NotNil(t, voltage)
	assert.Equal(t, uint(1), voltage.Decimals)
	require.NotNil(t, mode)
	assert.Equal(t, "Line", mode.Value)
	assert.True(t, price)
	assert.False(t, soc)
}

func TestOptionsToUpdateEvents(t *testing.T) {

	events := OptionsToUpdateEvents(DefaultControlOptions())
	assert.Len(t, events, len(NumberOptionIds)+2)
	assert.Contains(t, events, SelectSensorUpdateEvent{SensorUpdateEventMixIn{SELECT_ID_GRID_MODE}, "off"})
}
