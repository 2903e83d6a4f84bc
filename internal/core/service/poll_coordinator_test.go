package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	fm "github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	addrRuleEnable    = 8568
	addrRuleStartTime = 8569
	addrRuleStopTime  = 8570
	addrRuleStartDay  = 8571
	addrRuleStopDay   = 8572
	addrRuleWeek      = 8573
	addrRuleVoltage   = 8574
	addrRuleSoc       = 8575
	addrRulePower     = 8576
	addrOperatingMode = 8451
)

func TestPollDecodesFrame(t *testing.T) {

	require := require.New(t)

	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, domain.DefaultControlOptions())
	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)

	require.InDelta(53.2, frame.Values["battery_voltage"].AsFloat(), 1e-9)
	require.EqualValues(3600, frame.Values["pv_total_power"].Int)
	require.Equal("Line", frame.Text["working_mode"])
	require.Equal("2024-10-19 12:30:05", frame.Text["inverter_time"])
	require.NotContains(frame.Values, "time_year_month", "packed parts are not published")

	d := frame.Derived
	require.True(d.Connected)
	require.Zero(d.GroupErrors)
	require.InDelta(64, *d.BatterySOC, 1e-9)
	require.InDelta(6.2, *d.MaxPhaseCurrent, 1e-9)
	require.Equal("general", d.OperationalMode)
	require.Equal(domain.EnergyIdle, d.EnergyState)
	require.Equal(domain.ScheduleOff, d.ScheduleStatus)
	require.EqualValues(5, d.SafeMaxPower)

	require.Equal(Connected, c.ConnectionState())
	require.Empty(tr.Writes(), "nothing to change on the device")
	require.Equal(&frame, c.LastFrame())
}

func TestPollFramesAreNotShared(t *testing.T) {

	require := require.New(t)

	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, domain.DefaultControlOptions())
	first, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)

	regs := fm.DefaultRegisterMap(fm.FamilyTrex10K)
	require.NoError(tr.SetValue(regs, "battery_voltage", fm.FloatValue(51.0)))
	second, err := c.Poll(context.Background(), day1(10, 1))
	require.NoError(err)

	require.InDelta(53.2, first.Values["battery_voltage"].AsFloat(), 1e-9)
	require.InDelta(51.0, second.Values["battery_voltage"].AsFloat(), 1e-9)
}

func TestPartialGroupFailure(t *testing.T) {

	require := require.New(t)

	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, domain.DefaultControlOptions())
	groups := c.Groups()
	require.Greater(len(groups), 1)

	failing := groups[len(groups)-1]
	require.NotContains(failing.Keys, "battery_voltage")
	tr.ReadErrs[failing.Start] = fmt.Errorf("%w: illegal data address", fm.ErrGroupRead)
	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)

	for _, k := range failing.Keys {
		require.NotContains(frame.Values, k)
	}
	require.Contains(frame.Values, "battery_voltage")
	require.Equal(1, frame.Derived.GroupErrors)
	require.True(frame.Derived.Connected)
	require.Equal(Connected, c.ConnectionState())
}

func TestTransportLoss(t *testing.T) {

	require := require.New(t)

	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, domain.DefaultControlOptions())
	_, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)

	for _, g := range c.Groups() {
		tr.ReadErrs[g.Start] = fmt.Errorf("%w: request timed out", fm.ErrTransport)
	}
	_, err = c.Poll(context.Background(), day1(10, 1))
	require.ErrorIs(err, fm.ErrTransport)
	require.Equal(Disconnected, c.ConnectionState())
	require.False(tr.IsOpen())

	// connect failure keeps the coordinator disconnected
	tr.OpenErr = errors.New("connection refused")
	_, err = c.Poll(context.Background(), day1(10, 2))
	require.ErrorIs(err, fm.ErrTransport)
	require.Equal(Disconnected, c.ConnectionState())

	// next tick reconnects
	tr.OpenErr = nil
	clear(tr.ReadErrs)
	frame, err := c.Poll(context.Background(), day1(10, 3))
	require.NoError(err)
	require.True(frame.Derived.Connected)
	require.True(tr.IsOpen())
}

func TestChargeTransitionWritesOnce(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, opts)
	c.SetPrices(manualPrices(0.05))

	now := day1(10, 0)
	frame, err := c.Poll(context.Background(), now)
	require.NoError(err)
	require.Equal(domain.EnergyCharging, frame.Derived.EnergyState)
	require.Equal(now, frame.Derived.LastTransition)
	require.InDelta(0.1, *frame.Derived.PriceThreshold, 1e-9)

	today := uint16(3<<8 | 10)
	require.Equal([]fm.WriteCall{
		{Address: addrRuleSoc, Words: []uint16{100}},
		{Address: addrRuleVoltage, Words: []uint16{580}},
		{Address: addrRulePower, Words: []uint16{5000}},
		{Address: addrRuleStartDay, Words: []uint16{today}},
		{Address: addrRuleStopDay, Words: []uint16{today}},
		{Address: addrRuleStartTime, Words: []uint16{0}},
		{Address: addrRuleStopTime, Words: []uint16{23<<8 | 59}},
		{Address: addrRuleWeek, Words: []uint16{0x7f}},
		{Address: addrRuleEnable, Words: []uint16{1}},
		{Address: addrOperatingMode, Words: []uint16{2}},
	}, tr.Writes())

	// same state, no writes
	tr.ResetWrites()
	frame, err = c.Poll(context.Background(), day1(10, 1))
	require.NoError(err)
	require.Equal(domain.EnergyCharging, frame.Derived.EnergyState)
	require.Empty(tr.Writes())
	require.Equal("economic_charge", frame.Derived.OperationalMode)

	// price above the threshold goes back to idle
	c.SetPrices(manualPrices(0.3))
	frame, err = c.Poll(context.Background(), day1(10, 2))
	require.NoError(err)
	require.Equal(domain.EnergyIdle, frame.Derived.EnergyState)
	require.Equal([]fm.WriteCall{
		{Address: addrRuleEnable, Words: []uint16{0}},
		{Address: addrOperatingMode, Words: []uint16{0}},
	}, tr.Writes())
}

func TestDischargeTransition(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeToGrid
	opts.BatteryDischargeMinLevel = 30
	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, opts)
	c.SetPrices(manualPrices(0.2))

	frame, err := c.Poll(context.Background(), day1(18, 0))
	require.NoError(err)
	require.Equal(domain.EnergyDischarging, frame.Derived.EnergyState)

	writes := tr.Writes()
	require.Len(writes, 10)
	require.Equal(fm.WriteCall{Address: addrRuleSoc, Words: []uint16{30}}, writes[0])
	require.Equal(fm.WriteCall{Address: addrRuleEnable, Words: []uint16{2}}, writes[8])
}

func TestFailedWriteIsRetried(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, opts)
	c.SetPrices(manualPrices(0.05))

	tr.WriteErrs[addrRuleEnable] = errors.New("server device busy")
	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err, "a failed write does not fail the cycle")
	require.Equal(domain.EnergyIdle, frame.Derived.EnergyState)
	require.True(frame.Derived.LastTransition.IsZero())
	require.Len(tr.Writes(), 8, "sequence stops at the failed write")

	delete(tr.WriteErrs, addrRuleEnable)
	tr.ResetWrites()
	frame, err = c.Poll(context.Background(), day1(10, 1))
	require.NoError(err)
	require.Equal(domain.EnergyCharging, frame.Derived.EnergyState)
	require.Len(tr.Writes(), 10)
}

func TestSafePowerThrottleWrite(t *testing.T) {

	require := require.New(t)

	// 6.2A measured on a 7A ceiling is above 80%
	opts := domain.DefaultControlOptions()
	opts.SafeMaxCurrent = 7
	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, opts)

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.EqualValues(4, frame.Derived.SafeMaxPower)
	require.Equal([]fm.WriteCall{{Address: addrRulePower, Words: []uint16{4000}}}, tr.Writes())
}

// site register list for the 50K schedule registers
const trex50KScheduleOverrides = `
registers:
  - key: econ_rule_1_grid_charge_enable
    address: 8604
  - key: econ_work_mode
    address: 8605
  - key: econ_use_schedule
    address: 8606
  - key: peak_shaving_power
    address: 8607
`

func TestTrex50KChargeSequence(t *testing.T) {

	require := require.New(t)

	regs, err := fm.ApplyRegisterOverrides(fm.DefaultRegisterMap(fm.FamilyTrex50K), strings.NewReader(trex50KScheduleOverrides))
	require.NoError(err)
	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	c, tr, adapter := newCoordinatorWithMap(t, regs, opts, &memoryStateStore{})
	require.Empty(adapter.UnmappedWriteKeys())
	c.SetPrices(manualPrices(0.05))

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.Equal(domain.EnergyCharging, frame.Derived.EnergyState)
	require.InDelta(61, *frame.Derived.BatterySOC, 1e-9)

	written := map[string][]uint16{}
	for _, w := range tr.Writes() {
		for _, d := range regs.Descriptors() {
			if d.Address == w.Address {
				written[d.Key] = w.Words
			}
		}
	}
	require.Equal([]uint16{5}, written["econ_rule_1_power"])
	require.Equal([]uint16{5}, written["peak_shaving_power"])
	require.Equal([]uint16{1}, written["econ_rule_1_grid_charge_enable"])
	require.Equal([]uint16{1}, written["econ_work_mode"])
	require.Equal([]uint16{1}, written["econ_use_schedule"])
	require.Equal([]uint16{2}, written["operating_mode"])
	require.NotContains(written, "econ_rule_1_start_day")
	require.NotContains(written, "econ_rule_1_stop_day")
}

func TestTrex50KDefaultMapStaysIdle(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	c, tr, adapter := newCoordinator(t, fm.FamilyTrex50K, opts)
	require.ElementsMatch(fm.Trex50KScheduleKeys, adapter.UnmappedWriteKeys())
	c.SetPrices(manualPrices(0.05))

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.Equal(domain.EnergyIdle, frame.Derived.EnergyState)
	require.True(frame.Derived.Connected)
	require.Equal(Connected, c.ConnectionState())

	regs := adapter.RegisterMap()
	operating, _ := regs.Lookup("operating_mode")
	power, _ := regs.Lookup("econ_rule_1_power")
	for _, w := range tr.Writes() {
		require.NotEqual(operating.Address, w.Address, "economic mode is never switched on")
		require.NotEqual(power.Address, w.Address)
	}
}

func TestMissingSOCStatus(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, opts)
	c.SetPrices(domain.PriceData{Today: flatPrices(24, 0.1)})

	var battery fm.RegisterGroup
	for _, g := range c.Groups() {
		if slices.Contains(g.Keys, "battery_capacity") {
			battery = g
		}
	}
	require.NotEmpty(battery.Keys)
	tr.ReadErrs[battery.Start] = fmt.Errorf("%w: illegal data address", fm.ErrGroupRead)

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.Nil(frame.Derived.BatterySOC)
	require.Equal(domain.ScheduleNoSOC, frame.Derived.ScheduleStatus)
	require.Equal(domain.EnergyIdle, frame.Derived.EnergyState)
	require.Empty(frame.Derived.SelectedSlots)

	delete(tr.ReadErrs, battery.Start)
	frame, err = c.Poll(context.Background(), day1(10, 1))
	require.NoError(err)
	require.NotNil(frame.Derived.BatterySOC)
	require.NotEqual(domain.ScheduleNoSOC, frame.Derived.ScheduleStatus)

	// grid control off is not a missing SOC
	off := domain.DefaultControlOptions()
	off.PriceMode = domain.PriceModeAuto
	c, tr, _ = newCoordinator(t, fm.FamilyTrex10K, off)
	tr.ReadErrs[battery.Start] = fmt.Errorf("%w: illegal data address", fm.ErrGroupRead)
	frame, err = c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.Equal(domain.ScheduleOff, frame.Derived.ScheduleStatus)
}

func TestMidnightRollover(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	store := &memoryStateStore{}
	var history domain.ConsumptionHistory
	for i := 1; i <= 7; i++ {
		history = append(history, domain.ConsumptionEntry{Date: fmt.Sprintf("2025-03-0%d", i), KWh: float64(i)})
	}
	store.day = &domain.DayState{Day: "2025-03-09", History: history}

	c, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, opts, store)
	c.SetPrices(domain.PriceData{Today: flatPrices(24, 0.1)})

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.NotEmpty(frame.Derived.SelectedSlots)

	// first cycle of the day closed 2025-03-09 with no consumption reading
	day := c.DayState()
	require.Equal("2025-03-10", day.Day)
	require.Len(day.History, 7)
	require.Equal("2025-03-02", day.History[0].Date)
	require.InDelta(7.45, day.LastConsumptionKWh, 1e-9)
	// 10 kWh target, 6.4 kWh stored, no forecast
	require.InDelta(3.6, day.LastDeficitKWh, 1e-9)

	frame, err = c.Poll(context.Background(), day1(10, 0).Add(14*time.Hour+5*time.Minute))
	require.NoError(err)
	require.Empty(c.Schedule().SelectedSlots)
	require.Equal(domain.ScheduleNoPriceData, frame.Derived.ScheduleStatus)

	day = c.DayState()
	require.Equal("2025-03-11", day.Day)
	require.Len(day.History, 7)
	require.Equal(domain.ConsumptionEntry{Date: "2025-03-10", KWh: 7.45}, day.History[6])
	require.Equal("2025-03-03", day.History[0].Date)
	require.InDelta(3.6, day.CarriedDeficitKWh, 1e-9)
	require.Equal(day.Day, store.day.Day, "rollover is persisted")
	require.Equal(day.History, store.day.History)
	require.InDelta(3.6, store.day.CarriedDeficitKWh, 1e-9)
}

func TestRolloverPromotesTomorrowPrices(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	c, _, _ := newCoordinator(t, fm.FamilyTrex10K, opts)
	c.SetPrices(domain.PriceData{Today: flatPrices(24, 0.3), Tomorrow: flatPrices(24, 0.1)})

	_, err := c.Poll(context.Background(), day1(23, 0))
	require.NoError(err)

	frame, err := c.Poll(context.Background(), day1(23, 0).Add(2*time.Hour))
	require.NoError(err)
	require.NotEqual(domain.ScheduleNoPriceData, frame.Derived.ScheduleStatus)
	require.InDelta(0.1, *frame.Derived.CurrentPrice, 1e-9)
}

func TestRolloverKeepsPricesOfTheNewDay(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	store := &memoryStateStore{day: &domain.DayState{Day: "2025-03-09"}}
	c, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, opts, store)

	// received after midnight, before the first cycle of the day
	c.SetPrices(domain.PriceData{
		Today:    flatPrices(24, 0.1),
		Tomorrow: flatPrices(24, 0.4),
		Updated:  day1(0, 1),
	})

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.Equal("2025-03-10", c.DayState().Day)
	require.NotEqual(domain.ScheduleNoPriceData, frame.Derived.ScheduleStatus)
	require.NotEmpty(frame.Derived.SelectedSlots)
	require.InDelta(0.1, *frame.Derived.CurrentPrice, 1e-9)
}

func TestRolloverPromotesPricesOfTheClosedDay(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	store := &memoryStateStore{day: &domain.DayState{Day: "2025-03-09"}}
	c, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, opts, store)

	c.SetPrices(domain.PriceData{
		Today:    flatPrices(24, 0.3),
		Tomorrow: flatPrices(24, 0.1),
		Updated:  time.Date(2025, 3, 9, 14, 0, 0, 0, time.UTC),
	})

	frame, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.InDelta(0.1, *frame.Derived.CurrentPrice, 1e-9)
}

func TestDayStateIsPersistedEachCycle(t *testing.T) {

	require := require.New(t)

	opts := domain.DefaultControlOptions()
	opts.GridMode = domain.GridModeFromGrid
	opts.PriceMode = domain.PriceModeAuto
	store := &memoryStateStore{}
	c, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, opts, store)
	c.SetPrices(domain.PriceData{Today: flatPrices(24, 0.1)})

	_, err := c.Poll(context.Background(), day1(10, 0))
	require.NoError(err)
	require.NotNil(store.day)
	require.InDelta(7.45, store.day.LastConsumptionKWh, 1e-9)
	require.InDelta(3.6, store.day.LastDeficitKWh, 1e-9)

	// restart across midnight
	c2, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, opts, store)
	_, err = c2.Poll(context.Background(), day1(10, 0).Add(24*time.Hour))
	require.NoError(err)

	day := c2.DayState()
	require.Equal("2025-03-11", day.Day)
	require.Equal(domain.ConsumptionHistory{{Date: "2025-03-10", KWh: 7.45}}, day.History)
	require.InDelta(3.6, day.CarriedDeficitKWh, 1e-9)
}

func TestOptionsArePersisted(t *testing.T) {

	require := require.New(t)

	store := &memoryStateStore{}
	c, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, domain.DefaultControlOptions(), store)

	opts, changed, err := c.SetOption(domain.SELECT_ID_GRID_MODE, "to_grid")
	require.NoError(err)
	require.True(changed)
	require.Equal(domain.GridModeToGrid, opts.GridMode)
	require.Equal(domain.GridModeToGrid, store.options.GridMode)

	_, changed, err = c.SetOption(domain.SELECT_ID_GRID_MODE, "to_grid")
	require.NoError(err)
	require.False(changed)

	_, _, err = c.SetOption(domain.NUMBER_ID_POWER_LEVEL, "42")
	require.Error(err)
	require.EqualValues(5, c.Options().PowerLevel)

	_, _, err = c.SetOption(domain.NUMBER_ID_POWER_LEVEL, "6.5")
	require.NoError(err)

	// a new coordinator restores the user options
	restored, _, _ := newCoordinatorWithStore(t, fm.FamilyTrex10K, domain.DefaultControlOptions(), store)
	require.Equal(domain.GridModeToGrid, restored.Options().GridMode)
	require.EqualValues(6.5, restored.Options().PowerLevel)
}

func TestPollHonoursCancellation(t *testing.T) {

	require := require.New(t)

	c, tr, _ := newCoordinator(t, fm.FamilyTrex10K, domain.DefaultControlOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Poll(ctx, day1(10, 0))
	require.ErrorIs(err, context.Canceled)
	require.Equal(Connected, c.ConnectionState())
	require.Empty(tr.Writes())
}

// helpers

type memoryStateStore struct {
	day     *domain.DayState
	options *domain.ControlOptions
}

func (s *memoryStateStore) LoadDayState() (*domain.DayState, error) {
	return s.day, nil
}

func (s *memoryStateStore) SaveDayState(state domain.DayState) error {
	s.day = &state
	return nil
}

func (s *memoryStateStore) LoadOptions() (*domain.ControlOptions, error) {
	return s.options, nil
}

func (s *memoryStateStore) SaveOptions(options domain.ControlOptions) error {
	s.options = &options
	return nil
}

func newCoordinator(t *testing.T, family fm.ModelFamily, opts domain.ControlOptions) (*PollCoordinator, *fm.TestTransport, fm.ModelAdapter) {
	return newCoordinatorWithStore(t, family, opts, &memoryStateStore{})
}

func newCoordinatorWithStore(t *testing.T, family fm.ModelFamily, opts domain.ControlOptions, store *memoryStateStore) (*PollCoordinator, *fm.TestTransport, fm.ModelAdapter) {
	return newCoordinatorWithMap(t, fm.DefaultRegisterMap(family), opts, store)
}

func newCoordinatorWithMap(t *testing.T, regs *fm.RegisterMap, opts domain.ControlOptions, store *memoryStateStore) (*PollCoordinator, *fm.TestTransport, fm.ModelAdapter) {
	family, err := fm.FamilyForModel(regs.Model())
	require.NoError(t, err)
	tr := fm.NewTestTransport()
	tr.SeedDemoValues(regs)
	adapter, err := fm.NewModelAdapter(family, regs, tr)
	require.NoError(t, err)

	logger := zap.Must(zap.NewDevelopment())
	c, err := NewPollCoordinator(PollCoordinatorConfig{
		RegisterSet: fm.RegisterSetBasic,
		Location:    time.UTC,
		Options:     opts,
	}, adapter, tr, &DefaultPriceScheduler{Logger: logger}, &DefaultSafePowerControl{Logger: logger}, store, logger)
	require.NoError(t, err)
	return c, tr, adapter
}

func day1(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func manualPrices(current float64) domain.PriceData {
	lo, avg, hi := 0.02, 0.1, 0.25
	return domain.PriceData{Current: &current, Min: &lo, Avg: &avg, Max: &hi}
}

func flatPrices(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestConnectionStateNames(t *testing.T) {
	assert.Equal(t, "disconnected", string(Disconnected))
	assert.Equal(t, "polling", string(Polling))
}
