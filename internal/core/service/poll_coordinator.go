package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/port"
	fm "github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"
	"go.uber.org/zap"
)

type ConnectionState string

const (
	Disconnected ConnectionState = "disconnected"
	Connected    ConnectionState = "connected"
	Polling      ConnectionState = "polling"
)

const (
	ruleStopTime      = 23<<8 | 59
	ruleEffectiveWeek = 0x7f
	modeGeneral       = 0
	modeEconomic      = 2
)

type PollCoordinatorConfig struct {
	RegisterSet fm.RegisterSet
	Location    *time.Location
	// Options holds the defaults and the installation fields; user fields are restored from the store.
	Options domain.ControlOptions
}

// PollCoordinator runs poll cycles: read, decode, derive, control, publish. Cycles never overlap and
// every field below is only touched while mu is held.
type PollCoordinator struct {
	mu        sync.Mutex
	transport fm.Transport
	adapter   fm.ModelAdapter
	scheduler port.PriceScheduler
	safePower port.SafePowerControl
	store     port.StateStore
	logger    *zap.Logger
	location  *time.Location

	groups   []fm.RegisterGroup
	combined []fm.CombinedRegister
	state    ConnectionState

	options        domain.ControlOptions
	prices         domain.PriceData
	pricesDay      string
	forecast       domain.ForecastData
	schedule       domain.Schedule
	safe           domain.SafePowerState
	energy         domain.EnergyState
	lastTransition time.Time
	socMissing     bool
	day            domain.DayState
	last           *domain.Frame
}

func NewPollCoordinator(cfg PollCoordinatorConfig, adapter fm.ModelAdapter, transport fm.Transport,
	scheduler port.PriceScheduler, safePower port.SafePowerControl, store port.StateStore, logger *zap.Logger) (*PollCoordinator, error) {

	regs := adapter.RegisterMap()
	all := fm.CombinedRegisters()
	polled := fm.PolledKeys(cfg.RegisterSet, regs, all, adapter.RequiredKeys())
	if len(polled) == 0 {
		return nil, fmt.Errorf("register set %q selects no register of %s", cfg.RegisterSet, regs.Model())
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	c := &PollCoordinator{
		transport: transport,
		adapter:   adapter,
		scheduler: scheduler,
		safePower: safePower,
		store:     store,
		logger:    logger,
		location:  loc,
		groups:    fm.PlanGroups(regs.Select(polled)),
		combined:  fm.CombinedFor(polled, all),
		state:     Disconnected,
		options:   cfg.Options,
		schedule:  domain.EmptySchedule(domain.ScheduleOff),
		energy:    domain.EnergyIdle,
	}

	if store != nil {
		day, err := store.LoadDayState()
		if err != nil {
			return nil, fmt.Errorf("could not load day state: %w", err)
		}
		if day != nil {
			c.day = *day
		}
		opts, err := store.LoadOptions()
		if err != nil {
			return nil, fmt.Errorf("could not load control options: %w", err)
		}
		if opts != nil {
			c.options = c.options.RestoreUserOptions(*opts)
		}
	}

	if missing := adapter.UnmappedWriteKeys(); len(missing) > 0 {
		logger.Warn("control registers have no address, grid charge and discharge are disabled until a register override maps them",
			zap.String("model", regs.Model()),
			zap.Strings("keys", missing))
	}

	logger.Info("poll coordinator ready",
		zap.String("model", regs.Model()),
		zap.Int("registers", len(polled)),
		zap.Int("groups", len(c.groups)),
		zap.String("day", c.day.Day))
	return c, nil
}

func (c *PollCoordinator) Groups() []fm.RegisterGroup {
	return c.groups
}

// Published returns the descriptors and combined values a frame of this coordinator may carry.
func (c *PollCoordinator) Published() ([]fm.RegisterDescriptor, []fm.CombinedRegister) {
	regs := c.adapter.RegisterMap()
	var descs []fm.RegisterDescriptor
	for _, g := range c.groups {
		for _, key := range g.Keys {
			if d, ok := regs.Lookup(key); ok {
				descs = append(descs, d)
			}
		}
	}
	return descs, c.combined
}

func (c *PollCoordinator) Model() string {
	return c.adapter.RegisterMap().Model()
}

func (c *PollCoordinator) Family() fm.ModelFamily {
	return c.adapter.Family()
}

func (c *PollCoordinator) ConnectionState() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *PollCoordinator) LastFrame() *domain.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *PollCoordinator) Options() domain.ControlOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options
}

func (c *PollCoordinator) Schedule() domain.Schedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schedule
}

func (c *PollCoordinator) DayState() domain.DayState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

func (c *PollCoordinator) EnergyState() domain.EnergyState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.energy
}

// SetOptions replaces the control options and persists them when they changed.
func (c *PollCoordinator) SetOptions(o domain.ControlOptions) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if o == c.options {
		return false, nil
	}
	c.options = o
	if c.store != nil {
		if err := c.store.SaveOptions(o); err != nil {
			return true, err
		}
	}
	return true, nil
}

// SetOption applies one raw option command.
func (c *PollCoordinator) SetOption(id string, payload string) (domain.ControlOptions, bool, error) {
	current := c.Options()
	next, err := current.WithOption(id, payload)
	if err != nil {
		return current, false, err
	}
	changed, err := c.SetOptions(next)
	return next, changed, err
}

// SetPrices replaces the price snapshot. Prices without a receive time belong to the day of the
// next cycle.
func (c *PollCoordinator) SetPrices(p domain.PriceData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prices = p
	c.pricesDay = ""
	if !p.Updated.IsZero() {
		c.pricesDay = domain.DayOf(p.Updated.In(c.location))
	}
}

func (c *PollCoordinator) SetForecast(f domain.ForecastData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forecast = f
}

func (c *PollCoordinator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Disconnected
	return c.transport.Close()
}

// Poll runs one cycle. It only fails when the inverter could not be reached at all.
func (c *PollCoordinator) Poll(ctx context.Context, now time.Time) (domain.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now = now.In(c.location)
	c.rollover(now)
	if c.pricesDay == "" {
		c.pricesDay = c.day.Day
	}

	if c.state == Disconnected {
		if err := c.transport.Open(); err != nil {
			c.logger.Warn("inverter connect failed", zap.Error(err))
			return domain.Frame{}, fmt.Errorf("%w: connect: %w", fm.ErrTransport, err)
		}
		c.logger.Info("inverter connected")
		c.state = Connected
	}

	c.state = Polling
	values, groupErrors, err := c.readGroups(ctx)
	if err != nil {
		if errors.Is(err, fm.ErrTransport) {
			c.disconnect(err)
		} else {
			c.state = Connected
		}
		return domain.Frame{}, err
	}
	c.state = Connected

	regs := c.adapter.RegisterMap()
	combinedValues, text := regs.ComputeCombined(values, c.combined)
	published := make(map[string]fm.Value, len(values)+len(combinedValues))
	for key, v := range values {
		d, _ := regs.Lookup(key)
		if d.Scale == fm.ScaleOpaque99 {
			continue
		}
		published[key] = v
		if d.Scale == fm.ScaleEnumIndex && len(d.Options) > 0 {
			if idx := int(v.Int); idx >= 0 && idx < len(d.Options) {
				text[key] = d.Options[idx]
			}
		}
	}
	for key, v := range combinedValues {
		published[key] = v
	}

	derived := c.control(ctx, now, values)
	derived.GroupErrors = groupErrors
	derived.Connected = c.state != Disconnected

	frame := domain.NewFrame(now, published, text, derived)
	c.last = &frame
	return frame, nil
}

// readGroups performs one read per group. A failed group only drops its own keys; when every group
// failed with a link error the whole read fails.
func (c *PollCoordinator) readGroups(ctx context.Context) (map[string]fm.Value, int, error) {
	regs := c.adapter.RegisterMap()
	values := make(map[string]fm.Value)
	failed, transportFailed := 0, 0
	var lastErr error
	for _, g := range c.groups {
		if err := ctx.Err(); err != nil {
			return nil, failed, err
		}
		words, err := c.transport.ReadHoldingRegisters(g.Start, g.Count)
		if err != nil {
			failed++
			if !errors.Is(err, fm.ErrGroupRead) {
				transportFailed++
			}
			lastErr = err
			c.logger.Warn("group read failed",
				zap.Uint16("start", g.Start), zap.Uint16("count", g.Count), zap.Error(err))
			continue
		}
		decoded, errs := regs.DecodeGroup(g, words)
		for _, e := range errs {
			c.logger.Warn("register decode failed", zap.Uint16("group", g.Start), zap.Error(e))
		}
		for k, v := range decoded {
			values[k] = v
		}
	}
	if len(c.groups) > 0 && transportFailed == len(c.groups) {
		return nil, failed, fmt.Errorf("%w: all %d groups failed: %w", fm.ErrTransport, failed, lastErr)
	}
	return values, failed, nil
}

func (c *PollCoordinator) disconnect(cause error) {
	c.logger.Warn("inverter link lost", zap.Error(cause))
	c.state = Disconnected
	if err := c.transport.Close(); err != nil {
		c.logger.Debug("close failed", zap.Error(err))
	}
}

// control derives the model independent state, plans, and issues the writes of this cycle.
func (c *PollCoordinator) control(ctx context.Context, now time.Time, values map[string]fm.Value) domain.DerivedState {
	opts := c.options
	soc := c.adapter.BatterySOC(values)
	maxCurrent := c.adapter.MaxPhaseCurrent(values)
	derived := domain.DerivedState{
		BatteryVoltage:  c.adapter.BatteryVoltage(values),
		BatterySOC:      soc,
		MaxPhaseCurrent: maxCurrent,
		OperationalMode: c.adapter.OperationalMode(values),
	}
	lastConsumption, lastDeficit := c.day.LastConsumptionKWh, c.day.LastDeficitKWh
	if v, ok := values["load_consumption_energy_day"]; ok {
		c.day.LastConsumptionKWh = v.AsFloat() / 1000
	}

	safe := c.safePower.Step(c.safe, domain.SafePowerInput{
		TargetLevel:  opts.PowerLevel,
		CeilingAmps:  opts.SafeMaxCurrent,
		MeasuredAmps: maxCurrent,
		AppliedLevel: c.adapter.AppliedPowerKW(values),
	})
	derived.SafeMaxPower = safe.Level

	gridActive := opts.GridMode != domain.GridModeOff
	if gridActive && soc == nil && !c.socMissing {
		c.logger.Warn("battery SOC is not available, grid control stays idle")
	}
	c.socMissing = gridActive && soc == nil

	// plan
	var threshold *float64
	if opts.PriceMode == domain.PriceModeAuto && c.socMissing {
		c.schedule = domain.EmptySchedule(domain.ScheduleNoSOC)
	} else if opts.PriceMode == domain.PriceModeAuto && soc != nil {
		forecast := 0.0
		if c.forecast.RemainingKWh != nil {
			forecast = *c.forecast.RemainingKWh
		}
		c.schedule = c.scheduler.Plan(domain.SchedulerInput{
			Now:                  now,
			Prices:               c.prices,
			ForecastRemainingKWh: forecast,
			SOC:                  *soc,
			Options:              opts,
			PowerKW:              safe.Level,
			History:              c.day.History,
			CarriedDeficitKWh:    c.day.CarriedDeficitKWh,
		})
		if len(c.schedule.SelectedSlots) > 0 {
			t := c.scheduler.CurrentThreshold(c.schedule)
			threshold = &t
		}
	} else {
		c.schedule = domain.EmptySchedule(domain.ScheduleOff)
		if opts.PriceMode == domain.PriceModeManual {
			if t, ok := ManualThreshold(c.prices, opts.PriceThresholdLevel); ok {
				threshold = &t
			}
		}
	}
	if opts.GridMode == domain.GridModeFromGrid {
		c.day.LastDeficitKWh = c.schedule.DeficitKWh
	}
	// a restart across midnight closes the day from the stored values
	if c.day.LastConsumptionKWh != lastConsumption || c.day.LastDeficitKWh != lastDeficit {
		c.saveDay()
	}
	price := c.prices.CurrentPrice(now)

	// transition
	desired := c.desiredState(now, soc, price, threshold)
	powerWritten := false
	if desired != c.energy && ctx.Err() == nil {
		if err := c.writeSequence(desired, now, safe.Level); err != nil {
			c.logger.Warn("energy state transition failed",
				zap.String("from", string(c.energy)), zap.String("to", string(desired)), zap.Error(err))
		} else {
			c.logger.Info("energy state transition",
				zap.String("from", string(c.energy)), zap.String("to", string(desired)),
				zap.Float64("power_kw", safe.Level))
			c.energy = desired
			c.lastTransition = now
			powerWritten = desired != domain.EnergyIdle
		}
	}

	// throttle
	if powerWritten {
		c.safe = safe.State
	} else if safe.WriteNeeded && ctx.Err() == nil && c.state != Disconnected {
		if err := c.adapter.WriteLogical("econ_rule_1_power", safe.Level*1000); err != nil {
			c.logger.Warn("safe power write failed", zap.Float64("level", safe.Level), zap.Error(err))
			c.checkLink(err)
		} else {
			c.safe = safe.State
		}
	} else if !safe.WriteNeeded {
		c.safe = safe.State
	}

	derived.CurrentPrice = price
	derived.PriceThreshold = threshold
	derived.ScheduleStatus = c.schedule.Status
	derived.SelectedSlots = c.schedule.Slots()
	derived.EnergyPlannedKWh = c.schedule.EnergyPlannedKWh
	derived.EnergyState = c.energy
	derived.LastTransition = c.lastTransition
	return derived
}

func (c *PollCoordinator) desiredState(now time.Time, soc *float64, price *float64, threshold *float64) domain.EnergyState {
	opts := c.options
	if opts.GridMode == domain.GridModeOff || soc == nil {
		return domain.EnergyIdle
	}

	var charge, discharge bool
	if opts.PriceMode == domain.PriceModeAuto {
		selected := c.scheduler.IsSlotSelected(c.schedule, now)
		charge, discharge = selected, selected
	} else {
		if price == nil || threshold == nil {
			return domain.EnergyIdle
		}
		charge = *price <= *threshold
		discharge = *price >= *threshold
	}

	switch opts.GridMode {
	case domain.GridModeFromGrid:
		if charge && *soc < opts.BatteryChargeMaxLevel {
			return domain.EnergyCharging
		}
	case domain.GridModeToGrid:
		if discharge && *soc > opts.BatteryDischargeMinLevel {
			return domain.EnergyDischarging
		}
	}
	return domain.EnergyIdle
}

type registerWrite struct {
	key   string
	value float64
}

func (c *PollCoordinator) transitionWrites(to domain.EnergyState, now time.Time, powerKW float64) []registerWrite {
	opts := c.options
	if to == domain.EnergyIdle {
		return []registerWrite{
			{"econ_rule_1_enable", 0},
			{"operating_mode", modeGeneral},
		}
	}

	soc, enable := opts.BatteryChargeMaxLevel, 1.0
	if to == domain.EnergyDischarging {
		soc, enable = opts.BatteryDischargeMinLevel, 2
	}
	today := float64(int(now.Month())<<8 | now.Day())
	return []registerWrite{
		{"econ_rule_1_soc", soc},
		{"econ_rule_1_voltage", opts.VoltageLevel},
		{"econ_rule_1_power", math.Round(powerKW * 1000)},
		{"econ_rule_1_start_day", today},
		{"econ_rule_1_stop_day", today},
		{"econ_rule_1_start_time", 0},
		{"econ_rule_1_stop_time", ruleStopTime},
		{"econ_rule_1_effective_week", ruleEffectiveWeek},
		{"econ_rule_1_enable", enable},
		{"operating_mode", modeEconomic},
	}
}

// writeSequence issues the writes of a transition in order and stops at the first failure.
func (c *PollCoordinator) writeSequence(to domain.EnergyState, now time.Time, powerKW float64) error {
	for _, w := range c.transitionWrites(to, now, powerKW) {
		if err := c.adapter.WriteLogical(w.key, w.value); err != nil {
			c.checkLink(err)
			return err
		}
	}
	return nil
}

func (c *PollCoordinator) checkLink(err error) {
	if errors.Is(err, fm.ErrTransport) {
		c.disconnect(err)
	}
}

// rollover closes the previous day on the first cycle of a new local day.
func (c *PollCoordinator) rollover(now time.Time) {
	today := domain.DayOf(now)
	if c.day.Day == today {
		return
	}
	if c.day.Day != "" {
		prior := c.day.Day
		c.day.CarriedDeficitKWh = c.day.LastDeficitKWh
		c.day.History = c.day.History.Append(domain.ConsumptionEntry{Date: prior, KWh: c.day.LastConsumptionKWh})
		c.day.LastDeficitKWh = 0
		c.day.LastConsumptionKWh = 0
		c.schedule = domain.EmptySchedule(domain.ScheduleOff)

		// tomorrow's prices become today's, unless the source already sent the new day
		if c.pricesDay == prior {
			c.prices.Today = c.prices.Tomorrow
			c.prices.Tomorrow = nil
			c.prices.Current = nil
			c.prices.Min, c.prices.Avg, c.prices.Max = nil, nil, nil
			c.pricesDay = today
		}
		c.forecast.RemainingKWh = nil

		c.logger.Info("day rollover",
			zap.String("prior", prior), zap.String("day", today),
			zap.Float64("carried_deficit_kwh", c.day.CarriedDeficitKWh),
			zap.Int("history", len(c.day.History)))
	}
	c.day.Day = today
	c.saveDay()
}

func (c *PollCoordinator) saveDay() {
	if c.store == nil {
		return
	}
	if err := c.store.SaveDayState(c.day); err != nil {
		c.logger.Error("could not persist day state", zap.Error(err))
	}
}
