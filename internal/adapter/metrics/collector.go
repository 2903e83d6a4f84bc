package metrics

import (
	"sync"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// FrameCollector implements prometheus.Collector over the last published frame.
type FrameCollector struct {
	mu    sync.RWMutex
	frame *domain.Frame
	model string

	registerValue  *prometheus.Desc
	textValue      *prometheus.Desc
	connected      *prometheus.Desc
	groupErrors    *prometheus.Desc
	batterySOC     *prometheus.Desc
	maxCurrent     *prometheus.Desc
	safeMaxPower   *prometheus.Desc
	currentPrice   *prometheus.Desc
	priceThreshold *prometheus.Desc
	energyPlanned  *prometheus.Desc
	energyState    *prometheus.Desc
	scheduleStatus *prometheus.Desc
	frameAge       *prometheus.Desc
}

var energyStates = []domain.EnergyState{domain.EnergyIdle, domain.EnergyCharging, domain.EnergyDischarging}

var scheduleStatuses = []domain.ScheduleStatus{
	domain.ScheduleOff, domain.ScheduleNoPriceData, domain.ScheduleNoSOC, domain.ScheduleNoActionNeeded,
	domain.ScheduleDayComplete, domain.ScheduleWaiting, domain.ScheduleActive,
}

func NewFrameCollector(model string) *FrameCollector {
	return &FrameCollector{
		model: model,
		registerValue: prometheus.NewDesc(
			"felicity_register_value",
			"Decoded register or combined value",
			[]string{"model", "key"},
			nil,
		),
		textValue: prometheus.NewDesc(
			"felicity_register_text",
			"Textual register value, always 1",
			[]string{"model", "key", "value"},
			nil,
		),
		connected: prometheus.NewDesc(
			"felicity_inverter_connected",
			"Whether the last poll cycle reached the inverter (1=yes, 0=no)",
			[]string{"model"},
			nil,
		),
		groupErrors: prometheus.NewDesc(
			"felicity_group_errors",
			"Register groups that failed in the last poll cycle",
			[]string{"model"},
			nil,
		),
		batterySOC: prometheus.NewDesc(
			"felicity_battery_soc_percent",
			"Battery state of charge in percent",
			[]string{"model"},
			nil,
		),
		maxCurrent: prometheus.NewDesc(
			"felicity_max_phase_current_amperes",
			"Highest measured phase current",
			[]string{"model"},
			nil,
		),
		safeMaxPower: prometheus.NewDesc(
			"felicity_safe_max_power_kw",
			"Charge/discharge power after current throttling",
			[]string{"model"},
			nil,
		),
		currentPrice: prometheus.NewDesc(
			"felicity_current_price",
			"Electricity price of the current slot",
			[]string{"model"},
			nil,
		),
		priceThreshold: prometheus.NewDesc(
			"felicity_price_threshold",
			"Price threshold in effect",
			[]string{"model"},
			nil,
		),
		energyPlanned: prometheus.NewDesc(
			"felicity_energy_planned_kwh",
			"Energy covered by the selected slots",
			[]string{"model"},
			nil,
		),
		energyState: prometheus.NewDesc(
			"felicity_energy_state",
			"Current energy state (1 for the active state)",
			[]string{"model", "state"},
			nil,
		),
		scheduleStatus: prometheus.NewDesc(
			"felicity_schedule_status",
			"Current schedule status (1 for the active status)",
			[]string{"model", "status"},
			nil,
		),
		frameAge: prometheus.NewDesc(
			"felicity_frame_age_seconds",
			"Seconds since the last published frame",
			[]string{"model"},
			nil,
		),
	}
}

// Update replaces the frame served on the next scrape.
func (c *FrameCollector) Update(f domain.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame = &f
}

func (c *FrameCollector) LastFrame() *domain.Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// Describe implements prometheus.Collector
func (c *FrameCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.registerValue
	ch <- c.textValue
	ch <- c.connected
	ch <- c.groupErrors
	ch <- c.batterySOC
	ch <- c.maxCurrent
	ch <- c.safeMaxPower
	ch <- c.currentPrice
	ch <- c.priceThreshold
	ch <- c.energyPlanned
	ch <- c.energyState
	ch <- c.scheduleStatus
	ch <- c.frameAge
}

// Collect implements prometheus.Collector
func (c *FrameCollector) Collect(ch chan<- prometheus.Metric) {
	f := c.LastFrame()
	if f == nil {
		ch <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, 0, c.model)
		return
	}

	for key, v := range f.Values {
		ch <- prometheus.MustNewConstMetric(c.registerValue, prometheus.GaugeValue, v.AsFloat(), c.model, key)
	}
	for key, s := range f.Text {
		ch <- prometheus.MustNewConstMetric(c.textValue, prometheus.GaugeValue, 1, c.model, key, s)
	}

	d := f.Derived
	ch <- prometheus.MustNewConstMetric(c.connected, prometheus.GaugeValue, boolValue(d.Connected), c.model)
	ch <- prometheus.MustNewConstMetric(c.groupErrors, prometheus.GaugeValue, float64(d.GroupErrors), c.model)
	ch <- prometheus.MustNewConstMetric(c.safeMaxPower, prometheus.GaugeValue, d.SafeMaxPower, c.model)
	ch <- prometheus.MustNewConstMetric(c.energyPlanned, prometheus.GaugeValue, d.EnergyPlannedKWh, c.model)
	ch <- prometheus.MustNewConstMetric(c.frameAge, prometheus.GaugeValue, time.Since(f.Time).Seconds(), c.model)

	// optional values are only exported when known
	optional := []struct {
		desc  *prometheus.Desc
		value *float64
	}{
		{c.batterySOC, d.BatterySOC},
		{c.maxCurrent, d.MaxPhaseCurrent},
		{c.currentPrice, d.CurrentPrice},
		{c.priceThreshold, d.PriceThreshold},
	}
	for _, o := range optional {
		if o.value != nil {
			ch <- prometheus.MustNewConstMetric(o.desc, prometheus.GaugeValue, *o.value, c.model)
		}
	}

	for _, s := range energyStates {
		ch <- prometheus.MustNewConstMetric(c.energyState, prometheus.GaugeValue, boolValue(d.EnergyState == s), c.model, string(s))
	}
	for _, s := range scheduleStatuses {
		ch <- prometheus.MustNewConstMetric(c.scheduleStatus, prometheus.GaugeValue, boolValue(d.ScheduleStatus == s), c.model, string(s))
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
