package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Inverter InverterConfig `mapstructure:"inverter"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Price    PriceConfig    `mapstructure:"price"`
	Control  ControlConfig  `mapstructure:"control"`
	Store    StoreConfig    `mapstructure:"store"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Timezone string         `mapstructure:"timezone"`
	Port     uint           `mapstructure:"port"`
	HttpLog  bool           `mapstructure:"http_log"`
}

type InverterConfig struct {
	Model             string
	Connection        string // tcp | rtu | test
	Host              string
	Port              uint
	Device            string
	BaudRate          uint   `mapstructure:"baudrate"`
	Parity            string
	StopBits          uint   `mapstructure:"stopbits"`
	ByteSize          uint   `mapstructure:"bytesize"`
	SlaveId           uint8  `mapstructure:"slave_id"`
	TimeoutMillis     uint32 `mapstructure:"timeout_millis"`
	RegisterSet       string `mapstructure:"register_set"`
	RegisterOverrides string `mapstructure:"register_overrides"`
}

func (c InverterConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMillis) * time.Millisecond
}

type MonitorConfig struct {
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
}

func (c MonitorConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

type PriceConfig struct {
	Topic         string `mapstructure:"topic"`
	ForecastTopic string `mapstructure:"forecast_topic"`
}

// ControlConfig holds the control option defaults. The installation fields are never overridden by
// stored options.
type ControlConfig struct {
	GridMode                    string  `mapstructure:"grid_mode"`
	PriceMode                   string  `mapstructure:"price_mode"`
	PowerLevel                  float64 `mapstructure:"power_level"`
	PriceThresholdLevel         float64 `mapstructure:"price_threshold_level"`
	BatteryChargeMaxLevel       float64 `mapstructure:"battery_charge_max_level"`
	BatteryDischargeMinLevel    float64 `mapstructure:"battery_discharge_min_level"`
	VoltageLevel                float64 `mapstructure:"voltage_level"`
	SafeMaxCurrent              float64 `mapstructure:"safe_max_current"`
	BatteryCapacityKWh          float64 `mapstructure:"battery_capacity_kwh"`
	EfficiencyFactor            float64 `mapstructure:"efficiency_factor"`
	DailyConsumptionEstimateKWh float64 `mapstructure:"daily_consumption_estimate_kwh"`
}

// ControlOptions builds the startup control options, rejecting out of range values.
func (c ControlConfig) ControlOptions() (domain.ControlOptions, error) {
	o := domain.DefaultControlOptions()
	var err error
	if o, err = o.WithOption(domain.SELECT_ID_GRID_MODE, c.GridMode); err != nil {
		return o, err
	}
	if o, err = o.WithOption(domain.SELECT_ID_PRICE_MODE, c.PriceMode); err != nil {
		return o, err
	}
	numbers := map[string]float64{
		domain.NUMBER_ID_POWER_LEVEL:                 c.PowerLevel,
		domain.NUMBER_ID_PRICE_THRESHOLD_LEVEL:       c.PriceThresholdLevel,
		domain.NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL:    c.BatteryChargeMaxLevel,
		domain.NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL: c.BatteryDischargeMinLevel,
		domain.NUMBER_ID_VOLTAGE_LEVEL:               c.VoltageLevel,
		domain.NUMBER_ID_SAFE_MAX_CURRENT:            c.SafeMaxCurrent,
	}
	for id, v := range numbers {
		if o, err = o.WithNumber(id, v); err != nil {
			return o, fmt.Errorf("config param control.%s: %w", id, err)
		}
	}
	if c.BatteryCapacityKWh <= 0 {
		return o, errors.New("config param control.battery_capacity_kwh should be > 0")
	}
	if c.EfficiencyFactor <= 0 || c.EfficiencyFactor > 1 {
		return o, errors.New("config param control.efficiency_factor should be in (0, 1]")
	}
	if c.DailyConsumptionEstimateKWh < 0 {
		return o, errors.New("config param control.daily_consumption_estimate_kwh should be >= 0")
	}
	o.BatteryCapacityKWh = c.BatteryCapacityKWh
	o.EfficiencyFactor = c.EfficiencyFactor
	o.DailyConsumptionEstimateKWh = c.DailyConsumptionEstimateKWh
	return o, nil
}

type StoreConfig struct {
	Path string
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}

// Location resolves the configured timezone, falling back to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
