package util

import (
	"github.com/berfenger/felicity2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Inverter: config.InverterConfig{
			Model:         "T-REX-10KLP3G01",
			Connection:    "test",
			SlaveId:       1,
			TimeoutMillis: 1000,
			RegisterSet:   "basic",
		},
		MQTT: config.MQTTConfig{
			Host:              "localhost",
			Port:              1883,
			BaseTopic:         "felicity",
			HADiscoveryEnable: true,
			HADiscoveryTopic:  "homeassistant",
		},
		Price: config.PriceConfig{
			Topic:         "energy/spot_price",
			ForecastTopic: "energy/pv_forecast",
		},
		Control: config.ControlConfig{
			GridMode:                    "off",
			PriceMode:                   "manual",
			PowerLevel:                  5,
			PriceThresholdLevel:         5,
			BatteryChargeMaxLevel:       100,
			BatteryDischargeMinLevel:    20,
			VoltageLevel:                58,
			BatteryCapacityKWh:          10,
			EfficiencyFactor:            0.9,
			DailyConsumptionEstimateKWh: 10,
		},
		Monitor: config.MonitorConfig{
			PollIntervalMillis: 1000,
		},
		Timezone: "UTC",
		Port:     8080,
	}
}
