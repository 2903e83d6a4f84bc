package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"
	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE       = "bridge"
	SENSOR_ID_OPERATIONAL_MODE   = "operational_mode"
	SENSOR_ID_SAFE_MAX_POWER     = "safe_max_power"
	SENSOR_ID_CURRENT_PRICE      = "current_price"
	SENSOR_ID_PRICE_THRESHOLD    = "price_threshold"
	SENSOR_ID_SCHEDULE_STATUS    = "schedule_status"
	SENSOR_ID_ENERGY_STATE       = "energy_state"
	SENSOR_ID_ENERGY_PLANNED     = "energy_planned"
	SENSOR_ID_BATTERY_SOC        = "battery_soc"
	SENSOR_ID_MAX_PHASE_CURRENT  = "max_phase_current"
	SENSOR_ID_CONNECTED          = "inverter_connected"
	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"
	DEVICE_CLASS_BATTERY         = "battery"
	DEVICE_CLASS_CURRENT         = "current"
	DEVICE_CLASS_ENERGY          = "energy"
	DEVICE_CLASS_POWER           = "power"
	DEVICE_CLASS_MONETARY        = "monetary"
	DEVICE_CLASS_ENUM            = "enum"
	DEVICE_CLASS_CONNECTIVITY    = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC      = "diagnostic"
	ENTITY_CLASS_CONFIG          = "config"
	SENSOR_TYPE_SENSOR           = "sensor"
	SENSOR_TYPE_BINARY           = "binary_sensor"
	INPUT_NUMBER_MODE_BOX        = "box"
	INPUT_NUMBER_MODE_SLIDER     = "slider"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("felicity_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Felicity2MQTT",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Felicity2MQTT %s", md5HashShort(baseTopic)),
	}
}

// InverterDevice identifies an inverter by its model and link, as the register map carries no serial.
func InverterDevice(model string, link string, slaveId uint8) Device {
	hash := md5HashShort(fmt.Sprintf("%s/%s/%d", model, link, slaveId))
	return Device{
		Id:           fmt.Sprintf("fel_inverter_%s", hash),
		Manufacturer: "Felicity Solar",
		Model:        model,
		Name:         fmt.Sprintf("Felicity %s %s", model, hash),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {
	return []GenericSensor{{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	}}
}

// RegisterSensors builds one sensor per published register and combined value.
func RegisterSensors(inverterDevice Device, regs []felicity_modbus.RegisterDescriptor, combined []felicity_modbus.CombinedRegister) []GenericSensor {
	var sensors []GenericSensor
	for _, d := range regs {
		if d.Scale == felicity_modbus.ScaleOpaque99 {
			continue
		}
		s := GenericSensor{
			Device:            inverterDevice,
			Id:                d.Key,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              d.Name,
			UnitOfMeasurement: d.Unit,
			StateClass:        d.StateClass,
			DeviceClass:       d.DeviceClass,
			UniqueId:          uniqueId(inverterDevice.Id, d.Key),
		}
		if len(d.Options) > 0 {
			s.DeviceClass = DEVICE_CLASS_ENUM
			s.StateClass = ""
			s.UnitOfMeasurement = ""
		}
		if strings.HasPrefix(d.Key, "econ_rule_") || strings.HasPrefix(d.Key, "warning_state_") || d.Key == "fault_code" {
			s.EntityCategory = ENTITY_CLASS_DIAGNOSTIC
		}
		sensors = append(sensors, s)
	}
	for _, c := range combined {
		sensors = append(sensors, GenericSensor{
			Device:            inverterDevice,
			Id:                c.Key,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              c.Name,
			UnitOfMeasurement: c.Unit,
			UniqueId:          uniqueId(inverterDevice.Id, c.Key),
		})
	}
	return sensors
}

func DerivedSensors(inverterDevice Device) []GenericSensor {

	var sensors []GenericSensor

	sensors = append(sensors, GenericSensor{
		Device:     inverterDevice,
		Id:         SENSOR_ID_OPERATIONAL_MODE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Operational mode",
		Icon:       "mdi:cog-transfer",
		UniqueId:   uniqueId(inverterDevice.Id, SENSOR_ID_OPERATIONAL_MODE),
	})

	// Throttled power request
	sensors = append(sensors, GenericSensor{
		Device:            inverterDevice,
		Id:                SENSOR_ID_SAFE_MAX_POWER,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Safe max power",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_POWER,
		UnitOfMeasurement: "kW",
		UniqueId:          uniqueId(inverterDevice.Id, SENSOR_ID_SAFE_MAX_POWER),
	})

	sensors = append(sensors, GenericSensor{
		Device:     inverterDevice,
		Id:         SENSOR_ID_CURRENT_PRICE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Current price",
		StateClass: STATE_CLASS_MEASUREMENT,
		Icon:       "mdi:cash",
		UniqueId:   uniqueId(inverterDevice.Id, SENSOR_ID_CURRENT_PRICE),
	})

	sensors = append(sensors, GenericSensor{
		Device:     inverterDevice,
		Id:         SENSOR_ID_PRICE_THRESHOLD,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Price threshold",
		StateClass: STATE_CLASS_MEASUREMENT,
		Icon:       "mdi:cash-lock",
		UniqueId:   uniqueId(inverterDevice.Id, SENSOR_ID_PRICE_THRESHOLD),
	})

	sensors = append(sensors, GenericSensor{
		Device:     inverterDevice,
		Id:         SENSOR_ID_SCHEDULE_STATUS,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Schedule status",
		Icon:       "mdi:calendar-clock",
		UniqueId:   uniqueId(inverterDevice.Id, SENSOR_ID_SCHEDULE_STATUS),
	})

	sensors = append(sensors, GenericSensor{
		Device:     inverterDevice,
		Id:         SENSOR_ID_ENERGY_STATE,
		SensorType: SENSOR_TYPE_SENSOR,
		Name:       "Energy state",
		Icon:       "mdi:battery-sync",
		UniqueId:   uniqueId(inverterDevice.Id, SENSOR_ID_ENERGY_STATE),
	})

	sensors = append(sensors, GenericSensor{
		Device:            inverterDevice,
		Id:                SENSOR_ID_ENERGY_PLANNED,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Planned grid energy",
		DeviceClass:       DEVICE_CLASS_ENERGY,
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "kWh",
		UniqueId:          uniqueId(inverterDevice.Id, SENSOR_ID_ENERGY_PLANNED),
	})

	sensors = append(sensors, GenericSensor{
		Device:            inverterDevice,
		Id:                SENSOR_ID_BATTERY_SOC,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Battery SoC",
		DeviceClass:       DEVICE_CLASS_BATTERY,
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "%",
		UniqueId:          uniqueId(inverterDevice.Id, SENSOR_ID_BATTERY_SOC),
	})

	sensors = append(sensors, GenericSensor{
		Device:            inverterDevice,
		Id:                SENSOR_ID_MAX_PHASE_CURRENT,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Max phase current",
		DeviceClass:       DEVICE_CLASS_CURRENT,
		StateClass:        STATE_CLASS_MEASUREMENT,
		UnitOfMeasurement: "A",
		EnabledByDefault:  optionalBool(false),
		UniqueId:          uniqueId(inverterDevice.Id, SENSOR_ID_MAX_PHASE_CURRENT),
	})

	sensors = append(sensors, GenericSensor{
		Device:         inverterDevice,
		Id:             SENSOR_ID_CONNECTED,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Inverter link",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(inverterDevice.Id, SENSOR_ID_CONNECTED),
	})

	return sensors
}

var optionNames = map[string]string{
	NUMBER_ID_POWER_LEVEL:                 "Power level",
	NUMBER_ID_PRICE_THRESHOLD_LEVEL:       "Price threshold level",
	NUMBER_ID_BATTERY_CHARGE_MAX_LEVEL:    "Battery charge max level",
	NUMBER_ID_BATTERY_DISCHARGE_MIN_LEVEL: "Battery discharge min level",
	NUMBER_ID_VOLTAGE_LEVEL:               "Voltage level",
	NUMBER_ID_SAFE_MAX_CURRENT:            "Safe max current",
	SELECT_ID_GRID_MODE:                   "Grid mode",
	SELECT_ID_PRICE_MODE:                  "Price mode",
}

func ControlInputNumbers(inverterDevice Device, options ControlOptions) []GenericInputNumber {
	var inputNumbers []GenericInputNumber
	for _, id := range NumberOptionIds {
		b := OptionBounds[id]
		v, _ := options.Number(id)
		inputNumbers = append(inputNumbers, GenericInputNumber{
			Device:            inverterDevice,
			Id:                id,
			Name:              optionNames[id],
			UniqueId:          uniqueId(inverterDevice.Id, id),
			Icon:              "mdi:tune-vertical",
			Max:               b.Max,
			Min:               b.Min,
			Step:              b.Step,
			Mode:              INPUT_NUMBER_MODE_BOX,
			UnitOfMeasurement: b.Unit,
			InitialValue:      v,
		})
	}
	return inputNumbers
}

func ControlSelects(inverterDevice Device) []GenericSelect {
	gridModes := make([]string, len(GridModes))
	for i, m := range GridModes {
		gridModes[i] = string(m)
	}
	priceModes := make([]string, len(PriceModes))
	for i, m := range PriceModes {
		priceModes[i] = string(m)
	}
	return []GenericSelect{
		{
			Device:   inverterDevice,
			Id:       SELECT_ID_GRID_MODE,
			Name:     optionNames[SELECT_ID_GRID_MODE],
			UniqueId: uniqueId(inverterDevice.Id, SELECT_ID_GRID_MODE),
			Icon:     "mdi:transmission-tower",
			Options:  gridModes,
		},
		{
			Device:   inverterDevice,
			Id:       SELECT_ID_PRICE_MODE,
			Name:     optionNames[SELECT_ID_PRICE_MODE],
			UniqueId: uniqueId(inverterDevice.Id, SELECT_ID_PRICE_MODE),
			Icon:     "mdi:cash-clock",
			Options:  priceModes,
		},
	}
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}

func optionalBool(value bool) *bool {
	return &value
}
