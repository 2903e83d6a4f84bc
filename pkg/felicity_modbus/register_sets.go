package felicity_modbus

import (
	"fmt"
	"strings"
)

type RegisterSet string

const (
	RegisterSetBasic     RegisterSet = "basic"
	RegisterSetBasicPlus RegisterSet = "basic_plus"
	RegisterSetFull      RegisterSet = "full"
)

func ParseRegisterSet(s string) (RegisterSet, error) {
	switch RegisterSet(s) {
	case RegisterSetBasic, RegisterSetBasicPlus, RegisterSetFull:
		return RegisterSet(s), nil
	}
	return "", fmt.Errorf("unknown register set %q", s)
}

var basicKeys = []string{
	"working_mode", "warning_state_1", "warning_state_2", "warning_state_3", "operating_mode", "fault_code",
	"ac_input_voltage", "ac_input_voltage_l2", "ac_input_voltage_l3", "ac_input_current", "ac_input_frequency",
	"ac_input_power", "battery_voltage", "battery_capacity", "battery_power",
	"ac_output_voltage", "ac_output_voltage_l2", "ac_output_voltage_l3", "ac_output_current",
	"ac_output_frequency", "ac_output_active_power",
	"ac_input_mid_voltage", "ac_input_mid_voltage_l2", "ac_input_mid_voltage_l3", "load_percentage",
	"pv_input_voltage", "pv_input_current", "pv_input_power",
	"pv2_input_voltage", "pv2_input_current", "pv2_input_power",
	"pv3_input_voltage", "pv3_input_current", "pv3_input_power",
	"total_ac_output_active_power", "total_ac_output_apparent_power",
	"pv_generated_energy_total", "load_consumption_energy_total", "line_load_consumption_energy_total",
	"battery_charged_energy_total", "battery_discharged_energy_total",
	"pv_generated_energy_day", "pv_generated_energy_month", "pv_generated_energy_year",
	"battery_charged_energy_day", "battery_discharged_energy_day",
	"inverter_time", "econ_rule_1", "econ_rule_2", "econ_rule_3", "econ_rule_4",
}

var basicPlusPrefixes = []string{"ac_input_", "ac_output_", "pv_input_", "battery_", "invert_", "total_ac_"}

// PolledKeys resolves a register set into the register keys to read. Combined keys expand into their
// sources, and the keys needed by the model adapter and the controller are always included.
func PolledKeys(set RegisterSet, m *RegisterMap, combined []CombinedRegister, required []string) []string {
	var keys []string
	switch set {
	case RegisterSetFull:
		for _, d := range m.Descriptors() {
			keys = append(keys, d.Key)
		}
	case RegisterSetBasicPlus:
		for _, d := range m.Descriptors() {
			if strings.Contains(d.Key, "_secondary") {
				continue
			}
			for _, p := range basicPlusPrefixes {
				if strings.HasPrefix(d.Key, p) {
					keys = append(keys, d.Key)
					break
				}
			}
		}
	default:
		keys = append(keys, basicKeys...)
	}

	byKey := make(map[string]CombinedRegister, len(combined))
	for _, c := range combined {
		byKey[c.Key] = c
	}
	var out []string
	for _, k := range append(keys, required...) {
		if c, ok := byKey[k]; ok {
			out = append(out, c.Sources...)
			continue
		}
		out = append(out, k)
	}

	// Select drops duplicates and keys the model does not have
	selected := m.Select(out)
	res := make([]string, len(selected))
	for i, d := range selected {
		res[i] = d.Key
	}
	return res
}

// CombinedFor returns the combined registers whose sources are all polled.
func CombinedFor(polled []string, combined []CombinedRegister) []CombinedRegister {
	have := make(map[string]bool, len(polled))
	for _, k := range polled {
		have[k] = true
	}
	var out []CombinedRegister
	for _, c := range combined {
		ok := true
		for _, s := range c.Sources {
			if !have[s] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c)
		}
	}
	return out
}
