package felicity_modbus

const (
	ModelTrex50KHP3G01 = "T-REX-50KHP3G01"
)

// Trex50KScheduleKeys are written by the 50K schedule handlers. Their addresses are not part of a
// published map, so the default table leaves them out and a register override has to supply them.
var Trex50KScheduleKeys = []string{
	"econ_rule_1_grid_charge_enable",
	"econ_work_mode",
	"econ_use_schedule",
	"peak_shaving_power",
}

// trex50KRegisters shares the telemetry block with the low voltage family and replaces the
// battery block and the rule power register.
func trex50KRegisters() []RegisterDescriptor {
	var out []RegisterDescriptor
	for _, d := range trex10KRegisters() {
		switch {
		case d.Address >= 4608 && d.Address < 4640:
			// single pack BMS block, not present on 50K
			continue
		case d.Key == "battery_voltage" || d.Key == "battery_capacity" || d.Key == "econ_rule_1_power":
			continue
		}
		out = append(out, d)
	}
	return append(out,
		reg("bat1_voltage", "Battery 1 Voltage", 4608, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("bat1_current", "Battery 1 Current", 4609, ScaleSignedDiv10, 1).unit("A", "current", "measurement"),
		reg("bat1_soc", "Battery 1 SOC", 4610, ScaleRaw, 0).unit("%", "battery", "measurement"),
		reg("bat2_voltage", "Battery 2 Voltage", 4611, ScaleDiv10, 1).unit("V", "voltage", "measurement"),
		reg("bat2_current", "Battery 2 Current", 4612, ScaleSignedDiv10, 1).unit("A", "current", "measurement"),
		reg("bat2_soc", "Battery 2 SOC", 4613, ScaleRaw, 0).unit("%", "battery", "measurement"),
		reg("grid_current_l1", "Grid Current L1", 4614, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("grid_current_l2", "Grid Current L2", 4615, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("grid_current_l3", "Grid Current L3", 4616, ScaleDiv10, 1).unit("A", "current", "measurement"),
		reg("econ_rule_1_power", "Rule 1 Power", 8576, ScaleRaw, 0).unit("kW", "power", ""),
	)
}
