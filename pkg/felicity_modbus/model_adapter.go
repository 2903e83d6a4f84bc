package felicity_modbus

import (
	"fmt"
	"math"
	"strings"
)

type ModelFamily string

const (
	FamilyTrex10K ModelFamily = "trex_10k"
	FamilyTrex50K ModelFamily = "trex_50k"
)

// FamilyForModel maps a configured inverter model name onto its register family.
func FamilyForModel(model string) (ModelFamily, error) {
	m := strings.ToUpper(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(m, "T-REX-50K"):
		return FamilyTrex50K, nil
	case strings.HasPrefix(m, "T-REX-10K"), strings.HasPrefix(m, "T-REX-5K"):
		return FamilyTrex10K, nil
	}
	return "", fmt.Errorf("unsupported inverter model %q", model)
}

// DefaultRegisterMap returns the built-in register table of a family.
func DefaultRegisterMap(family ModelFamily) *RegisterMap {
	switch family {
	case FamilyTrex50K:
		return MustRegisterMap(ModelTrex50KHP3G01, trex50KRegisters()...)
	default:
		return MustRegisterMap(ModelTrex10KLP3G01, trex10KRegisters()...)
	}
}

func CombinedRegisters() []CombinedRegister {
	return combinedRegisters()
}

// ModelAdapter hides the register layout differences between inverter families.
type ModelAdapter interface {
	Family() ModelFamily
	RegisterMap() *RegisterMap
	BatteryVoltage(values map[string]Value) *float64
	BatterySOC(values map[string]Value) *float64
	MaxPhaseCurrent(values map[string]Value) *float64
	OperationalMode(values map[string]Value) string
	// AppliedPowerKW is the economic rule power currently set on the device.
	AppliedPowerKW(values map[string]Value) *float64
	// RequiredKeys lists the registers the derivations above read.
	RequiredKeys() []string
	// UnmappedWriteKeys lists the registers the write handlers need but the map lacks.
	UnmappedWriteKeys() []string
	WriteLogical(key string, value float64) error
}

type writeHandler func(value float64) error

type modelAdapter struct {
	family    ModelFamily
	regs      *RegisterMap
	transport Transport
	handlers  map[string]writeHandler
	targets   []string
}

func NewModelAdapter(family ModelFamily, regs *RegisterMap, transport Transport) (ModelAdapter, error) {
	base := modelAdapter{family: family, regs: regs, transport: transport}
	switch family {
	case FamilyTrex10K:
		a := &trex10KAdapter{modelAdapter: base}
		a.handlers = map[string]writeHandler{}
		return a, nil
	case FamilyTrex50K:
		a := &trex50KAdapter{modelAdapter: base}
		a.handlers = map[string]writeHandler{
			"econ_rule_1_enable":    a.writeRuleEnable,
			"econ_rule_1_power":     a.writeRulePower,
			"econ_rule_1_start_day": ignoreWrite,
			"econ_rule_1_stop_day":  ignoreWrite,
		}
		a.targets = append([]string{"econ_rule_1_power"}, Trex50KScheduleKeys...)
		return a, nil
	}
	return nil, fmt.Errorf("unsupported model family %q", family)
}

func (a *modelAdapter) Family() ModelFamily {
	return a.family
}

func (a *modelAdapter) RegisterMap() *RegisterMap {
	return a.regs
}

func (a *modelAdapter) UnmappedWriteKeys() []string {
	var missing []string
	for _, k := range a.targets {
		if _, ok := a.regs.Lookup(k); !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// mapped fails before any write when one of keys has no descriptor.
func (a *modelAdapter) mapped(keys ...string) error {
	for _, k := range keys {
		if _, ok := a.regs.Lookup(k); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRegisterKey, k)
		}
	}
	return nil
}

func (a *modelAdapter) WriteLogical(key string, value float64) error {
	if h, ok := a.handlers[key]; ok {
		return h(value)
	}
	return a.writePlain(key, value)
}

// writePlain encodes value with the key's own descriptor and writes it in one request.
func (a *modelAdapter) writePlain(key string, value float64) error {
	d, ok := a.regs.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegisterKey, key)
	}
	var v Value
	if d.Scale.factor() == 1 {
		v = IntValue(int64(math.Round(value)))
	} else {
		v = FloatValue(value)
	}
	words, err := Encode(v, d)
	if err != nil {
		return err
	}
	if err := a.transport.WriteRegisters(d.Address, words); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, key, err)
	}
	return nil
}

func ignoreWrite(float64) error {
	return nil
}

func lookupFloat(values map[string]Value, key string) *float64 {
	v, ok := values[key]
	if !ok {
		return nil
	}
	f := v.AsFloat()
	return &f
}

func maxOf(values map[string]Value, keys ...string) *float64 {
	var out *float64
	for _, k := range keys {
		f := lookupFloat(values, k)
		if f != nil && (out == nil || *f > *out) {
			out = f
		}
	}
	return out
}

func modeName(operating *float64, rule *float64) string {
	if operating == nil {
		return "unknown"
	}
	switch int(*operating) {
	case 0:
		return "general"
	case 1:
		return "backup"
	case 2:
		if rule != nil {
			switch int(*rule) {
			case 1:
				return "economic_charge"
			case 2:
				return "economic_discharge"
			}
		}
		return "economic"
	}
	return fmt.Sprintf("unknown(%d)", int(*operating))
}

// T-REX 5K/10K

type trex10KAdapter struct {
	modelAdapter
}

func (a *trex10KAdapter) RequiredKeys() []string {
	return []string{
		"battery_voltage", "battery_capacity",
		"ac_input_current", "ac_input_current_l2", "ac_input_current_l3",
		"operating_mode", "econ_rule_1_enable", "econ_rule_1_power", "load_consumption_energy_day",
	}
}

func (a *trex10KAdapter) BatteryVoltage(values map[string]Value) *float64 {
	return lookupFloat(values, "battery_voltage")
}

func (a *trex10KAdapter) BatterySOC(values map[string]Value) *float64 {
	return lookupFloat(values, "battery_capacity")
}

func (a *trex10KAdapter) MaxPhaseCurrent(values map[string]Value) *float64 {
	return maxOf(values, "ac_input_current", "ac_input_current_l2", "ac_input_current_l3")
}

func (a *trex10KAdapter) OperationalMode(values map[string]Value) string {
	return modeName(lookupFloat(values, "operating_mode"), lookupFloat(values, "econ_rule_1_enable"))
}

func (a *trex10KAdapter) AppliedPowerKW(values map[string]Value) *float64 {
	w := lookupFloat(values, "econ_rule_1_power")
	if w == nil {
		return nil
	}
	kw := *w / 1000
	return &kw
}

// T-REX 50K

type trex50KAdapter struct {
	modelAdapter
}

func (a *trex50KAdapter) RequiredKeys() []string {
	return []string{
		"bat1_voltage", "bat2_voltage", "bat1_soc", "bat2_soc",
		"grid_current_l1", "grid_current_l2", "grid_current_l3",
		"operating_mode", "econ_work_mode", "econ_rule_1_power", "load_consumption_energy_day",
	}
}

func (a *trex50KAdapter) BatteryVoltage(values map[string]Value) *float64 {
	if v := lookupFloat(values, "bat1_voltage"); v != nil {
		return v
	}
	return lookupFloat(values, "bat2_voltage")
}

// BatterySOC returns the lower pack SOC when both packs report.
func (a *trex50KAdapter) BatterySOC(values map[string]Value) *float64 {
	bat1 := lookupFloat(values, "bat1_soc")
	bat2 := lookupFloat(values, "bat2_soc")
	switch {
	case bat1 != nil && bat2 != nil:
		m := math.Min(*bat1, *bat2)
		return &m
	case bat1 != nil:
		return bat1
	default:
		return bat2
	}
}

func (a *trex50KAdapter) MaxPhaseCurrent(values map[string]Value) *float64 {
	return maxOf(values, "grid_current_l1", "grid_current_l2", "grid_current_l3")
}

func (a *trex50KAdapter) OperationalMode(values map[string]Value) string {
	return modeName(lookupFloat(values, "operating_mode"), lookupFloat(values, "econ_work_mode"))
}

func (a *trex50KAdapter) AppliedPowerKW(values map[string]Value) *float64 {
	return lookupFloat(values, "econ_rule_1_power")
}

func (a *trex50KAdapter) writeRuleEnable(value float64) error {
	mode := int(math.Round(value))
	gridCharge, workMode, useSchedule := 0.0, 0.0, 0.0
	switch mode {
	case 1:
		gridCharge, workMode = 1, 1
	case 2:
		workMode = 2
	}
	if mode != 0 {
		useSchedule = 1
	}
	if err := a.mapped("econ_rule_1_grid_charge_enable", "econ_work_mode", "econ_use_schedule"); err != nil {
		return err
	}
	if err := a.writePlain("econ_rule_1_grid_charge_enable", gridCharge); err != nil {
		return err
	}
	if err := a.writePlain("econ_work_mode", workMode); err != nil {
		return err
	}
	return a.writePlain("econ_use_schedule", useSchedule)
}

// writeRulePower takes watts; the 50K registers hold whole kilowatts, rounded down so a throttled
// level is never exceeded.
func (a *trex50KAdapter) writeRulePower(value float64) error {
	if err := a.mapped("econ_rule_1_power", "peak_shaving_power"); err != nil {
		return err
	}
	kw := math.Floor(value / 1000)
	if err := a.writePlain("econ_rule_1_power", kw); err != nil {
		return err
	}
	return a.writePlain("peak_shaving_power", kw)
}
