package felicity_modbus

import (
	"fmt"
	"strings"
)

// CombinedRegister derives one published value from several raw registers.
type CombinedRegister struct {
	Key     string
	Name    string
	Unit    string
	Sources []string
	// Calc receives the source values in Sources order. Either a numeric or a textual result is set.
	Calc func(src []int64) (*Value, string)
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func combinedRegisters() []CombinedRegister {
	out := []CombinedRegister{
		{
			Key:     "pv_total_power",
			Name:    "PV Total Power",
			Unit:    "W",
			Sources: []string{"pv_input_power", "pv2_input_power", "pv3_input_power"},
			Calc: func(src []int64) (*Value, string) {
				v := IntValue(src[0] + src[1] + src[2])
				return &v, ""
			},
		},
		{
			Key:     "inverter_time",
			Name:    "Inverter Time",
			Sources: []string{"time_year_month", "time_day_hour", "time_minute_second"},
			Calc: func(src []int64) (*Value, string) {
				return nil, packedDateTime(src[0], src[1], src[2])
			},
		},
		{
			Key:     "log_time",
			Name:    "Log Entry Time",
			Sources: []string{"log_time_year_month", "log_time_day_hour", "log_time_minute_second"},
			Calc: func(src []int64) (*Value, string) {
				return nil, packedDateTime(src[0], src[1], src[2])
			},
		},
	}
	for i := 1; i <= 4; i++ {
		p := fmt.Sprintf("econ_rule_%d_", i)
		out = append(out, CombinedRegister{
			Key:  fmt.Sprintf("econ_rule_%d", i),
			Name: fmt.Sprintf("Economic Mode Rule %d", i),
			Sources: []string{p + "enable", p + "start_time", p + "stop_time", p + "start_day", p + "stop_day",
				p + "effective_week", p + "voltage", p + "soc", p + "power"},
			Calc: econRuleSummary,
		})
	}
	return out
}

func packedDateTime(yearMonth, dayHour, minSec int64) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		2000+(yearMonth>>8), yearMonth&0xff, dayHour>>8, dayHour&0xff, minSec>>8, minSec&0xff)
}

// econRuleSummary renders an economic rule as e.g. "Charge 00:00-23:59 10-19/10-19 Sun,Mon 58.0V 100% 5000W".
// The voltage source is read in tenths of a volt.
func econRuleSummary(src []int64) (*Value, string) {
	enable, startT, stopT, startD, stopD, week, volt, soc, power := src[0], src[1], src[2], src[3], src[4], src[5], src[6], src[7], src[8]

	var mode string
	switch enable {
	case 0:
		mode = "Disabled"
	case 1:
		mode = "Charge"
	case 2:
		mode = "Discharge"
	default:
		mode = fmt.Sprintf("Unknown(%d)", enable)
	}

	var days []string
	for i, d := range weekdays {
		if week&(1<<i) != 0 {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		days = append(days, "-")
	}

	return nil, fmt.Sprintf("%s %02d:%02d-%02d:%02d %02d-%02d/%02d-%02d %s %.1fV %d%% %dW",
		mode,
		startT>>8, startT&0xff, stopT>>8, stopT&0xff,
		startD>>8, startD&0xff, stopD>>8, stopD&0xff,
		strings.Join(days, ","), float64(volt)/10, soc, power)
}

// rawSource reads a source value back as an integer: scaled values are multiplied back to their raw form.
func rawSource(v Value, d RegisterDescriptor) int64 {
	if !v.IsFloat {
		return v.Int
	}
	return int64(v.Float*d.Scale.factor() + 0.5*sign(v.Float))
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// ComputeCombined evaluates every combined register whose sources were all decoded.
func (m *RegisterMap) ComputeCombined(values map[string]Value, combined []CombinedRegister) (map[string]Value, map[string]string) {
	numeric := make(map[string]Value)
	text := make(map[string]string)
	for _, c := range combined {
		src := make([]int64, len(c.Sources))
		complete := true
		for i, key := range c.Sources {
			v, ok := values[key]
			d, known := m.descs[key]
			if !ok || !known {
				complete = false
				break
			}
			src[i] = rawSource(v, d)
		}
		if !complete {
			continue
		}
		n, s := c.Calc(src)
		if n != nil {
			numeric[c.Key] = *n
		} else {
			text[c.Key] = s
		}
	}
	return numeric, text
}
