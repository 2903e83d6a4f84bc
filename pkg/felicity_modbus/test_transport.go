package felicity_modbus

import (
	"fmt"
	"sync"
)

type WriteCall struct {
	Address uint16
	Words   []uint16
}

// TestTransport is an in-memory register bank. Writes are applied to the bank and recorded.
type TestTransport struct {
	mu        sync.Mutex
	bank      map[uint16]uint16
	writes    []WriteCall
	opened    bool
	OpenErr   error
	ReadErrs  map[uint16]error
	WriteErrs map[uint16]error
}

var _ Transport = (*TestTransport)(nil)

func NewTestTransport() *TestTransport {
	return &TestTransport{
		bank:      make(map[uint16]uint16),
		ReadErrs:  make(map[uint16]error),
		WriteErrs: make(map[uint16]error),
	}
}

func (t *TestTransport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.OpenErr != nil {
		return t.OpenErr
	}
	t.opened = true
	return nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.opened = false
	return nil
}

func (t *TestTransport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.opened
}

func (t *TestTransport) ReadHoldingRegisters(address uint16, count uint16) ([]uint16, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err, ok := t.ReadErrs[address]; ok {
		return nil, err
	}
	words := make([]uint16, count)
	for i := range words {
		words[i] = t.bank[address+uint16(i)]
	}
	return words, nil
}

func (t *TestTransport) WriteRegisters(address uint16, words []uint16) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err, ok := t.WriteErrs[address]; ok {
		return err
	}
	for i, w := range words {
		t.bank[address+uint16(i)] = w
	}
	t.writes = append(t.writes, WriteCall{Address: address, Words: append([]uint16(nil), words...)})
	return nil
}

func (t *TestTransport) SetWords(address uint16, words ...uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, w := range words {
		t.bank[address+uint16(i)] = w
	}
}

// SetValue encodes v with the descriptor of key and stores it in the bank.
func (t *TestTransport) SetValue(m *RegisterMap, key string, v Value) error {
	d, ok := m.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRegisterKey, key)
	}
	words, err := Encode(v, d)
	if err != nil {
		return err
	}
	t.SetWords(d.Address, words...)
	return nil
}

func (t *TestTransport) Writes() []WriteCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]WriteCall(nil), t.writes...)
}

func (t *TestTransport) ResetWrites() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = nil
}

// SeedDemoValues fills the bank with a plausible daytime snapshot.
func (t *TestTransport) SeedDemoValues(m *RegisterMap) {
	demo := map[string]Value{
		"working_mode":                   IntValue(5),
		"ac_input_voltage":               FloatValue(231.4),
		"ac_input_current":               FloatValue(6.2),
		"ac_input_frequency":             FloatValue(50.01),
		"ac_input_power":                 IntValue(-420),
		"battery_voltage":                FloatValue(53.2),
		"battery_current":                IntValue(12),
		"battery_power":                  IntValue(640),
		"battery_capacity":               FloatValue(64.0),
		"bat1_voltage":                   FloatValue(53.2),
		"bat1_soc":                       IntValue(64),
		"bat2_voltage":                   FloatValue(53.1),
		"bat2_soc":                       IntValue(61),
		"grid_current_l1":                FloatValue(6.2),
		"grid_current_l2":                FloatValue(4.8),
		"grid_current_l3":                FloatValue(5.1),
		"ac_output_voltage":              FloatValue(230.0),
		"ac_output_active_power":         IntValue(870),
		"pv_input_voltage":               FloatValue(380.5),
		"pv_input_power":                 IntValue(2100),
		"pv2_input_power":                IntValue(1500),
		"pv3_input_power":                IntValue(0),
		"load_consumption_energy_day":    IntValue(7450),
		"pv_generated_energy_day":        IntValue(12800),
		"time_year_month":                IntValue(24<<8 | 10),
		"time_day_hour":                  IntValue(19<<8 | 12),
		"time_minute_second":             IntValue(30<<8 | 5),
		"operating_mode":                 IntValue(0),
		"econ_rule_1_power":              IntValue(5000),
		"econ_rule_1_voltage":            FloatValue(58.0),
		"econ_rule_1_soc":                IntValue(100),
		"econ_rule_1_effective_week":     IntValue(0x7f),
		"econ_rule_1_stop_time":          IntValue(23<<8 | 59),
		"total_ac_output_active_power":   IntValue(870),
		"ac_input_current_l2":            FloatValue(4.8),
		"ac_input_current_l3":            FloatValue(5.1),
		"total_ac_output_apparent_power": IntValue(910),
	}
	// 50K maps hold the rule power in kW
	if _, ok := m.Lookup("bat1_soc"); ok {
		demo["econ_rule_1_power"] = IntValue(5)
	}
	for key, v := range demo {
		// keys missing from this model are skipped
		_ = t.SetValue(m, key, v)
	}
}
