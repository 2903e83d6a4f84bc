package felicity_modbus

import (
	"cmp"
	"fmt"
	"slices"
)

// RegisterMap is the immutable register table of one inverter model.
type RegisterMap struct {
	model string
	descs map[string]RegisterDescriptor
}

func NewRegisterMap(model string, descs ...RegisterDescriptor) (*RegisterMap, error) {
	m := &RegisterMap{
		model: model,
		descs: make(map[string]RegisterDescriptor, len(descs)),
	}
	for _, d := range descs {
		if _, ok := m.descs[d.Key]; ok {
			return nil, fmt.Errorf("duplicated register key %s in %s map", d.Key, model)
		}
		if !validSize(d.Size) {
			return nil, fmt.Errorf("%w: %s size %d", ErrUnsupportedSize, d.Key, d.Size)
		}
		m.descs[d.Key] = d
	}
	return m, nil
}

func MustRegisterMap(model string, descs ...RegisterDescriptor) *RegisterMap {
	m, err := NewRegisterMap(model, descs...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *RegisterMap) Model() string {
	return m.model
}

func (m *RegisterMap) Len() int {
	return len(m.descs)
}

func (m *RegisterMap) Lookup(key string) (RegisterDescriptor, bool) {
	d, ok := m.descs[key]
	return d, ok
}

// Descriptors returns every descriptor ordered by address.
func (m *RegisterMap) Descriptors() []RegisterDescriptor {
	out := make([]RegisterDescriptor, 0, len(m.descs))
	for _, d := range m.descs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b RegisterDescriptor) int {
		if c := cmp.Compare(a.Address, b.Address); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// Select returns the descriptors for the given keys, skipping unknown ones.
func (m *RegisterMap) Select(keys []string) []RegisterDescriptor {
	var out []RegisterDescriptor
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		if d, ok := m.descs[k]; ok {
			out = append(out, d)
		}
	}
	return out
}

// With returns a copy of the map where the given descriptors replace or extend the current ones.
func (m *RegisterMap) With(descs ...RegisterDescriptor) (*RegisterMap, error) {
	merged := make(map[string]RegisterDescriptor, len(m.descs)+len(descs))
	for k, d := range m.descs {
		merged[k] = d
	}
	for _, d := range descs {
		if !validSize(d.Size) {
			return nil, fmt.Errorf("%w: %s size %d", ErrUnsupportedSize, d.Key, d.Size)
		}
		merged[d.Key] = d
	}
	return &RegisterMap{model: m.model, descs: merged}, nil
}

// DecodeGroup decodes the words read for a group. Keys that cannot be decoded are skipped and
// reported in the returned error list; the remaining keys are still decoded.
func (m *RegisterMap) DecodeGroup(group RegisterGroup, words []uint16) (map[string]Value, []error) {
	values := make(map[string]Value, len(group.Keys))
	var errs []error
	offset := 0
	for _, key := range group.Keys {
		d, ok := m.descs[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownRegisterKey, key))
			continue
		}
		var chunk []uint16
		if offset < len(words) {
			chunk = words[offset:]
		}
		offset += int(d.Size)
		v, err := Decode(chunk, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[key] = v
	}
	return values, errs
}
