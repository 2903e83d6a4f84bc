package felicity_modbus

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type registerOverrideFile struct {
	Registers []registerOverride `yaml:"registers"`
}

type registerOverride struct {
	Key         string   `yaml:"key"`
	Address     *uint16  `yaml:"address"`
	Size        *uint16  `yaml:"size"`
	Endian      *string  `yaml:"endian"`
	Scale       *string  `yaml:"scale"`
	Precision   *uint8   `yaml:"precision"`
	Name        *string  `yaml:"name"`
	Unit        *string  `yaml:"unit"`
	DeviceClass *string  `yaml:"device_class"`
	StateClass  *string  `yaml:"state_class"`
	Options     []string `yaml:"options"`
}

// ApplyRegisterOverrides reads a YAML register list and merges it into m. Fields left out of an entry
// keep the value of the existing descriptor; new keys need at least an address.
func ApplyRegisterOverrides(m *RegisterMap, r io.Reader) (*RegisterMap, error) {
	var file registerOverrideFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding register overrides: %w", err)
	}

	descs := make([]RegisterDescriptor, 0, len(file.Registers))
	for _, o := range file.Registers {
		if o.Key == "" {
			return nil, fmt.Errorf("register override without key")
		}
		d, ok := m.Lookup(o.Key)
		if !ok {
			if o.Address == nil {
				return nil, fmt.Errorf("register override %s: new register needs an address", o.Key)
			}
			d = reg(o.Key, o.Key, *o.Address, ScaleRaw, 0)
		}
		if err := o.apply(&d); err != nil {
			return nil, fmt.Errorf("register override %s: %w", o.Key, err)
		}
		descs = append(descs, d)
	}
	return m.With(descs...)
}

func ApplyRegisterOverridesFile(m *RegisterMap, path string) (*RegisterMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ApplyRegisterOverrides(m, f)
}

func (o registerOverride) apply(d *RegisterDescriptor) error {
	if o.Address != nil {
		d.Address = *o.Address
	}
	if o.Size != nil {
		d.Size = *o.Size
	}
	if o.Endian != nil {
		switch *o.Endian {
		case "big":
			d.Endian = BigEndian
		case "little":
			d.Endian = LittleEndian
		default:
			return fmt.Errorf("unknown endian %q", *o.Endian)
		}
	}
	if o.Scale != nil {
		s, err := ParseScaleKind(*o.Scale)
		if err != nil {
			return err
		}
		d.Scale = s
	}
	if o.Precision != nil {
		d.Precision = *o.Precision
	}
	if o.Name != nil {
		d.Name = *o.Name
	}
	if o.Unit != nil {
		d.Unit = *o.Unit
	}
	if o.DeviceClass != nil {
		d.DeviceClass = *o.DeviceClass
	}
	if o.StateClass != nil {
		d.StateClass = *o.StateClass
	}
	if o.Options != nil {
		d.Options = o.Options
	}
	return nil
}
