package felicity_modbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

type ScaleKind uint8

const (
	ScaleRaw ScaleKind = iota
	ScaleDiv10
	ScaleDiv100
	ScaleSigned
	ScaleSignedDiv10
	ScaleSignedDiv100
	ScaleEnumIndex
	// sub-part of a combined value, never surfaced alone
	ScaleOpaque99
)

type Endian uint8

const (
	BigEndian Endian = iota
	LittleEndian
)

var (
	ErrInsufficientWords  = errors.New("insufficient words")
	ErrUnsupportedSize    = errors.New("unsupported register size")
	ErrUnknownRegisterKey = errors.New("unknown register key")
)

type RegisterDescriptor struct {
	Key       string
	Address   uint16
	Size      uint16
	Endian    Endian
	Scale     ScaleKind
	Precision uint8

	// presentation only
	Name        string
	Unit        string
	DeviceClass string
	StateClass  string
	Options     []string
}

// Value holds either an integer or a float register reading. Unsigned readings above the int64
// range are kept in Uint.
type Value struct {
	Int     int64
	Uint    uint64
	Float   float64
	IsFloat bool
	IsUint  bool
}

func IntValue(v int64) Value {
	return Value{Int: v}
}

func UintValue(v uint64) Value {
	if v <= math.MaxInt64 {
		return IntValue(int64(v))
	}
	return Value{Uint: v, IsUint: true}
}

func FloatValue(v float64) Value {
	return Value{Float: v, IsFloat: true}
}

func (v Value) AsFloat() float64 {
	if v.IsFloat {
		return v.Float
	}
	if v.IsUint {
		return float64(v.Uint)
	}
	return float64(v.Int)
}

func (v Value) String() string {
	if v.IsFloat {
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	}
	if v.IsUint {
		return strconv.FormatUint(v.Uint, 10)
	}
	return strconv.FormatInt(v.Int, 10)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsFloat {
		return json.Marshal(v.Float)
	}
	if v.IsUint {
		return json.Marshal(v.Uint)
	}
	return json.Marshal(v.Int)
}

func (s ScaleKind) signed() bool {
	return s == ScaleSigned || s == ScaleSignedDiv10 || s == ScaleSignedDiv100
}

func (s ScaleKind) factor() float64 {
	switch s {
	case ScaleDiv10, ScaleSignedDiv10:
		return 10
	case ScaleDiv100, ScaleSignedDiv100:
		return 100
	default:
		return 1
	}
}

func (s ScaleKind) String() string {
	switch s {
	case ScaleRaw:
		return "raw"
	case ScaleDiv10:
		return "div10"
	case ScaleDiv100:
		return "div100"
	case ScaleSigned:
		return "signed"
	case ScaleSignedDiv10:
		return "signed_div10"
	case ScaleSignedDiv100:
		return "signed_div100"
	case ScaleEnumIndex:
		return "enum"
	case ScaleOpaque99:
		return "opaque"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func ParseScaleKind(s string) (ScaleKind, error) {
	for k := ScaleRaw; k <= ScaleOpaque99; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return ScaleRaw, fmt.Errorf("unknown scale %q", s)
}

func validSize(size uint16) bool {
	return size == 1 || size == 2 || size == 4
}

// Decode converts the first d.Size words into a typed value.
func Decode(words []uint16, d RegisterDescriptor) (Value, error) {
	if !validSize(d.Size) {
		return Value{}, fmt.Errorf("%w: %s size %d", ErrUnsupportedSize, d.Key, d.Size)
	}
	if len(words) < int(d.Size) {
		return Value{}, fmt.Errorf("%w: %s needs %d, got %d", ErrInsufficientWords, d.Key, d.Size, len(words))
	}

	var raw uint64
	for i := 0; i < int(d.Size); i++ {
		w := words[i]
		if d.Endian == LittleEndian {
			w = words[int(d.Size)-1-i]
		}
		raw = raw<<16 | uint64(w)
	}

	f := d.Scale.factor()
	if !d.Scale.signed() {
		if f == 1 {
			return UintValue(raw), nil
		}
		return FloatValue(roundTo(float64(raw)/f, d.Precision)), nil
	}

	bits := uint(d.Size) * 16
	n := int64(raw)
	if bits < 64 && raw&(1<<(bits-1)) != 0 {
		n = int64(raw) - int64(1)<<bits
	}
	if f == 1 {
		return IntValue(n), nil
	}
	return FloatValue(roundTo(float64(n)/f, d.Precision)), nil
}

// Encode is the inverse of Decode.
func Encode(v Value, d RegisterDescriptor) ([]uint16, error) {
	if !validSize(d.Size) {
		return nil, fmt.Errorf("%w: %s size %d", ErrUnsupportedSize, d.Key, d.Size)
	}

	var raw uint64
	f := d.Scale.factor()
	switch {
	case v.IsUint && f == 1:
		raw = v.Uint
	case v.IsFloat || f != 1:
		raw = uint64(int64(math.Round(v.AsFloat() * f)))
	default:
		raw = uint64(v.Int)
	}

	bits := uint(d.Size) * 16
	if bits < 64 {
		raw &= (uint64(1) << bits) - 1
	}

	words := make([]uint16, d.Size)
	for i := int(d.Size) - 1; i >= 0; i-- {
		words[i] = uint16(raw & 0xffff)
		raw >>= 16
	}
	if d.Endian == LittleEndian {
		for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
			words[i], words[j] = words[j], words[i]
		}
	}
	return words, nil
}

func roundTo(value float64, precision uint8) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(value*p) / p
}
