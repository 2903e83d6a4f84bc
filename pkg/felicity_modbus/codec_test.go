package felicity_modbus

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(size uint16, endian Endian, scale ScaleKind, precision uint8) RegisterDescriptor {
	return RegisterDescriptor{Key: "k", Address: 100, Size: size, Endian: endian, Scale: scale, Precision: precision}
}

func TestDecodeSignExtension(t *testing.T) {
	require := require.New(t)

	v, err := Decode([]uint16{0xffff}, desc(1, BigEndian, ScaleSigned, 0))
	require.NoError(err)
	require.Equal(IntValue(-1), v)

	v, err = Decode([]uint16{0xffff}, desc(1, BigEndian, ScaleRaw, 0))
	require.NoError(err)
	require.Equal(IntValue(65535), v)

	v, err = Decode([]uint16{0xffff, 0xfffe}, desc(2, BigEndian, ScaleSigned, 0))
	require.NoError(err)
	require.Equal(IntValue(-2), v)

	v, err = Decode([]uint16{0xff85}, desc(1, BigEndian, ScaleSignedDiv10, 1))
	require.NoError(err)
	require.True(v.IsFloat)
	require.InDelta(-12.3, v.Float, 1e-9)

	v, err = Decode([]uint16{0xffff, 0xffff, 0xffff, 0xfff6}, desc(4, BigEndian, ScaleSignedDiv100, 2))
	require.NoError(err)
	require.InDelta(-0.1, v.Float, 1e-9)
}

func TestDecodeWordOrder(t *testing.T) {
	require := require.New(t)

	v, err := Decode([]uint16{0x0001, 0x0000}, desc(2, BigEndian, ScaleRaw, 0))
	require.NoError(err)
	require.EqualValues(65536, v.Int)

	v, err = Decode([]uint16{0x0001, 0x0000}, desc(2, LittleEndian, ScaleRaw, 0))
	require.NoError(err)
	require.EqualValues(1, v.Int)

	// 32-bit energy total, two big endian words
	v, err = Decode([]uint16{0x0001, 0x86a0}, desc(2, BigEndian, ScaleRaw, 0))
	require.NoError(err)
	require.EqualValues(100000, v.Int)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]uint16{1}, desc(2, BigEndian, ScaleRaw, 0))
	assert.ErrorIs(t, err, ErrInsufficientWords)

	_, err = Decode([]uint16{1, 2, 3}, desc(3, BigEndian, ScaleRaw, 0))
	assert.ErrorIs(t, err, ErrUnsupportedSize)

	_, err = Encode(IntValue(1), desc(3, BigEndian, ScaleRaw, 0))
	assert.ErrorIs(t, err, ErrUnsupportedSize)
}

func TestEncodeTwosComplement(t *testing.T) {
	require := require.New(t)

	w, err := Encode(IntValue(-1), desc(1, BigEndian, ScaleSigned, 0))
	require.NoError(err)
	require.Equal([]uint16{0xffff}, w)

	w, err = Encode(FloatValue(-12.3), desc(2, BigEndian, ScaleSignedDiv10, 1))
	require.NoError(err)
	require.Equal([]uint16{0xffff, 0xff85}, w)

	w, err = Encode(IntValue(100000), desc(2, LittleEndian, ScaleRaw, 0))
	require.NoError(err)
	require.Equal([]uint16{0x86a0, 0x0001}, w)
}

func TestRoundTrip(t *testing.T) {
	type sample struct {
		scale     ScaleKind
		precision uint8
		values    []float64
	}
	samples := []sample{
		{ScaleRaw, 0, []float64{0, 1, 4711, 32767}},
		{ScaleDiv10, 1, []float64{0, 23.4, 58, 3276.7}},
		{ScaleDiv100, 2, []float64{0, 50.01, 0.07, 327.67}},
		{ScaleSigned, 0, []float64{-32768, -1, 0, 1, 32767}},
		{ScaleSignedDiv10, 1, []float64{-3276.8, -12.3, 0, 12.3}},
		{ScaleSignedDiv100, 2, []float64{-327.68, -0.01, 0, 0.01, 327.67}},
	}

	for _, size := range []uint16{1, 2, 4} {
		for _, endian := range []Endian{BigEndian, LittleEndian} {
			for _, s := range samples {
				d := desc(size, endian, s.scale, s.precision)
				for _, f := range s.values {
					t.Run(fmt.Sprintf("size%d_endian%d_%s_%v", size, endian, s.scale, f), func(t *testing.T) {
						var in Value
						if s.scale.factor() == 1 {
							in = IntValue(int64(f))
						} else {
							in = FloatValue(f)
						}
						words, err := Encode(in, d)
						require.NoError(t, err)
						require.Len(t, words, int(size))
						out, err := Decode(words, d)
						require.NoError(t, err)
						assert.InDelta(t, in.AsFloat(), out.AsFloat(), 1e-9)
						assert.Equal(t, in.IsFloat, out.IsFloat)
					})
				}
			}
		}
	}
}

func TestRoundTripWideValues(t *testing.T) {
	require := require.New(t)

	d := desc(2, BigEndian, ScaleSigned, 0)
	for _, n := range []int64{-2147483648, -70000, 70000, 2147483647} {
		words, err := Encode(IntValue(n), d)
		require.NoError(err)
		v, err := Decode(words, d)
		require.NoError(err)
		require.Equal(n, v.Int)
	}

	d = desc(4, LittleEndian, ScaleSigned, 0)
	for _, n := range []int64{-9223372036854775808, -5, 1 << 40, 9223372036854775807} {
		words, err := Encode(IntValue(n), d)
		require.NoError(err)
		v, err := Decode(words, d)
		require.NoError(err)
		require.Equal(n, v.Int)
	}
}

func TestDecodeUnsigned64(t *testing.T) {
	require := require.New(t)

	d := desc(4, BigEndian, ScaleRaw, 0)
	v, err := Decode([]uint16{0x8000, 0, 0, 1}, d)
	require.NoError(err)
	require.True(v.IsUint)
	require.Equal(uint64(0x8000000000000001), v.Uint)
	require.Equal("9223372036854775809", v.String())
	require.InDelta(9.223372036854775809e18, v.AsFloat(), 1e4)

	b, err := v.MarshalJSON()
	require.NoError(err)
	require.Equal("9223372036854775809", string(b))

	words, err := Encode(v, d)
	require.NoError(err)
	require.Equal([]uint16{0x8000, 0, 0, 1}, words)

	v, err = Decode([]uint16{0xffff, 0xffff, 0xffff, 0xffff}, desc(4, LittleEndian, ScaleRaw, 0))
	require.NoError(err)
	require.Equal(UintValue(math.MaxUint64), v)

	// small unsigned readings stay plain integers
	v, err = Decode([]uint16{0, 0, 0, 7}, d)
	require.NoError(err)
	require.Equal(IntValue(7), v)

	v, err = Decode([]uint16{0x8000, 0, 0, 0}, desc(4, BigEndian, ScaleDiv10, 1))
	require.NoError(err)
	require.Greater(v.Float, 0.0)
}

func TestScaleKindNames(t *testing.T) {
	for k := ScaleRaw; k <= ScaleOpaque99; k++ {
		p, err := ParseScaleKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, p)
	}
	_, err := ParseScaleKind("div1000")
	assert.Error(t, err)
}
