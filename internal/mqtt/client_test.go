package mqtt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputNumberCommandParse(t *testing.T) {

	assert := assert.New(t)

	baseTopic := "loremTopic"
	topic := "loremTopic/number/power_level/set"
	r := numberSetExtractor(baseTopic)
	matches := r.FindAllStringSubmatch(topic, 1)

	assert.Equal("power_level", matches[0][1], "number_id extract")
}

func TestInputNumberCommandParseFail(t *testing.T) {

	assert := assert.New(t)

	r := numberSetExtractor("loremTopic")

	assert.Empty(r.FindAllStringSubmatch("loremTopic/number/power_level/state", 1), "state topic")
	assert.Empty(r.FindAllStringSubmatch("other/loremTopic/number/power_level/set", 1), "anchored")
}

func TestSelectCommandParse(t *testing.T) {

	assert := assert.New(t)

	cmd, err := parseCommand(numberSetExtractor("felicity"), selectSetExtractor("felicity"),
		"felicity/select/grid_mode/set", "from_grid")
	assert.NoError(err)
	assert.Equal(COMMAND_SELECT, cmd.Command)
	assert.Equal("grid_mode", cmd.DeviceId)
	assert.Equal("from_grid", cmd.Payload)

	cmd, err = parseCommand(numberSetExtractor("felicity"), selectSetExtractor("felicity"),
		"felicity/number/voltage_level/set", "57.5")
	assert.NoError(err)
	assert.Equal(COMMAND_NUMBER, cmd.Command)
	assert.Equal("voltage_level", cmd.DeviceId)

	_, err = parseCommand(numberSetExtractor("felicity"), selectSetExtractor("felicity"),
		"felicity/switch/grid_mode/command", "on")
	assert.True(errors.Is(err, ErrInvalidCommand))
}

func TestParsePriceData(t *testing.T) {

	require := require.New(t)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	payload := `{"current": 0.12, "today": [0.1, "0.2", 0.3, 0.4], "tomorrow": null,
		"min": 0.1, "avg": "unknown", "max": 0.4}`

	p, err := ParsePriceData([]byte(payload), now)
	require.NoError(err)
	require.Equal(now, p.Updated)
	require.InDelta(0.12, *p.Current, 1e-9)
	require.Equal([]float64{0.1, 0.2, 0.3, 0.4}, p.Today)
	require.Nil(p.Tomorrow)
	require.InDelta(0.1, *p.Min, 1e-9)
	require.Nil(p.Avg)
	require.InDelta(0.4, *p.Max, 1e-9)
}

func TestParsePriceDataUnknown(t *testing.T) {

	require := require.New(t)

	now := time.Now()

	// a bare unknown state
	p, err := ParsePriceData([]byte("unknown"), now)
	require.NoError(err)
	require.Nil(p.Current)
	require.False(p.HasToday())

	// an unknown entry drops the whole day
	p, err = ParsePriceData([]byte(`{"today": [0.1, null, 0.3]}`), now)
	require.NoError(err)
	require.False(p.HasToday())
	require.Nil(p.Current)

	_, err = ParsePriceData([]byte(`{"current": "cheap"}`), now)
	require.Error(err)

	_, err = ParsePriceData([]byte(`{"today": `), now)
	require.Error(err)
}

func TestParsePriceDataNonFinite(t *testing.T) {

	require := require.New(t)

	now := time.Now()

	for _, payload := range []string{
		"NaN",
		"+Inf",
		`{"current": "nan"}`,
		`{"current": "-Infinity"}`,
		`{"min": "inf"}`,
		`{"avg": "NaN"}`,
		`{"max": "+Inf"}`,
		`{"today": [0.1, "NaN", 0.3]}`,
		`{"tomorrow": ["-inf", 0.2]}`,
	} {
		_, err := ParsePriceData([]byte(payload), now)
		require.Error(err, payload)
	}

	p, err := ParsePriceData([]byte(`{"current": "0.12", "today": [0.1, 0.2]}`), now)
	require.NoError(err)
	require.InDelta(0.12, *p.Current, 1e-9)
	require.Len(p.Today, 2)
}

func TestParseForecastData(t *testing.T) {

	require := require.New(t)

	now := time.Now()

	f, err := ParseForecastData([]byte(`{"remaining_kwh": 4.2}`), now)
	require.NoError(err)
	require.InDelta(4.2, *f.RemainingKWh, 1e-9)

	f, err = ParseForecastData([]byte("3.5"), now)
	require.NoError(err)
	require.InDelta(3.5, *f.RemainingKWh, 1e-9)

	f, err = ParseForecastData([]byte("unavailable"), now)
	require.NoError(err)
	require.Nil(f.RemainingKWh)

	_, err = ParseForecastData([]byte(`{"remaining_kwh": -1}`), now)
	require.Error(err)

	_, err = ParseForecastData([]byte("NaN"), now)
	require.Error(err)
	_, err = ParseForecastData([]byte(`{"remaining_kwh": "Inf"}`), now)
	require.Error(err)
}
