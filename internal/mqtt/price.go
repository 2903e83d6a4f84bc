package mqtt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
)

type pricePayload struct {
	Current  json.RawMessage   `json:"current"`
	Today    []json.RawMessage `json:"today"`
	Tomorrow []json.RawMessage `json:"tomorrow"`
	Min      json.RawMessage   `json:"min"`
	Avg      json.RawMessage   `json:"avg"`
	Max      json.RawMessage   `json:"max"`
}

type forecastPayload struct {
	RemainingKWh json.RawMessage `json:"remaining_kwh"`
}

// ParsePriceData reads a price snapshot. Missing, null and non numeric states ("unknown",
// "unavailable") mean no data; a day array with any such entry is dropped as a whole.
func ParsePriceData(payload []byte, now time.Time) (domain.PriceData, error) {
	data := domain.PriceData{Updated: now}
	trimmed := bytes.TrimSpace(payload)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		// a bare state carries the current price only
		v, err := parseOptionalFloat(trimmed)
		if err != nil {
			return data, err
		}
		data.Current = v
		return data, nil
	}

	var p pricePayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return data, fmt.Errorf("invalid price payload: %w", err)
	}

	var err error
	if data.Current, err = parseOptionalFloat(p.Current); err != nil {
		return data, fmt.Errorf("current: %w", err)
	}
	if data.Min, err = parseOptionalFloat(p.Min); err != nil {
		return data, fmt.Errorf("min: %w", err)
	}
	if data.Avg, err = parseOptionalFloat(p.Avg); err != nil {
		return data, fmt.Errorf("avg: %w", err)
	}
	if data.Max, err = parseOptionalFloat(p.Max); err != nil {
		return data, fmt.Errorf("max: %w", err)
	}
	if data.Today, err = parseDayArray(p.Today); err != nil {
		return data, fmt.Errorf("today: %w", err)
	}
	if data.Tomorrow, err = parseDayArray(p.Tomorrow); err != nil {
		return data, fmt.Errorf("tomorrow: %w", err)
	}
	return data, nil
}

// ParseForecastData accepts either {"remaining_kwh": x} or a bare numeric state.
func ParseForecastData(payload []byte, now time.Time) (domain.ForecastData, error) {
	data := domain.ForecastData{Updated: now}
	trimmed := bytes.TrimSpace(payload)
	raw := json.RawMessage(trimmed)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		var p forecastPayload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return data, fmt.Errorf("invalid forecast payload: %w", err)
		}
		raw = p.RemainingKWh
	}
	v, err := parseOptionalFloat(raw)
	if err != nil {
		return data, fmt.Errorf("remaining_kwh: %w", err)
	}
	if v != nil && *v < 0 {
		return data, fmt.Errorf("remaining_kwh is negative: %v", *v)
	}
	data.RemainingKWh = v
	return data, nil
}

func parseDayArray(raw []json.RawMessage) ([]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]float64, 0, len(raw))
	for _, r := range raw {
		v, err := parseOptionalFloat(r)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, nil
		}
		out = append(out, *v)
	}
	return out, nil
}

// parseOptionalFloat reads a JSON number, a numeric string or a bare number. Empty, null and
// non numeric states yield nil; NaN and infinities are rejected.
func parseOptionalFloat(raw []byte) (*float64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if strings.HasPrefix(s, "\"") {
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return nil, err
		}
		s = strings.TrimSpace(str)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		switch strings.ToLower(s) {
		case "", "unknown", "unavailable", "none", "null":
			return nil, nil
		}
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("not a finite number: %q", s)
	}
	return &v, nil
}
