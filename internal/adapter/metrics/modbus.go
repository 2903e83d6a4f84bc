package metrics

import (
	"time"

	fm "github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"

	"github.com/prometheus/client_golang/prometheus"
)

// NewModbusInstrument registers a request duration histogram and returns the hook that feeds it.
func NewModbusInstrument(reg prometheus.Registerer) (*fm.ModbusInstrument, error) {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "felicity_modbus_request_duration_seconds",
		Help:    "Duration of Modbus requests to the inverter",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"fn"})
	if err := reg.Register(duration); err != nil {
		return nil, err
	}
	return &fm.ModbusInstrument{
		RecordTime: func(fnName string, d time.Duration) {
			duration.WithLabelValues(fnName).Observe(d.Seconds())
		},
	}, nil
}
