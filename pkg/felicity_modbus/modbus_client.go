package felicity_modbus

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/simonvetter/modbus"
	"go.uber.org/zap"
)

var (
	ErrTransport = errors.New("transport error")
	ErrGroupRead = errors.New("group read error")
	ErrWrite     = errors.New("write error")
)

// Transport is one physical link to the inverter. Only one request may be outstanding at a time.
type Transport interface {
	Open() error
	Close() error
	ReadHoldingRegisters(address uint16, count uint16) ([]uint16, error)
	WriteRegisters(address uint16, words []uint16) error
}

type ModbusInstrument struct {
	RecordTime func(fnName string, readTime time.Duration)
}

type ClientConfig struct {
	Connection string // tcp | rtu
	Host       string
	Port       uint
	Device     string
	BaudRate   uint
	Parity     string // N | E | O
	StopBits   uint
	ByteSize   uint
	SlaveId    uint8
	Timeout    time.Duration
}

type ModbusClient struct {
	client     *modbus.ModbusClient
	instrument []ModbusInstrument
}

var _ Transport = (*ModbusClient)(nil)

func (c *ModbusClient) Open() error {
	if err := c.client.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

func (c *ModbusClient) Close() error {
	return c.client.Close()
}

func (c *ModbusClient) ReadHoldingRegisters(address uint16, count uint16) ([]uint16, error) {
	defer RecordTimer("ReadRegisters", c.instrument)()
	words, err := c.client.ReadRegisters(address, count, modbus.HOLDING_REGISTER)
	if err != nil {
		return nil, classify(err)
	}
	return words, nil
}

func (c *ModbusClient) WriteRegisters(address uint16, words []uint16) error {
	defer RecordTimer("WriteRegisters", c.instrument)()
	if err := c.client.WriteRegisters(address, words); err != nil {
		return classify(err)
	}
	return nil
}

// classify separates device exceptions, which only affect one request, from link failures.
func classify(err error) error {
	switch {
	case errors.Is(err, modbus.ErrIllegalFunction),
		errors.Is(err, modbus.ErrIllegalDataAddress),
		errors.Is(err, modbus.ErrIllegalDataValue),
		errors.Is(err, modbus.ErrServerDeviceFailure),
		errors.Is(err, modbus.ErrServerDeviceBusy):
		return fmt.Errorf("%w: %w", ErrGroupRead, err)
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}

func RecordTimer(name string, instrument []ModbusInstrument) func() {
	if instrument == nil {
		return func() {}
	}

	start := time.Now()
	return func() {
		duration := time.Since(start)
		for i := range instrument {
			instrument[i].RecordTime(name, duration)
		}
	}
}

func traceLoggerInstrumentation(logger *zap.Logger) *ModbusInstrument {
	return &ModbusInstrument{
		RecordTime: func(fnName string, readTime time.Duration) {
			logger.Debug("modbus call", zap.String("fn", fnName), zap.Int64("millis", readTime.Milliseconds()))
		},
	}
}

func clientURL(cfg ClientConfig) (string, error) {
	switch strings.ToLower(cfg.Connection) {
	case "tcp", "":
		return fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port), nil
	case "rtu", "serial":
		return fmt.Sprintf("rtu://%s", cfg.Device), nil
	}
	return "", fmt.Errorf("unsupported connection type %q", cfg.Connection)
}

func parity(p string) (uint, error) {
	switch strings.ToUpper(p) {
	case "N", "":
		return modbus.PARITY_NONE, nil
	case "E":
		return modbus.PARITY_EVEN, nil
	case "O":
		return modbus.PARITY_ODD, nil
	}
	return 0, fmt.Errorf("unsupported parity %q", p)
}

func CreateModbusClient(cfg ClientConfig, logger *zap.Logger, instrumentation *ModbusInstrument) (*ModbusClient, error) {
	url, err := clientURL(cfg)
	if err != nil {
		return nil, err
	}
	par, err := parity(cfg.Parity)
	if err != nil {
		return nil, err
	}
	client, err := modbus.NewClient(&modbus.ClientConfiguration{
		URL:      url,
		Speed:    cfg.BaudRate,
		DataBits: cfg.ByteSize,
		Parity:   par,
		StopBits: cfg.StopBits,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	// instrumentation
	var inst []ModbusInstrument
	logInst := traceLoggerInstrumentation(logger.With(zap.String("target", url), zap.Uint8("slave", cfg.SlaveId)))
	if logInst != nil {
		inst = append(inst, *logInst)
	}
	if instrumentation != nil {
		inst = append(inst, *instrumentation)
	}

	// set slave address
	if cfg.SlaveId > 0 {
		err = client.SetUnitId(cfg.SlaveId)
		if err != nil {
			return nil, err
		}
	}

	return &ModbusClient{
		client:     client,
		instrument: inst,
	}, nil
}
