package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	adactor "github.com/berfenger/felicity2mqtt/internal/adapter/actor"
	"github.com/berfenger/felicity2mqtt/internal/adapter/metrics"
	"github.com/berfenger/felicity2mqtt/internal/adapter/store"
	"github.com/berfenger/felicity2mqtt/internal/config"
	"github.com/berfenger/felicity2mqtt/internal/core/actor"
	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/service"
	"github.com/berfenger/felicity2mqtt/internal/server"
	"github.com/berfenger/felicity2mqtt/internal/util/actorutil"
	fm "github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"

	pactor "github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *http.Server, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// give in-flight requests 5 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	log.Println("Server exiting")

	done <- true
}

func main() {

	// load and print config
	cfg, err := initConfig()
	if err != nil {
		slog.Error("config errors", "error", err)
		os.Exit(1)
	}
	safePrintConfig(*cfg)

	// zap logger
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)

	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	coordinator, closeFn, err := createPollCoordinator(cfg, reg, logger)
	if err != nil {
		logger.Error("could not start poll coordinator", zap.Error(err))
		os.Exit(1)
	}
	defer closeFn()

	// init actor system
	as := actorutil.NewActorSystemWithZapLogger(logger)
	ctx := as.Root

	eventStream := &eventstream.EventStream{}

	collector := metrics.NewFrameCollector(coordinator.Model())
	reg.MustRegister(collector)
	metricsSub := eventStream.Subscribe(func(evt any) {
		if ev, ok := evt.(domain.FrameUpdateEvent); ok {
			collector.Update(ev.Frame)
		}
	})
	defer eventStream.Unsubscribe(metricsSub)

	// a cycle may take the Modbus timeout for every group, plus the control writes
	modbusTimeout := max(5*time.Second, 10*cfg.Inverter.Timeout())
	modbusProv := func() *adactor.ModbusActor {
		return adactor.NewModbusActor(coordinator, adactor.ModbusActorConfig{
			Connection:  cfg.Inverter.Connection,
			SlaveId:     cfg.Inverter.SlaveId,
			PollTimeout: modbusTimeout,
		}, logger)
	}

	props := pactor.PropsFromProducer(func() pactor.Actor {
		return actor.NewMasterOfPuppetsActor(*cfg, eventStream, modbusTimeout+2*time.Second,
			modbusProv, mqttActorProvider(cfg, logger), logger)
	})
	pid, err := ctx.SpawnNamed(props, domain.ACTOR_ID_MASTER)
	if err != nil {
		logger.Error("could not spawn master actor", zap.Error(err))
		return
	}

	server := server.NewServer(*cfg, ctx, pid, reg)
	done := make(chan bool, 1)

	go gracefulShutdown(server, done)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")

	ctx.Stop(pid)
	as.Shutdown()
}

// createPollCoordinator builds the register map, transport and state store for the configured
// inverter. The returned function releases the store.
func createPollCoordinator(cfg *config.Config, reg prometheus.Registerer, logger *zap.Logger) (*service.PollCoordinator, func(), error) {

	family, err := fm.FamilyForModel(cfg.Inverter.Model)
	if err != nil {
		return nil, nil, err
	}
	regs := fm.DefaultRegisterMap(family)
	if cfg.Inverter.RegisterOverrides != "" {
		regs, err = fm.ApplyRegisterOverridesFile(regs, cfg.Inverter.RegisterOverrides)
		if err != nil {
			return nil, nil, fmt.Errorf("register overrides: %w", err)
		}
	}
	set, err := fm.ParseRegisterSet(cfg.Inverter.RegisterSet)
	if err != nil {
		return nil, nil, err
	}

	transport, err := createTransport(cfg, regs, reg, logger)
	if err != nil {
		return nil, nil, err
	}

	adapter, err := fm.NewModelAdapter(family, regs, transport)
	if err != nil {
		return nil, nil, err
	}

	options, err := cfg.Control.ControlOptions()
	if err != nil {
		return nil, nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	st, err := store.OpenBoltStateStore(cfg.Store.Path, logger)
	if err != nil {
		return nil, nil, err
	}

	coordinator, err := service.NewPollCoordinator(service.PollCoordinatorConfig{
		RegisterSet: set,
		Location:    loc,
		Options:     options,
	}, adapter, transport,
		&service.DefaultPriceScheduler{Logger: logger},
		&service.DefaultSafePowerControl{Logger: logger},
		st, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return coordinator, func() {
		if err := st.Close(); err != nil {
			logger.Warn("could not close state store", zap.Error(err))
		}
	}, nil
}

func createTransport(cfg *config.Config, regs *fm.RegisterMap, reg prometheus.Registerer, logger *zap.Logger) (fm.Transport, error) {
	if cfg.Inverter.Connection == "test" {
		tr := fm.NewTestTransport()
		tr.SeedDemoValues(regs)
		logger.Warn("using simulated inverter transport")
		return tr, nil
	}

	inst, err := metrics.NewModbusInstrument(reg)
	if err != nil {
		return nil, err
	}
	return fm.CreateModbusClient(fm.ClientConfig{
		Connection: cfg.Inverter.Connection,
		Host:       cfg.Inverter.Host,
		Port:       cfg.Inverter.Port,
		Device:     cfg.Inverter.Device,
		BaudRate:   cfg.Inverter.BaudRate,
		Parity:     cfg.Inverter.Parity,
		StopBits:   cfg.Inverter.StopBits,
		ByteSize:   cfg.Inverter.ByteSize,
		SlaveId:    cfg.Inverter.SlaveId,
		Timeout:    cfg.Inverter.Timeout(),
	}, logger, inst)
}

func initConfig() (*config.Config, error) {

	// alias PORT => FELICITY_PORT
	if port := os.Getenv("PORT"); port != "" {
		os.Setenv("FELICITY_PORT", port)
	}

	setConfigDefaults()

	viper.SetEnvPrefix("felicity")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// if defined, try to load config from yaml file
	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			slog.Info("Using config", "file", cfgFile)
			viper.SetConfigFile(cfgFile)

			err = viper.ReadInConfig()
			if err != nil {
				slog.Error("Error reading config file", "error", err)
			}
		}
	}

	var cfg config.Config

	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	// parse log level
	switch viper.GetString("log_level") {
	case "trace":
		cfg.LogLevel = zap.DebugLevel
	case "debug":
		cfg.LogLevel = zap.DebugLevel
	case "info":
		cfg.LogLevel = zap.InfoLevel
	case "error":
		cfg.LogLevel = zap.ErrorLevel
	case "warn":
		cfg.LogLevel = zap.WarnLevel
	case "fatal":
		cfg.LogLevel = zap.FatalLevel
	default:
		cfg.LogLevel = zap.InfoLevel
	}

	// check and fix base topic
	baseTopic, err := config.CheckMQTTTopic(cfg.MQTT.BaseTopic)
	if err != nil {
		return nil, errors.New("invalid base topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.BaseTopic = baseTopic

	// check and fix homeassistant discovery topic
	hadBaseTopic, err := config.CheckMQTTTopic(cfg.MQTT.HADiscoveryTopic)
	if err != nil {
		return nil, errors.New("invalid homeassistant discovery topic. can only contain letters, numbers and underscores")
	}
	cfg.MQTT.HADiscoveryTopic = hadBaseTopic

	// check bounds
	switch cfg.Inverter.Connection {
	case "tcp":
		if cfg.Inverter.Host == "" {
			return nil, errors.New("config param inverter.host is required for tcp connections")
		}
	case "rtu":
		if cfg.Inverter.Device == "" {
			return nil, errors.New("config param inverter.device is required for rtu connections")
		}
	case "test":
	default:
		return nil, fmt.Errorf("config param inverter.connection should be tcp, rtu or test: %q", cfg.Inverter.Connection)
	}
	if cfg.Inverter.TimeoutMillis < 100 {
		return nil, errors.New("config param inverter.timeout_millis should be >= 100")
	}
	if cfg.Monitor.PollIntervalMillis < 1000 {
		return nil, errors.New("config param monitor.poll_interval_millis should be >= 1000")
	}
	if _, err := cfg.Control.ControlOptions(); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("config param timezone: %w", err)
	}

	return &cfg, nil
}

func mqttActorProvider(cfg *config.Config, logger *zap.Logger) actor.MQTTActorProvider {
	return func() *adactor.MQTTActor {
		return adactor.NewMQTTActor(cfg, logger)
	}
}

func setConfigDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("timezone", "")
	viper.SetDefault("port", 8080)
	viper.SetDefault("http_log", false)

	viper.SetDefault("inverter.model", "T-REX-10KLP3G01")
	viper.SetDefault("inverter.connection", "tcp")
	viper.SetDefault("inverter.host", "")
	viper.SetDefault("inverter.port", 502)
	viper.SetDefault("inverter.device", "/dev/ttyUSB0")
	viper.SetDefault("inverter.baudrate", 9600)
	viper.SetDefault("inverter.parity", "N")
	viper.SetDefault("inverter.stopbits", 1)
	viper.SetDefault("inverter.bytesize", 8)
	viper.SetDefault("inverter.slave_id", 1)
	viper.SetDefault("inverter.timeout_millis", 1000)
	viper.SetDefault("inverter.register_set", "basic")
	viper.SetDefault("inverter.register_overrides", "")

	viper.SetDefault("mqtt.host", "localhost")
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.ha_discovery_enable", false)
	viper.SetDefault("mqtt.base_topic", "felicity")
	viper.SetDefault("mqtt.ha_discovery_topic", "homeassistant")

	viper.SetDefault("price.topic", "")
	viper.SetDefault("price.forecast_topic", "")

	defaults := domain.DefaultControlOptions()
	viper.SetDefault("control.grid_mode", string(defaults.GridMode))
	viper.SetDefault("control.price_mode", string(defaults.PriceMode))
	viper.SetDefault("control.power_level", defaults.PowerLevel)
	viper.SetDefault("control.price_threshold_level", defaults.PriceThresholdLevel)
	viper.SetDefault("control.battery_charge_max_level", defaults.BatteryChargeMaxLevel)
	viper.SetDefault("control.battery_discharge_min_level", defaults.BatteryDischargeMinLevel)
	viper.SetDefault("control.voltage_level", defaults.VoltageLevel)
	viper.SetDefault("control.safe_max_current", defaults.SafeMaxCurrent)
	viper.SetDefault("control.battery_capacity_kwh", defaults.BatteryCapacityKWh)
	viper.SetDefault("control.efficiency_factor", defaults.EfficiencyFactor)
	viper.SetDefault("control.daily_consumption_estimate_kwh", defaults.DailyConsumptionEstimateKWh)

	viper.SetDefault("store.path", "felicity.db")
	viper.SetDefault("monitor.poll_interval_millis", 5000)
}

func safePrintConfig(cfg config.Config) {
	cfg.MQTT.Username = "*redacted*"
	cfg.MQTT.Password = "*redacted*"
	slog.Info("Using", "config", cfg)
}
