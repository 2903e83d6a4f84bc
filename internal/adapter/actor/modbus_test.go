package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/service"
	"github.com/berfenger/felicity2mqtt/internal/util/actorutil"
	fm "github.com/berfenger/felicity2mqtt/pkg/felicity_modbus"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCoordinator(t *testing.T) (*service.PollCoordinator, *fm.TestTransport) {
	regs := fm.DefaultRegisterMap(fm.FamilyTrex10K)
	tr := fm.NewTestTransport()
	tr.SeedDemoValues(regs)
	adapter, err := fm.NewModelAdapter(fm.FamilyTrex10K, regs, tr)
	require.NoError(t, err)

	logger := zap.Must(zap.NewDevelopment())
	c, err := service.NewPollCoordinator(service.PollCoordinatorConfig{
		RegisterSet: fm.RegisterSetBasic,
		Location:    time.UTC,
		Options:     domain.DefaultControlOptions(),
	}, adapter, tr, &service.DefaultPriceScheduler{Logger: logger}, &service.DefaultSafePowerControl{Logger: logger}, nil, logger)
	require.NoError(t, err)
	return c, tr
}

func spawnModbusActor(t *testing.T) (*actor.ActorSystem, *actor.PID, *fm.TestTransport) {
	coordinator, tr := newTestCoordinator(t)
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewModbusActor(coordinator, ModbusActorConfig{Connection: "test", SlaveId: 1, PollTimeout: 5 * time.Second}, logger)
	})
	pid := as.Root.Spawn(props)
	t.Cleanup(func() {
		as.Root.Stop(pid)
		as.Shutdown()
	})
	return as, pid, tr
}

func TestPollModbusActor(t *testing.T) {

	require := require.New(t)

	as, pid, _ := spawnModbusActor(t)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	result, err := as.Root.RequestFuture(pid, domain.PollRequest{Now: now}, 10*time.Second).Result()
	require.NoError(err)
	resp, ok := result.(domain.PollResponse)
	require.True(ok)
	require.False(resp.HasResponseError())
	require.Equal(now, resp.Frame.Time)
	require.True(resp.Frame.Derived.Connected)
	require.Contains(resp.Frame.Values, "battery_voltage")

	result, err = as.Root.RequestFuture(pid, domain.GetFrameRequest{}, 5*time.Second).Result()
	require.NoError(err)
	frame := result.(domain.GetFrameResponse).Frame
	require.NotNil(frame)
	require.Equal(now, frame.Time)

	result, err = as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
	require.NoError(err)
	health := result.(domain.ActorHealthResponse)
	require.True(health.Healthy)
	require.Equal(string(service.Connected), health.State)
}

func TestPollFailureModbusActor(t *testing.T) {

	require := require.New(t)

	as, pid, tr := spawnModbusActor(t)
	tr.OpenErr = errors.New("no route to host")

	result, err := as.Root.RequestFuture(pid, domain.PollRequest{}, 10*time.Second).Result()
	require.NoError(err)
	resp := result.(domain.PollResponse)
	require.True(resp.HasResponseError())
	require.ErrorIs(resp.ResponseError, fm.ErrTransport)

	result, err = as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 5*time.Second).Result()
	require.NoError(err)
	health := result.(domain.ActorHealthResponse)
	require.False(health.Healthy)
	require.Equal(string(service.Disconnected), health.State)
}

func TestSetControlOptionModbusActor(t *testing.T) {

	assert := assert.New(t)

	as, pid, _ := spawnModbusActor(t)

	result, err := as.Root.RequestFuture(pid, domain.SetControlOptionRequest{
		OptionId: domain.NUMBER_ID_POWER_LEVEL,
		Payload:  "7.5",
	}, 5*time.Second).Result()
	assert.NoError(err)
	resp := result.(domain.SetControlOptionResponse)
	assert.False(resp.HasResponseError())
	assert.True(resp.Changed)
	assert.EqualValues(7.5, resp.Options.PowerLevel)

	// same value again is not a change
	result, _ = as.Root.RequestFuture(pid, domain.SetControlOptionRequest{
		OptionId: domain.NUMBER_ID_POWER_LEVEL,
		Payload:  "7.5",
	}, 5*time.Second).Result()
	assert.False(result.(domain.SetControlOptionResponse).Changed)

	result, _ = as.Root.RequestFuture(pid, domain.SetControlOptionRequest{
		OptionId: domain.SELECT_ID_GRID_MODE,
		Payload:  "backwards",
	}, 5*time.Second).Result()
	resp = result.(domain.SetControlOptionResponse)
	assert.True(resp.HasResponseError())
	assert.Equal(domain.GridModeOff, resp.Options.GridMode)

	result, _ = as.Root.RequestFuture(pid, domain.GetControlOptionsRequest{}, 5*time.Second).Result()
	assert.EqualValues(7.5, result.(domain.GetControlOptionsResponse).Options.PowerLevel)
}

func TestDeviceInfoModbusActor(t *testing.T) {

	assert := assert.New(t)

	as, pid, _ := spawnModbusActor(t)

	result, err := as.Root.RequestFuture(pid, domain.GetDeviceInfoRequest{}, 5*time.Second).Result()
	assert.NoError(err)
	info := result.(domain.GetDeviceInfoResponse)
	assert.Equal(fm.ModelTrex10KLP3G01, info.Model)
	assert.Equal(fm.FamilyTrex10K, info.Family)
	assert.Equal("test", info.Connection)
	assert.EqualValues(1, info.SlaveId)
	assert.NotEmpty(info.Registers)
	assert.NotEmpty(info.Combined)
}
