package actor

import (
	"testing"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/util"
	"github.com/berfenger/felicity2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// probeActor spawns the actor under test as its child and forwards whatever the child sends up.
type probeActor struct {
	props *actor.Props
	child *actor.PID
	out   chan any
}

type getChild struct{}

func (p *probeActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.child = ctx.Spawn(p.props)
	case getChild:
		ctx.Respond(p.child)
	case *actor.Stopping, *actor.Stopped, *actor.Restarting:
	default:
		p.out <- msg
	}
}

func spawnProbedMQTTActor(t *testing.T) (*actor.ActorSystem, *actor.PID, chan any) {
	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())
	as := actorutil.NewActorSystemWithZapLogger(logger)

	out := make(chan any, 16)
	probe := as.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return &probeActor{
			props: actor.PropsFromProducer(func() actor.Actor { return NewTestMQTTActor(&cfg, logger) }),
			out:   out,
		}
	}))
	res, err := as.Root.RequestFuture(probe, getChild{}, 2*time.Second).Result()
	require.NoError(t, err)
	t.Cleanup(func() {
		as.Root.Stop(probe)
		as.Shutdown()
	})
	return as, res.(*actor.PID), out
}

func receive(t *testing.T, out chan any) any {
	select {
	case m := <-out:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no message routed to parent")
		return nil
	}
}

func TestMQTTActorHealth(t *testing.T) {

	as, pid, _ := spawnProbedMQTTActor(t)

	result, err := as.Root.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	require.NoError(t, err)
	resp, ok := result.(domain.ActorHealthResponse)
	assert.True(t, ok)
	assert.True(t, resp.Healthy)
}

func TestMQTTActorRoutesInputs(t *testing.T) {

	require := require.New(t)

	as, pid, out := spawnProbedMQTTActor(t)

	as.Root.Send(pid, inputMessage{topic: "felicity/select/grid_mode/set", payload: []byte("from_grid")})
	cmd, ok := receive(t, out).(ParsedCommand)
	require.True(ok)
	require.Equal("grid_mode", cmd.Command.DeviceId)
	require.Equal("from_grid", cmd.Command.Payload)

	as.Root.Send(pid, inputMessage{topic: "energy/spot_price", payload: []byte(`{"current": 0.11, "today": [0.1, 0.2]}`)})
	prices, ok := receive(t, out).(domain.SetPriceDataRequest)
	require.True(ok)
	require.Equal([]float64{0.1, 0.2}, prices.Prices.Today)

	as.Root.Send(pid, inputMessage{topic: "energy/pv_forecast", payload: []byte(`{"remaining_kwh": 2.5}`)})
	forecast, ok := receive(t, out).(domain.SetForecastRequest)
	require.True(ok)
	require.InDelta(2.5, *forecast.Forecast.RemainingKWh, 1e-9)

	// malformed payloads are dropped
	as.Root.Send(pid, inputMessage{topic: "energy/spot_price", payload: []byte(`{"current": "cheap"}`)})
	as.Root.Send(pid, inputMessage{topic: "felicity/number/power_level/state", payload: []byte("5")})
	select {
	case m := <-out:
		t.Fatalf("unexpected message %T", m)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestMQTTActorPublishesState(t *testing.T) {

	require := require.New(t)

	as, pid, _ := spawnProbedMQTTActor(t)

	as.Root.Send(pid, domain.PublishSensorUpdateRequest{Event: domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: "battery_voltage"},
		Value:                  53.24,
		Decimals:               1,
	}})
	as.Root.Send(pid, domain.PublishSensorUpdateRequest{Event: domain.SelectSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: domain.SELECT_ID_GRID_MODE},
		Value:                  "to_grid",
	}})
	as.Root.Send(pid, domain.PublishSensorUpdateRequest{Event: domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: domain.SENSOR_ID_CONNECTED},
		Value:                  true,
	}})

	result, err := as.Root.RequestFuture(pid, GetPublishedRequest{}, 2*time.Second).Result()
	require.NoError(err)
	topics := result.(GetPublishedResponse).Topics
	require.Equal("53.2", topics["felicity/sensor/battery_voltage/state"])
	require.Equal("to_grid", topics["felicity/select/grid_mode/state"])
	require.Equal("on", topics["felicity/binary_sensor/inverter_connected/state"])
}

func TestMQTTActorPublishesDiscovery(t *testing.T) {

	require := require.New(t)

	as, pid, _ := spawnProbedMQTTActor(t)

	dev := domain.InverterDevice("T-REX-10KLP3G01", "test", 1)
	result, err := as.Root.RequestFuture(pid, domain.PublishDiscoveryRequest{
		Sensors:      domain.DerivedSensors(dev),
		InputNumbers: domain.ControlInputNumbers(dev, domain.DefaultControlOptions()),
		Selects:      domain.ControlSelects(dev),
	}, 2*time.Second).Result()
	require.NoError(err)
	require.False(result.(domain.PublishDiscoveryResponse).HasResponseError())

	result, err = as.Root.RequestFuture(pid, GetPublishedRequest{}, 2*time.Second).Result()
	require.NoError(err)
	topics := result.(GetPublishedResponse).Topics
	require.Contains(topics, "homeassistant/select/"+dev.Id+"/grid_mode/config")
	require.Contains(topics, "homeassistant/number/"+dev.Id+"/power_level/config")
	require.Contains(topics["homeassistant/select/"+dev.Id+"/price_mode/config"], `"options":["manual","auto"]`)
}
