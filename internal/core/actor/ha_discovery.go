package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/config"
	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes the Home Assistant discovery documents once both the Modbus and the
// MQTT actors are up, then idles.
type HADiscoveryActor struct {
	config           *config.Config
	behavior         actor.Behavior
	stash            *actorutil.Stash
	modbusActor      *actor.PID
	mqttActor        *actor.PID
	mqttActorHealthy bool
	modbusActorAlive bool
	healthyRecv      int

	logger *zap.Logger
}

func NewHADiscoveryActor(config *config.Config, modbusActor *actor.PID, mqttActor *actor.PID, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		modbusActor: modbusActor,
		mqttActor:   mqttActor,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check Modbus and MQTT actor healthy
		state.healthyRecv = 0
		state.modbusActorAlive = false
		state.mqttActorHealthy = false
		// Modbus Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.ActorHealthRequest{}, 5*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
				Id:                 domain.ACTOR_ID_MODBUS,
			}
		})
		// MQTT Actor Request
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 5*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
				Id:                 domain.ACTOR_ID_MQTT,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.healthyRecv++
		switch msg.Id {
		case domain.ACTOR_ID_MODBUS:
			// the register layout is known even while the inverter is unreachable
			state.modbusActorAlive = !msg.HasResponseError()
		case domain.ACTOR_ID_MQTT:
			state.mqttActorHealthy = msg.Healthy
		}
		if state.healthyRecv == 2 {

			if state.modbusActorAlive && state.mqttActorHealthy {
				// Ask Modbus GetDeviceInfoRequest
				actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.GetDeviceInfoRequest{}, 2*time.Second), func(err error) any {
					return domain.GetDeviceInfoResponse{
						ActorResponseMixIn: domain.ActorResponseMixIn{
							ResponseError: err,
						},
					}
				})
				state.behavior.Become(state.WaitingInfoReceive)
				state.stash.UnstashAll(ctx)
			} else {
				panic(errors.New("MQTT Actor or Modbus Actor are not healthy"))
			}
		}
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) Done(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PublishDiscoveryResponse:
		if msg.HasResponseError() {
			state.logger.Error("hadiscovery@done publish failed", zap.Error(msg.GetResponseError()))
		}
	case domain.ActorHealthRequest:
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_HA_DISCOVERY,
			Healthy: true,
			State:   "done",
		})
	}
}

func (state *HADiscoveryActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceInfoResponse:
		if msg.HasResponseError() {
			panic(msg.GetResponseError())
		}
		state.logger.Debug("hadiscovery@info: GetDeviceInfoResponse",
			zap.String("model", msg.Model), zap.Int("registers", len(msg.Registers)))

		ctx.Request(state.mqttActor, DiscoveryRequest(state.config.MQTT.BaseTopic, msg))
		state.behavior.Become(state.Done)

	default:
		state.logger.Debug("hadiscovery@info: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// DiscoveryRequest lists every entity of the bridge and the inverter. Only the first entity of a
// device carries the full device description.
func DiscoveryRequest(baseTopic string, info domain.GetDeviceInfoResponse) domain.PublishDiscoveryRequest {
	var sensors []domain.GenericSensor

	bridgeDevice := domain.BridgeDevice(baseTopic)
	sensors = append(sensors, domain.BridgeSensors(bridgeDevice)...)

	inverterDevice := domain.InverterDevice(info.Model, info.Connection, info.SlaveId)
	inverterDevice.ViaDevice = bridgeDevice.Id
	idDevice := domain.IdDevice(inverterDevice)

	inverterSensors := append(domain.RegisterSensors(inverterDevice, info.Registers, info.Combined),
		domain.DerivedSensors(inverterDevice)...)
	for i := range inverterSensors {
		if i > 0 {
			inverterSensors[i].Device = idDevice
		}
	}
	sensors = append(sensors, inverterSensors...)

	return domain.PublishDiscoveryRequest{
		Sensors:      sensors,
		InputNumbers: domain.ControlInputNumbers(idDevice, info.Options),
		Selects:      domain.ControlSelects(idDevice),
	}
}
