package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/core/service"
	"github.com/berfenger/felicity2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

const (
	MODBUS_ACTOR_ID = domain.ACTOR_ID_MODBUS
)

type ModbusActorConfig struct {
	Connection  string
	SlaveId     uint8
	PollTimeout time.Duration
}

// ModbusActor owns the poll coordinator. Poll cycles run off the actor goroutine; input updates
// received meanwhile are stashed so they apply between cycles.
type ModbusActor struct {
	behavior    actor.Behavior
	stash       *actorutil.Stash
	coordinator *service.PollCoordinator
	cfg         ModbusActorConfig
	lastPollErr error
	logger      *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewModbusActor(coordinator *service.PollCoordinator, cfg ModbusActorConfig, logger *zap.Logger) *ModbusActor {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}
	act := &ModbusActor{
		coordinator: coordinator,
		cfg:         cfg,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger("modbus", logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ModbusActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ModbusActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("modbus@starting started",
			zap.String("model", state.coordinator.Model()),
			zap.String("connection", state.cfg.Connection))
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		state.close()
	default:
		state.logger.Debug("modbus@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModbusActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("modbus@default: ActorHealthRequest")
		ctx.Respond(state.health(string(state.coordinator.ConnectionState())))
	case domain.PollRequest:
		state.logger.Debug("modbus@default: PollRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		now := msg.Now
		if now.IsZero() {
			now = time.Now()
		}

		task := actorutil.NewBackgroundTaskWithContext(ctx, state.cfg.PollTimeout, func(c context.Context) (*domain.PollResponse, error) {
			frame, err := state.coordinator.Poll(c, now)
			if err != nil {
				return nil, err
			}
			return &domain.PollResponse{Frame: frame}, nil
		})
		actorutil.MapBackgroundTask(task, mapTaskResult[domain.PollResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.PollResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingModbus)
	case domain.SetControlOptionRequest:
		state.logger.Debug("modbus@default: SetControlOptionRequest", zap.String("option", msg.OptionId))
		opts, changed, err := state.coordinator.SetOption(msg.OptionId, msg.Payload)
		if err != nil {
			state.logger.Warn("option update rejected", zap.String("option", msg.OptionId),
				zap.String("payload", msg.Payload), zap.Error(err))
		}
		actorutil.ForRequest(msg).Respond(ctx, domain.SetControlOptionResponse{
			ControlResponseMixIn: domain.ControlResponseMixIn{
				ActorResponseMixIn: domain.ActorResponseMixIn{ResponseError: err},
			},
			Options: opts,
			Changed: changed,
		})
	case domain.SetPriceDataRequest:
		state.logger.Debug("modbus@default: SetPriceDataRequest", zap.Int("today", len(msg.Prices.Today)))
		state.coordinator.SetPrices(msg.Prices)
	case domain.SetForecastRequest:
		state.logger.Debug("modbus@default: SetForecastRequest")
		state.coordinator.SetForecast(msg.Forecast)
	case domain.GetControlOptionsRequest:
		actorutil.ForRequest(msg).Respond(ctx, domain.GetControlOptionsResponse{
			Options: state.coordinator.Options(),
		})
	case domain.GetFrameRequest:
		actorutil.ForRequest(msg).Respond(ctx, domain.GetFrameResponse{
			Frame: state.coordinator.LastFrame(),
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("modbus@default: GetDeviceInfoRequest")
		actorutil.ForRequest(msg).Respond(ctx, state.deviceInfo())
	case *actor.Stopping:
		state.close()
	default:
		state.logger.Debug("modbus@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ModbusActor) WaitingModbus(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("modbus@WaitingModbus backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		if resp, ok := msg.message.(domain.PollResponse); ok {
			state.lastPollErr = resp.ResponseError
		}
		if msg.replyTo != nil {
			ctx.Send(msg.replyTo, msg.message)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		// the coordinator is locked by the running cycle
		ctx.Respond(state.health(string(service.Polling)))
	case *actor.Stopping:
		state.close()
	default:
		state.logger.Debug("modbus@WaitingModbus stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ModbusActor) health(connection string) domain.ActorHealthResponse {
	return domain.ActorHealthResponse{
		Id:      MODBUS_ACTOR_ID,
		Healthy: state.lastPollErr == nil,
		State:   connection,
	}
}

func (state *ModbusActor) deviceInfo() domain.GetDeviceInfoResponse {
	regs, combined := state.coordinator.Published()
	return domain.GetDeviceInfoResponse{
		Model:      state.coordinator.Model(),
		Family:     state.coordinator.Family(),
		Registers:  regs,
		Combined:   combined,
		SlaveId:    state.cfg.SlaveId,
		Connection: state.cfg.Connection,
		Options:    state.coordinator.Options(),
	}
}

func (state *ModbusActor) close() {
	if err := state.coordinator.Close(); err != nil {
		state.logger.Debug("close failed", zap.Error(err))
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
