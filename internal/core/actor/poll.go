package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	. "github.com/berfenger/felicity2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// midnight, second precision cron
const rolloverCron = "0 0 0 * * ?"

// PollActor drives the poll cycle. The next tick is armed only once the current cycle answered or
// timed out, so cycles never overlap.
type PollActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	modbusActor *actor.PID
	eventStream *eventstream.EventStream
	interval    time.Duration
	timeout     time.Duration
	rollover    *quartz.CronTrigger
	cancelTick  scheduler.CancelFunc
	precision   map[string]uint8
	lastFrame   *domain.Frame
	lastErr     error

	logger *zap.Logger
}

type pollTick struct {
}

type rolloverTick struct {
}

func NewPollActor(interval time.Duration, timeout time.Duration, location *time.Location, modbusActor *actor.PID,
	eventStream *eventstream.EventStream, logger *zap.Logger) *PollActor {
	act := &PollActor{
		modbusActor: modbusActor,
		eventStream: eventStream,
		interval:    interval,
		timeout:     timeout,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		precision:   make(map[string]uint8),
		logger:      ActorLogger(domain.ACTOR_ID_POLL, logger),
	}
	if location != nil {
		trigger, err := quartz.NewCronTriggerWithLoc(rolloverCron, location)
		if err != nil {
			act.logger.Warn("rollover trigger disabled", zap.Error(err))
		} else {
			act.rollover = trigger
		}
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PollActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poll@starting started")
		state.scheduler = scheduler.NewTimerScheduler(ctx)

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.GetDeviceInfoRequest{}, 2*time.Second), func(err error) any {
			return domain.GetDeviceInfoResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingInfoReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("poll@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceInfoResponse:
		if msg.HasResponseError() {
			state.logger.Error("poll@waitingInfo GetDeviceInfoResponse", zap.Error(msg.GetResponseError()))
		} else {
			for _, d := range msg.Registers {
				state.precision[d.Key] = d.Precision
			}
			state.publish(domain.OptionsToUpdateEvents(msg.Options)...)
		}
		state.logger.Debug("poll@waitingInfo ready", zap.Int("registers", len(state.precision)))

		// first cycle right away
		state.cancelTick = state.scheduler.RequestOnce(0, ctx.Self(), pollTick{})
		state.armRollover(ctx)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("poll@waitingInfo: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("poll@default: ActorHealthRequest")
		ctx.Respond(state.health("idle"))
	case pollTick:
		state.logger.Debug("poll@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.modbusActor, domain.PollRequest{Now: time.Now()}, state.timeout), func(err error) any {
			return domain.PollResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.BecomeStacked(state.WaitingPollReceive)
	case rolloverTick:
		// poll now so the day rolls over at midnight and not on the next interval
		state.logger.Debug("poll@default rollover tick")
		if state.cancelTick != nil {
			state.cancelTick()
		}
		state.cancelTick = state.scheduler.RequestOnce(0, ctx.Self(), pollTick{})
		state.armRollover(ctx)
	case domain.GetFrameRequest:
		ForRequest(msg).Respond(ctx, domain.GetFrameResponse{Frame: state.lastFrame})
	default:
		state.logger.Debug("poll@default: unhandled", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *PollActor) WaitingPollReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.PollResponse:
		state.lastErr = msg.GetResponseError()
		if msg.HasResponseError() {
			state.logger.Warn("poll@waiting cycle failed", zap.Error(msg.GetResponseError()))
			state.publish(domain.BinarySensorUpdateEvent{
				SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{Id: domain.SENSOR_ID_CONNECTED},
				Value:                  false,
			})
		} else {
			frame := msg.Frame
			state.lastFrame = &frame
			state.logger.Debug("poll@waiting frame",
				zap.Int("values", len(frame.Values)),
				zap.String("energy_state", string(frame.Derived.EnergyState)),
				zap.String("schedule", string(frame.Derived.ScheduleStatus)))
			state.publish(domain.FrameUpdateEvent{Frame: frame})
			state.publish(domain.FrameToUpdateEvents(frame, state.precision)...)
		}

		// schedule next tick
		state.cancelTick = state.scheduler.RequestOnce(state.interval, ctx.Self(), pollTick{})
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case domain.ActorHealthRequest:
		ctx.Respond(state.health("polling"))
	default:
		state.logger.Debug("poll@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollActor) armRollover(ctx actor.Context) {
	if state.rollover == nil {
		return
	}
	now := time.Now()
	next, err := state.rollover.NextFireTime(now.UnixNano())
	if err != nil {
		state.logger.Warn("could not compute next rollover", zap.Error(err))
		return
	}
	state.scheduler.RequestOnce(time.Duration(next-now.UnixNano()), ctx.Self(), rolloverTick{})
}

func (state *PollActor) health(s string) domain.ActorHealthResponse {
	return domain.ActorHealthResponse{
		Id:      domain.ACTOR_ID_POLL,
		Healthy: state.lastErr == nil,
		State:   s,
	}
}

func (state *PollActor) publish(events ...any) {
	for _, ev := range events {
		state.eventStream.Publish(ev)
	}
}
