package actorutil

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/berfenger/felicity2mqtt/internal/core/domain"
	"github.com/berfenger/felicity2mqtt/internal/mqtt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps a number or select command onto a control option update.
// Payload validation is left to the option itself.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ControlRequest, error) {
	switch cmd.Command {
	case mqtt.COMMAND_NUMBER, mqtt.COMMAND_SELECT:
	default:
		return nil, fmt.Errorf("unsupported command %q", cmd.Command)
	}
	if !domain.IsOptionId(cmd.DeviceId) {
		return nil, fmt.Errorf("unknown option %q", cmd.DeviceId)
	}
	return domain.SetControlOptionRequest{
		OptionId: cmd.DeviceId,
		Payload:  strings.TrimSpace(cmd.Payload),
	}, nil
}
