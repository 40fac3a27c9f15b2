package processor

import (
	"restaurantreviews/pkg/logger"

	"github.com/robfig/cron/v3"
)

// cronLogger направляет служебные сообщения cron в общий zerolog
type cronLogger struct{}

var _ cron.Logger = cronLogger{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug().Fields(keysAndValues).Str("component", "cron").Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error().Err(err).Fields(keysAndValues).Str("component", "cron").Msg(msg)
}
