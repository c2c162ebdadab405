package logging

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureLogrus routes the logrus standard logger, which go-ios writes to,
// into the zap logger. logrus never writes to the terminal itself.
func captureLogrus() {
	std := logrus.StandardLogger()
	std.SetOutput(io.Discard)
	std.ReplaceHooks(make(logrus.LevelHooks))
	std.AddHook(logrusHook{})

	if GetLogger().Core().Enabled(zapcore.DebugLevel) {
		std.SetLevel(logrus.DebugLevel)
	} else {
		std.SetLevel(logrus.InfoLevel)
	}
}

type logrusHook struct{}

func (logrusHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (logrusHook) Fire(e *logrus.Entry) error {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	fields = append(fields, zap.String("source", "go-ios"))
	for _, k := range keys {
		fields = append(fields, zap.Any(k, e.Data[k]))
	}

	log := GetLogger().WithOptions(zap.WithCaller(false))
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		log.Error(e.Message, fields...)
	case logrus.WarnLevel:
		log.Warn(e.Message, fields...)
	case logrus.InfoLevel:
		log.Info(e.Message, fields...)
	default:
		log.Debug(e.Message, fields...)
	}
	return nil
}
