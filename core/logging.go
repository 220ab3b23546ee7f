package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevelEnv names the environment variable consulted when the config sets no level.
const LogLevelEnv = "PRTG_LOG"

// NewLogger builds the session logger. Logging is off unless a level is set in
// the config or in PRTG_LOG; with LogFile set, JSON lines go to a rotated file,
// otherwise console lines go to stderr.
func NewLogger(config *PRTGConfig) (*zap.Logger, error) {
	levelName := config.LogLevel
	if levelName == "" {
		levelName = os.Getenv(LogLevelEnv)
	}
	if levelName == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		return nil, &ConfigError{Field: "LogLevel", Reason: err.Error()}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var core zapcore.Core
	if config.LogFile != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     15, // days
			Compress:   true,
		})
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level)
	} else {
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.Lock(os.Stderr), level)
	}
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// operation scopes the log lines of one logical request under a correlation id
// and mirrors verbose messages to OnVerboseLog subscribers.
type operation struct {
	id     string
	logger *zap.Logger
	events *Events
}

func newOperation(logger *zap.Logger, events *Events, name string) *operation {
	id := uuid.NewString()
	return &operation{
		id:     id,
		logger: logger.With(zap.String("operation", name), zap.String("operation_id", id)),
		events: events,
	}
}

func (o *operation) verbose(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	o.logger.Debug(msg)
	o.events.emitVerbose(msg)
}
