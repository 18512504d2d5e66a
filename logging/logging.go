package logging

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// ParseFlag converts the name of a logging mode into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch s {
	case "", "nil":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("The logging mode '%s' is not one of 'nil', "+
		"'performance', or 'debug'.", s)
}

// New returns a structured logger writing to stderr at the given level. In
// Debug mode the level is forced to debug and caller information is kept.
func New(level string, mode Flag) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("I couldn't parse the log level '%s': %w",
			level, err)
	}

	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.DisableCaller = mode != Debug
	config.Level = zap.NewAtomicLevelAt(lvl)
	if mode == Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

// MemString returns a string containing various statistics on the current
// memory usage of lightcone.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}

// Mem returns MemString as a log field when mode is Performance or Debug and
// a no-op field otherwise.
func Mem(mode Flag) zap.Field {
	if mode == Nil {
		return zap.Skip()
	}
	return zap.String("mem", MemString())
}
