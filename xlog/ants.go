package xlog

import (
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ ants.Logger = (*AntsXLogger)(nil)

// AntsXLogger forwards goroutine pool messages (worker panics mostly) as
// errors of the "Ants" component.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	if logger == nil {
		return nil
	}
	parent, ok := logger.(*xLogger)
	if !ok {
		return &AntsXLogger{logger: logger.Named("Ants")}
	}
	l := &xLogger{
		ctxFields:           parent.ctxFields,
		dynamicLevelEnabler: parent.dynamicLevelEnabler,
		encoder:             parent.encoder,
	}
	l.logger.Store(parent.zap().
		Named("Ants").
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			if cc, ok := core.(*consoleCore); ok {
				return cc.withEncoderConfig(componentCoreEncoderCfg)
			}
			return core
		})),
	)
	return &AntsXLogger{
		logger: l,
	}
}
