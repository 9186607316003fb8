package logger

import (
	"strings"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter routes fx container events to the package logger.
// Wiring details are logged at DEBUG; only failures and start/stop reach higher levels.
type FxLoggerAdapter struct{}

// NewFxLoggerAdapter is used with fx.WithLogger.
func NewFxLoggerAdapter() fxevent.Logger {
	return &FxLoggerAdapter{}
}

func hookName(fn string) zap.Field {
	if idx := strings.LastIndex(fn, ".func"); idx != -1 {
		fn = fn[:idx]
	}
	return zap.String("hook", fn)
}

func failed(msg string, err error, fields ...zap.Field) bool {
	if err == nil {
		return false
	}
	Zap().Error(msg, append(fields, zap.Error(err))...)
	return true
}

// LogEvent implements fxevent.Logger.
func (l *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	log := Zap()
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		log.Debug("fx start hook", hookName(e.FunctionName))
	case *fxevent.OnStartExecuted:
		if !failed("fx start hook failed", e.Err, hookName(e.FunctionName)) {
			log.Debug("fx start hook done", hookName(e.FunctionName), zap.Duration("runtime", e.Runtime))
		}
	case *fxevent.OnStopExecuting:
		log.Debug("fx stop hook", hookName(e.FunctionName))
	case *fxevent.OnStopExecuted:
		failed("fx stop hook failed", e.Err, hookName(e.FunctionName))
	case *fxevent.Supplied:
		failed("fx supply failed", e.Err, zap.String("type", e.TypeName))
	case *fxevent.Provided:
		if !failed("fx provide failed", e.Err, zap.String("constructor", e.ConstructorName)) {
			log.Debug("fx provided", zap.Strings("types", e.OutputTypeNames))
		}
	case *fxevent.Decorated:
		failed("fx decorate failed", e.Err, zap.String("decorator", e.DecoratorName))
	case *fxevent.Invoking:
		log.Debug("fx invoke", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		failed("fx invoke failed", e.Err, zap.String("function", e.FunctionName))
	case *fxevent.Stopping:
		log.Info("planfeed stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		failed("planfeed stop failed", e.Err)
	case *fxevent.RollingBack:
		log.Error("planfeed start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		failed("planfeed rollback failed", e.Err)
	case *fxevent.Started:
		if !failed("planfeed start failed", e.Err) {
			log.Info("planfeed started")
		}
	case *fxevent.LoggerInitialized:
		failed("fx logger initialization failed", e.Err)
	}
}
