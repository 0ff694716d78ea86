// Package infrastructure bridges Fx's event logging onto zap.
package infrastructure

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// FxLoggerAdapter implements fxevent.Logger with structured zap fields.
// Dependency graph noise is logged at debug level; lifecycle transitions at info.
type FxLoggerAdapter struct {
	logger *zap.Logger
}

// NewFxLoggerAdapter creates a new Fx logger adapter.
func NewFxLoggerAdapter(logger *zap.Logger) fxevent.Logger {
	return &FxLoggerAdapter{logger: logger.Named("fx")}
}

// LogEvent implements fxevent.Logger.
func (a *FxLoggerAdapter) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		a.logger.Debug("OnStart hook executing", zap.String("callee", e.FunctionName), zap.String("caller", e.CallerName))
	case *fxevent.OnStartExecuted:
		a.hookResult("OnStart", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.OnStopExecuting:
		a.logger.Debug("OnStop hook executing", zap.String("callee", e.FunctionName), zap.String("caller", e.CallerName))
	case *fxevent.OnStopExecuted:
		a.hookResult("OnStop", e.FunctionName, e.CallerName, e.Runtime.String(), e.Err)
	case *fxevent.Supplied:
		a.failedOrDebug("Supplied", e.Err, zap.String("type", e.TypeName), zap.String("module", e.ModuleName))
	case *fxevent.Provided:
		a.failedOrDebug("Provided", e.Err, zap.Strings("types", e.OutputTypeNames), zap.String("constructor", e.ConstructorName))
	case *fxevent.Decorated:
		a.failedOrDebug("Decorated", e.Err, zap.Strings("types", e.OutputTypeNames))
	case *fxevent.Invoking:
		a.logger.Debug("Invoking", zap.String("function", e.FunctionName))
	case *fxevent.Invoked:
		a.failedOrDebug("Invoked", e.Err, zap.String("function", e.FunctionName))
	case *fxevent.Stopping:
		a.logger.Info("Received signal", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		a.failedOrInfo("Stopped", e.Err)
	case *fxevent.RollingBack:
		a.logger.Error("Start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		a.failedOrInfo("Rolled back", e.Err)
	case *fxevent.Started:
		a.failedOrInfo("Started", e.Err)
	case *fxevent.LoggerInitialized:
		a.failedOrDebug("Logger initialized", e.Err, zap.String("constructor", e.ConstructorName))
	default:
		a.logger.Debug("Unhandled Fx event", zap.Any("event", event))
	}
}

func (a *FxLoggerAdapter) hookResult(hook, callee, caller, runtime string, err error) {
	if err != nil {
		a.logger.Error(hook+" hook failed", zap.String("callee", callee), zap.String("caller", caller), zap.Error(err))
		return
	}
	a.logger.Debug(hook+" hook executed", zap.String("callee", callee), zap.String("caller", caller), zap.String("runtime", runtime))
}

func (a *FxLoggerAdapter) failedOrDebug(msg string, err error, fields ...zap.Field) {
	if err != nil {
		a.logger.Error(msg+" with error", append(fields, zap.Error(err))...)
		return
	}
	a.logger.Debug(msg, fields...)
}

func (a *FxLoggerAdapter) failedOrInfo(msg string, err error) {
	if err != nil {
		a.logger.Error(msg+" with error", zap.Error(err))
		return
	}
	a.logger.Info(msg)
}
