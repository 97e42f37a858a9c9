package aop

import (
	"reflect"

	"go.uber.org/zap"
)

// ── Interceptor contract ──────────────────────────────────────────────────────

// Interceptor is one unit of cross-cutting logic around a proxied call.
// It may run logic before and after forwarding via inv.Proceed(), replace
// the results, or suppress the call entirely by never proceeding.
//
//	// Spring: public interface MethodInterceptor {
//	//     Object invoke(MethodInvocation invocation) throws Throwable;
//	// }
type Interceptor interface {
	Invoke(inv *Invocation) ([]reflect.Value, error)
}

// InterceptorFunc adapts a plain function to Interceptor.
type InterceptorFunc func(inv *Invocation) ([]reflect.Value, error)

// Invoke implements Interceptor.
func (f InterceptorFunc) Invoke(inv *Invocation) ([]reflect.Value, error) {
	return f(inv)
}

// ── LoggingInterceptor ────────────────────────────────────────────────────────

// LoggingInterceptor is a pass-through interceptor that logs each call
// before and after it executes. Results flow back unmodified.
type LoggingInterceptor struct {
	logger *zap.Logger
}

// NewLoggingInterceptor wraps logger into an interceptor; a nil logger
// falls back to a no-op.
func NewLoggingInterceptor(logger *zap.Logger) *LoggingInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingInterceptor{logger: logger}
}

// Invoke implements Interceptor.
func (l *LoggingInterceptor) Invoke(inv *Invocation) ([]reflect.Value, error) {
	l.logger.Info("before",
		zap.String("method", inv.MethodName()),
		zap.String("target", reflect.TypeOf(inv.Target()).String()))

	out, err := inv.Proceed()

	l.logger.Info("after",
		zap.String("method", inv.MethodName()),
		zap.Error(err))
	return out, err
}
