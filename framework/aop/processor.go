package aop

import (
	"reflect"

	"go.uber.org/zap"
)

// InterceptionExempt marks infrastructure components that must never be
// proxied even when they satisfy a registered capability — the transaction
// manager itself, for instance, so that interception never recurses into
// the machinery that serves it.
type InterceptionExempt interface {
	InterceptionExempt()
}

// ── InterceptionProcessor ─────────────────────────────────────────────────────

// InterceptionProcessor is a container post-processor that wraps eligible
// components in interception proxies. A component is eligible when it
// satisfies a registered capability interface and is not exempt; everything
// else passes through untouched.
//
//	caps := aop.NewCapabilityRegistry()
//	aop.RegisterCapability[UserService](caps, newUserServiceProxy)
//	c.Use(aop.NewInterceptionProcessor(caps, aop.NewLoggingInterceptor(logger)))
type InterceptionProcessor struct {
	registry     *CapabilityRegistry
	interceptors []Interceptor
	exclude      func(name string, instance any) bool
	logger       *zap.Logger
}

// NewInterceptionProcessor builds a processor applying the given
// interceptor chain to every proxy it creates.
func NewInterceptionProcessor(registry *CapabilityRegistry, interceptors ...Interceptor) *InterceptionProcessor {
	return &InterceptionProcessor{
		registry:     registry,
		interceptors: interceptors,
		logger:       zap.NewNop(),
	}
}

// AddInterceptor appends an interceptor to the chain applied to proxies
// created from here on; already-wrapped components are unaffected.
func (p *InterceptionProcessor) AddInterceptor(i Interceptor) {
	p.interceptors = append(p.interceptors, i)
}

// Exclude installs an extra skip predicate, for infrastructure that cannot
// carry the InterceptionExempt marker (a *sql.DB, say).
func (p *InterceptionProcessor) Exclude(fn func(name string, instance any) bool) {
	p.exclude = fn
}

// SetLogger attaches a logger for debug events.
func (p *InterceptionProcessor) SetLogger(logger *zap.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Process implements the container's PostProcessor contract.
func (p *InterceptionProcessor) Process(instance any, name string) (any, error) {
	if instance == nil {
		return instance, nil
	}
	if _, ok := instance.(interface{ ProxyTarget() any }); ok {
		return instance, nil // already a proxy
	}
	if _, ok := instance.(InterceptionExempt); ok {
		return instance, nil
	}
	if p.exclude != nil && p.exclude(name, instance) {
		return instance, nil
	}
	if !p.registry.Proxyable(instance) {
		return instance, nil
	}

	proxy, err := NewProxy(instance, p.registry, p.interceptors...)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("wrapped component in interception proxy",
		zap.String("name", name),
		zap.String("target", reflect.TypeOf(instance).String()))
	return proxy, nil
}
