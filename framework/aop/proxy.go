package aop

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrNoCapabilitiesToProxy — the target implements no registered capability
// interface, so no substitutable proxy can be built for it.
var ErrNoCapabilitiesToProxy = errors.New("aop: no capabilities to proxy")

// ── Capability registry ───────────────────────────────────────────────────────

// A capability pairs an interface type with the typed stub constructor that
// renders a Dispatcher as that interface.
type capability struct {
	iface reflect.Type
	build func(*Dispatcher) any
}

// CapabilityRegistry maps interfaces to proxy stub constructors.
//
// Go has no runtime equivalent of java.lang.reflect.Proxy — types and their
// method sets are fixed at compile time — so each interface that should be
// proxyable registers, once, a small stub that implements it by routing
// every method through a Dispatcher:
//
//	type userServiceProxy struct{ *aop.Dispatcher }
//
//	func (p *userServiceProxy) Login(name, password string) (bool, error) {
//	    out, err := p.Call("Login", name, password)
//	    if err != nil {
//	        return false, err
//	    }
//	    return out[0].(bool), nil
//	}
//
//	aop.RegisterCapability[UserService](reg, func(d *aop.Dispatcher) UserService {
//	    return &userServiceProxy{d}
//	})
//
// Everything behind the stub — the invocation, the interceptor chain, the
// reflective dispatch to the target — is generic.
type CapabilityRegistry struct {
	mu   sync.RWMutex
	caps []capability
}

// NewCapabilityRegistry creates an empty registry.
func NewCapabilityRegistry() *CapabilityRegistry {
	return &CapabilityRegistry{}
}

// RegisterCapability binds the interface I to its stub constructor.
// I must be an interface type; registering anything else is a programming
// error caught at startup.
func RegisterCapability[I any](r *CapabilityRegistry, build func(*Dispatcher) I) {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("aop: RegisterCapability: %s is not an interface", iface))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps = append(r.caps, capability{
		iface: iface,
		build: func(d *Dispatcher) any { return build(d) },
	})
}

// match picks the registered capability the target type satisfies. When
// several match, the one with the largest method set wins (most specific);
// ties go to the earliest registration.
func (r *CapabilityRegistry) match(target reflect.Type) (capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best capability
	found := false
	for _, c := range r.caps {
		if !target.Implements(c.iface) {
			continue
		}
		if !found || c.iface.NumMethod() > best.iface.NumMethod() {
			best = c
			found = true
		}
	}
	return best, found
}

// Proxyable reports whether a proxy can be built for the target.
func (r *CapabilityRegistry) Proxyable(target any) bool {
	if target == nil {
		return false
	}
	_, ok := r.match(reflect.TypeOf(target))
	return ok
}

// ── Dispatcher ────────────────────────────────────────────────────────────────

// Dispatcher routes named calls from a proxy stub through the interceptor
// chain and on to the target — the AdvisedSupport + InvocationHandler pair
// collapsed into one value. Stubs embed *Dispatcher, which also gives every
// proxy a ProxyTarget method for unwrapping.
type Dispatcher struct {
	target       reflect.Value
	interceptors []Interceptor
}

// ProxyTarget returns the wrapped instance.
func (d *Dispatcher) ProxyTarget() any { return d.target.Interface() }

// Invoke reifies a named call into an Invocation and runs it through the
// chain, returning the raw result values.
func (d *Dispatcher) Invoke(methodName string, args ...any) ([]reflect.Value, error) {
	method, ok := d.target.Type().MethodByName(methodName)
	if !ok {
		return nil, fmt.Errorf("aop: %s has no method %s", d.target.Type(), methodName)
	}
	in, err := convertArgs(method, args)
	if err != nil {
		return nil, err
	}
	return newInvocation(d.target, method, in, d.interceptors).Proceed()
}

// Call is Invoke for stub methods: the trailing error result (per the
// method's signature) is split off, and the rest come back as plain values
// ready for type assertion.
func (d *Dispatcher) Call(methodName string, args ...any) ([]any, error) {
	method, ok := d.target.Type().MethodByName(methodName)
	if !ok {
		return nil, fmt.Errorf("aop: %s has no method %s", d.target.Type(), methodName)
	}
	in, err := convertArgs(method, args)
	if err != nil {
		return nil, err
	}
	out, err := newInvocation(d.target, method, in, d.interceptors).Proceed()
	if out == nil {
		return nil, err
	}
	return splitError(method, out), err
}

// ── ProxyFactory ──────────────────────────────────────────────────────────────

// ProxyFactory assembles a proxy for one target: pick the capability, snap
// the interceptor chain, build the stub.
//
//	// Spring: ProxyFactory proxyFactory = new ProxyFactory();
//	//         proxyFactory.setTarget(target);
//	//         proxyFactory.setMethodInterceptor(new LoggingInterceptor());
//	//         Object proxy = proxyFactory.getProxy();
//	f := aop.NewProxyFactory(target, registry)
//	f.AddInterceptor(aop.NewLoggingInterceptor(logger))
//	proxy, err := f.Proxy()
type ProxyFactory struct {
	target       any
	registry     *CapabilityRegistry
	interceptors []Interceptor
}

// NewProxyFactory prepares a factory for target against the given registry.
func NewProxyFactory(target any, registry *CapabilityRegistry) *ProxyFactory {
	return &ProxyFactory{target: target, registry: registry}
}

// AddInterceptor appends one interceptor to the chain; interceptors run in
// the order they were added.
func (f *ProxyFactory) AddInterceptor(i Interceptor) {
	f.interceptors = append(f.interceptors, i)
}

// Proxy builds the substitute object. It fails with ErrNoCapabilitiesToProxy
// when the target satisfies no registered capability interface.
func (f *ProxyFactory) Proxy() (any, error) {
	if f.target == nil {
		return nil, fmt.Errorf("aop: proxy: nil target")
	}
	t := reflect.TypeOf(f.target)
	cap, ok := f.registry.match(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCapabilitiesToProxy, t)
	}

	chain := make([]Interceptor, len(f.interceptors))
	copy(chain, f.interceptors)
	return cap.build(&Dispatcher{
		target:       reflect.ValueOf(f.target),
		interceptors: chain,
	}), nil
}

// NewProxy is the one-shot form of ProxyFactory.
func NewProxy(target any, registry *CapabilityRegistry, interceptors ...Interceptor) (any, error) {
	f := NewProxyFactory(target, registry)
	for _, i := range interceptors {
		f.AddInterceptor(i)
	}
	return f.Proxy()
}

// Unwrap follows proxy links down to the original target; non-proxies come
// back unchanged.
func Unwrap(instance any) any {
	for {
		p, ok := instance.(interface{ ProxyTarget() any })
		if !ok {
			return instance
		}
		instance = p.ProxyTarget()
	}
}
