// Package aop provides method interception for container-managed
// components: reified invocations, an ordered interceptor chain, and
// capability-based proxies.
//
// # Overview
//
// A proxy substitutes for its target behind an interface: callers program
// against the capability set, every call is reified as an Invocation and
// handed to the interceptor chain, and the last Proceed executes the target
// method. Interceptors run logic before, after, around, or instead of the
// call.
//
// Java builds such proxies at runtime (java.lang.reflect.Proxy); Go cannot
// mint types with new method sets after compilation. The split here keeps
// everything dynamic except the last inch: dispatch, argument conversion
// and the interceptor chain are reflective and type-agnostic, while each
// proxyable interface registers a small typed stub in a CapabilityRegistry
// once. See CapabilityRegistry for the stub shape.
//
// # Intercepting
//
//	// Spring: public Object invoke(MethodInvocation invocation) {
//	//     before(); Object r = invocation.proceed(); after(); return r;
//	// }
//	timing := aop.InterceptorFunc(func(inv *aop.Invocation) ([]reflect.Value, error) {
//	    start := time.Now()
//	    out, err := inv.Proceed()
//	    log.Info("timed", zap.Duration("took", time.Since(start)))
//	    return out, err
//	})
//
//	proxy, err := aop.NewProxy(target, registry, timing, txInterceptor)
//
// Interceptors compose as a chain-of-responsibility in the order given;
// each Proceed advances one link.
//
// # Container integration
//
// InterceptionProcessor plugs the engine into the container's
// post-processing pipeline: eligible components come back wrapped, exempt
// or capability-less components pass through untouched.
package aop
