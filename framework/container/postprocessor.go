package container

// ── Post-processing ───────────────────────────────────────────────────────────

// PostProcessor transforms or wraps a freshly constructed instance before
// the container hands it to the caller. Processors run in registration
// order; each receives the previous one's output, and the final instance is
// what callers observe (and what the singleton cache stores).
//
//	// Spring: public interface BeanPostProcessor {
//	//     Object postProcessBeforeInitialization(Object bean, String name);
//	// }
type PostProcessor interface {
	Process(instance any, name string) (any, error)
}

// PostProcessorFunc adapts a plain function to PostProcessor.
type PostProcessorFunc func(instance any, name string) (any, error)

// Process implements PostProcessor.
func (f PostProcessorFunc) Process(instance any, name string) (any, error) {
	return f(instance, name)
}

// TargetProvider is implemented by proxies that can surface the object they
// wrap. The container unwraps through it when applying properties, because
// a proxy only carries the declared capability set, not the concrete
// fields and setters.
type TargetProvider interface {
	ProxyTarget() any
}

// unwrap follows TargetProvider links down to the original instance.
func unwrap(instance any) any {
	for {
		p, ok := instance.(TargetProvider)
		if !ok {
			return instance
		}
		instance = p.ProxyTarget()
	}
}
