package container

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the component factory — mirrors Spring's
// DefaultListableBeanFactory.
//
// It turns registered Descriptors into live, wired instances:
//
//  1. Register descriptors (and any pre-built instances)
//  2. Use() post-processors, in the order they should run
//  3. Resolve by name — construction, property application and
//     post-processing happen on demand, recursively for references
//
// Singletons are constructed at most once even under concurrent Resolve
// calls for the same name; only the constructed instance is cached, so a
// failed construction is re-attempted on the next Resolve. Transients are
// constructed per call and never cached. Cyclic reference graphs fail fast
// instead of recursing without bound.
type Container struct {
	mu sync.RWMutex

	// name → declarative recipe
	descriptors map[string]*Descriptor

	// registration order, for deterministic implementation search
	order []string

	// name → at-most-once construction slot
	singletons map[string]*singletonEntry

	processors []PostProcessor

	logger *zap.Logger
}

// singletonEntry makes check-then-create a single logical step: the first
// resolver constructs while holding the slot, every concurrent resolver
// waits on it and observes the identical instance. The slot latches only
// on success — a failed construction marks it stale and removes it, so the
// next Resolve re-attempts against the descriptors registered by then.
type singletonEntry struct {
	mu       sync.Mutex
	done     bool
	stale    bool
	instance any
}

// Option configures a Container.
type Option func(*Container)

// WithLogger attaches a structured logger; lifecycle events are logged at
// debug level. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		descriptors: make(map[string]*Descriptor),
		singletons:  make(map[string]*singletonEntry),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores a descriptor under name, replacing any previous one
// wholesale — no merging. Constructor candidates are validated here so a
// malformed recipe fails at registration, not mid-resolution.
//
// Replacing a descriptor does not evict an already-cached singleton: the
// cached instance keeps winning for that name. Only names never
// successfully resolved pick up the replacement — a failed resolution
// caches nothing.
//
//	// Spring: factory.registerBeanDefinition("userService", definition)
//	err := c.Register("userService", d)
func (c *Container) Register(name string, d *Descriptor) error {
	if name == "" {
		return fmt.Errorf("container: register: empty component name")
	}
	if d == nil || d.Type == nil {
		return fmt.Errorf("container: register %q: descriptor has no type identity", name)
	}
	for i, ctor := range d.Constructors {
		t := reflect.TypeOf(ctor)
		if t == nil || t.Kind() != reflect.Func {
			return fmt.Errorf("container: register %q: constructor candidate %d is not a function", name, i)
		}
		if n := t.NumOut(); n < 1 || n > 2 {
			return fmt.Errorf("container: register %q: constructor candidate %d must return T or (T, error)", name, i)
		}
		if t.NumOut() == 2 && t.Out(1) != errorType {
			return fmt.Errorf("container: register %q: constructor candidate %d second return must be error", name, i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.descriptors[name]; !exists {
		c.order = append(c.order, name)
	}
	c.descriptors[name] = d
	c.logger.Debug("registered component",
		zap.String("name", name),
		zap.Stringer("scope", d.Scope),
		zap.String("type", d.Type.String()))
	return nil
}

// RegisterInstance stores a pre-built value as a singleton component. The
// instance bypasses construction, property application and post-processing;
// it is handed out exactly as given. Typical use is infrastructure the
// caller built itself, like a *sql.DB.
//
//	// Spring: factory.registerSingleton("dataSource", dataSource)
//	err := c.RegisterInstance("dataSource", db)
func (c *Container) RegisterInstance(name string, instance any) error {
	if instance == nil {
		return fmt.Errorf("container: register instance %q: nil instance", name)
	}
	return c.Register(name, &Descriptor{
		Type:     reflect.TypeOf(instance),
		Scope:    Singleton,
		instance: instance,
		prebuilt: true,
	})
}

// Use appends a post-processor to the pipeline. Processors run in the
// order they were added.
func (c *Container) Use(p PostProcessor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, p)
}

// Known reports whether a descriptor is registered under name.
func (c *Container) Known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.descriptors[name]
	return ok
}

// Names returns the registered component names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the component registered under name, constructing and
// wiring it (and, transitively, its references) as needed.
//
//	// Spring: Object bean = factory.getBean("userService")
//	svc, err := c.Resolve("userService")
func (c *Container) Resolve(name string) (any, error) {
	return c.resolve(name, nil)
}

// MustResolve is Resolve for bootstrap paths where a missing component is a
// programming error.
func (c *Container) MustResolve(name string) any {
	instance, err := c.resolve(name, nil)
	if err != nil {
		panic(err)
	}
	return instance
}

// ResolveAs resolves name and type-asserts the result.
//
//	svc, err := container.ResolveAs[UserService](c, "userService")
func ResolveAs[T any](c *Container, name string) (T, error) {
	var zero T
	instance, err := c.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("container: resolve %q: have %T, want %T", name, instance, zero)
	}
	return typed, nil
}

// resolve carries the in-progress resolution path so re-entering a name on
// the same path fails as a cycle instead of deadlocking on its own
// singleton slot. The check covers one path only: goroutines resolving the
// two halves of a cyclic pair concurrently can block on each other's slots
// rather than observe ErrCyclicDependency.
func (c *Container) resolve(name string, path []string) (any, error) {
	for _, inProgress := range path {
		if inProgress == name {
			return nil, fmt.Errorf("%w: %s -> %s",
				ErrCyclicDependency, strings.Join(path, " -> "), name)
		}
	}

	for {
		c.mu.RLock()
		d, ok := c.descriptors[name]
		c.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
		}

		if d.Scope != Singleton {
			return c.build(name, d, append(path, name))
		}

		c.mu.Lock()
		entry, ok := c.singletons[name]
		if !ok {
			entry = &singletonEntry{}
			c.singletons[name] = entry
		}
		c.mu.Unlock()

		entry.mu.Lock()
		if entry.done {
			instance := entry.instance
			entry.mu.Unlock()
			return instance, nil
		}
		if entry.stale {
			// lost the race against a failed construction; take a fresh slot
			entry.mu.Unlock()
			continue
		}

		instance, err := c.build(name, d, append(path, name))
		if err != nil {
			entry.stale = true
			c.mu.Lock()
			if c.singletons[name] == entry {
				delete(c.singletons, name)
			}
			c.mu.Unlock()
			entry.mu.Unlock()
			return nil, err
		}

		entry.instance = instance
		entry.done = true
		entry.mu.Unlock()
		c.logger.Debug("cached singleton", zap.String("name", name))
		return instance, nil
	}
}

// ── Construction ──────────────────────────────────────────────────────────────

func (c *Container) build(name string, d *Descriptor, path []string) (any, error) {
	if d.prebuilt {
		return d.instance, nil
	}

	c.logger.Debug("constructing component",
		zap.String("name", name), zap.Stringer("scope", d.Scope))

	if d.isInterface() {
		implName, err := c.findImplementor(name, d)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("substituting implementation",
			zap.String("name", name), zap.String("implementor", implName))
		instance, err := c.resolve(implName, path)
		if err != nil {
			return nil, fmt.Errorf("container: resolving %q via implementor %q: %w", name, implName, err)
		}
		return instance, nil
	}

	instance, err := c.construct(name, d, path)
	if err != nil {
		return nil, err
	}
	if err := c.applyProperties(name, d, instance, path); err != nil {
		return nil, err
	}

	c.mu.RLock()
	processors := make([]PostProcessor, len(c.processors))
	copy(processors, c.processors)
	c.mu.RUnlock()

	for _, p := range processors {
		instance, err = p.Process(instance, name)
		if err != nil {
			return nil, fmt.Errorf("container: post-processing %q: %w", name, err)
		}
	}
	return instance, nil
}

// findImplementor locates the concrete component backing an interface-typed
// descriptor: the explicit Implementor if declared, otherwise the first
// registered descriptor (in registration order) whose produced type
// satisfies the interface.
func (c *Container) findImplementor(name string, d *Descriptor) (string, error) {
	if d.Implementor != "" {
		return d.Implementor, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, candidate := range c.order {
		if candidate == name {
			continue
		}
		cd := c.descriptors[candidate]
		if cd.isInterface() {
			continue
		}
		if cd.producedType().Implements(d.Type) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no constructible component satisfies %s (component %q)",
		ErrNoImplementationFound, d.Type.String(), name)
}

// producedType is the type instances of this descriptor are expected to
// have, used only for implementation matching.
func (d *Descriptor) producedType() reflect.Type {
	if d.prebuilt {
		return reflect.TypeOf(d.instance)
	}
	return reflect.PtrTo(d.concreteType())
}

// construct resolves the constructor arguments, then tries the candidate
// constructors in declaration order and calls the first whose parameter
// count and pairwise compatibility match. Without candidates the zero value
// of the component type is used (and declared args are an error, since
// nothing could consume them).
func (c *Container) construct(name string, d *Descriptor, path []string) (any, error) {
	args := make([]any, len(d.Args))
	for i, raw := range d.Args {
		if ref, ok := raw.(Ref); ok {
			resolved, err := c.resolve(ref.Name, path)
			if err != nil {
				return nil, fmt.Errorf("container: constructing %q: argument %d: %w", name, i, err)
			}
			args[i] = resolved
			continue
		}
		args[i] = raw
	}

	if len(d.Constructors) == 0 {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %q declares %d constructor arguments but no constructor candidates",
				ErrNoCompatibleConstructor, name, len(args))
		}
		return reflect.New(d.concreteType()).Interface(), nil
	}

	for _, ctor := range d.Constructors {
		fn := reflect.ValueOf(ctor)
		ft := fn.Type()
		if ft.IsVariadic() || ft.NumIn() != len(args) {
			continue
		}

		in := make([]reflect.Value, len(args))
		compatible := true
		for i, arg := range args {
			v, ok := coerce(arg, ft.In(i))
			if !ok {
				compatible = false
				break
			}
			in[i] = v
		}
		if !compatible {
			continue
		}

		out := fn.Call(in)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, fmt.Errorf("container: constructing %q: %w", name, out[1].Interface().(error))
		}
		return out[0].Interface(), nil
	}

	return nil, fmt.Errorf("%w: %q (%s) with argument types %s",
		ErrNoCompatibleConstructor, name, d.concreteType().String(), typeNames(args))
}

// applyProperties resolves each declared property value and assigns it to
// the unwrapped target — proxies only carry the capability set, so the
// concrete fields live on the original instance behind them.
func (c *Container) applyProperties(name string, d *Descriptor, instance any, path []string) error {
	if len(d.Properties) == 0 {
		return nil
	}

	target := unwrap(instance)
	for _, prop := range d.Properties {
		value := prop.Value
		if ref, ok := value.(Ref); ok {
			resolved, err := c.resolve(ref.Name, path)
			if err != nil {
				return fmt.Errorf("%w: %q property %q: %w", ErrPropertyInjection, name, prop.Name, err)
			}
			value = resolved
		}
		if err := setProperty(target, prop.Name, value); err != nil {
			return fmt.Errorf("%w: %q property %q: %w", ErrPropertyInjection, name, prop.Name, err)
		}
		c.logger.Debug("applied property",
			zap.String("name", name), zap.String("property", prop.Name))
	}
	return nil
}

// setProperty assigns value to the exported field matching the property
// name, falling back to a single-argument SetX method.
func setProperty(target any, property string, value any) error {
	fieldName := exportedName(property)

	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
		field := rv.Elem().FieldByName(fieldName)
		if field.IsValid() && field.CanSet() {
			v, ok := coerce(value, field.Type())
			if !ok {
				return fmt.Errorf("cannot coerce %T into field %s (%s)",
					value, fieldName, field.Type())
			}
			field.Set(v)
			return nil
		}
	}

	setter := rv.MethodByName("Set" + fieldName)
	if setter.IsValid() && setter.Type().NumIn() == 1 && !setter.Type().IsVariadic() {
		v, ok := coerce(value, setter.Type().In(0))
		if !ok {
			return fmt.Errorf("cannot coerce %T into Set%s parameter (%s)",
				value, fieldName, setter.Type().In(0))
		}
		setter.Call([]reflect.Value{v})
		return nil
	}

	return fmt.Errorf("no settable field %s or method Set%s on %T", fieldName, fieldName, target)
}

// exportedName upper-cases the first rune, so the declarative "dataSource"
// finds the field DataSource.
func exportedName(property string) string {
	if property == "" {
		return property
	}
	runes := []rune(property)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()
