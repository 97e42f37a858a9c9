// Package container provides a Spring-style IoC (Inversion of Control)
// container for Go: declarative component descriptors in, live wired
// instances out.
//
// # Overview
//
// A Descriptor is the in-memory form of one <bean> element: a type, a
// scope, constructor arguments and property bindings, each either a literal
// or a Ref to another component. The Container resolves a name by
// constructing the instance, resolving its references recursively, applying
// its properties, and running every registered PostProcessor over the
// result.
//
// It mirrors the behaviour of Spring's DefaultListableBeanFactory as
// closely as Go's type system allows. Java discovers constructors and
// setters by reflection over declared members; Go components instead supply
// candidate constructor functions on the Descriptor, and properties bind to
// exported fields (or SetX methods).
//
// # Registering and resolving
//
//	// Spring: factory.registerBeanDefinition("userService", definition)
//	d := container.NewDescriptor[UserServiceImpl](container.Singleton)
//	d.Constructors = []any{NewUserServiceImpl}
//	d.Properties = []container.Property{
//	    {Name: "maxRetries", Value: "3"},               // literal, coerced to int
//	    {Name: "store", Value: container.Ref{Name: "userStore"}},
//	}
//	_ = c.Register("userService", d)
//
//	// Spring: Object bean = factory.getBean("userService")
//	svc, err := container.ResolveAs[*UserServiceImpl](c, "userService")
//
// # Scopes
//
// Singleton components are constructed at most once per name, even when
// several goroutines resolve concurrently; the cache entry and its
// construction are one logical step. Only successful constructions are
// cached — after a failure the next Resolve re-attempts against the
// descriptors registered by then. Transient components are built fresh per
// Resolve and never cached.
//
// # Interface descriptors
//
// A descriptor whose type is an interface resolves to a registered
// implementation: name it with Implementor, or let the container pick the
// first registered constructible descriptor satisfying the interface.
//
//	d := container.InterfaceDescriptor[UserService]()
//	d.Implementor = "userServiceImpl"
//
// # Post-processing
//
//	// Spring: factory.addBeanPostProcessor(processor)
//	c.Use(autowire.NewProcessor(c))
//	c.Use(aop.NewInterceptionProcessor(caps, interceptors...))
//
// Processors run in registration order and may replace the instance
// entirely — wrapping it in a proxy, for example. Whatever the last
// processor returns is what callers observe.
//
// # Failure modes
//
// Resolution failures carry the component name and operation and wrap the
// sentinels in errors.go, so callers can errors.Is against
// ErrUnknownComponent, ErrNoImplementationFound, ErrNoCompatibleConstructor,
// ErrPropertyInjection and ErrCyclicDependency.
package container
