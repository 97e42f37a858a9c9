package container

import "errors"

// Resolution failures are fatal to the caller and never retried here; every
// failure is wrapped with the operation and component name before it is
// returned, so errors.Is works against these sentinels at any depth.
var (
	// ErrUnknownComponent — Resolve was asked for a name nothing was
	// registered under.
	ErrUnknownComponent = errors.New("container: unknown component")

	// ErrNoImplementationFound — the descriptor names an interface and no
	// registered descriptor has a constructible type satisfying it.
	ErrNoImplementationFound = errors.New("container: no implementation found")

	// ErrNoCompatibleConstructor — none of the declared constructor
	// candidates matches the resolved arguments in arity and type.
	ErrNoCompatibleConstructor = errors.New("container: no compatible constructor")

	// ErrPropertyInjection — a declared property has no settable field or
	// SetX method, or its literal value could not be coerced.
	ErrPropertyInjection = errors.New("container: property injection failed")

	// ErrCyclicDependency — resolving a component re-entered a resolution
	// already in progress on the same path. Failing fast here replaces
	// unbounded recursion.
	ErrCyclicDependency = errors.New("container: cyclic dependency")
)
