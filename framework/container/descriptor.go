package container

import (
	"fmt"
	"reflect"
)

// ── Scopes ────────────────────────────────────────────────────────────────────

// Scope controls how many instances the container hands out for a name.
type Scope int

const (
	// Singleton components are constructed once and cached for the lifetime
	// of the container.
	//
	//	// Spring: <bean id="userService" class="..." scope="singleton"/>
	Singleton Scope = iota

	// Transient components are constructed fresh on every Resolve.
	//
	//	// Spring: <bean id="userService" class="..." scope="prototype"/>
	Transient
)

// String returns the scope's declarative name.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// ParseScope converts a declarative scope tag into a Scope.
// The empty string defaults to Singleton, matching Spring's default.
func ParseScope(tag string) (Scope, error) {
	switch tag {
	case "", "singleton":
		return Singleton, nil
	case "transient", "prototype":
		return Transient, nil
	default:
		return Singleton, fmt.Errorf("container: unknown scope %q", tag)
	}
}

// ── Reference marker ──────────────────────────────────────────────────────────

// Ref marks a constructor argument or property value as a reference to
// another registered component. It is a lookup key, not the component
// itself: the name is resolved lazily at construction time, so forward
// references work (true cycles do not — see ErrCyclicDependency).
//
//	// Spring: <property name="dataSource" ref="dataSource"/>
//	d.Properties = append(d.Properties, container.Property{
//	    Name: "dataSource", Value: container.Ref{Name: "dataSource"},
//	})
type Ref struct {
	Name string
}

// ── Property ──────────────────────────────────────────────────────────────────

// Property is one declared property binding: a field (or SetX method) name
// plus a literal value or a Ref. Literal strings are coerced to the target
// type when applied (see coerce.go).
type Property struct {
	Name  string
	Value any
}

// ── Descriptor ────────────────────────────────────────────────────────────────

// Descriptor is the declarative recipe a component is built from — the
// in-memory form of one <bean> element.
//
// Type identifies the component. For concrete components it is the struct
// type (or pointer to it); instances come out as *T. For interface types
// the container substitutes a registered implementation: Implementor names
// it explicitly, otherwise the other descriptors are searched for a
// constructible type that satisfies the interface.
//
// Constructors lists candidate constructor functions, tried in declaration
// order against the resolved Args; each must return T or (T, error). Go has
// no declared constructors to reflect over, so the candidates are supplied
// here instead of discovered by name at resolve time. With no candidates
// and no Args the zero value is used.
//
// A Descriptor is immutable once registered. Re-registering a name replaces
// the descriptor wholesale — there is no merging.
type Descriptor struct {
	Type         reflect.Type
	Scope        Scope
	Implementor  string
	Constructors []any
	Args         []any
	Properties   []Property

	// prebuilt instance, set only through RegisterInstance
	instance any
	prebuilt bool
}

// NewDescriptor builds a Descriptor for the concrete type T.
//
//	d := container.NewDescriptor[UserServiceImpl](container.Singleton)
//	d.Constructors = []any{NewUserServiceImpl}
func NewDescriptor[T any](scope Scope) *Descriptor {
	return &Descriptor{
		Type:  reflect.TypeOf((*T)(nil)).Elem(),
		Scope: scope,
	}
}

// InterfaceDescriptor builds a Descriptor whose type is the interface I.
// Resolving it yields a registered component implementing I.
//
//	d := container.InterfaceDescriptor[UserService]()
func InterfaceDescriptor[I any]() *Descriptor {
	return &Descriptor{
		Type:  reflect.TypeOf((*I)(nil)).Elem(),
		Scope: Singleton,
	}
}

// concreteType normalizes the descriptor type to the struct type backing
// the component, stripping one pointer level.
func (d *Descriptor) concreteType() reflect.Type {
	t := d.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// isInterface reports whether the descriptor names an abstraction that
// needs a registered implementation rather than direct construction.
func (d *Descriptor) isInterface() bool {
	return d.Type.Kind() == reflect.Interface
}
