package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-spring/framework/container"
)

// ErrUnknownType — a component document names a type the registry has no
// binding for.
var ErrUnknownType = errors.New("loader: unknown component type")

// ── TypeRegistry ──────────────────────────────────────────────────────────────

// TypeRegistry maps declarative type names onto Go types and their
// constructor candidates. Java resolves "com.example.UserService" with
// Class.forName at parse time; Go links types statically, so the names a
// definitions file may use are registered up front.
type TypeRegistry struct {
	mu      sync.RWMutex
	entries map[string]typeEntry
}

type typeEntry struct {
	typ   reflect.Type
	ctors []any
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{entries: make(map[string]typeEntry)}
}

// RegisterType binds a declarative name to the type T and its constructor
// candidates (tried in the order given when the descriptor declares
// constructor arguments).
//
//	loader.RegisterType[UserServiceImpl](types, "UserServiceImpl", NewUserServiceImpl)
func RegisterType[T any](r *TypeRegistry, name string, ctors ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = typeEntry{
		typ:   reflect.TypeOf((*T)(nil)).Elem(),
		ctors: ctors,
	}
}

func (r *TypeRegistry) lookup(name string) (typeEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// ── Document shape ────────────────────────────────────────────────────────────

// Document is the top-level YAML shape:
//
//	components:
//	  - name: userService
//	    type: UserServiceImpl
//	    scope: singleton
//	    constructorArgs:
//	      - ref: userStore
//	      - value: "3"
//	    properties:
//	      - name: dataSource
//	        ref: dataSource
type Document struct {
	Components []ComponentDoc `yaml:"components" validate:"required,dive"`
}

// ComponentDoc is one declarative component entry.
type ComponentDoc struct {
	Name            string     `yaml:"name" validate:"required"`
	Type            string     `yaml:"type" validate:"required"`
	Scope           string     `yaml:"scope" validate:"omitempty,oneof=singleton transient prototype"`
	Implementor     string     `yaml:"implementor"`
	ConstructorArgs []ValueDoc `yaml:"constructorArgs" validate:"omitempty,dive"`
	Properties      []PropDoc  `yaml:"properties" validate:"omitempty,dive"`
}

// ValueDoc holds exactly one of a literal value or a component reference.
type ValueDoc struct {
	Value *string `yaml:"value"`
	Ref   string  `yaml:"ref"`
}

// PropDoc is a named ValueDoc.
type PropDoc struct {
	Name  string  `yaml:"name" validate:"required"`
	Value *string `yaml:"value"`
	Ref   string  `yaml:"ref"`
}

// ── Reader ────────────────────────────────────────────────────────────────────

// Reader parses component definition documents and registers the resulting
// descriptors — the XmlBeanDefinitionReader of this design, reading YAML.
type Reader struct {
	container *container.Container
	types     *TypeRegistry
	validate  *validator.Validate
}

// NewReader builds a reader registering into c, resolving type names
// against types.
func NewReader(c *container.Container, types *TypeRegistry) *Reader {
	return &Reader{
		container: c,
		types:     types,
		validate:  validator.New(),
	}
}

// LoadFile reads and registers every component in the named YAML file.
func (r *Reader) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()
	if err := r.Load(f); err != nil {
		return fmt.Errorf("loader: %s: %w", path, err)
	}
	return nil
}

// Load parses one document from src and registers its components in
// declaration order.
func (r *Reader) Load(src io.Reader) error {
	var doc Document
	if err := yaml.NewDecoder(src).Decode(&doc); err != nil {
		return fmt.Errorf("parsing definitions: %w", err)
	}
	if err := r.validate.Struct(doc); err != nil {
		return fmt.Errorf("invalid definitions: %w", err)
	}

	for _, comp := range doc.Components {
		d, err := r.descriptor(comp)
		if err != nil {
			return err
		}
		if err := r.container.Register(comp.Name, d); err != nil {
			return err
		}
	}
	return nil
}

// descriptor converts one document entry into a container.Descriptor.
func (r *Reader) descriptor(comp ComponentDoc) (*container.Descriptor, error) {
	entry, ok := r.types.lookup(comp.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q (component %q)", ErrUnknownType, comp.Type, comp.Name)
	}

	scope, err := container.ParseScope(comp.Scope)
	if err != nil {
		return nil, fmt.Errorf("component %q: %w", comp.Name, err)
	}

	d := &container.Descriptor{
		Type:         entry.typ,
		Scope:        scope,
		Implementor:  comp.Implementor,
		Constructors: entry.ctors,
	}

	for i, arg := range comp.ConstructorArgs {
		v, err := value(arg.Value, arg.Ref)
		if err != nil {
			return nil, fmt.Errorf("component %q: constructor argument %d: %w", comp.Name, i, err)
		}
		d.Args = append(d.Args, v)
	}
	for _, prop := range comp.Properties {
		v, err := value(prop.Value, prop.Ref)
		if err != nil {
			return nil, fmt.Errorf("component %q: property %q: %w", comp.Name, prop.Name, err)
		}
		d.Properties = append(d.Properties, container.Property{Name: prop.Name, Value: v})
	}
	return d, nil
}

// value enforces the literal-XOR-reference rule and returns the descriptor
// value for one entry.
func value(literal *string, ref string) (any, error) {
	switch {
	case literal != nil && ref != "":
		return nil, errors.New("entry declares both value and ref")
	case literal != nil:
		return *literal, nil
	case ref != "":
		return container.Ref{Name: ref}, nil
	default:
		return nil, errors.New("entry must declare value or ref")
	}
}
