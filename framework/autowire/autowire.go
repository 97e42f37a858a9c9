// Package autowire provides declarative-marker field injection as a
// container post-processor: struct fields tagged `autowire` receive
// container components after construction.
//
//	type OrderHandler struct {
//	    // Spring: @Autowired private UserService userService;
//	    UserService UserService `autowire:"userService"`
//	    Audit       AuditLog    `autowire:",optional"`
//	}
//
// Injection matches by component name, not by type: the tag names the
// component explicitly, and an empty name falls back to the field's name
// with its first letter lowered. A missing component is an error unless the
// tag carries the optional flag. Only exported fields can be injected — Go
// reflection cannot assign unexported fields — so a tagged unexported field
// is reported rather than skipped.
package autowire

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// Tag is the struct-tag key marking injectable fields.
const Tag = "autowire"

// ErrInjection wraps every field-injection failure with the component and
// field it happened on.
var ErrInjection = errors.New("autowire: injection failed")

// Resolver is the container capability the processor needs — satisfied by
// *container.Container.
type Resolver interface {
	Resolve(name string) (any, error)
}

// ── Processor ─────────────────────────────────────────────────────────────────

// Processor scans freshly constructed instances for tagged fields and
// injects the named components. It never replaces the instance.
type Processor struct {
	resolver Resolver
}

// NewProcessor builds the post-processor against a resolver.
func NewProcessor(resolver Resolver) *Processor {
	return &Processor{resolver: resolver}
}

// Process implements the container's PostProcessor contract.
func (p *Processor) Process(instance any, name string) (any, error) {
	if instance == nil {
		return instance, nil
	}

	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return instance, nil
	}

	elem := rv.Elem()
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, tagged := field.Tag.Lookup(Tag)
		if !tagged {
			continue
		}

		depName, optional := parseTag(tag)
		if depName == "" {
			depName = loweredName(field.Name)
		}

		if !field.IsExported() {
			return nil, fmt.Errorf("%w: component %q field %s is unexported", ErrInjection, name, field.Name)
		}

		dep, err := p.resolver.Resolve(depName)
		if err != nil {
			if optional {
				continue
			}
			return nil, fmt.Errorf("%w: component %q field %s: %w", ErrInjection, name, field.Name, err)
		}

		dv := reflect.ValueOf(dep)
		if !dv.Type().AssignableTo(field.Type) {
			return nil, fmt.Errorf("%w: component %q field %s: %q resolved to %T, want %s",
				ErrInjection, name, field.Name, depName, dep, field.Type)
		}
		elem.Field(i).Set(dv)
	}
	return instance, nil
}

// parseTag splits `autowire:"name,optional"` into its parts.
func parseTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	name = strings.TrimSpace(parts[0])
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "optional" {
			optional = true
		}
	}
	return name, optional
}

// loweredName maps a field name to the conventional component name:
// UserService → userService.
func loweredName(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
