package container

import (
	"fmt"
	"reflect"
	"strconv"
)

// coerce adapts a resolved value to a target type, returning the value to
// assign and whether the pair is compatible. The rules mirror declarative
// configuration sources where every literal arrives as a string:
//
//   - nil is accepted by any nil-able target
//   - directly assignable values pass through unchanged
//   - string literals parse into bool, the int/uint kinds and the float
//     kinds; anything else passes through only if assignable
//
// Parse failures on a string literal make the pair incompatible rather than
// silently assigning the zero value.
func coerce(value any, target reflect.Type) (reflect.Value, bool) {
	if value == nil {
		switch target.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(target), true
		default:
			return reflect.Value{}, false
		}
	}

	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(target) {
		return v, true
	}

	s, isString := value.(string)
	if !isString {
		return reflect.Value{}, false
	}

	out := reflect.New(target).Elem()
	switch target.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(s, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, target.Bits())
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
	case reflect.String:
		out.SetString(s)
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// typeNames renders argument types for constructor-mismatch diagnostics.
func typeNames(args []any) string {
	names := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			names[i] = "nil"
			continue
		}
		names[i] = reflect.TypeOf(a).String()
	}
	return fmt.Sprintf("%v", names)
}
