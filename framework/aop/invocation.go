package aop

import (
	"fmt"
	"reflect"
)

// ── Invocation ────────────────────────────────────────────────────────────────

// Invocation reifies one intercepted method call: the target instance, the
// method identity and the argument list — mirrors Spring's MethodInvocation.
//
// Interceptors receive the invocation and decide whether and when to
// Proceed. Each Proceed call advances the chain by one interceptor; the
// last Proceed executes the target method itself.
type Invocation struct {
	target reflect.Value
	method reflect.Method
	args   []reflect.Value
	chain  []Interceptor
	next   int
}

func newInvocation(target reflect.Value, method reflect.Method, args []reflect.Value, chain []Interceptor) *Invocation {
	return &Invocation{target: target, method: method, args: args, chain: chain}
}

// Method returns the identity of the intercepted method.
func (inv *Invocation) Method() reflect.Method { return inv.method }

// MethodName is shorthand for the intercepted method's name.
func (inv *Invocation) MethodName() string { return inv.method.Name }

// Target returns the underlying instance the call is headed for.
func (inv *Invocation) Target() any { return inv.target.Interface() }

// Args returns the call's arguments as plain values.
func (inv *Invocation) Args() []any {
	out := make([]any, len(inv.args))
	for i, a := range inv.args {
		out[i] = a.Interface()
	}
	return out
}

// Proceed runs the rest of the interceptor chain and finally the target
// method. The returned values are the method's results, in order and
// including any error slot; when the method's trailing return is a non-nil
// error it is also surfaced as the second return value, so interceptors can
// branch on failure without inspecting result shapes.
//
// An interceptor that never calls Proceed suppresses the target method; it
// must then fabricate results matching the method's signature (Zero gives
// the all-zero set).
func (inv *Invocation) Proceed() ([]reflect.Value, error) {
	if inv.next < len(inv.chain) {
		interceptor := inv.chain[inv.next]
		inv.next++
		return interceptor.Invoke(inv)
	}

	out := inv.target.Method(inv.method.Index).Call(inv.args)

	mt := inv.method.Type
	last := mt.NumOut() - 1
	if last >= 0 && mt.Out(last) == errorType && !out[last].IsNil() {
		return out, out[last].Interface().(error)
	}
	return out, nil
}

// Zero fabricates zero values for every result of the intercepted method,
// for interceptors that suppress the call without proceeding:
//
//	return inv.Zero(), nil
func (inv *Invocation) Zero() []reflect.Value {
	return zeroResults(inv.method)
}

// splitError strips a trailing error result according to the method
// signature, returning the remaining values as plain Go values.
func splitError(method reflect.Method, out []reflect.Value) []any {
	mt := method.Type
	n := mt.NumOut()
	if n > 0 && mt.Out(n-1) == errorType {
		out = out[:n-1]
	}
	results := make([]any, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// zeroResults fabricates zero values for every non-error result of method,
// for interceptors that suppress the call entirely.
func zeroResults(method reflect.Method) []reflect.Value {
	mt := method.Type
	out := make([]reflect.Value, mt.NumOut())
	for i := range out {
		out[i] = reflect.Zero(mt.Out(i))
	}
	return out
}

// convertArgs adapts caller-supplied arguments to a method's parameter
// types; nil maps to the parameter's zero value.
func convertArgs(method reflect.Method, args []any) ([]reflect.Value, error) {
	mt := method.Type
	want := mt.NumIn() - 1 // first In is the receiver
	if len(args) != want {
		return nil, fmt.Errorf("aop: %s takes %d arguments, got %d", method.Name, want, len(args))
	}
	in := make([]reflect.Value, want)
	for i, arg := range args {
		pt := mt.In(i + 1)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			return nil, fmt.Errorf("aop: %s argument %d: have %s, want %s",
				method.Name, i, av.Type(), pt)
		}
		in[i] = av
	}
	return in, nil
}
