package aop_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/km-arc/go-spring/framework/aop"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type calculator interface {
	Add(a, b int) int
	Divide(a, b int) (int, error)
}

type basicCalculator struct {
	calls int
}

func (c *basicCalculator) Add(a, b int) int { c.calls++; return a + b }

func (c *basicCalculator) Divide(a, b int) (int, error) {
	c.calls++
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

type calculatorProxy struct {
	*aop.Dispatcher
}

func (p *calculatorProxy) Add(a, b int) int {
	out, err := p.Call("Add", a, b)
	if err != nil {
		return 0
	}
	return out[0].(int)
}

func (p *calculatorProxy) Divide(a, b int) (int, error) {
	out, err := p.Call("Divide", a, b)
	if err != nil {
		return 0, err
	}
	return out[0].(int), nil
}

func newCalculatorRegistry() *aop.CapabilityRegistry {
	reg := aop.NewCapabilityRegistry()
	aop.RegisterCapability[calculator](reg, func(d *aop.Dispatcher) calculator {
		return &calculatorProxy{d}
	})
	return reg
}

// recordingInterceptor notes its position before and after proceeding.
type recordingInterceptor struct {
	label  string
	record *[]string
}

func (r *recordingInterceptor) Invoke(inv *aop.Invocation) ([]reflect.Value, error) {
	*r.record = append(*r.record, r.label+":before:"+inv.MethodName())
	out, err := inv.Proceed()
	*r.record = append(*r.record, r.label+":after:"+inv.MethodName())
	return out, err
}

// ── proxy construction ────────────────────────────────────────────────────────

func TestProxy_NoCapabilityRegistered(t *testing.T) {
	reg := aop.NewCapabilityRegistry()

	_, err := aop.NewProxy(&basicCalculator{}, reg)
	require.ErrorIs(t, err, aop.ErrNoCapabilitiesToProxy)
}

func TestProxy_NilTarget(t *testing.T) {
	_, err := aop.NewProxy(nil, newCalculatorRegistry())
	require.Error(t, err)
}

func TestRegisterCapability_PanicsOnNonInterface(t *testing.T) {
	reg := aop.NewCapabilityRegistry()
	assert.Panics(t, func() {
		aop.RegisterCapability[int](reg, func(d *aop.Dispatcher) int { return 0 })
	})
}

func TestProxy_SatisfiesInterface(t *testing.T) {
	target := &basicCalculator{}
	proxy, err := aop.NewProxy(target, newCalculatorRegistry())
	require.NoError(t, err)

	calc, ok := proxy.(calculator)
	require.True(t, ok)
	assert.Equal(t, 5, calc.Add(2, 3))
	assert.Equal(t, 1, target.calls)
}

func TestProxyable(t *testing.T) {
	reg := newCalculatorRegistry()
	assert.True(t, reg.Proxyable(&basicCalculator{}))
	assert.False(t, reg.Proxyable("a string"))
	assert.False(t, reg.Proxyable(nil))
}

// ── interception ──────────────────────────────────────────────────────────────

func TestProxy_InterceptorsRunInOrderAroundTheCall(t *testing.T) {
	var record []string

	proxy, err := aop.NewProxy(&basicCalculator{}, newCalculatorRegistry(),
		&recordingInterceptor{label: "outer", record: &record},
		&recordingInterceptor{label: "inner", record: &record},
	)
	require.NoError(t, err)

	got := proxy.(calculator).Add(1, 2)
	assert.Equal(t, 3, got)
	assert.Equal(t, []string{
		"outer:before:Add",
		"inner:before:Add",
		"inner:after:Add",
		"outer:after:Add",
	}, record)
}

func TestProxy_InterceptorSeesArgsAndTarget(t *testing.T) {
	target := &basicCalculator{}
	var seenArgs []any
	var seenTarget any

	spy := aop.InterceptorFunc(func(inv *aop.Invocation) ([]reflect.Value, error) {
		seenArgs = inv.Args()
		seenTarget = inv.Target()
		return inv.Proceed()
	})

	proxy, err := aop.NewProxy(target, newCalculatorRegistry(), spy)
	require.NoError(t, err)
	proxy.(calculator).Add(4, 5)

	assert.Equal(t, []any{4, 5}, seenArgs)
	assert.Same(t, target, seenTarget)
}

func TestProxy_ErrorResultSurfacesThroughChain(t *testing.T) {
	var sawError error
	spy := aop.InterceptorFunc(func(inv *aop.Invocation) ([]reflect.Value, error) {
		out, err := inv.Proceed()
		sawError = err
		return out, err
	})

	proxy, err := aop.NewProxy(&basicCalculator{}, newCalculatorRegistry(), spy)
	require.NoError(t, err)

	_, err = proxy.(calculator).Divide(1, 0)
	require.Error(t, err)
	assert.EqualError(t, err, "division by zero")
	assert.Equal(t, err, sawError)
}

func TestProxy_InterceptorMaySuppressTheCall(t *testing.T) {
	target := &basicCalculator{}
	suppress := aop.InterceptorFunc(func(inv *aop.Invocation) ([]reflect.Value, error) {
		return []reflect.Value{reflect.ValueOf(99)}, nil
	})

	proxy, err := aop.NewProxy(target, newCalculatorRegistry(), suppress)
	require.NoError(t, err)

	assert.Equal(t, 99, proxy.(calculator).Add(1, 2))
	assert.Zero(t, target.calls)
}

func TestProxy_SuppressWithZeroResults(t *testing.T) {
	target := &basicCalculator{}
	suppress := aop.InterceptorFunc(func(inv *aop.Invocation) ([]reflect.Value, error) {
		return inv.Zero(), nil
	})

	proxy, err := aop.NewProxy(target, newCalculatorRegistry(), suppress)
	require.NoError(t, err)

	got, err := proxy.(calculator).Divide(10, 2)
	require.NoError(t, err)
	assert.Zero(t, got)
	assert.Zero(t, target.calls)
}

func TestProxy_LoggingInterceptorPassesResultsThrough(t *testing.T) {
	logging := aop.NewLoggingInterceptor(zaptest.NewLogger(t))

	proxy, err := aop.NewProxy(&basicCalculator{}, newCalculatorRegistry(), logging)
	require.NoError(t, err)

	got, err := proxy.(calculator).Divide(10, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

// ── dispatcher & unwrap ───────────────────────────────────────────────────────

func TestDispatcher_UnknownMethod(t *testing.T) {
	proxy, err := aop.NewProxy(&basicCalculator{}, newCalculatorRegistry())
	require.NoError(t, err)

	_, err = proxy.(*calculatorProxy).Call("Subtract", 1, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Subtract")
}

func TestDispatcher_ArgumentMismatch(t *testing.T) {
	proxy, err := aop.NewProxy(&basicCalculator{}, newCalculatorRegistry())
	require.NoError(t, err)

	_, err = proxy.(*calculatorProxy).Call("Add", 1)
	require.Error(t, err)

	_, err = proxy.(*calculatorProxy).Call("Add", "one", "two")
	require.Error(t, err)
}

func TestUnwrap(t *testing.T) {
	target := &basicCalculator{}
	proxy, err := aop.NewProxy(target, newCalculatorRegistry())
	require.NoError(t, err)

	assert.Same(t, target, aop.Unwrap(proxy))
	assert.Same(t, target, aop.Unwrap(target)) // non-proxy passes through
}

func TestProxyFactory_ChainSnapshotIsolatedPerProxy(t *testing.T) {
	var record []string
	f := aop.NewProxyFactory(&basicCalculator{}, newCalculatorRegistry())
	f.AddInterceptor(&recordingInterceptor{label: "a", record: &record})

	first, err := f.Proxy()
	require.NoError(t, err)

	f.AddInterceptor(&recordingInterceptor{label: "b", record: &record})
	second, err := f.Proxy()
	require.NoError(t, err)

	record = nil
	first.(calculator).Add(1, 1)
	assert.Equal(t, []string{"a:before:Add", "a:after:Add"}, record)

	record = nil
	second.(calculator).Add(1, 1)
	assert.Equal(t, []string{"a:before:Add", "b:before:Add", "b:after:Add", "a:after:Add"}, record)
}
