package aop

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTarget struct{}

func (echoTarget) Echo(s string) (string, error) { return s, nil }
func (echoTarget) Fire()                         {}

func TestZeroResults(t *testing.T) {
	method, ok := reflect.TypeOf(echoTarget{}).MethodByName("Echo")
	require.True(t, ok)

	out := zeroResults(method)
	require.Len(t, out, 2)
	assert.Equal(t, "", out[0].Interface())
	assert.True(t, out[1].IsNil())
}

func TestSplitError_NoResults(t *testing.T) {
	method, ok := reflect.TypeOf(echoTarget{}).MethodByName("Fire")
	require.True(t, ok)

	assert.Empty(t, splitError(method, nil))
}

func TestProceed_EmptyChainCallsTarget(t *testing.T) {
	target := reflect.ValueOf(echoTarget{})
	method, ok := target.Type().MethodByName("Echo")
	require.True(t, ok)

	inv := newInvocation(target, method, []reflect.Value{reflect.ValueOf("hi")}, nil)
	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, "hi", out[0].Interface())
}

func TestProceed_SurfacesTrailingError(t *testing.T) {
	boom := errors.New("boom")
	target := reflect.ValueOf(failingTarget{err: boom})
	method, ok := target.Type().MethodByName("Do")
	require.True(t, ok)

	inv := newInvocation(target, method, nil, nil)
	out, err := inv.Proceed()
	require.ErrorIs(t, err, boom)
	require.Len(t, out, 1)
	assert.Equal(t, boom, out[0].Interface())
}

type failingTarget struct{ err error }

func (f failingTarget) Do() error { return f.err }
