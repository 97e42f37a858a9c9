package aop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-spring/framework/aop"
)

type exemptCalculator struct {
	basicCalculator
}

func (*exemptCalculator) InterceptionExempt() {}

func TestInterceptionProcessor_WrapsEligibleComponents(t *testing.T) {
	p := aop.NewInterceptionProcessor(newCalculatorRegistry())

	target := &basicCalculator{}
	out, err := p.Process(target, "calculator")
	require.NoError(t, err)

	require.NotSame(t, target, out)
	assert.Same(t, target, aop.Unwrap(out))
	assert.Equal(t, 3, out.(calculator).Add(1, 2))
}

func TestInterceptionProcessor_PassesThroughUnmatchedComponents(t *testing.T) {
	p := aop.NewInterceptionProcessor(newCalculatorRegistry())

	out, err := p.Process("plain value", "value")
	require.NoError(t, err)
	assert.Equal(t, "plain value", out)

	out, err = p.Process(nil, "nothing")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestInterceptionProcessor_SkipsExemptComponents(t *testing.T) {
	p := aop.NewInterceptionProcessor(newCalculatorRegistry())

	target := &exemptCalculator{}
	out, err := p.Process(target, "calculator")
	require.NoError(t, err)
	assert.Same(t, target, out)
}

func TestInterceptionProcessor_SkipsExcludedComponents(t *testing.T) {
	p := aop.NewInterceptionProcessor(newCalculatorRegistry())
	p.Exclude(func(name string, _ any) bool { return name == "infrastructure" })

	target := &basicCalculator{}
	out, err := p.Process(target, "infrastructure")
	require.NoError(t, err)
	assert.Same(t, target, out)

	out, err = p.Process(target, "service")
	require.NoError(t, err)
	assert.NotSame(t, target, out)
}

func TestInterceptionProcessor_DoesNotDoubleWrap(t *testing.T) {
	p := aop.NewInterceptionProcessor(newCalculatorRegistry())

	once, err := p.Process(&basicCalculator{}, "calculator")
	require.NoError(t, err)

	twice, err := p.Process(once, "calculator")
	require.NoError(t, err)
	assert.Same(t, once, twice)
}

func TestInterceptionProcessor_LaterInterceptorsApplyToNewProxies(t *testing.T) {
	var record []string
	p := aop.NewInterceptionProcessor(newCalculatorRegistry(),
		&recordingInterceptor{label: "base", record: &record})

	first, err := p.Process(&basicCalculator{}, "first")
	require.NoError(t, err)

	p.AddInterceptor(&recordingInterceptor{label: "tx", record: &record})
	second, err := p.Process(&basicCalculator{}, "second")
	require.NoError(t, err)

	record = nil
	first.(calculator).Add(1, 1)
	assert.Equal(t, []string{"base:before:Add", "base:after:Add"}, record)

	record = nil
	second.(calculator).Add(1, 1)
	assert.Equal(t, []string{"base:before:Add", "tx:before:Add", "tx:after:Add", "base:after:Add"}, record)
}
