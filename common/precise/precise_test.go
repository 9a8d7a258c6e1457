package precise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArithmetic(t *testing.T) {
	t.Parallel()
	sum, err := StringAdd("0.1", "0.2")
	require.NoError(t, err)
	assert.Equal(t, "0.3", sum)

	diff, err := StringSub("1", "0.25")
	require.NoError(t, err)
	assert.Equal(t, "0.75", diff)

	prod, err := StringMul("22031", "0.0001")
	require.NoError(t, err)
	assert.Equal(t, "2.2031", prod)

	quot, err := StringDiv("1", "8")
	require.NoError(t, err)
	assert.Equal(t, "0.125", quot)

	_, err = StringDiv("1", "0")
	assert.Error(t, err)

	_, err = StringAdd("bogus", "1")
	assert.Error(t, err)
}

func TestEmptyPropagation(t *testing.T) {
	t.Parallel()
	for _, fn := range []func(a, b string) (string, error){StringAdd, StringSub, StringMul, StringDiv} {
		out, err := fn("", "5")
		require.NoError(t, err)
		assert.Empty(t, out, "missing operand must not coerce to zero")
		out, err = fn("5", "")
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestStringMin(t *testing.T) {
	t.Parallel()
	m, err := StringMin("0.002", "0.0015")
	require.NoError(t, err)
	assert.Equal(t, "0.0015", m)

	m, err = StringMin("", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "0.5", m)

	m, err = StringMin("", "")
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestParsePrecision(t *testing.T) {
	t.Parallel()
	for places, exp := range map[string]string{
		"4":  "0.0001",
		"1":  "0.1",
		"0":  "1",
		"-2": "100",
		"":   "",
	} {
		got, err := ParsePrecision(places)
		require.NoError(t, err)
		assert.Equal(t, exp, got, "places %q", places)
	}

	_, err := ParsePrecision("1.5")
	assert.Error(t, err)
}

func TestRoundToIncrement(t *testing.T) {
	t.Parallel()
	got, err := RoundToIncrement("1.23456", "0.001", Round)
	require.NoError(t, err)
	assert.Equal(t, "1.235", got)

	got, err = RoundToIncrement("1.23456", "0.001", Truncate)
	require.NoError(t, err)
	assert.Equal(t, "1.234", got)

	got, err = RoundToIncrement("103", "5", Round)
	require.NoError(t, err)
	assert.Equal(t, "105", got)

	_, err = RoundToIncrement("1", "0", Round)
	assert.ErrorIs(t, err, errInvalidIncrement)
}

func TestRoundToIncrementIdempotent(t *testing.T) {
	t.Parallel()
	once, err := RoundToIncrement("0.123456789", "0.0001", Round)
	require.NoError(t, err)
	twice, err := RoundToIncrement(once, "0.0001", Round)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
