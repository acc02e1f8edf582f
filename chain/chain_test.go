package chain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDiscrimination(t *testing.T) {
	require := require.New(t)

	d, err := ParseDiscrimination("production")
	require.NoError(err)
	require.Equal(Production, d)

	d, err = ParseDiscrimination("test")
	require.NoError(err)
	require.Equal(Test, d)

	_, err = ParseDiscrimination("mainnet")
	require.ErrorIs(err, ErrInvalidEncoding)

	require.Equal("production", Production.String())
	require.Equal("test", Test.String())
}

func TestValueAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Value(10).Add(20)
	require.NoError(err)
	require.Equal(Value(30), sum)

	_, err = Value(math.MaxUint64).Add(1)
	require.ErrorIs(err, ErrOutOfRange)

	sum, err = Value(math.MaxUint64 - 1).Add(1)
	require.NoError(err)
	require.Equal(Value(math.MaxUint64), sum)
}

func TestParseValue(t *testing.T) {
	require := require.New(t)

	v, err := ParseValue("10000")
	require.NoError(err)
	require.Equal(Value(10000), v)

	for _, in := range []string{"", "-1", "1.5", "x"} {
		_, err := ParseValue(in)
		require.ErrorIs(err, ErrInvalidEncoding, in)
	}
}

func TestTimestamp(t *testing.T) {
	require := require.New(t)

	at := time.Date(2019, 6, 10, 0, 0, 0, 0, time.UTC)
	ts := TimestampOf(at)
	require.Equal(at, ts.Time())
	require.Equal(uint64(at.Unix()), ts.Unix())
}
