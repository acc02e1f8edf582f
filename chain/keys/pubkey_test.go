package keys

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"

	"github.com/sjmackenzie/jormungandr/chain"
)

func testKey(fill byte) PublicKey {
	b := make([]byte, PublicKeySize)
	for i := range b {
		b[i] = fill
	}
	pk, err := FromBytes(b)
	if err != nil {
		panic(err)
	}
	return pk
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	exp := testKey(0x42)
	got, err := Parse(exp.String())
	require.NoError(err)
	require.Equal(exp, got)
	require.True(exp.Equal(got))
}

func TestParseRejectsWrongPrefix(t *testing.T) {
	require := require.New(t)

	// Same payload, wrong human-readable prefix.
	data, err := bech32.ConvertBits(testKey(0x42).Bytes(), 8, 5, true)
	require.NoError(err)
	text, err := bech32.Encode("ed25519_sk", data)
	require.NoError(err)

	_, err = Parse(text)
	require.ErrorIs(err, chain.ErrInvalidEncoding)
}

func TestParseRejectsWrongLength(t *testing.T) {
	require := require.New(t)

	short := make([]byte, PublicKeySize-1)
	data, err := bech32.ConvertBits(short, 8, 5, true)
	require.NoError(err)
	text, err := bech32.Encode(PrefixExtendedPublicKey, data)
	require.NoError(err)

	_, err = Parse(text)
	require.ErrorIs(err, chain.ErrInvalidEncoding)
}

func TestParseRejectsBadChecksum(t *testing.T) {
	require := require.New(t)

	text := testKey(0x42).String()
	// Flip the final checksum character.
	last := text[len(text)-1]
	repl := byte('q')
	if last == repl {
		repl = 'p'
	}
	corrupted := text[:len(text)-1] + string(repl)

	_, err := Parse(corrupted)
	require.ErrorIs(err, chain.ErrInvalidEncoding)
}

func TestParseRejectsGarbage(t *testing.T) {
	require := require.New(t)

	for _, in := range []string{"", "ed25519e_pk", "not bech32 at all", "ed25519e_pk1"} {
		_, err := Parse(in)
		require.ErrorIs(err, chain.ErrInvalidEncoding, in)
	}
}

func TestFromBytes(t *testing.T) {
	require := require.New(t)

	_, err := FromBytes(nil)
	require.ErrorIs(err, chain.ErrInvalidEncoding)
	_, err = FromBytes(make([]byte, PublicKeySize+1))
	require.ErrorIs(err, chain.ErrInvalidEncoding)

	pk, err := FromBytes(make([]byte, PublicKeySize))
	require.NoError(err)
	require.Len(pk.Bytes(), PublicKeySize)
}

func TestTextMarshaling(t *testing.T) {
	require := require.New(t)

	exp := testKey(0x07)
	text, err := exp.MarshalText()
	require.NoError(err)

	var got PublicKey
	require.NoError(got.UnmarshalText(text))
	require.Equal(exp, got)

	require.Error(got.UnmarshalText([]byte("bogus")))
}
