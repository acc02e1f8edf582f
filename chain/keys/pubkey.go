// Package keys handles the textual encoding of the public keys that appear
// in a genesis configuration. Keys are bech32 strings whose human-readable
// prefix names the key type; only extended Ed25519 public keys are accepted.
// The codec is deliberately narrow so new key types can be added here without
// touching validation or assembly code.
package keys

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"

	"github.com/sjmackenzie/jormungandr/chain"
)

// PublicKeySize is the byte length of a decoded public key.
const PublicKeySize = 32

// PrefixExtendedPublicKey is the bech32 human-readable prefix for extended
// Ed25519 public keys. Any other prefix is rejected.
const PrefixExtendedPublicKey = "ed25519e_pk"

// PublicKey is a decoded extended Ed25519 public key. The zero value is not
// a valid key.
type PublicKey struct {
	raw [PublicKeySize]byte
}

// Parse decodes a bech32 public key string, enforcing the checksum, the
// expected prefix and the fixed post-decode length.
func Parse(text string) (PublicKey, error) {
	hrp, data, err := bech32.DecodeNoLimit(text)
	if err != nil {
		return PublicKey{}, fmt.Errorf("public key %q: %v: %w", text, err, chain.ErrInvalidEncoding)
	}
	if hrp != PrefixExtendedPublicKey {
		return PublicKey{}, fmt.Errorf("public key prefix %q (want %q): %w", hrp, PrefixExtendedPublicKey, chain.ErrInvalidEncoding)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return PublicKey{}, fmt.Errorf("public key %q: %v: %w", text, err, chain.ErrInvalidEncoding)
	}
	return FromBytes(raw)
}

// FromBytes builds a PublicKey from its raw 32 bytes.
func FromBytes(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, fmt.Errorf("public key length %d (want %d): %w", len(b), PublicKeySize, chain.ErrInvalidEncoding)
	}
	var pk PublicKey
	copy(pk.raw[:], b)
	return pk, nil
}

// Bytes returns a copy of the raw key bytes.
func (pk PublicKey) Bytes() []byte {
	return common.CopyBytes(pk.raw[:])
}

// String returns the canonical bech32 form of the key.
func (pk PublicKey) String() string {
	data, err := bech32.ConvertBits(pk.raw[:], 8, 5, true)
	if err != nil {
		panic(err) // cannot fail for 32 input bytes
	}
	s, err := bech32.Encode(PrefixExtendedPublicKey, data)
	if err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether two keys carry the same bytes.
func (pk PublicKey) Equal(other PublicKey) bool {
	return bytes.Equal(pk.raw[:], other.raw[:])
}

// MarshalText implements encoding.TextMarshaler.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (pk *PublicKey) UnmarshalText(input []byte) error {
	res, err := Parse(string(input))
	if err != nil {
		return err
	}
	*pk = res
	return nil
}
