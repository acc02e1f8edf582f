package addr

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
)

// ErrMalformedLegacy reports a legacy address that does not decode.
var ErrMalformedLegacy = errors.New("malformed legacy address")

// Legacy addresses are base58-wrapped CBOR from the predecessor chain. The
// first byte of any such payload opens a two-element CBOR array.
const legacyArrayTag = 0x82

// minLegacyLen is a lower bound on the decoded payload; anything shorter
// cannot hold the array tag plus an address root and checksum.
const minLegacyLen = 8

// LegacyAddress is an address from the predecessor encoding scheme. It has
// no embedded discrimination bit and its inner structure is opaque to the
// compiler beyond decodability.
type LegacyAddress struct {
	Raw []byte
}

// ResolveLegacy decodes a base58 legacy address. It verifies decodability
// and the outer structural tag only; the ledger validates the contents once
// the chain is live. Legacy addresses are exempt from discrimination checks.
func ResolveLegacy(text string) (LegacyAddress, error) {
	if text == "" {
		return LegacyAddress{}, fmt.Errorf("empty legacy address: %w", ErrMalformedLegacy)
	}
	raw := base58.Decode(text)
	if len(raw) == 0 || base58.Encode(raw) != text {
		return LegacyAddress{}, fmt.Errorf("legacy address %q is not base58: %w", text, ErrMalformedLegacy)
	}
	if len(raw) < minLegacyLen || raw[0] != legacyArrayTag {
		return LegacyAddress{}, fmt.Errorf("legacy address %q has no address envelope: %w", text, ErrMalformedLegacy)
	}
	return LegacyAddress{Raw: common.CopyBytes(raw)}, nil
}

// LegacyFromBytes wraps a decoded legacy payload, checking the outer
// structural tag.
func LegacyFromBytes(raw []byte) (LegacyAddress, error) {
	if len(raw) < minLegacyLen || raw[0] != legacyArrayTag {
		return LegacyAddress{}, fmt.Errorf("legacy address payload of %d bytes has no address envelope: %w", len(raw), ErrMalformedLegacy)
	}
	return LegacyAddress{Raw: common.CopyBytes(raw)}, nil
}

// String renders the base58 form.
func (a LegacyAddress) String() string {
	return base58.Encode(a.Raw)
}

// Equal reports whether two legacy addresses carry identical bytes.
func (a LegacyAddress) Equal(other LegacyAddress) bool {
	return bytes.Equal(a.Raw, other.Raw)
}
