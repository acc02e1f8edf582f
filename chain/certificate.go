package chain

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PrefixCertificate is the bech32 human-readable prefix of certificate blobs.
const PrefixCertificate = "cert"

// Certificate is a pre-encoded certificate carried into the initial ledger
// state. The compiler checks decodability only; the certificate contents are
// validated by the ledger once the chain is active.
type Certificate []byte

// ParseCertificate decodes the textual form of a certificate.
func ParseCertificate(text string) (Certificate, error) {
	hrp, data, err := bech32.DecodeNoLimit(text)
	if err != nil {
		return nil, fmt.Errorf("certificate %q: %v: %w", text, err, ErrInvalidEncoding)
	}
	if hrp != PrefixCertificate {
		return nil, fmt.Errorf("certificate prefix %q (want %q): %w", hrp, PrefixCertificate, ErrInvalidEncoding)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("certificate %q: %v: %w", text, err, ErrInvalidEncoding)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty certificate: %w", ErrInvalidEncoding)
	}
	return Certificate(raw), nil
}

// String renders the canonical bech32 form.
func (c Certificate) String() string {
	data, err := bech32.ConvertBits(c, 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(PrefixCertificate, data)
	if err != nil {
		panic(err)
	}
	return s
}

// Hex renders the raw bytes as 0x-prefixed hex, for logs and summaries.
func (c Certificate) Hex() string {
	return hexutil.Encode(c)
}

// Equal reports whether two certificates carry identical bytes.
func (c Certificate) Equal(other Certificate) bool {
	return bytes.Equal(c, other)
}
