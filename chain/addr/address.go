// Package addr resolves textual addresses against a declared network
// discrimination. Current-format addresses are bech32 strings whose first
// payload byte carries the address kind and an embedded discrimination bit.
// Legacy addresses predate the discrimination scheme and travel through a
// separate base58 code path.
package addr

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/keys"
)

// Address resolution errors.
var (
	// ErrDiscriminationMismatch reports an address whose embedded
	// discrimination bit disagrees with the declared network discrimination.
	ErrDiscriminationMismatch = errors.New("address discrimination mismatch")

	// ErrUnsupportedKind reports a structurally valid address of a kind the
	// compiler does not accept (multisig, or an unknown tag).
	ErrUnsupportedKind = errors.New("unsupported address kind")
)

// Kind identifies the address variant encoded in the kind byte.
type Kind uint8

const (
	// KindSingle is a UTxO-style address spending to one public key.
	KindSingle Kind = 0x3
	// KindGroup is a UTxO-style address with an additional delegation key.
	KindGroup Kind = 0x4
	// KindAccount is an account-style address over one public key.
	KindAccount Kind = 0x5

	// kindMultisig exists on chain but is not accepted by the compiler.
	kindMultisig Kind = 0x6

	// testDiscriminationBit is set on the kind byte of test-network addresses.
	testDiscriminationBit = 0x80
)

// Prefix is the human-readable prefix used when rendering an address.
// Decoding accepts any prefix: the address content, not its prefix, is
// self-describing.
const Prefix = "ca"

// IsAccount reports whether the kind is account-style.
func (k Kind) IsAccount() bool {
	return k == KindAccount
}

// String names the kind.
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindGroup:
		return "group"
	case KindAccount:
		return "account"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Address is a decoded current-format address. Two addresses are equal iff
// their kind, discrimination and key material match exactly; the struct is
// comparable so == gives that equality.
type Address struct {
	kind       Kind
	disc       chain.Discrimination
	spending   keys.PublicKey
	delegation keys.PublicKey // zero unless kind == KindGroup
}

// NewSingle builds a UTxO-style address over one spending key.
func NewSingle(spending keys.PublicKey, d chain.Discrimination) Address {
	return Address{kind: KindSingle, disc: d, spending: spending}
}

// NewGroup builds a UTxO-style address with a delegation key.
func NewGroup(spending, delegation keys.PublicKey, d chain.Discrimination) Address {
	return Address{kind: KindGroup, disc: d, spending: spending, delegation: delegation}
}

// NewAccount builds an account-style address.
func NewAccount(key keys.PublicKey, d chain.Discrimination) Address {
	return Address{kind: KindAccount, disc: d, spending: key}
}

// Kind returns the address variant.
func (a Address) Kind() Kind {
	return a.kind
}

// Discrimination returns the embedded network discrimination.
func (a Address) Discrimination() chain.Discrimination {
	return a.disc
}

// PublicKey returns the spending (or account) key.
func (a Address) PublicKey() keys.PublicKey {
	return a.spending
}

// DelegationKey returns the delegation key of a group address and whether
// one is present.
func (a Address) DelegationKey() (keys.PublicKey, bool) {
	if a.kind != KindGroup {
		return keys.PublicKey{}, false
	}
	return a.delegation, true
}

// Bytes returns the binary form: the kind byte (with the discrimination bit)
// followed by the key material.
func (a Address) Bytes() []byte {
	first := byte(a.kind)
	if a.disc == chain.Test {
		first |= testDiscriminationBit
	}
	out := make([]byte, 0, 1+2*keys.PublicKeySize)
	out = append(out, first)
	out = append(out, a.spending.Bytes()...)
	if a.kind == KindGroup {
		out = append(out, a.delegation.Bytes()...)
	}
	return out
}

// String renders the canonical bech32 form of the address.
func (a Address) String() string {
	data, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		panic(err)
	}
	s, err := bech32.Encode(Prefix, data)
	if err != nil {
		panic(err)
	}
	return s
}

// FromBytes decodes the binary form of an address.
func FromBytes(b []byte) (Address, error) {
	if len(b) == 0 {
		return Address{}, fmt.Errorf("empty address: %w", chain.ErrInvalidEncoding)
	}
	first := b[0]
	disc := chain.Production
	if first&testDiscriminationBit != 0 {
		disc = chain.Test
	}
	kind := Kind(first &^ testDiscriminationBit)
	payload := b[1:]

	switch kind {
	case KindSingle, KindAccount:
		key, err := keys.FromBytes(payload)
		if err != nil {
			return Address{}, fmt.Errorf("%s address: %w", kind, err)
		}
		return Address{kind: kind, disc: disc, spending: key}, nil

	case KindGroup:
		if len(payload) != 2*keys.PublicKeySize {
			return Address{}, fmt.Errorf("group address length %d: %w", len(b), chain.ErrInvalidEncoding)
		}
		spending, err := keys.FromBytes(payload[:keys.PublicKeySize])
		if err != nil {
			return Address{}, err
		}
		delegation, err := keys.FromBytes(payload[keys.PublicKeySize:])
		if err != nil {
			return Address{}, err
		}
		return Address{kind: kind, disc: disc, spending: spending, delegation: delegation}, nil

	case kindMultisig:
		return Address{}, fmt.Errorf("multisig addresses are not supported: %w", ErrUnsupportedKind)

	default:
		return Address{}, fmt.Errorf("address kind byte 0x%02x: %w", first, ErrUnsupportedKind)
	}
}

// Resolve decodes a textual address and checks its embedded discrimination
// against the declared one. It is a pure function of its inputs.
func Resolve(text string, declared chain.Discrimination) (Address, error) {
	_, data, err := bech32.DecodeNoLimit(text)
	if err != nil {
		return Address{}, fmt.Errorf("address %q: %v: %w", text, err, chain.ErrInvalidEncoding)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("address %q: %v: %w", text, err, chain.ErrInvalidEncoding)
	}
	a, err := FromBytes(raw)
	if err != nil {
		return Address{}, err
	}
	if a.disc != declared {
		return Address{}, fmt.Errorf("address %q is %s but the configuration declares %s: %w",
			text, a.disc, declared, ErrDiscriminationMismatch)
	}
	return a, nil
}
