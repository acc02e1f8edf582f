// Package block0 assembles, serializes and compiles the genesis block of a
// chain: the fully validated initial state every node must agree on byte for
// byte before the first real block is produced.
package block0

import (
	"errors"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/addr"
	"github.com/sjmackenzie/jormungandr/rules"
)

var (
	ErrUnsupportedVersion        = errors.New("unsupported block zero format version")
	ErrTruncated                 = errors.New("truncated or corrupt block zero payload")
	ErrAccountCreationDisallowed = errors.New("account address funded while account creation is disallowed")
	ErrSupplyOverflow            = errors.New("total initial supply overflows")
)

// Fund is a single initial allocation to a current-scheme address.
type Fund struct {
	Address addr.Address
	Value   chain.Value
}

// LegacyFund is a single initial allocation to a legacy address.
type LegacyFund struct {
	Address addr.LegacyAddress
	Value   chain.Value
}

// InitialState is the complete content of block zero. Slice order is
// significant everywhere: it is preserved through assembly and
// serialization so that equal configurations always produce equal bytes.
type InitialState struct {
	Settings    rules.Settings
	Funds       []Fund
	LegacyFunds []LegacyFund
	Certs       []chain.Certificate
}

// TotalSupply sums every initial allocation.
func (s *InitialState) TotalSupply() (chain.Value, error) {
	total := chain.Value(0)
	var err error
	for _, f := range s.Funds {
		total, err = total.Add(f.Value)
		if err != nil {
			return 0, ErrSupplyOverflow
		}
	}
	for _, f := range s.LegacyFunds {
		total, err = total.Add(f.Value)
		if err != nil {
			return 0, ErrSupplyOverflow
		}
	}
	return total, nil
}
