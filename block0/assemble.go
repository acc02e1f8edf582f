package block0

import (
	"fmt"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/rules"
)

// Assemble combines validated settings with the initial allocations into the
// block zero state. The settings are assumed validated already; Assemble
// enforces the cross-cutting constraints that span settings and funds.
func Assemble(settings *rules.Settings, funds []Fund, legacy []LegacyFund, certs []chain.Certificate) (*InitialState, error) {
	if !settings.AllowAccountCreation {
		for i, f := range funds {
			if f.Address.Kind().IsAccount() {
				return nil, fmt.Errorf("initial_funds[%d]: %w", i, ErrAccountCreationDisallowed)
			}
		}
	}

	state := &InitialState{
		Settings:    *settings,
		Funds:       funds,
		LegacyFunds: legacy,
		Certs:       certs,
	}
	if _, err := state.TotalSupply(); err != nil {
		return nil, err
	}
	return state, nil
}
