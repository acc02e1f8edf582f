package block0

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/addr"
	"github.com/sjmackenzie/jormungandr/genesis"
	"github.com/sjmackenzie/jormungandr/rules"
)

// Hash identifies a serialized block zero payload.
type Hash [32]byte

// ID hashes a serialized payload with blake2b-256.
func ID(raw []byte) Hash {
	return blake2b.Sum256(raw)
}

func (h Hash) String() string {
	return fmt.Sprintf("%x", h[:])
}

// Compile turns a textual genesis configuration into the canonical block zero
// bytes. Validation of the three independent concerns runs concurrently;
// when several fail, the reported error follows a fixed precedence
// (consensus, then fees, then funds) so a given input always fails the same
// way.
func Compile(configText []byte) ([]byte, error) {
	cfg, err := genesis.Parse(configText)
	if err != nil {
		return nil, err
	}

	var (
		wg sync.WaitGroup

		settings     *rules.Settings
		consensusErr error

		feeErr error

		funds    []Fund
		legacy   []LegacyFund
		certs    []chain.Certificate
		fundsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		settings, consensusErr = resolveSettings(cfg)
	}()
	go func() {
		defer wg.Done()
		feeErr = validateFees(cfg)
	}()
	go func() {
		defer wg.Done()
		funds, legacy, certs, fundsErr = resolveFunds(cfg)
	}()
	wg.Wait()

	switch {
	case consensusErr != nil:
		return nil, consensusErr
	case feeErr != nil:
		return nil, feeErr
	case fundsErr != nil:
		return nil, fundsErr
	}

	state, err := Assemble(settings, funds, legacy, certs)
	if err != nil {
		return nil, err
	}
	return state.Serialize()
}

func resolveSettings(cfg *genesis.Config) (*rules.Settings, error) {
	settings, err := cfg.BlockchainConfiguration.Settings()
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func validateFees(cfg *genesis.Config) error {
	fees := rules.LinearFee{
		Constant:    cfg.BlockchainConfiguration.LinearFees.Constant,
		Coefficient: cfg.BlockchainConfiguration.LinearFees.Coefficient,
		Certificate: cfg.BlockchainConfiguration.LinearFees.Certificate,
	}
	return fees.Validate(cfg.BlockchainConfiguration.MaxTxsPerBlock)
}

// resolveFunds decodes every address and certificate of the configuration.
// It needs the declared discrimination only, so it does not wait for the full
// consensus branch.
func resolveFunds(cfg *genesis.Config) ([]Fund, []LegacyFund, []chain.Certificate, error) {
	disc, err := chain.ParseDiscrimination(cfg.BlockchainConfiguration.Discrimination)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("blockchain_configuration.discrimination: %w", err)
	}

	var funds []Fund
	for i, f := range cfg.InitialFunds {
		address, err := addr.Resolve(f.Address, disc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("initial_funds[%d].address: %w", i, err)
		}
		funds = append(funds, Fund{Address: address, Value: chain.Value(f.Value)})
	}

	var legacy []LegacyFund
	for i, f := range cfg.LegacyFunds {
		address, err := addr.ResolveLegacy(f.Address)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("legacy_funds[%d].address: %w", i, err)
		}
		legacy = append(legacy, LegacyFund{Address: address, Value: chain.Value(f.Value)})
	}

	certs, err := cfg.Certificates()
	if err != nil {
		return nil, nil, nil, err
	}
	return funds, legacy, certs, nil
}
