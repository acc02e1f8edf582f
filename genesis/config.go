// Package genesis holds the textual genesis configuration model and its
// resolution into validated chain parameters.
package genesis

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Errors of the configuration parser.
var (
	ErrEmptyConfig = errors.New("empty genesis configuration")
)

// Config mirrors the on-disk genesis file. All values are kept in their
// textual form here; Resolve turns them into typed chain parameters.
type Config struct {
	BlockchainConfiguration BlockchainConfig `yaml:"blockchain_configuration"`
	InitialFunds            []FundConfig     `yaml:"initial_funds,omitempty"`
	LegacyFunds             []FundConfig     `yaml:"legacy_funds,omitempty"`
	InitialCerts            []string         `yaml:"initial_certs,omitempty"`
}

// BlockchainConfig is the blockchain_configuration subtree of the genesis file.
type BlockchainConfig struct {
	Block0Date           uint64          `yaml:"block0_date"`
	Discrimination       string          `yaml:"discrimination"`
	Block0Consensus      string          `yaml:"block0_consensus"`
	SlotsPerEpoch        uint32          `yaml:"slots_per_epoch"`
	SlotDuration         uint8           `yaml:"slot_duration"`
	EpochStabilityDepth  uint32          `yaml:"epoch_stability_depth"`
	ConsensusLeaderIDs   []string        `yaml:"consensus_leader_ids,omitempty"`
	BFTSlotsRatio        string          `yaml:"bft_slots_ratio,omitempty"`
	ActiveSlotCoeff      string          `yaml:"consensus_genesis_praos_active_slot_coeff,omitempty"`
	MaxTxsPerBlock       uint32          `yaml:"max_number_of_transactions_per_block"`
	AllowAccountCreation bool            `yaml:"allow_account_creation"`
	LinearFees           LinearFeeConfig `yaml:"linear_fees"`
	KESUpdateSpeed       uint32          `yaml:"kes_update_speed"`
}

// LinearFeeConfig is the linear_fees subtree.
type LinearFeeConfig struct {
	Constant    uint64 `yaml:"constant"`
	Coefficient uint64 `yaml:"coefficient"`
	Certificate uint64 `yaml:"certificate"`
}

// FundConfig is a single entry of initial_funds or legacy_funds.
type FundConfig struct {
	Address string `yaml:"address"`
	Value   uint64 `yaml:"value"`
}

// Parse decodes a genesis configuration document. Unknown keys are rejected
// so that a typo never silently drops a parameter.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := new(Config)
	err := dec.Decode(cfg)
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyConfig
	}
	if err != nil {
		return nil, fmt.Errorf("genesis configuration: %w", err)
	}
	return cfg, nil
}
