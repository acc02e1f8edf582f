package genesis

import (
	"fmt"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/keys"
	"github.com/sjmackenzie/jormungandr/rules"
)

// Settings resolves the blockchain_configuration subtree into typed consensus
// settings. Errors carry the path of the offending field.
func (bc *BlockchainConfig) Settings() (*rules.Settings, error) {
	disc, err := chain.ParseDiscrimination(bc.Discrimination)
	if err != nil {
		return nil, fmt.Errorf("blockchain_configuration.discrimination: %w", err)
	}

	ctype, err := rules.ParseConsensusType(bc.Block0Consensus)
	if err != nil {
		return nil, fmt.Errorf("blockchain_configuration.block0_consensus: %w", err)
	}

	variant, err := bc.variant(ctype)
	if err != nil {
		return nil, err
	}

	bftRatio := chain.RatioZero
	if bc.BFTSlotsRatio != "" {
		bftRatio, err = chain.ParseRatio(bc.BFTSlotsRatio)
		if err != nil {
			return nil, fmt.Errorf("blockchain_configuration.bft_slots_ratio: %w", err)
		}
	}

	s := &rules.Settings{
		Block0Date:           chain.Timestamp(bc.Block0Date),
		Discrimination:       disc,
		Consensus:            variant,
		SlotsPerEpoch:        bc.SlotsPerEpoch,
		SlotDuration:         bc.SlotDuration,
		EpochStabilityDepth:  bc.EpochStabilityDepth,
		BFTSlotsRatio:        bftRatio,
		MaxTxsPerBlock:       bc.MaxTxsPerBlock,
		AllowAccountCreation: bc.AllowAccountCreation,
		Fees: rules.LinearFee{
			Constant:    bc.LinearFees.Constant,
			Coefficient: bc.LinearFees.Coefficient,
			Certificate: bc.LinearFees.Certificate,
		},
		KESUpdateSpeed: bc.KESUpdateSpeed,
	}
	return s, nil
}

func (bc *BlockchainConfig) variant(ctype rules.ConsensusType) (rules.Variant, error) {
	switch ctype {
	case rules.ConsensusBFT:
		leaders, err := bc.leaders()
		if err != nil {
			return nil, err
		}
		return rules.BFT{Leaders: leaders}, nil
	case rules.ConsensusGenesisPraos:
		coeff := chain.RatioZero
		if bc.ActiveSlotCoeff != "" {
			var err error
			coeff, err = chain.ParseRatio(bc.ActiveSlotCoeff)
			if err != nil {
				return nil, fmt.Errorf("blockchain_configuration.consensus_genesis_praos_active_slot_coeff: %w", err)
			}
		}
		return rules.GenesisPraos{ActiveSlotCoeff: coeff}, nil
	default:
		return nil, rules.ErrUnknownConsensusVariant
	}
}

func (bc *BlockchainConfig) leaders() ([]keys.PublicKey, error) {
	if len(bc.ConsensusLeaderIDs) == 0 {
		return nil, nil
	}
	leaders := make([]keys.PublicKey, len(bc.ConsensusLeaderIDs))
	for i, text := range bc.ConsensusLeaderIDs {
		key, err := keys.Parse(text)
		if err != nil {
			return nil, fmt.Errorf("blockchain_configuration.consensus_leader_ids[%d]: %w", i, err)
		}
		leaders[i] = key
	}
	return leaders, nil
}

// Certificates decodes the initial_certs entries.
func (c *Config) Certificates() ([]chain.Certificate, error) {
	if len(c.InitialCerts) == 0 {
		return nil, nil
	}
	certs := make([]chain.Certificate, len(c.InitialCerts))
	for i, text := range c.InitialCerts {
		cert, err := chain.ParseCertificate(text)
		if err != nil {
			return nil, fmt.Errorf("initial_certs[%d]: %w", i, err)
		}
		certs[i] = cert
	}
	return certs, nil
}
