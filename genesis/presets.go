package genesis

// Starter configurations for bootstrapping a new chain. They pass validation
// as-is (BFT presets once leaders are filled in) and are meant to be edited,
// not deployed unchanged.

// DefaultPraosConfig returns a praos starter configuration for the given
// discrimination spelling.
func DefaultPraosConfig(discrimination string) *Config {
	return &Config{
		BlockchainConfiguration: BlockchainConfig{
			Block0Date:          0,
			Discrimination:      discrimination,
			Block0Consensus:     "genesis_praos",
			SlotsPerEpoch:       5000,
			SlotDuration:        10,
			EpochStabilityDepth: 2600,
			ActiveSlotCoeff:     "0.1",
			MaxTxsPerBlock:      255,
			LinearFees: LinearFeeConfig{
				Constant:    10,
				Coefficient: 2,
				Certificate: 100,
			},
			KESUpdateSpeed: 43200,
		},
	}
}

// DefaultBFTConfig returns a BFT starter configuration round-robining over
// the given leader keys.
func DefaultBFTConfig(discrimination string, leaderIDs ...string) *Config {
	cfg := DefaultPraosConfig(discrimination)
	bc := &cfg.BlockchainConfiguration
	bc.Block0Consensus = "bft"
	bc.ActiveSlotCoeff = ""
	bc.ConsensusLeaderIDs = leaderIDs
	bc.BFTSlotsRatio = "0.22"
	return cfg
}
