// Package rules defines the validated consensus configuration of a network
// and the checks that keep its mutually-dependent parameters coherent. It is
// the Go shape of the "blockchain_configuration" subtree of a genesis file:
// the raw text lives in package genesis, the validated form lives here.
package rules

import (
	"errors"
	"fmt"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/keys"
)

// Consensus validation errors, in the order the validator reports them.
var (
	ErrInvalidTiming           = errors.New("slot timing must be positive")
	ErrNoLeaders               = errors.New("bft consensus requires at least one leader")
	ErrDuplicateLeader         = errors.New("duplicate consensus leader")
	ErrInvalidSlotCoefficient  = errors.New("active slot coefficient must be in (0,1]")
	ErrInvalidSlotsRatio       = errors.New("bft slots ratio must be in [0,1]")
	ErrInvalidTxsPerBlock      = errors.New("max transactions per block must be positive")
	ErrInvalidKESUpdateSpeed   = errors.New("kes update speed must be positive")
	ErrUnknownConsensusVariant = errors.New("unknown consensus variant")
)

// ConsensusType selects the consensus algorithm seeded at block zero.
type ConsensusType uint8

const (
	ConsensusBFT ConsensusType = iota + 1
	ConsensusGenesisPraos
)

// String returns the configuration spelling of the consensus type.
func (t ConsensusType) String() string {
	switch t {
	case ConsensusBFT:
		return "bft"
	case ConsensusGenesisPraos:
		return "genesis_praos"
	}
	return fmt.Sprintf("consensus(%d)", uint8(t))
}

// ParseConsensusType reads the configuration spelling of a consensus type.
// "genesis" is accepted as the historical spelling of genesis_praos.
func ParseConsensusType(s string) (ConsensusType, error) {
	switch s {
	case "bft":
		return ConsensusBFT, nil
	case "genesis", "genesis_praos":
		return ConsensusGenesisPraos, nil
	}
	return 0, fmt.Errorf("consensus type %q: %w", s, ErrUnknownConsensusVariant)
}

// Variant carries the parameters specific to one consensus algorithm.
// Modeling the branch as a sum type keeps a BFT configuration from carrying
// a slot coefficient and a Praos configuration from carrying a leader list.
type Variant interface {
	Type() ConsensusType
	validate() error
}

// BFT is the variant selecting leaders round-robin from a fixed list.
// Leader order is significant: it determines the rotation schedule.
type BFT struct {
	Leaders []keys.PublicKey
}

// Type implements Variant.
func (BFT) Type() ConsensusType { return ConsensusBFT }

func (b BFT) validate() error {
	if len(b.Leaders) == 0 {
		return ErrNoLeaders
	}
	seen := make(map[keys.PublicKey]struct{}, len(b.Leaders))
	for i, leader := range b.Leaders {
		if _, dup := seen[leader]; dup {
			return fmt.Errorf("leader %d (%s): %w", i, leader, ErrDuplicateLeader)
		}
		seen[leader] = struct{}{}
	}
	return nil
}

// GenesisPraos is the variant selecting leaders probabilistically, weighted
// by stake through the active slot coefficient.
type GenesisPraos struct {
	ActiveSlotCoeff chain.Ratio
}

// Type implements Variant.
func (GenesisPraos) Type() ConsensusType { return ConsensusGenesisPraos }

func (p GenesisPraos) validate() error {
	if p.ActiveSlotCoeff.IsZero() || p.ActiveSlotCoeff.Cmp(chain.RatioOne) > 0 {
		return fmt.Errorf("active_slot_coeff %s: %w", p.ActiveSlotCoeff, ErrInvalidSlotCoefficient)
	}
	return nil
}

// Settings is the validated blockchain configuration: every consensus
// parameter of block zero in its typed form. Settings are immutable once
// Validate has accepted them.
type Settings struct {
	Block0Date     chain.Timestamp
	Discrimination chain.Discrimination
	Consensus      Variant

	SlotsPerEpoch       uint32
	SlotDuration        uint8 // seconds
	EpochStabilityDepth uint32

	// BFTSlotsRatio applies during any BFT/Praos hybrid phase and is
	// validated regardless of the selected variant.
	BFTSlotsRatio chain.Ratio

	MaxTxsPerBlock       uint32
	AllowAccountCreation bool
	Fees                 LinearFee
	KESUpdateSpeed       uint32 // seconds
}

// Validate checks the mutually-dependent consensus parameters. The check
// order is fixed so a defective configuration always reports the same first
// error:
//
//  1. slot timing
//  2. epoch stability depth (non-negative by construction)
//  3. the variant branch (BFT leader set, or Praos slot coefficient)
//  4. bft slots ratio
//  5. transactions-per-block limit
//  6. KES update speed
//
// A failed step aborts the compile; configuration defects are never retried.
func (s *Settings) Validate() error {
	if s.SlotsPerEpoch == 0 {
		return fmt.Errorf("slots_per_epoch: %w", ErrInvalidTiming)
	}
	if s.SlotDuration == 0 {
		return fmt.Errorf("slot_duration: %w", ErrInvalidTiming)
	}

	// EpochStabilityDepth is unsigned; step 2 holds by construction.

	if s.Consensus == nil {
		return ErrUnknownConsensusVariant
	}
	if err := s.Consensus.validate(); err != nil {
		return err
	}

	if s.BFTSlotsRatio.Cmp(chain.RatioOne) > 0 {
		return fmt.Errorf("bft_slots_ratio %s: %w", s.BFTSlotsRatio, ErrInvalidSlotsRatio)
	}

	if s.MaxTxsPerBlock == 0 {
		return ErrInvalidTxsPerBlock
	}

	if s.KESUpdateSpeed == 0 {
		return ErrInvalidKESUpdateSpeed
	}

	return nil
}
