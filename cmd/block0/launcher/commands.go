package launcher

import (
	"fmt"

	"github.com/sirupsen/logrus"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/sjmackenzie/jormungandr/block0"
	"github.com/sjmackenzie/jormungandr/flags"
	"github.com/sjmackenzie/jormungandr/genesis"
	"github.com/sjmackenzie/jormungandr/rules"
)

var encodeCommand = cli.Command{
	Name:   "encode",
	Usage:  "Compile a genesis configuration into the block zero bytes",
	Flags:  []cli.Flag{flags.InputFlag, flags.OutputFlag},
	Action: encode,
}

var decodeCommand = cli.Command{
	Name:   "decode",
	Usage:  "Render a block zero payload back into a genesis configuration",
	Flags:  []cli.Flag{flags.InputFlag, flags.OutputFlag},
	Action: decode,
}

var hashCommand = cli.Command{
	Name:   "hash",
	Usage:  "Print the identifier of a block zero payload",
	Flags:  []cli.Flag{flags.InputFlag},
	Action: hash,
}

var initCommand = cli.Command{
	Name:   "init",
	Usage:  "Write a starter genesis configuration",
	Flags:  []cli.Flag{flags.OutputFlag, flags.DiscriminationFlag, flags.LeaderFlag},
	Action: initConfig,
}

func encode(ctx *cli.Context) error {
	input, err := readInput(ctx)
	if err != nil {
		return err
	}

	raw, err := block0.Compile(input)
	if err != nil {
		log.WithError(err).Error("genesis configuration rejected")
		return err
	}

	log.WithFields(logrus.Fields{
		"bytes": len(raw),
		"id":    block0.ID(raw).String(),
	}).Info("block zero compiled")
	return writeOutput(ctx, raw)
}

func decode(ctx *cli.Context) error {
	input, err := readInput(ctx)
	if err != nil {
		return err
	}

	state, err := block0.Deserialize(input)
	if err != nil {
		log.WithError(err).Error("block zero payload rejected")
		return err
	}

	text, err := yaml.Marshal(configFromState(state))
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

func hash(ctx *cli.Context) error {
	input, err := readInput(ctx)
	if err != nil {
		return err
	}

	if _, err := block0.Deserialize(input); err != nil {
		log.WithError(err).Error("block zero payload rejected")
		return err
	}
	fmt.Fprintln(ctx.App.Writer, block0.ID(input).String())
	return nil
}

func initConfig(ctx *cli.Context) error {
	discrimination := ctx.String(flags.DiscriminationFlag.Name)

	var cfg *genesis.Config
	if leaders := ctx.StringSlice(flags.LeaderFlag.Name); len(leaders) > 0 {
		cfg = genesis.DefaultBFTConfig(discrimination, leaders...)
	} else {
		cfg = genesis.DefaultPraosConfig(discrimination)
	}

	text, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return writeOutput(ctx, text)
}

// configFromState maps a decoded state back onto the textual configuration
// model, so decode output can be fed to encode again.
func configFromState(state *block0.InitialState) *genesis.Config {
	s := &state.Settings

	bc := genesis.BlockchainConfig{
		Block0Date:           uint64(s.Block0Date),
		Discrimination:       s.Discrimination.String(),
		Block0Consensus:      s.Consensus.Type().String(),
		SlotsPerEpoch:        s.SlotsPerEpoch,
		SlotDuration:         s.SlotDuration,
		EpochStabilityDepth:  s.EpochStabilityDepth,
		MaxTxsPerBlock:       s.MaxTxsPerBlock,
		AllowAccountCreation: s.AllowAccountCreation,
		LinearFees: genesis.LinearFeeConfig{
			Constant:    s.Fees.Constant,
			Coefficient: s.Fees.Coefficient,
			Certificate: s.Fees.Certificate,
		},
		KESUpdateSpeed: s.KESUpdateSpeed,
	}
	if !s.BFTSlotsRatio.IsZero() {
		bc.BFTSlotsRatio = s.BFTSlotsRatio.Decimal()
	}
	switch variant := s.Consensus.(type) {
	case rules.BFT:
		for _, leader := range variant.Leaders {
			bc.ConsensusLeaderIDs = append(bc.ConsensusLeaderIDs, leader.String())
		}
	case rules.GenesisPraos:
		bc.ActiveSlotCoeff = variant.ActiveSlotCoeff.Decimal()
	}

	cfg := &genesis.Config{BlockchainConfiguration: bc}
	for _, f := range state.Funds {
		cfg.InitialFunds = append(cfg.InitialFunds, genesis.FundConfig{
			Address: f.Address.String(),
			Value:   uint64(f.Value),
		})
	}
	for _, f := range state.LegacyFunds {
		cfg.LegacyFunds = append(cfg.LegacyFunds, genesis.FundConfig{
			Address: f.Address.String(),
			Value:   uint64(f.Value),
		})
	}
	for _, cert := range state.Certs {
		cfg.InitialCerts = append(cfg.InitialCerts, cert.String())
	}
	return cfg
}
