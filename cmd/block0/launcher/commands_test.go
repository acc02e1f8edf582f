package launcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sjmackenzie/jormungandr/block0"
	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/addr"
	"github.com/sjmackenzie/jormungandr/chain/keys"
	"github.com/sjmackenzie/jormungandr/genesis"
	"github.com/sjmackenzie/jormungandr/rules"
)

func testKey(t *testing.T, fill byte) keys.PublicKey {
	raw := make([]byte, keys.PublicKeySize)
	for i := range raw {
		raw[i] = fill
	}
	key, err := keys.FromBytes(raw)
	require.NoError(t, err)
	return key
}

// Decode output must compile back to the same bytes.
func TestDecodeEncodeRoundTrip(t *testing.T) {
	require := require.New(t)

	settings := &rules.Settings{
		Block0Date:           chain.Timestamp(1550822014),
		Discrimination:       chain.Test,
		Consensus:            rules.BFT{Leaders: []keys.PublicKey{testKey(t, 0xaa)}},
		SlotsPerEpoch:        5,
		SlotDuration:         15,
		EpochStabilityDepth:  10,
		BFTSlotsRatio:        chain.Ratio{Num: 11, Den: 50},
		MaxTxsPerBlock:       255,
		AllowAccountCreation: true,
		Fees:                 rules.LinearFee{Constant: 2, Coefficient: 1, Certificate: 4},
		KESUpdateSpeed:       43200,
	}
	require.NoError(settings.Validate())

	funds := []block0.Fund{
		{Address: addr.NewAccount(testKey(t, 0x01), chain.Test), Value: 10},
	}
	certs := []chain.Certificate{{0xde, 0xad, 0xbe, 0xef}}

	state, err := block0.Assemble(settings, funds, nil, certs)
	require.NoError(err)
	raw, err := state.Serialize()
	require.NoError(err)

	text, err := yaml.Marshal(configFromState(state))
	require.NoError(err)

	// The rendered configuration is a valid document on its own.
	cfg, err := genesis.Parse(text)
	require.NoError(err)
	require.Equal("0.22", cfg.BlockchainConfiguration.BFTSlotsRatio)

	recompiled, err := block0.Compile(text)
	require.NoError(err)
	require.Equal(raw, recompiled)
}
