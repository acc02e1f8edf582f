package block0

import (
	"fmt"
	"math"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/require"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/addr"
	"github.com/sjmackenzie/jormungandr/chain/keys"
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

func testLegacy(t *testing.T) addr.LegacyAddress {
	raw := []byte{0x82, 0xd8, 0x18, 0x58, 0x29, 0x01, 0x02, 0x03, 0x04, 0x05}
	address, err := addr.ResolveLegacy(base58.Encode(raw))
	require.NoError(t, err)
	return address
}

func bftSettings(t *testing.T) *rules.Settings {
	s := &rules.Settings{
		Block0Date:           chain.Timestamp(1550822014),
		Discrimination:       chain.Test,
		Consensus:            rules.BFT{Leaders: []keys.PublicKey{testKey(t, 0xaa)}},
		SlotsPerEpoch:        5,
		SlotDuration:         15,
		EpochStabilityDepth:  10,
		BFTSlotsRatio:        chain.RatioZero,
		MaxTxsPerBlock:       255,
		AllowAccountCreation: true,
		Fees:                 rules.LinearFee{Constant: 2, Coefficient: 1, Certificate: 4},
		KESUpdateSpeed:       43200,
	}
	require.NoError(t, s.Validate())
	return s
}

func praosSettings(t *testing.T) *rules.Settings {
	s := bftSettings(t)
	s.Consensus = rules.GenesisPraos{ActiveSlotCoeff: chain.Ratio{Num: 11, Den: 50}}
	require.NoError(t, s.Validate())
	return s
}

func testState(t *testing.T) *InitialState {
	funds := []Fund{
		{Address: addr.NewAccount(testKey(t, 0x01), chain.Test), Value: 10},
		{Address: addr.NewSingle(testKey(t, 0x02), chain.Test), Value: 20},
		{Address: addr.NewGroup(testKey(t, 0x03), testKey(t, 0x04), chain.Test), Value: 30},
	}
	legacy := []LegacyFund{{Address: testLegacy(t), Value: 123}}
	certs := []chain.Certificate{{0xde, 0xad, 0xbe, 0xef}}

	state, err := Assemble(bftSettings(t), funds, legacy, certs)
	require.NoError(t, err)
	return state
}

func TestAssemblePreservesOrder(t *testing.T) {
	require := require.New(t)

	a := addr.NewAccount(testKey(t, 0x01), chain.Test)
	b := addr.NewAccount(testKey(t, 0x02), chain.Test)
	funds := []Fund{{Address: a, Value: 10}, {Address: b, Value: 20}}

	state, err := Assemble(bftSettings(t), funds, nil, nil)
	require.NoError(err)
	require.Equal(funds, state.Funds)

	total, err := state.TotalSupply()
	require.NoError(err)
	require.Equal(chain.Value(30), total)
}

func TestAssembleAccountGate(t *testing.T) {
	require := require.New(t)

	settings := bftSettings(t)
	settings.AllowAccountCreation = false

	account := []Fund{{Address: addr.NewAccount(testKey(t, 0x01), chain.Test), Value: 1}}
	_, err := Assemble(settings, account, nil, nil)
	require.ErrorIs(err, ErrAccountCreationDisallowed)
	require.Contains(err.Error(), "initial_funds[0]")

	// Non-account kinds pass regardless of the gate.
	utxo := []Fund{
		{Address: addr.NewSingle(testKey(t, 0x02), chain.Test), Value: 1},
		{Address: addr.NewGroup(testKey(t, 0x03), testKey(t, 0x04), chain.Test), Value: 1},
	}
	_, err = Assemble(settings, utxo, nil, nil)
	require.NoError(err)

	settings.AllowAccountCreation = true
	_, err = Assemble(settings, account, nil, nil)
	require.NoError(err)
}

func TestAssembleSupplyOverflow(t *testing.T) {
	require := require.New(t)

	funds := []Fund{
		{Address: addr.NewAccount(testKey(t, 0x01), chain.Test), Value: math.MaxUint64},
		{Address: addr.NewAccount(testKey(t, 0x02), chain.Test), Value: 1},
	}
	_, err := Assemble(bftSettings(t), funds, nil, nil)
	require.ErrorIs(err, ErrSupplyOverflow)

	// Legacy funds count toward the same supply.
	maxed := []Fund{{Address: addr.NewAccount(testKey(t, 0x01), chain.Test), Value: math.MaxUint64}}
	legacy := []LegacyFund{{Address: testLegacy(t), Value: 1}}
	_, err = Assemble(bftSettings(t), maxed, legacy, nil)
	require.ErrorIs(err, ErrSupplyOverflow)
}

func TestSerializeRoundTrip(t *testing.T) {
	require := require.New(t)

	state := testState(t)
	raw, err := state.Serialize()
	require.NoError(err)

	got, err := Deserialize(raw)
	require.NoError(err)
	require.Equal(state, got)
}

func TestSerializeRoundTripPraos(t *testing.T) {
	require := require.New(t)

	state, err := Assemble(praosSettings(t), nil, nil, nil)
	require.NoError(err)

	raw, err := state.Serialize()
	require.NoError(err)

	got, err := Deserialize(raw)
	require.NoError(err)
	require.Equal(state, got)
}

func TestSerializeDeterministic(t *testing.T) {
	require := require.New(t)

	first, err := testState(t).Serialize()
	require.NoError(err)
	second, err := testState(t).Serialize()
	require.NoError(err)
	require.Equal(first, second)
	require.Equal(ID(first), ID(second))
}

func TestDeserializeUnsupportedVersion(t *testing.T) {
	require := require.New(t)

	raw, err := testState(t).Serialize()
	require.NoError(err)

	raw[0], raw[1] = 0x00, 0x02
	_, err = Deserialize(raw)
	require.ErrorIs(err, ErrUnsupportedVersion)
	require.NotErrorIs(err, ErrTruncated)
}

func TestDeserializeTruncated(t *testing.T) {
	require := require.New(t)

	raw, err := testState(t).Serialize()
	require.NoError(err)

	for _, cut := range []int{0, 1, 2, len(raw) / 2, len(raw) - 1} {
		_, err = Deserialize(raw[:cut])
		require.Error(err, "cut at %d", cut)
		require.ErrorIs(err, ErrTruncated, "cut at %d", cut)
	}
}

func TestDeserializeCorrupt(t *testing.T) {
	require := require.New(t)

	raw, err := testState(t).Serialize()
	require.NoError(err)

	// The discrimination tag right after the version must be 0 or 1.
	corrupted := append([]byte{}, raw...)
	corrupted[2] = 0x7f
	_, err = Deserialize(corrupted)
	require.ErrorIs(err, ErrTruncated)

	// Trailing garbage breaks the canonical form.
	_, err = Deserialize(append(append([]byte{}, raw...), 0x00))
	require.ErrorIs(err, ErrTruncated)
}

func compileDoc(t *testing.T, slotDuration uint, feeConstant uint64, fundAddress string) []byte {
	leader := testKey(t, 0xaa)
	doc := fmt.Sprintf(`
blockchain_configuration:
  block0_date: 1550822014
  discrimination: test
  block0_consensus: bft
  slots_per_epoch: 5
  slot_duration: %d
  epoch_stability_depth: 10
  consensus_leader_ids:
    - %s
  max_number_of_transactions_per_block: 255
  allow_account_creation: true
  linear_fees:
    constant: %d
    coefficient: 1
    certificate: 4
  kes_update_speed: 43200
initial_funds:
  - address: %s
    value: 10
`, slotDuration, leader, feeConstant, fundAddress)
	return []byte(doc)
}

func TestCompile(t *testing.T) {
	require := require.New(t)

	address := addr.NewAccount(testKey(t, 0x01), chain.Test)
	raw, err := Compile(compileDoc(t, 15, 2, address.String()))
	require.NoError(err)

	state, err := Deserialize(raw)
	require.NoError(err)
	require.Equal(rules.ConsensusBFT, state.Settings.Consensus.Type())
	require.Len(state.Funds, 1)
	require.Equal(address, state.Funds[0].Address)
	require.Equal(chain.Value(10), state.Funds[0].Value)

	again, err := Compile(compileDoc(t, 15, 2, address.String()))
	require.NoError(err)
	require.Equal(raw, again)
	require.Equal(ID(raw), ID(again))
}

func TestCompileErrorPrecedence(t *testing.T) {
	good := addr.NewAccount(testKey(t, 0x01), chain.Test).String()
	const overflowing = math.MaxUint64 / 2

	t.Run("consensus first", func(t *testing.T) {
		_, err := Compile(compileDoc(t, 0, overflowing, "not-an-address"))
		require.ErrorIs(t, err, rules.ErrInvalidTiming)
	})

	t.Run("fees second", func(t *testing.T) {
		_, err := Compile(compileDoc(t, 15, overflowing, "not-an-address"))
		require.ErrorIs(t, err, rules.ErrFeeOverflow)
	})

	t.Run("funds last", func(t *testing.T) {
		_, err := Compile(compileDoc(t, 15, 2, "not-an-address"))
		require.ErrorIs(t, err, chain.ErrInvalidEncoding)
		require.Contains(t, err.Error(), "initial_funds[0].address")
	})

	t.Run("all good", func(t *testing.T) {
		_, err := Compile(compileDoc(t, 15, 2, good))
		require.NoError(t, err)
	})
}

func TestCompileDiscriminationMismatch(t *testing.T) {
	production := addr.NewAccount(testKey(t, 0x01), chain.Production)
	_, err := Compile(compileDoc(t, 15, 2, production.String()))
	require.ErrorIs(t, err, addr.ErrDiscriminationMismatch)
	require.Contains(t, err.Error(), "initial_funds[0].address")
}

func TestIDDiffers(t *testing.T) {
	require := require.New(t)

	raw, err := testState(t).Serialize()
	require.NoError(err)

	other := append([]byte{}, raw...)
	other[len(other)-1] ^= 0x01
	require.NotEqual(ID(raw), ID(other))
}
