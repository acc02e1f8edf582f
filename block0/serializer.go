package block0

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sjmackenzie/jormungandr/chain"
	"github.com/sjmackenzie/jormungandr/chain/addr"
	"github.com/sjmackenzie/jormungandr/chain/keys"
	"github.com/sjmackenzie/jormungandr/rules"
	"github.com/sjmackenzie/jormungandr/utils/cser"
)

// FormatVersion is the block zero wire format revision, carried in the first
// two bytes of every serialized payload.
const FormatVersion uint16 = 1

// Section payloads are length prefixed, so a decoder can bound allocations
// before touching the contents.
const (
	maxSectionLen = cser.MaxAlloc
	maxAddressLen = 512
)

// Serialize renders the canonical byte form of the state. Equal states
// produce identical bytes.
func (s *InitialState) Serialize() ([]byte, error) {
	if s.Settings.Consensus == nil {
		return nil, errors.New("serialize: no consensus variant")
	}

	body, err := cser.MarshalBinaryAdapter(s.marshalCSER)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(raw, FormatVersion)
	return append(raw, body...), nil
}

// Deserialize parses a serialized block zero payload back into its state.
func Deserialize(raw []byte) (*InitialState, error) {
	if len(raw) < 2 {
		return nil, ErrTruncated
	}
	version := binary.BigEndian.Uint16(raw)
	if version != FormatVersion {
		return nil, fmt.Errorf("format version %d: %w", version, ErrUnsupportedVersion)
	}

	dec := &decoder{state: new(InitialState)}
	if err := cser.UnmarshalBinaryAdapter(raw[2:], dec.unmarshalCSER); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrTruncated)
	}
	return dec.state, nil
}

func (s *InitialState) marshalCSER(w *cser.Writer) error {
	w.U8(uint8(s.Settings.Discrimination))

	sections := []func(*cser.Writer) error{
		s.marshalParameters,
		s.marshalFees,
		s.marshalLeaders,
		s.marshalFunds,
		s.marshalLegacyFunds,
		s.marshalCerts,
	}
	for _, section := range sections {
		blob, err := cser.MarshalBinaryAdapter(section)
		if err != nil {
			return err
		}
		w.SliceBytes(blob)
	}
	return nil
}

func (s *InitialState) marshalParameters(w *cser.Writer) error {
	w.U64(uint64(s.Settings.Block0Date))
	w.U32(s.Settings.SlotsPerEpoch)
	w.U8(s.Settings.SlotDuration)
	w.U32(s.Settings.EpochStabilityDepth)
	w.U64(s.Settings.BFTSlotsRatio.Num)
	w.U64(s.Settings.BFTSlotsRatio.Den)
	w.U32(s.Settings.MaxTxsPerBlock)
	w.Bool(s.Settings.AllowAccountCreation)
	w.U32(s.Settings.KESUpdateSpeed)

	w.U8(uint8(s.Settings.Consensus.Type()))
	if praos, ok := s.Settings.Consensus.(rules.GenesisPraos); ok {
		w.U64(praos.ActiveSlotCoeff.Num)
		w.U64(praos.ActiveSlotCoeff.Den)
	}
	return nil
}

func (s *InitialState) marshalFees(w *cser.Writer) error {
	w.U64(s.Settings.Fees.Constant)
	w.U64(s.Settings.Fees.Coefficient)
	w.U64(s.Settings.Fees.Certificate)
	return nil
}

func (s *InitialState) marshalLeaders(w *cser.Writer) error {
	var leaders []keys.PublicKey
	if bft, ok := s.Settings.Consensus.(rules.BFT); ok {
		leaders = bft.Leaders
	}
	w.VarUint(uint64(len(leaders)))
	for _, leader := range leaders {
		w.FixedBytes(leader.Bytes())
	}
	return nil
}

func (s *InitialState) marshalFunds(w *cser.Writer) error {
	w.VarUint(uint64(len(s.Funds)))
	for _, f := range s.Funds {
		w.SliceBytes(f.Address.Bytes())
		w.U64(uint64(f.Value))
	}
	return nil
}

func (s *InitialState) marshalLegacyFunds(w *cser.Writer) error {
	w.VarUint(uint64(len(s.LegacyFunds)))
	for _, f := range s.LegacyFunds {
		w.SliceBytes(f.Address.Raw)
		w.U64(uint64(f.Value))
	}
	return nil
}

func (s *InitialState) marshalCerts(w *cser.Writer) error {
	w.VarUint(uint64(len(s.Certs)))
	for _, cert := range s.Certs {
		w.SliceBytes(cert)
	}
	return nil
}

// decoder carries the partially reconstructed state across sections. The
// consensus variant spans two of them: the parameters section holds the type
// and praos coefficient, the leader section holds the BFT leader list, so it
// is only built once every section is read.
type decoder struct {
	state   *InitialState
	ctype   rules.ConsensusType
	coeff   chain.Ratio
	leaders []keys.PublicKey
}

func (d *decoder) unmarshalCSER(r *cser.Reader) error {
	disc := chain.Discrimination(r.U8())
	if disc != chain.Production && disc != chain.Test {
		return fmt.Errorf("discrimination tag %d: %w", disc, chain.ErrInvalidEncoding)
	}
	d.state.Settings.Discrimination = disc

	sections := []func(*cser.Reader) error{
		d.unmarshalParameters,
		d.unmarshalFees,
		d.unmarshalLeaders,
		d.unmarshalFunds,
		d.unmarshalLegacyFunds,
		d.unmarshalCerts,
	}
	for _, section := range sections {
		blob := r.SliceBytes(maxSectionLen)
		if err := cser.UnmarshalBinaryAdapter(blob, section); err != nil {
			return err
		}
	}
	return d.buildVariant()
}

func (d *decoder) unmarshalParameters(r *cser.Reader) error {
	s := &d.state.Settings
	s.Block0Date = chain.Timestamp(r.U64())
	s.SlotsPerEpoch = r.U32()
	s.SlotDuration = r.U8()
	s.EpochStabilityDepth = r.U32()
	s.BFTSlotsRatio.Num = r.U64()
	s.BFTSlotsRatio.Den = r.U64()
	s.MaxTxsPerBlock = r.U32()
	s.AllowAccountCreation = r.Bool()
	s.KESUpdateSpeed = r.U32()

	d.ctype = rules.ConsensusType(r.U8())
	switch d.ctype {
	case rules.ConsensusBFT:
	case rules.ConsensusGenesisPraos:
		d.coeff.Num = r.U64()
		d.coeff.Den = r.U64()
	default:
		return fmt.Errorf("consensus tag %d: %w", uint8(d.ctype), rules.ErrUnknownConsensusVariant)
	}
	return nil
}

func (d *decoder) unmarshalFees(r *cser.Reader) error {
	d.state.Settings.Fees.Constant = r.U64()
	d.state.Settings.Fees.Coefficient = r.U64()
	d.state.Settings.Fees.Certificate = r.U64()
	return nil
}

func (d *decoder) unmarshalLeaders(r *cser.Reader) error {
	count := r.VarUint()
	if count > maxSectionLen/keys.PublicKeySize {
		return cser.ErrTooLargeAlloc
	}
	if count == 0 {
		return nil
	}
	leaders := make([]keys.PublicKey, count)
	buf := make([]byte, keys.PublicKeySize)
	for i := range leaders {
		r.FixedBytes(buf)
		key, err := keys.FromBytes(buf)
		if err != nil {
			return err
		}
		leaders[i] = key
	}
	d.leaders = leaders
	return nil
}

func (d *decoder) unmarshalFunds(r *cser.Reader) error {
	count := r.VarUint()
	if count > maxSectionLen {
		return cser.ErrTooLargeAlloc
	}
	if count == 0 {
		return nil
	}
	funds := make([]Fund, count)
	for i := range funds {
		address, err := addr.FromBytes(r.SliceBytes(maxAddressLen))
		if err != nil {
			return err
		}
		if address.Discrimination() != d.state.Settings.Discrimination {
			return fmt.Errorf("fund %d: %w", i, addr.ErrDiscriminationMismatch)
		}
		funds[i] = Fund{Address: address, Value: chain.Value(r.U64())}
	}
	d.state.Funds = funds
	return nil
}

func (d *decoder) unmarshalLegacyFunds(r *cser.Reader) error {
	count := r.VarUint()
	if count > maxSectionLen {
		return cser.ErrTooLargeAlloc
	}
	if count == 0 {
		return nil
	}
	funds := make([]LegacyFund, count)
	for i := range funds {
		address, err := addr.LegacyFromBytes(r.SliceBytes(maxAddressLen))
		if err != nil {
			return err
		}
		funds[i] = LegacyFund{Address: address, Value: chain.Value(r.U64())}
	}
	d.state.LegacyFunds = funds
	return nil
}

func (d *decoder) unmarshalCerts(r *cser.Reader) error {
	count := r.VarUint()
	if count > maxSectionLen {
		return cser.ErrTooLargeAlloc
	}
	if count == 0 {
		return nil
	}
	certs := make([]chain.Certificate, count)
	for i := range certs {
		certs[i] = chain.Certificate(r.SliceBytes(maxSectionLen))
	}
	d.state.Certs = certs
	return nil
}

func (d *decoder) buildVariant() error {
	switch d.ctype {
	case rules.ConsensusBFT:
		d.state.Settings.Consensus = rules.BFT{Leaders: d.leaders}
	case rules.ConsensusGenesisPraos:
		if len(d.leaders) != 0 {
			return fmt.Errorf("leader set under praos consensus: %w", chain.ErrInvalidEncoding)
		}
		d.state.Settings.Consensus = rules.GenesisPraos{ActiveSlotCoeff: d.coeff}
	}
	return nil
}
