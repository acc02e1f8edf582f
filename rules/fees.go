package rules

import (
	"errors"
	"fmt"
	mathbits "math/bits"
)

// ErrFeeOverflow reports a fee schedule whose worst-case block fee total
// does not fit the fee unit.
var ErrFeeOverflow = errors.New("fee schedule overflows")

// MaxTransactionSize is the ceiling, in bytes, used for worst-case fee
// budgeting. A schedule must survive a block full of maximum-size
// transactions that all carry certificates.
const MaxTransactionSize = 8192

// LinearFee is the three-term linear fee model:
//
//	fee(bytes, cert) = Constant + bytes*Coefficient + cert*Certificate
//
// All terms are in the smallest currency unit. The zero value is a valid
// schedule charging nothing.
type LinearFee struct {
	Constant    uint64
	Coefficient uint64
	Certificate uint64
}

// Fee computes the fee for a transaction of the given byte size, adding the
// certificate surcharge when hasCertificate is set.
func (f LinearFee) Fee(sizeBytes uint64, hasCertificate bool) uint64 {
	total := f.Constant + sizeBytes*f.Coefficient
	if hasCertificate {
		total += f.Certificate
	}
	return total
}

// Validate checks that the schedule cannot wrap at the block level: the fee
// of a maximum-size certificate-carrying transaction, multiplied by the
// configured transactions-per-block limit, must fit in uint64.
func (f LinearFee) Validate(maxTxsPerBlock uint32) error {
	perTx, ok := worstCaseTxFee(f)
	if !ok {
		return fmt.Errorf("per-transaction fee %+v: %w", f, ErrFeeOverflow)
	}
	hi, _ := mathbits.Mul64(perTx, uint64(maxTxsPerBlock))
	if hi != 0 {
		return fmt.Errorf("block of %d transactions at fee %d each: %w", maxTxsPerBlock, perTx, ErrFeeOverflow)
	}
	return nil
}

func worstCaseTxFee(f LinearFee) (uint64, bool) {
	hi, sized := mathbits.Mul64(f.Coefficient, MaxTransactionSize)
	if hi != 0 {
		return 0, false
	}
	sum, carry := mathbits.Add64(f.Constant, sized, 0)
	if carry != 0 {
		return 0, false
	}
	sum, carry = mathbits.Add64(sum, f.Certificate, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}
