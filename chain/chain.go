// Package chain defines the primitive value types shared by the block zero
// compiler: network discrimination, timestamps, coin values and exact
// rational numbers parsed from configuration text.
//
// Every parser in this package is a pure function returning a typed value or
// an error wrapping one of the package sentinels; nothing here touches
// process state.
package chain

import "errors"

// Decoding error sentinels. Callers attach field context with fmt.Errorf
// and %w, and discriminate with errors.Is.
var (
	// ErrInvalidEncoding reports a malformed textual primitive: bad
	// checksum, wrong human-readable prefix, wrong byte length.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrOutOfRange reports a well-formed value outside its permitted range.
	ErrOutOfRange = errors.New("value out of range")
)
