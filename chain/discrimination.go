package chain

import "fmt"

// Discrimination tags a network as production or test. Addresses embed the
// tag in their kind byte, which prevents a test-network address from being
// funded on a production chain.
type Discrimination uint8

const (
	Production Discrimination = iota
	Test
)

// String returns the configuration spelling of the discrimination.
func (d Discrimination) String() string {
	switch d {
	case Production:
		return "production"
	case Test:
		return "test"
	}
	return fmt.Sprintf("discrimination(%d)", uint8(d))
}

// ParseDiscrimination reads the configuration spelling of a discrimination.
func ParseDiscrimination(s string) (Discrimination, error) {
	switch s {
	case "production":
		return Production, nil
	case "test", "testing":
		return Test, nil
	}
	return 0, fmt.Errorf("discrimination %q: %w", s, ErrInvalidEncoding)
}
