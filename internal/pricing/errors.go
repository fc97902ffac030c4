package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is matched by every ConfigurationError.
	ErrConfiguration = errors.New("invalid gp configuration")
	// ErrMissingReference is matched by every MissingReferenceError.
	ErrMissingReference = errors.New("unknown supplier reference")
	// ErrInvalidRecord reports a supplier or product that fails validation.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrNoBaseline is returned when tiers are requested for a non-positive cost.
	ErrNoBaseline = errors.New("baseline cost must be positive")
)

// ConfigurationError describes a GP configuration that cannot be priced.
type ConfigurationError struct {
	Branch string
	SKU    string
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s: %s=%v %s", ErrConfiguration, e.Field, e.Value, e.Reason)
	if e.Branch != "" || e.SKU != "" {
		msg = fmt.Sprintf("%s (branch %q, sku %q)", msg, e.Branch, e.SKU)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// MissingReferenceError is a product pointing at a supplier that does not exist.
// Such products are left out of every aggregation.
type MissingReferenceError struct {
	ProductID  string
	SupplierID string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: product %q references supplier %q", ErrMissingReference, e.ProductID, e.SupplierID)
}

func (e *MissingReferenceError) Unwrap() error { return ErrMissingReference }
