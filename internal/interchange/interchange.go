// Package interchange reads and writes the JSON document used to move a whole
// catalog between installations.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Simplici0/batteryprice/internal/pricing"
)

// ErrInvalidDocument is returned for documents that are not a complete
// interchange document.
var ErrInvalidDocument = errors.New("invalid interchange document")

const (
	keySuppliers        = "suppliers"
	keySupplierProducts = "supplierProducts"
	keyGpInputs         = "gpInputs"
)

// maxDocumentSize bounds what Decode reads.
const maxDocumentSize = 32 << 20

// Decode parses a document holding exactly the suppliers, supplierProducts
// and gpInputs keys. A missing or null key rejects the whole document.
func Decode(r io.Reader) (pricing.Inputs, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return pricing.Inputs{}, fmt.Errorf("read document: %w", err)
	}
	if len(raw) > maxDocumentSize {
		return pricing.Inputs{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidDocument, maxDocumentSize)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return pricing.Inputs{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for _, key := range []string{keySuppliers, keySupplierProducts, keyGpInputs} {
		value, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return pricing.Inputs{}, fmt.Errorf("%w: missing %q", ErrInvalidDocument, key)
		}
	}

	var in pricing.Inputs
	if err := json.Unmarshal(fields[keySuppliers], &in.Suppliers); err != nil {
		return pricing.Inputs{}, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, keySuppliers, err)
	}
	if err := json.Unmarshal(fields[keySupplierProducts], &in.SupplierProducts); err != nil {
		return pricing.Inputs{}, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, keySupplierProducts, err)
	}
	if err := json.Unmarshal(fields[keyGpInputs], &in.GpInputs); err != nil {
		return pricing.Inputs{}, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, keyGpInputs, err)
	}
	return in, nil
}

// Encode writes in as an indented document. Nil collections are written as
// empty ones so the output always decodes again.
func Encode(w io.Writer, in pricing.Inputs) error {
	if in.Suppliers == nil {
		in.Suppliers = []pricing.Supplier{}
	}
	if in.SupplierProducts == nil {
		in.SupplierProducts = []pricing.SupplierProduct{}
	}
	if in.GpInputs == nil {
		in.GpInputs = pricing.GpInputs{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}
