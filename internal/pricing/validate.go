package pricing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so messages match the interchange format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func firstFieldError(v any) validator.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0]
	}
	return nil
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "required":
		return "is required"
	}
	return "failed on " + fe.Tag()
}

// Validate checks the supplier record.
func (s Supplier) Validate() error {
	if fe := firstFieldError(s); fe != nil {
		return fmt.Errorf("%w: supplier field '%s' %s", ErrInvalidRecord, fe.Field(), reasonFor(fe))
	}
	return nil
}

// Validate checks the product record, including the scrap invariant.
func (p SupplierProduct) Validate() error {
	if fe := firstFieldError(p); fe != nil {
		return fmt.Errorf("%w: product field '%s' %s", ErrInvalidRecord, fe.Field(), reasonFor(fe))
	}
	if p.SupplierType == ScrapLoaded && p.ScrapType != ScrapNone {
		return fmt.Errorf("%w: scrap-loaded product %q must have scrapType none", ErrInvalidRecord, p.ID)
	}
	return nil
}
