package blog

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// inputValidator wraps go-playground/validator and turns field errors into
// the sentences shown to users. Field names come from the `label` tag.
type inputValidator struct {
	v *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("label"); name != "" {
			return name
		}
		return fld.Name
	})
	return &inputValidator{v: v}
}

// messages validates s and returns one message per failing field, in
// struct field order. A nil result means s is valid.
func (iv *inputValidator) messages(s any) []string {
	err := iv.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, friendlyMessage(fe))
	}
	return out
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s do not match.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}
