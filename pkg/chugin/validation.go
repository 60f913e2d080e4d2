package chugin

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// validate is shared; building a validator is expensive.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("cstring", func(fl validator.FieldLevel) bool {
		return strings.IndexByte(fl.Field().String(), 0) < 0
	})
	if err != nil {
		panic(err)
	}
	return v
}

// structError maps validator failures onto the registration error taxonomy:
// a string the host cannot take is a name encoding error, anything else an
// invalid class.
func structError(err error, what string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(chuck.ErrInvalidClass, err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "cstring" {
			return errors.Wrapf(chuck.ErrNameEncoding, "%s: %s", what, fe.Namespace())
		}
	}
	return errors.Wrapf(chuck.ErrInvalidClass, "%s: %v", what, verrs)
}

func validateClass(info ClassInfo) error {
	if err := validate.Struct(info); err != nil {
		return structError(err, "class "+info.Name)
	}

	seen := make(map[string]bool, len(info.Methods))
	for _, m := range info.Methods {
		sig := m.Name + "("
		for _, p := range m.Params {
			sig += p.Type + ","
		}
		if seen[sig] {
			return errors.Wrapf(chuck.ErrInvalidClass, "class %s: duplicate overload %s", info.Name, m.Signature())
		}
		seen[sig] = true
	}
	return nil
}
