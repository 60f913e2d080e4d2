package query

import (
	"github.com/pkg/errors"

	"github.com/justyntemme/chuckgo/pkg/chuck"
)

// CheckName reports ErrNameEncoding if s cannot be passed to the host as a
// NUL-terminated byte string. what names the value in the error.
func CheckName(what, s string) error {
	if _, err := encodeCString(s); err != nil {
		return errors.Wrapf(chuck.ErrNameEncoding, "%s %q", what, s)
	}
	return nil
}
