//go:build !unix && !windows

package query

import (
	"strings"

	"github.com/pkg/errors"
)

func encodeCString(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return nil, errors.New("string contains NUL")
	}
	return append([]byte(s), 0), nil
}
