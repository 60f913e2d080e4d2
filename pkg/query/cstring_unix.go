//go:build unix

package query

import "golang.org/x/sys/unix"

func encodeCString(s string) ([]byte, error) {
	return unix.ByteSliceFromString(s)
}
