//go:build windows

package query

import "golang.org/x/sys/windows"

func encodeCString(s string) ([]byte, error) {
	return windows.ByteSliceFromString(s)
}
