package chuck

import (
	"fmt"

	"github.com/pkg/errors"
)

// Version is a chugin API version packed as (major << 16) | minor.
type Version = Uint

// Protocol version this module speaks. The major version must equal the
// host's; the minor version must not exceed it.
const (
	VersionMajor = 0x0008
	VersionMinor = 0x0000
)

// DLLVersion is the value returned from ck_version.
var DLLVersion = MakeVersion(VersionMajor, VersionMinor)

// MakeVersion packs a major/minor pair.
func MakeVersion(major, minor uint16) Version {
	return Version(major)<<16 | Version(minor)
}

// SplitVersion recovers the major/minor pair from a packed version.
func SplitVersion(v Version) (major, minor uint16) {
	return uint16(v >> 16), uint16(v & 0xFFFF)
}

// FormatVersion renders a packed version as "major.minor".
func FormatVersion(v Version) string {
	major, minor := SplitVersion(v)
	return fmt.Sprintf("%d.%d", major, minor)
}

// CheckVersion applies the host's compatibility rule to a module version.
func CheckVersion(host, module Version) error {
	hostMajor, hostMinor := SplitVersion(host)
	modMajor, modMinor := SplitVersion(module)
	if hostMajor != modMajor {
		return errors.Wrapf(ErrVersionMismatch, "module major %d, host major %d", modMajor, hostMajor)
	}
	if modMinor > hostMinor {
		return errors.Wrapf(ErrVersionMismatch, "module minor %d newer than host minor %d", modMinor, hostMinor)
	}
	return nil
}
