// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package pmapi

import "fmt"

// Version is a power management protocol version, major number in the high
// half-word.
type Version uint32

// CurrentVersion is the protocol version this relay implements. The
// coprocessor must report the same version for the relay's cached version
// fast path to engage.
const CurrentVersion = Version(1<<16 | 1)

// MakeVersion builds a Version from its major and minor parts.
func MakeVersion(major, minor uint16) Version {
	return Version(uint32(major)<<16 | uint32(minor))
}

// Major returns the major part of the version.
func (v Version) Major() uint16 {
	return uint16(v >> 16)
}

// Minor returns the minor part of the version.
func (v Version) Minor() uint16 {
	return uint16(v)
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}
