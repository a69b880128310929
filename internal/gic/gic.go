// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package gic models the slice of the interrupt distributor the relay needs
// to forward coprocessor notifications to the non-secure world.
package gic

// Distributor arms notification lines and flags them pending/active toward
// the non-secure execution context. Implementations decide which line
// identifiers are valid; the relay performs no validation of its own.
type Distributor interface {
	// EnableLine arms a line for delivery. An invalid line identifier is
	// rejected here, not by the relay.
	EnableLine(line uint32) error

	// SetPending flags the line pending.
	SetPending(line uint32)

	// SetActive flags the line active.
	SetActive(line uint32)
}
