// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package gic

import (
	"fmt"
	"sync"
)

// MaxLines bounds the interrupt identifier space of the model, matching the
// distributor's 0..1019 ID range.
const MaxLines = 1020

// Model is a software distributor holding per-line enable, pending and
// active state as banked bitmap words, the way the hardware registers are
// laid out. It stands in for the real interrupt controller in tests and in
// the development serve loop.
type Model struct {
	mu      sync.Mutex
	enabled [MaxLines/32 + 1]uint32
	pending [MaxLines/32 + 1]uint32
	active  [MaxLines/32 + 1]uint32
}

// NewModel returns a distributor model with all lines disabled and clear.
func NewModel() *Model {
	return &Model{}
}

// EnableLine arms a line. Out-of-range identifiers are rejected.
func (m *Model) EnableLine(line uint32) error {
	if line >= MaxLines {
		return fmt.Errorf("interrupt line %d out of range", line)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.enabled[line/32] |= 1 << (line % 32)

	return nil
}

// SetPending flags a line pending. Writes to out-of-range lines are ignored,
// as the hardware ignores writes to reserved register bits.
func (m *Model) SetPending(line uint32) {
	if line >= MaxLines {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[line/32] |= 1 << (line % 32)
}

// SetActive flags a line active.
func (m *Model) SetActive(line uint32) {
	if line >= MaxLines {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[line/32] |= 1 << (line % 32)
}

// ClearPending acknowledges a pending line. The active bit is banked
// separately and stays set until ClearActive, as with the hardware's
// ICPENDR/ICACTIVER split.
func (m *Model) ClearPending(line uint32) {
	if line >= MaxLines {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending[line/32] &^= 1 << (line % 32)
}

// ClearActive deactivates a line, completing its handling.
func (m *Model) ClearActive(line uint32) {
	if line >= MaxLines {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.active[line/32] &^= 1 << (line % 32)
}

// Enabled reports whether a line is armed.
func (m *Model) Enabled(line uint32) bool {
	return m.test(&m.enabled, line)
}

// Pending reports whether a line is pending.
func (m *Model) Pending(line uint32) bool {
	return m.test(&m.pending, line)
}

// Active reports whether a line is active.
func (m *Model) Active(line uint32) bool {
	return m.test(&m.active, line)
}

func (m *Model) test(bank *[MaxLines/32 + 1]uint32, line uint32) bool {
	if line >= MaxLines {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return bank[line/32]&(1<<(line%32)) != 0
}
