// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package pmusim is an in-process stand-in for the power management
// coprocessor. It implements just enough of the mailbox protocol to exercise
// the relay end to end in tests and in the development serve loop; it is not
// a model of real power management policy.
package pmusim

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/edgefw/pmrelayd/pkg/mailbox"
	"github.com/edgefw/pmrelayd/pkg/pmapi"
)

// ErrClosed is returned for requests after Close.
var ErrClosed = errors.New("pmu mailbox closed")

// ErrDown is returned for requests while the simulated coprocessor is down.
var ErrDown = errors.New("pmu not responding")

// PMU simulates the coprocessor side of the mailbox: it answers delegated
// operation requests from a small amount of node/register state and can
// inject asynchronous callback blocks toward the bound handler.
type PMU struct {
	logger *slog.Logger

	mu      sync.Mutex
	handler mailbox.Handler
	down    bool
	closed  bool
	version pmapi.Version

	nodes        map[uint32]bool
	requirements map[uint32]uint32
	notifiers    map[uint32]bool
	resets       map[uint32]uint32
	registers    map[uint32]uint32
}

// New returns a live simulated PMU reporting the current protocol version.
func New(log *slog.Logger) *PMU {
	return &PMU{
		logger:       log,
		version:      pmapi.CurrentVersion,
		nodes:        make(map[uint32]bool),
		requirements: make(map[uint32]uint32),
		notifiers:    make(map[uint32]bool),
		resets:       make(map[uint32]uint32),
		registers:    make(map[uint32]uint32),
	}
}

// SetVersion overrides the protocol version the simulator reports.
func (p *PMU) SetVersion(v pmapi.Version) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.version = v
}

// SetDown simulates an absent or hung coprocessor: the liveness probe fails
// and requests error out.
func (p *PMU) SetDown(down bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.down = down
}

// Up implements mailbox.Conn.
func (p *PMU) Up() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return !p.down && !p.closed
}

// Bind implements mailbox.Conn.
func (p *PMU) Bind(h mailbox.Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	p.handler = h

	return nil
}

// Close implements mailbox.Conn.
func (p *PMU) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.handler = nil

	return nil
}

// Request implements mailbox.Conn. The first request word selects the
// operation, the remaining words are its arguments; the response carries the
// status in word 0 and, for the reporting operations, a value in word 1.
// Operations requesting a non-blocking acknowledge additionally trigger an
// AcknowledgeCallback block toward the bound handler.
func (p *PMU) Request(req mailbox.Message) (mailbox.Message, error) {
	resp, callback, err := p.handle(req)
	if err != nil {
		return resp, err
	}

	// Delivered outside the state lock: the handler side may issue its
	// own requests.
	if callback != nil {
		p.Notify(*callback)
	}

	return resp, nil
}

func (p *PMU) handle(req mailbox.Message) (mailbox.Message, *mailbox.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return mailbox.Message{}, nil, ErrClosed
	}

	if p.down {
		return mailbox.Message{}, nil, ErrDown
	}

	var (
		resp     mailbox.Message
		callback *mailbox.Message
	)

	id := pmapi.ID(req[0])
	p.logger.Debug("pmu request", "api", id, "block", req)

	switch id {
	case pmapi.GetAPIVersion:
		resp[1] = uint32(p.version)

	case pmapi.RequestNode:
		if p.nodes[req[1]] {
			resp[0] = uint32(pmapi.ErrDoubleRequest)
			break
		}

		p.nodes[req[1]] = true

	case pmapi.ReleaseNode:
		if !p.nodes[req[1]] {
			resp[0] = uint32(pmapi.ErrArgs)
			break
		}

		delete(p.nodes, req[1])
		delete(p.requirements, req[1])
		delete(p.notifiers, req[1])

	case pmapi.SetRequirement:
		if !p.nodes[req[1]] {
			resp[0] = uint32(pmapi.ErrAccess)
			break
		}

		p.requirements[req[1]] = req[2]

	case pmapi.ResetAssert:
		p.resets[req[1]] = req[2] & 1

	case pmapi.ResetGetStatus:
		resp[1] = p.resets[req[1]]

	case pmapi.MMIOWrite:
		addr, mask, value := req[1], req[2], req[3]
		p.registers[addr] = p.registers[addr]&^mask | value&mask

	case pmapi.MMIORead:
		resp[1] = p.registers[req[1]]

	case pmapi.RegisterNotifier:
		p.notifiers[req[1]] = req[4] != 0

	case pmapi.RequestSuspend, pmapi.ForcePowerdown:
		if req[2] == pmapi.AckNonBlocking {
			callback = ackBlock(req[1], pmapi.Success)
		}

	case pmapi.SetConfiguration, pmapi.GetNodeStatus, pmapi.GetOpCharacteristic,
		pmapi.SelfSuspend, pmapi.AbortSuspend, pmapi.RequestWakeup,
		pmapi.SetWakeupSource, pmapi.SystemShutdown, pmapi.SetMaxLatency:
		// Accepted without side effects worth simulating.

	default:
		resp[0] = uint32(pmapi.ErrAPIID)
	}

	return resp, callback, nil
}

func ackBlock(node uint32, st pmapi.Status) *mailbox.Message {
	return &mailbox.Message{uint32(pmapi.AcknowledgeCallback), node, uint32(st), 0, 0}
}

// Notify delivers a coprocessor-initiated callback block to the bound
// handler, standing in for the doorbell interrupt. Without a bound handler it
// is a no-op.
func (p *PMU) Notify(m mailbox.Message) {
	p.mu.Lock()
	h := p.handler
	p.mu.Unlock()

	if h == nil {
		return
	}

	h(m)
}

// RequestSuspendOf emits the canonical init-suspend callback asking the
// non-secure world to suspend.
func (p *PMU) RequestSuspendOf(reason, latency, state, timeout uint32) {
	p.Notify(mailbox.Message{uint32(pmapi.InitSuspendCallback), reason, latency, state, timeout})
}

// NotifyEvent emits a notify callback for a node event. Nothing is emitted
// unless a notifier was registered for the node with the enable flag set.
func (p *PMU) NotifyEvent(node, event uint32) {
	p.mu.Lock()
	enabled := p.notifiers[node]
	p.mu.Unlock()

	if !enabled {
		return
	}

	p.Notify(mailbox.Message{uint32(pmapi.NotifyCallback), node, event, 0, 0})
}
