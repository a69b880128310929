// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package relay implements the power management relay between the non-secure
// caller and the PMU coprocessor: a synchronous call dispatcher and an
// asynchronous callback channel sharing one single-slot payload cell.
package relay

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/edgefw/pmrelayd/internal/gic"
	"github.com/edgefw/pmrelayd/internal/util"
	"github.com/edgefw/pmrelayd/pkg/mailbox"
	"github.com/edgefw/pmrelayd/pkg/pmapi"
	"github.com/edgefw/pmrelayd/pkg/smccc"
)

// ErrDeviceNotPresent is returned by Setup when the coprocessor does not
// answer the liveness probe.
var ErrDeviceNotPresent = errors.New("power management coprocessor not present")

// Service is the relay. One instance serves a boot: Setup either opens the
// gate for good or leaves the service permanently down, answering every call
// with the unknown-function reply.
//
// Dispatch services calls one at a time, per the inbound calling convention.
// The coprocessor callback is the only path that runs concurrently with it;
// the state both sides touch is confined to the mutex-guarded cell below.
type Service struct {
	logger *slog.Logger
	conn   mailbox.Conn
	intc   gic.Distributor
	ops    pmapi.Operations

	up       atomic.Bool
	setupErr error

	// apiVersion caches the version the coprocessor reported. Dispatcher
	// state: only Dispatch reads or writes it.
	apiVersion pmapi.Version

	// Single-slot callback cell: last-write-wins payload plus the
	// registered notification line. The callback handler writes payload,
	// the registration call writes the line, Dispatch reads both.
	mu          sync.Mutex
	payload     mailbox.Message
	callbackIRQ uint32
	irqArmed    bool
}

// New builds a relay over the given coprocessor connection, interrupt
// distributor and delegated operations. The relay stays down until Setup.
func New(log *slog.Logger, conn mailbox.Conn, intc gic.Distributor, ops pmapi.Operations) *Service {
	return &Service{
		logger: log,
		conn:   conn,
		intc:   intc,
		ops:    ops,
	}
}

// Setup probes the coprocessor and binds the callback handler to the mailbox.
// It is called exactly once during bring-up; on failure the gate stays closed
// for the boot and the cause is retained for diagnostics.
func (s *Service) Setup() error {
	if !s.conn.Up() {
		s.setupErr = ErrDeviceNotPresent
		s.logger.Error("PM service init failed", "err", s.setupErr)

		return s.setupErr
	}

	if err := s.conn.Bind(s.handleCallback); err != nil {
		s.setupErr = fmt.Errorf("binding callback handler: %w", err)
		s.logger.Error("PM service init failed", "err", s.setupErr)

		return s.setupErr
	}

	s.up.Store(true)
	s.logger.Info("PM service init complete", "api_version", pmapi.CurrentVersion)

	return nil
}

// Ready reports whether Setup completed against a live coprocessor.
func (s *Service) Ready() bool {
	return s.up.Load()
}

// SetupError returns the recorded bring-up failure, nil when the service is
// up or Setup has not run.
func (s *Service) SetupError() error {
	return s.setupErr
}

// handleCallback is bound to the mailbox as the handler for
// coprocessor-initiated blocks. The new block unconditionally replaces the
// previous one; there is no queue, a second event before the caller fetches
// overwrites the first. If no notification line has been registered the
// payload is stored without raising anything, since raising on an
// unregistered line is undefined at the controller.
func (s *Service) handleCallback(m mailbox.Message) {
	s.mu.Lock()
	s.payload = m
	line, armed := s.callbackIRQ, s.irqArmed
	s.mu.Unlock()

	util.TraceLog(s.logger, "callback block stored", "block", m, "line", line, "armed", armed)

	if !armed {
		return
	}

	s.intc.SetPending(line)
	s.intc.SetActive(line)
}

// registerCallbackLine records the caller's notification line and arms it at
// the distributor. Re-registration simply replaces the line. A line the
// distributor rejects is recorded but left unarmed, so callbacks keep being
// buffered without notification.
func (s *Service) registerCallbackLine(line uint32) {
	err := s.intc.EnableLine(line)

	s.mu.Lock()
	s.callbackIRQ = line
	s.irqArmed = err == nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("callback line rejected by distributor", "line", line, "err", err)
	}
}

// pendingPayload repacks the callback cell into three result registers:
// word0 = payload[0] | payload[1]<<32, word1 = payload[2] | payload[3]<<32,
// word2 = payload[4]. The read is non-destructive: with no intervening
// coprocessor event a second fetch returns the same words. Correlating
// fetches with observed notifications is the caller's job.
func (s *Service) pendingPayload() smccc.Result {
	s.mu.Lock()
	p := s.payload
	s.mu.Unlock()

	return smccc.Ret3(
		smccc.JoinWords(p[0], p[1]),
		smccc.JoinWords(p[2], p[3]),
		uint64(p[4]),
	)
}
