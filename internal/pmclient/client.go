// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package pmclient speaks the coprocessor's mailbox protocol on behalf of the
// relay's delegated operations.
package pmclient

import (
	"log/slog"

	"github.com/edgefw/pmrelayd/internal/util"
	"github.com/edgefw/pmrelayd/pkg/mailbox"
	"github.com/edgefw/pmrelayd/pkg/pmapi"
)

// Client implements pmapi.Operations over a mailbox connection. Each call
// packs the API identifier and its arguments into one request block; the
// first word of the response block is the coprocessor's status, the second
// carries the value for the operations that report one. A transport failure
// maps to ErrCommunication, everything else is passed through untouched.
type Client struct {
	logger *slog.Logger
	conn   mailbox.Conn
}

// New builds an operations client over conn.
func New(log *slog.Logger, conn mailbox.Conn) *Client {
	return &Client{
		logger: log,
		conn:   conn,
	}
}

var _ pmapi.Operations = (*Client)(nil)

func (c *Client) request(id pmapi.ID, args ...uint32) (mailbox.Message, pmapi.Status) {
	var req mailbox.Message

	req[0] = uint32(id)
	copy(req[1:], args)

	util.TraceLog(c.logger, "mailbox request", "api", id, "block", req)

	resp, err := c.conn.Request(req)
	if err != nil {
		c.logger.Error("mailbox request failed", "api", id, "err", err)

		return mailbox.Message{}, pmapi.ErrCommunication
	}

	return resp, pmapi.Status(resp[0])
}

// GetAPIVersion queries the protocol version the coprocessor implements.
func (c *Client) GetAPIVersion() (pmapi.Status, pmapi.Version) {
	resp, st := c.request(pmapi.GetAPIVersion)

	return st, pmapi.Version(resp[1])
}

func (c *Client) SetConfiguration(address uint32) pmapi.Status {
	_, st := c.request(pmapi.SetConfiguration, address)

	return st
}

func (c *Client) GetNodeStatus(node uint32) pmapi.Status {
	_, st := c.request(pmapi.GetNodeStatus, node)

	return st
}

func (c *Client) GetOpCharacteristic(node, characteristic uint32) pmapi.Status {
	_, st := c.request(pmapi.GetOpCharacteristic, node, characteristic)

	return st
}

func (c *Client) RegisterNotifier(node, event, wake, enable uint32) pmapi.Status {
	_, st := c.request(pmapi.RegisterNotifier, node, event, wake, enable)

	return st
}

func (c *Client) RequestSuspend(target, ack, latency, state uint32) pmapi.Status {
	_, st := c.request(pmapi.RequestSuspend, target, ack, latency, state)

	return st
}

func (c *Client) SelfSuspend(node, latency, state, address uint32) pmapi.Status {
	_, st := c.request(pmapi.SelfSuspend, node, latency, state, address)

	return st
}

func (c *Client) ForcePowerdown(target, ack uint32) pmapi.Status {
	_, st := c.request(pmapi.ForcePowerdown, target, ack)

	return st
}

func (c *Client) AbortSuspend(reason uint32) pmapi.Status {
	_, st := c.request(pmapi.AbortSuspend, reason)

	return st
}

func (c *Client) RequestWakeup(target, setAddress, address, ack uint32) pmapi.Status {
	_, st := c.request(pmapi.RequestWakeup, target, setAddress, address, ack)

	return st
}

func (c *Client) SetWakeupSource(target, wakeupNode, enable uint32) pmapi.Status {
	_, st := c.request(pmapi.SetWakeupSource, target, wakeupNode, enable)

	return st
}

func (c *Client) SystemShutdown(shutdownType uint32) pmapi.Status {
	_, st := c.request(pmapi.SystemShutdown, shutdownType)

	return st
}

func (c *Client) RequestNode(node, capabilities, qos, ack uint32) pmapi.Status {
	_, st := c.request(pmapi.RequestNode, node, capabilities, qos, ack)

	return st
}

func (c *Client) ReleaseNode(node uint32) pmapi.Status {
	_, st := c.request(pmapi.ReleaseNode, node)

	return st
}

func (c *Client) SetRequirement(node, capabilities, qos, ack uint32) pmapi.Status {
	_, st := c.request(pmapi.SetRequirement, node, capabilities, qos, ack)

	return st
}

func (c *Client) SetMaxLatency(node, latency uint32) pmapi.Status {
	_, st := c.request(pmapi.SetMaxLatency, node, latency)

	return st
}

func (c *Client) ResetAssert(reset, assert uint32) pmapi.Status {
	_, st := c.request(pmapi.ResetAssert, reset, assert)

	return st
}

// ResetGetStatus reports the asserted state of a reset line.
func (c *Client) ResetGetStatus(reset uint32) (pmapi.Status, uint32) {
	resp, st := c.request(pmapi.ResetGetStatus, reset)

	return st, resp[1]
}

func (c *Client) MMIOWrite(address, mask, value uint32) pmapi.Status {
	_, st := c.request(pmapi.MMIOWrite, address, mask, value)

	return st
}

// MMIORead reports the value behind a coprocessor-mediated register read.
func (c *Client) MMIORead(address uint32) (pmapi.Status, uint32) {
	resp, st := c.request(pmapi.MMIORead, address)

	return st, resp[1]
}
