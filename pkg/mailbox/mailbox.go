// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package mailbox defines the doorbell transport between the relay and the
// power management coprocessor.
package mailbox

// MessageWords is the number of buffer words the coprocessor transfers per
// doorbell ring. Both directions of every exchange use the Message array
// type, so a width mismatch against the coprocessor protocol cannot compile.
const MessageWords = 5

// Message is one fixed-size block of mailbox buffer words.
type Message [MessageWords]uint32

// Handler consumes a callback block delivered by the coprocessor.
type Handler func(Message)

// Conn is a connection to the coprocessor's mailbox.
type Conn interface {
	// Up reports whether the coprocessor answers the liveness probe.
	Up() bool

	// Bind registers the handler invoked for coprocessor-initiated
	// blocks. Binding again replaces the previous handler.
	Bind(Handler) error

	// Request rings the doorbell with a request block and blocks until
	// the coprocessor posts its response block.
	Request(Message) (Message, error)

	// Close releases the mailbox channel.
	Close() error
}
