// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package pmapi defines the wire-level contract of the power management
// service: function identifiers, return statuses, the protocol version and
// the delegated operation set.
package pmapi

import "fmt"

// ID identifies a power management function at the call boundary.
type ID uint32

// Relay bookkeeping functions. These never reach the coprocessor; the relay
// services them from its own state.
const (
	// InitCallback registers the interrupt line used to notify the caller
	// of pending callback data.
	InitCallback ID = 0xa01
	// GetCallbackData returns the most recent coprocessor callback block.
	GetCallbackData ID = 0xa02
)

// Delegated power management operations, in protocol order. The numeric
// values are a wire contract with the calling framework and with the
// coprocessor; they must not be renumbered.
const (
	GetAPIVersion ID = iota + 1
	SetConfiguration
	GetNodeStatus
	GetOpCharacteristic
	RegisterNotifier
	RequestSuspend
	SelfSuspend
	ForcePowerdown
	AbortSuspend
	RequestWakeup
	SetWakeupSource
	SystemShutdown
	RequestNode
	ReleaseNode
	SetRequirement
	SetMaxLatency
	ResetAssert
	ResetGetStatus
	MMIOWrite
	MMIORead
)

// Coprocessor-initiated callback identifiers, carried in the first word of a
// callback block.
const (
	InitSuspendCallback ID = iota + 30
	AcknowledgeCallback
	NotifyCallback
)

// Acknowledge modes, passed in the ack argument of the suspend and powerdown
// operations. AckNonBlocking asks the coprocessor to acknowledge
// asynchronously with an AcknowledgeCallback block.
const (
	AckNone uint32 = iota + 1
	AckBlocking
	AckNonBlocking
)

var idNames = map[ID]string{
	InitCallback:        "InitCallback",
	GetCallbackData:     "GetCallbackData",
	GetAPIVersion:       "GetAPIVersion",
	SetConfiguration:    "SetConfiguration",
	GetNodeStatus:       "GetNodeStatus",
	GetOpCharacteristic: "GetOpCharacteristic",
	RegisterNotifier:    "RegisterNotifier",
	RequestSuspend:      "RequestSuspend",
	SelfSuspend:         "SelfSuspend",
	ForcePowerdown:      "ForcePowerdown",
	AbortSuspend:        "AbortSuspend",
	RequestWakeup:       "RequestWakeup",
	SetWakeupSource:     "SetWakeupSource",
	SystemShutdown:      "SystemShutdown",
	RequestNode:         "RequestNode",
	ReleaseNode:         "ReleaseNode",
	SetRequirement:      "SetRequirement",
	SetMaxLatency:       "SetMaxLatency",
	ResetAssert:         "ResetAssert",
	ResetGetStatus:      "ResetGetStatus",
	MMIOWrite:           "MMIOWrite",
	MMIORead:            "MMIORead",
	InitSuspendCallback: "InitSuspendCallback",
	AcknowledgeCallback: "AcknowledgeCallback",
	NotifyCallback:      "NotifyCallback",
}

// String returns the symbolic name of the identifier.
func (i ID) String() string {
	if name, ok := idNames[i]; ok {
		return name
	}

	return fmt.Sprintf("ID(%#x)", uint32(i))
}

// Status is the return status of a power management operation. The relay
// forwards statuses verbatim; their semantics belong to the coprocessor.
type Status uint32

// Status codes, in protocol order.
const (
	Success Status = iota
	ErrArgs
	ErrAccess
	ErrTimeout
	ErrNotSupported
	ErrProc
	ErrAPIID
	ErrFailure
	ErrCommunication
	ErrDoubleRequest
	ErrOther
)

var statusNames = map[Status]string{
	Success:          "Success",
	ErrArgs:          "ErrArgs",
	ErrAccess:        "ErrAccess",
	ErrTimeout:       "ErrTimeout",
	ErrNotSupported:  "ErrNotSupported",
	ErrProc:          "ErrProc",
	ErrAPIID:         "ErrAPIID",
	ErrFailure:       "ErrFailure",
	ErrCommunication: "ErrCommunication",
	ErrDoubleRequest: "ErrDoubleRequest",
	ErrOther:         "ErrOther",
}

// String returns the symbolic name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Status(%d)", uint32(s))
}
