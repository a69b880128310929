// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package pmapi

// Operations is the delegated power management contract. Each method maps to
// one API identifier; the relay decodes a call's arguments, invokes the
// matching method and returns its status to the caller verbatim, without
// retry or interpretation.
//
// ResetGetStatus and MMIORead additionally report one value, which the relay
// packs into the high half of the result register. GetAPIVersion reports the
// protocol version the same way.
type Operations interface {
	GetAPIVersion() (Status, Version)
	SetConfiguration(address uint32) Status
	GetNodeStatus(node uint32) Status
	GetOpCharacteristic(node, characteristic uint32) Status
	RegisterNotifier(node, event, wake, enable uint32) Status
	RequestSuspend(target, ack, latency, state uint32) Status
	SelfSuspend(node, latency, state, address uint32) Status
	ForcePowerdown(target, ack uint32) Status
	AbortSuspend(reason uint32) Status
	RequestWakeup(target, setAddress, address, ack uint32) Status
	SetWakeupSource(target, wakeupNode, enable uint32) Status
	SystemShutdown(shutdownType uint32) Status
	RequestNode(node, capabilities, qos, ack uint32) Status
	ReleaseNode(node uint32) Status
	SetRequirement(node, capabilities, qos, ack uint32) Status
	SetMaxLatency(node, latency uint32) Status
	ResetAssert(reset, assert uint32) Status
	ResetGetStatus(reset uint32) (Status, uint32)
	MMIOWrite(address, mask, value uint32) Status
	MMIORead(address uint32) (Status, uint32)
}
