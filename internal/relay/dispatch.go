// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"github.com/edgefw/pmrelayd/pkg/pmapi"
	"github.com/edgefw/pmrelayd/pkg/smccc"
)

// Dispatch services one call from the non-secure world. fid carries the
// function number in its low bits, x1 and x2 carry up to four packed
// operation arguments. Every branch is O(1) and produces a response; the
// dispatcher never blocks, retries or reinterprets a delegated status.
//
// While the service is down every function number, valid or not, gets the
// unknown-function reply and no power management state is touched.
func (s *Service) Dispatch(fid uint32, x1, x2 uint64) smccc.Result {
	if !s.Ready() {
		return smccc.Unknown()
	}

	args := smccc.SplitArgs(x1, x2)

	switch id := pmapi.ID(smccc.FunctionNumber(fid)); id {
	case pmapi.InitCallback:
		s.logger.Debug("initialize pm callback", "line", args[0])
		s.registerCallbackLine(args[0])

		// The wire contract reports success even when the distributor
		// rejected the line; the callback path stays unarmed instead.
		return ret1(pmapi.Success)

	case pmapi.GetCallbackData:
		return s.pendingPayload()

	case pmapi.GetAPIVersion:
		return s.getAPIVersion()

	case pmapi.SetConfiguration:
		return ret1(s.ops.SetConfiguration(args[0]))

	case pmapi.GetNodeStatus:
		return ret1(s.ops.GetNodeStatus(args[0]))

	case pmapi.GetOpCharacteristic:
		return ret1(s.ops.GetOpCharacteristic(args[0], args[1]))

	case pmapi.RegisterNotifier:
		return ret1(s.ops.RegisterNotifier(args[0], args[1], args[2], args[3]))

	case pmapi.RequestSuspend:
		return ret1(s.ops.RequestSuspend(args[0], args[1], args[2], args[3]))

	case pmapi.SelfSuspend:
		return ret1(s.ops.SelfSuspend(args[0], args[1], args[2], args[3]))

	case pmapi.ForcePowerdown:
		return ret1(s.ops.ForcePowerdown(args[0], args[1]))

	case pmapi.AbortSuspend:
		return ret1(s.ops.AbortSuspend(args[0]))

	case pmapi.RequestWakeup:
		return ret1(s.ops.RequestWakeup(args[0], args[1], args[2], args[3]))

	case pmapi.SetWakeupSource:
		return ret1(s.ops.SetWakeupSource(args[0], args[1], args[2]))

	case pmapi.SystemShutdown:
		return ret1(s.ops.SystemShutdown(args[0]))

	case pmapi.RequestNode:
		return ret1(s.ops.RequestNode(args[0], args[1], args[2], args[3]))

	case pmapi.ReleaseNode:
		return ret1(s.ops.ReleaseNode(args[0]))

	case pmapi.SetRequirement:
		return ret1(s.ops.SetRequirement(args[0], args[1], args[2], args[3]))

	case pmapi.SetMaxLatency:
		return ret1(s.ops.SetMaxLatency(args[0], args[1]))

	case pmapi.ResetAssert:
		return ret1(s.ops.ResetAssert(args[0], args[1]))

	case pmapi.ResetGetStatus:
		st, status := s.ops.ResetGetStatus(args[0])

		return smccc.Ret1(smccc.PackStatus(uint32(st), status))

	case pmapi.MMIOWrite:
		return ret1(s.ops.MMIOWrite(args[0], args[1], args[2]))

	case pmapi.MMIORead:
		st, value := s.ops.MMIORead(args[0])

		return smccc.Ret1(smccc.PackStatus(uint32(st), value))

	default:
		s.logger.Warn("unimplemented PM service call", "fid", fid, "id", id)

		return smccc.Unknown()
	}
}

// getAPIVersion returns the protocol version, consulting the coprocessor only
// until it has reported the expected version once. Whatever version the
// delegate reports is cached, even alongside a failure status.
func (s *Service) getAPIVersion() smccc.Result {
	if s.apiVersion == pmapi.CurrentVersion {
		return smccc.Ret1(smccc.PackStatus(uint32(pmapi.Success), uint32(s.apiVersion)))
	}

	st, v := s.ops.GetAPIVersion()
	s.apiVersion = v

	return smccc.Ret1(smccc.PackStatus(uint32(st), uint32(v)))
}

func ret1(st pmapi.Status) smccc.Result {
	return smccc.Ret1(uint64(st))
}
