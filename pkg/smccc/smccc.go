// SPDX-FileCopyrightText: Copyright (c) 2025 the pmrelayd authors
// SPDX-License-Identifier: Apache-2.0

// Package smccc implements the register conventions of the secure monitor
// call boundary: splitting wide argument registers into the narrow words the
// service operations consume, and packing narrow status/value pairs back into
// wide result registers.
package smccc

// FuncNumMask selects the function number bits of a function identifier. The
// remaining bits carry calling-convention metadata and are ignored when
// routing a call.
const FuncNumMask uint32 = 0xffff

// UnknownFunction is the single-register reply for an unrecognized or
// unavailable function, SMC_UNK in the calling convention.
const UnknownFunction uint64 = 0xffffffffffffffff

// FunctionNumber strips the calling-convention metadata from fid.
func FunctionNumber(fid uint32) uint32 {
	return fid & FuncNumMask
}

// SplitArgs splits two argument registers into four narrow words, in the
// fixed order low(x1), high(x1), low(x2), high(x2). Operations index their
// arguments positionally against this order.
func SplitArgs(x1, x2 uint64) [4]uint32 {
	return [4]uint32{
		uint32(x1),
		uint32(x1 >> 32),
		uint32(x2),
		uint32(x2 >> 32),
	}
}

// JoinWords packs two narrow words into one register, lo in the low half.
func JoinWords(lo, hi uint32) uint64 {
	return uint64(lo) | uint64(hi)<<32
}

// PackStatus packs an operation's status code and extra value into one result
// register: status in the low half, extra in the high half. Operations
// without an extra value leave the high half zero.
func PackStatus(status, extra uint32) uint64 {
	return JoinWords(status, extra)
}

// Result holds the one to three result registers of a completed call.
type Result struct {
	words [3]uint64
	n     int
}

// Ret1 builds a single-register result.
func Ret1(x0 uint64) Result {
	return Result{words: [3]uint64{x0}, n: 1}
}

// Ret3 builds a three-register result.
func Ret3(x0, x1, x2 uint64) Result {
	return Result{words: [3]uint64{x0, x1, x2}, n: 3}
}

// Unknown builds the reply for a function the service does not implement.
func Unknown() Result {
	return Ret1(UnknownFunction)
}

// Words returns the populated result registers.
func (r Result) Words() []uint64 {
	return r.words[:r.n]
}
