// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

// PollEvent is a bitset of descriptor readiness conditions: the zio core
// only needs level-triggered readable/writable/error notifications.
// Implementations backed by an edge-triggered reactor must emulate level
// semantics internally.
type PollEvent uint8

const (
	PollReadable PollEvent = 1 << iota
	PollWritable
	PollError
)

// EventLoop is the two-method reactor seam a zio attaches to. It keeps the
// core testable without a real loop.
type EventLoop interface {
	// Register arms cb to run whenever fd reports any of events. A second
	// Register call for the same fd replaces the prior registration.
	Register(fd int, events PollEvent, cb func(PollEvent) error) error
	// Unregister disarms fd. It is a no-op if fd is not registered.
	Unregister(fd int) error
}

// armRead registers (or re-registers) z's srcfd for readability.
func (z *ZIO) armRead() error {
	if z.loop == nil || z.armedRead {
		return nil
	}
	if err := z.loop.Register(z.srcFD, PollReadable|PollError, z.onReadable); err != nil {
		return wrapIOError("arm_read", err)
	}
	z.armedRead = true
	return nil
}

// armWrite registers (or re-registers) z's dstfd for writability.
func (z *ZIO) armWrite() error {
	if z.loop == nil || z.armedWrite {
		return nil
	}
	if err := z.loop.Register(z.dstFD, PollWritable|PollError, z.onWritable); err != nil {
		return wrapIOError("arm_write", err)
	}
	z.armedWrite = true
	return nil
}

// disarmRead deregisters z's srcfd poll interest, if armed.
func (z *ZIO) disarmRead() error {
	if z.loop == nil || !z.armedRead {
		return nil
	}
	z.armedRead = false
	if err := z.loop.Unregister(z.srcFD); err != nil {
		return wrapIOError("disarm_read", err)
	}
	return nil
}

// disarmWrite deregisters z's dstfd poll interest, if armed.
func (z *ZIO) disarmWrite() error {
	if z.loop == nil || !z.armedWrite {
		return nil
	}
	z.armedWrite = false
	if err := z.loop.Unregister(z.dstFD); err != nil {
		return wrapIOError("disarm_write", err)
	}
	return nil
}
