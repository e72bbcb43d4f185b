// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"errors"

	"golang.org/x/sys/unix"

	"github.com/nodelink-io/zio/internal/ring"
)

// flushableAmount returns the number of bytes currently eligible to flush,
// per the buffering mode:
//   - unbuffered: all buffered bytes
//   - line-buffered: handled specially by flush() via ReadLine
//   - buffered: all bytes iff used > buffer_cap or EOF is pending, else 0
func (z *ZIO) flushableAmount() int {
	if z.buf == nil {
		return 0
	}
	size := z.buf.Used()
	if size <= 0 {
		return 0
	}
	if !z.cfg.buffered || z.cfg.lineBuffered {
		return size
	}
	if z.EOF() || size > z.cfg.bufferCap {
		return size
	}
	return 0
}

// callSend invokes z's send callback and returns its error unchanged
// (ErrInvalidArgument if no callback is installed). flush reports any
// failure to its caller as ErrDeliveryError.
func (z *ZIO) callSend(env Envelope) error {
	if z.sendCB == nil {
		return ErrInvalidArgument
	}
	if err := z.sendCB(z, env); err != nil {
		return err
	}
	return nil
}

// onReadable drives the reader flusher: one nonblocking fill from srcfd,
// then emit as many envelopes as are currently flushable.
func (z *ZIO) onReadable(PollEvent) error {
	if z.dir != DirReader {
		return ErrInvalidArgument
	}
	if z.Closed() {
		return nil
	}
	if z.buf == nil {
		z.buf = ring.New(ring.DefaultMinCapacity, ring.DefaultMaxCapacity)
	}

	n, err := z.buf.WriteFromFD(z.srcFD, -1)
	if err != nil {
		if errors.Is(err, ring.ErrWouldBlock) {
			// not fatal: fall through and flush whatever is already buffered
		} else {
			z.debugf("read: %v", err)
			return wrapIOError("read", err)
		}
	} else if n == 0 {
		if z.state == stateOpen {
			z.state = stateEofSeen
		}
		z.debugf("got eof")
	}

	return z.flush()
}

// flush emits envelopes while there is flushable data or an un-sent EOF,
// combining a final data chunk with the eof flag into one frame when
// possible rather than always trailing with a separate empty eof frame.
func (z *ZIO) flush() error {
	for {
		amt := z.flushableAmount()
		eofPending := z.EOF() && (z.buf == nil || z.buf.Empty())
		if amt <= 0 && !eofPending {
			break
		}

		var data []byte
		if amt > 0 {
			if z.cfg.lineBuffered && !z.EOF() {
				line := z.buf.ReadLine(amt)
				if line == nil {
					// No complete line yet: park until more data arrives.
					return nil
				}
				data = line
			} else {
				tmp := make([]byte, amt)
				n := z.buf.Read(tmp)
				data = tmp[:n]
				if n == 0 {
					// Nothing came out (shouldn't happen given amt > 0, but
					// avoid spinning if it does).
					return nil
				}
			}
		}

		eofFlag := z.EOF() && z.buf.Empty()
		if eofFlag {
			z.debugf("setting EOF sent")
			z.state = stateEofDelivered
		}

		env := Encode(z.name, data, eofFlag)
		if err := z.callSend(env); err != nil {
			if z.state != stateEofDelivered {
				return ErrDeliveryError
			}
			// EOF already latched: proceed to close despite the error on
			// the trailing frame.
		}

		if z.state == stateEofDelivered {
			break
		}
	}

	if z.state == stateEofDelivered {
		z.debugf("reader detaching from loop")
		if err := z.disarmRead(); err != nil {
			return err
		}
		return z.closeDescriptor()
	}
	return nil
}

// writeOnce performs a single nonblocking write, normalizing would-block to
// (0, nil) rather than propagating unix.EAGAIN (ring.Buffer's fd methods
// report the same condition as ring.ErrWouldBlock instead).
func writeOnce(fd int, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := unix.Write(fd, p)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

// writeData tries a direct write first to avoid a copy, then buffers
// whatever remains. A full ring is fatal for this envelope (ErrBufferFull,
// no-drop policy).
//
// A nil error means all of data was accepted: a direct write of everything
// and a partial or empty direct write followed by a successful buffer
// enqueue are both full acceptance from the caller's perspective.
func (z *ZIO) writeData(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if z.buf == nil {
		z.buf = ring.New(ring.DefaultMinCapacity, ring.DefaultMaxCapacity)
	}

	n := 0
	if z.buf.Empty() {
		wn, err := writeOnce(z.dstFD, data)
		if err != nil {
			return wrapIOError("write", err)
		}
		n = wn
		if n == len(data) {
			return nil
		}
	}

	if _, _, err := z.buf.Write(data[n:]); err != nil {
		return ErrBufferFull
	}
	return nil
}

// WriteEnvelope decodes frame, and if it is addressed to this writer's
// name, applies its eof flag and/or data. Envelopes addressed to another
// name are ignored, not an error.
func (z *ZIO) WriteEnvelope(frame []byte) error {
	if z.dir != DirWriter {
		return ErrInvalidArgument
	}
	if z.Closed() {
		return ErrInvalidState
	}

	name, data, eof, err := Decode(frame)
	if err != nil {
		return err
	}
	if name != z.name {
		return nil
	}

	priorEOF := z.EOF()
	if len(data) > 0 {
		if priorEOF {
			// Data arriving on an already-finished stream is rejected
			// rather than silently buffered past a logical EOF.
			return ErrInvalidState
		}
		if err := z.writeData(data); err != nil {
			return err
		}
	}
	if eof && z.state == stateOpen {
		z.state = stateEofSeen
	}

	z.debugf("write: %d bytes, eof=%v", len(data), z.EOF())

	if z.writePending() {
		return z.armWrite()
	}
	return nil
}

// onWritable drives the writer flusher: drain the ring to dstfd, closing
// once it is empty and EOF has been observed.
func (z *ZIO) onWritable(PollEvent) error {
	if z.dir != DirWriter {
		return ErrInvalidArgument
	}
	if z.Closed() {
		return nil
	}
	if z.buf == nil {
		return z.disarmWrite()
	}

	_, err := z.buf.ReadToFD(z.dstFD, -1)
	if err != nil {
		if errors.Is(err, ring.ErrWouldBlock) {
			return nil
		}
		z.debugf("write: %v", err)
		return wrapIOError("write", err)
	}

	if z.buf.Empty() && z.EOF() {
		if err := z.disarmWrite(); err != nil {
			return err
		}
		return z.closeDescriptor()
	}
	if !z.writePending() {
		return z.disarmWrite()
	}
	return nil
}
