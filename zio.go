// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package zio adapts byte-oriented file descriptors to a framed,
// base64-encoded envelope bus and back.
//
// A ZIO is attached to an event loop; in the Reader direction it drains an
// input descriptor, packages the bytes into named envelopes (see Envelope),
// and hands them to a send callback; in the Writer direction it ingests
// envelopes, unpacks them, and drains the bytes onto an output descriptor.
// Two ZIO peers — one reader, one writer — exchange a stdio-like stream
// across whatever message transport implements Transport.
//
// Congestion control beyond the fixed-capacity ring, transport-level
// reliability, encryption, descriptor seeking, and multiplexing more than
// one logical stream per ZIO are all out of scope: run one independently
// named ZIO per logical stream.
package zio

import (
	"golang.org/x/sys/unix"

	"github.com/nodelink-io/zio/internal/ring"
)

// Direction is the immutable-after-construction reader/writer discriminant
// of a ZIO.
type Direction uint8

const (
	// DirReader drains srcfd and emits envelopes.
	DirReader Direction = iota + 1
	// DirWriter ingests envelopes and drains them onto dstfd.
	DirWriter
)

func (d Direction) String() string {
	switch d {
	case DirReader:
		return "reader"
	case DirWriter:
		return "writer"
	default:
		return "unknown"
	}
}

// protoState is the protocol-level state machine, kept separate from the
// buffering/verbosity configuration so mutators never race a transition.
type protoState uint8

const (
	stateOpen protoState = iota
	stateEofSeen
	stateEofDelivered
	stateClosed
)

// config bundles the buffering and verbosity configuration knobs, as
// distinct from protoState's protocol-level transitions. The mutators may
// change it before or after attach.
type config struct {
	buffered     bool
	lineBuffered bool
	bufferCap    int
	verbose      bool
}

// SendFunc is the reader-side delivery callback. It returns nil on success
// or a non-nil error to report a delivery failure; closure state for the
// callback can also be retrieved via z.Arg().
type SendFunc func(z *ZIO, env Envelope) error

// CloseFunc is invoked exactly once when a ZIO's descriptor transitions to
// Closed.
type CloseFunc func(z *ZIO) error

// ZIO is a named, directional I/O adapter between a file descriptor and a
// framed envelope bus. See the package doc for the overall model.
type ZIO struct {
	name string
	dir  Direction

	srcFD int // DirReader input, or a pipe writer's exposed read end; -1 if unset
	dstFD int // DirWriter output, or a pipe reader's exposed write end; -1 if unset

	// dstsock / subject back the default reader send callback.
	dstsock Transport
	subject string

	buf *ring.Buffer
	cfg config

	state protoState

	sendCB  SendFunc
	closeCB CloseFunc

	log       LogFunc
	logPrefix string

	loop       EventLoop
	armedRead  bool
	armedWrite bool

	arg interface{}
}

// Name returns the envelope top-level key this ZIO uses.
func (z *ZIO) Name() string { return z.name }

// Direction returns whether z is a Reader or a Writer.
func (z *ZIO) Direction() Direction { return z.dir }

// SrcFD returns the reader-side source descriptor (for a pipe writer, the
// exposed read end of its pipe), or -1 if none.
func (z *ZIO) SrcFD() int { return z.srcFD }

// DstFD returns the writer-side destination descriptor (for a pipe reader,
// the exposed write end of its pipe), or -1 if none.
func (z *ZIO) DstFD() int { return z.dstFD }

// Arg returns the closure-state value installed via WithArg, if any.
func (z *ZIO) Arg() interface{} { return z.arg }

// Closed reports whether z has fully transitioned to the Closed state.
func (z *ZIO) Closed() bool { return z.state == stateClosed }

// EOF reports whether the local end has observed end-of-stream: for a
// Reader, srcfd returned 0; for a Writer, an eof:true envelope arrived.
func (z *ZIO) EOF() bool { return z.state >= stateEofSeen }

// EOFSent reports whether a Reader has already handed an eof:true frame to
// its send callback (always false for a Writer).
func (z *ZIO) EOFSent() bool { return z.dir == DirReader && z.state >= stateEofDelivered }

// SetBuffered enables buffered mode with the given buffer_cap, allocating
// the backing ring if one is not already present. Switching modes never
// discards undelivered data.
func (z *ZIO) SetBuffered(bufferCap int) error {
	if z.Closed() {
		return ErrInvalidState
	}
	z.cfg.buffered = true
	if bufferCap > 0 {
		z.cfg.bufferCap = bufferCap
	}
	if z.buf == nil {
		z.buf = ring.New(ring.DefaultMinCapacity, ring.DefaultMaxCapacity)
	}
	return nil
}

// SetLineBuffered enables line-buffered mode, implying BUFFERED with at
// least a 4096-byte window.
func (z *ZIO) SetLineBuffered() error {
	if z.cfg.bufferCap < 4096 {
		if err := z.SetBuffered(4096); err != nil {
			return err
		}
	} else if err := z.SetBuffered(z.cfg.bufferCap); err != nil {
		return err
	}
	z.cfg.lineBuffered = true
	return nil
}

// SetUnbuffered disables buffering. It does not discard any data already
// staged in the ring: the ring, if present, stays alive until it drains
// naturally through the flusher.
func (z *ZIO) SetUnbuffered() error {
	if z.Closed() {
		return ErrInvalidState
	}
	z.cfg.buffered = false
	z.cfg.lineBuffered = false
	return nil
}

// SetVerbose turns on debug logging.
func (z *ZIO) SetVerbose() error {
	z.cfg.verbose = true
	return nil
}

// SetQuiet turns off debug logging.
func (z *ZIO) SetQuiet() error {
	z.cfg.verbose = false
	return nil
}

// SetDebug sets the log prefix and sink and enables verbose logging.
func (z *ZIO) SetDebug(prefix string, log LogFunc) error {
	z.cfg.verbose = true
	if prefix != "" {
		z.logPrefix = prefix
	}
	if log != nil {
		z.log = log
	}
	return nil
}

// SetSendCB installs fn as z's send callback.
func (z *ZIO) SetSendCB(fn SendFunc) error {
	z.sendCB = fn
	return nil
}

// SetCloseCB installs fn as z's close callback.
func (z *ZIO) SetCloseCB(fn CloseFunc) error {
	z.closeCB = fn
	return nil
}

// Attach registers z with loop: a Reader arms read-readiness on srcfd; a
// Writer arms write-readiness on dstfd only if it already has data or EOF
// pending.
func (z *ZIO) Attach(loop EventLoop) error {
	if loop == nil {
		return ErrInvalidArgument
	}
	if z.Closed() {
		return ErrInvalidState
	}
	z.loop = loop
	switch z.dir {
	case DirReader:
		return z.armRead()
	case DirWriter:
		if z.writePending() {
			return z.armWrite()
		}
		return nil
	default:
		return ErrInvalidArgument
	}
}

// Detach deregisters z's poll interests without closing its descriptor.
func (z *ZIO) Detach() error {
	if err := z.disarmRead(); err != nil {
		return err
	}
	if err := z.disarmWrite(); err != nil {
		return err
	}
	z.loop = nil
	return nil
}

// Destroy releases z's buffer and descriptors. It is only safe to call once
// z is detached from its event loop; calling it while still attached
// returns ErrInvalidState.
func (z *ZIO) Destroy() error {
	if z.armedRead || z.armedWrite {
		return ErrInvalidState
	}
	if !z.Closed() {
		_ = z.closeDescriptor()
	}
	z.buf = nil
	return nil
}

// closeDescriptor closes the owning-side descriptor exactly once, fires
// closeCB, and transitions to Closed.
func (z *ZIO) closeDescriptor() error {
	if z.state == stateClosed {
		return nil
	}
	var closeErr error
	switch z.dir {
	case DirReader:
		if z.srcFD >= 0 {
			closeErr = unix.Close(z.srcFD)
			z.srcFD = -1
		}
	case DirWriter:
		if z.dstFD >= 0 {
			closeErr = unix.Close(z.dstFD)
			z.dstFD = -1
		}
	}
	z.state = stateClosed
	if z.closeCB != nil {
		if err := z.closeCB(z); err != nil {
			return err
		}
	}
	if closeErr != nil {
		return wrapIOError("close", closeErr)
	}
	return nil
}

// writePending reports whether a Writer still has buffered bytes to drain
// or an observed EOF to act on.
func (z *ZIO) writePending() bool {
	if z.Closed() {
		return false
	}
	if z.buf != nil && !z.buf.Empty() {
		return true
	}
	return z.EOF()
}
