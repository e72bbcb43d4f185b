// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring implements the fixed-minimum/maximum-capacity circular byte
// buffer that backs a zio object's buffered mode.
//
// The ring grows on demand between MinCapacity and MaxCapacity and never
// drops bytes: a Write that would exceed MaxCapacity fails rather than
// silently discarding data.
package ring

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrWouldBlock is returned by WriteFromFD/ReadToFD when the underlying
// descriptor is not ready. It is not a failure: callers must park and retry
// once the event loop reports readiness again.
var ErrWouldBlock = errors.New("ring: would block")

// ErrFull is returned by Write when accepting the bytes would exceed
// MaxCapacity under the no-drop policy.
var ErrFull = errors.New("ring: full")

const (
	// DefaultMinCapacity is the floor a ring starts at.
	DefaultMinCapacity = 64
	// DefaultMaxCapacity is the ceiling a ring may grow to.
	DefaultMaxCapacity = 1638400
)

// Buffer is a circular byte buffer with a no-drop overwrite policy.
type Buffer struct {
	buf        []byte
	head, size int // head index of oldest byte; size == Used()
	minCap     int
	maxCap     int
}

// New returns a Buffer that starts at minCap (floored to DefaultMinCapacity)
// and grows on demand up to maxCap (raised to minCap if smaller; no other
// bound is applied, so callers pass the real ceiling explicitly).
func New(minCap, maxCap int) *Buffer {
	if minCap < DefaultMinCapacity {
		minCap = DefaultMinCapacity
	}
	if maxCap < minCap {
		maxCap = minCap
	}
	return &Buffer{
		buf:    make([]byte, minCap),
		minCap: minCap,
		maxCap: maxCap,
	}
}

// Used returns the number of bytes currently stored.
func (b *Buffer) Used() int { return b.size }

// Free returns the number of bytes that can be written before the ring must
// grow, i.e. room in the current allocation.
func (b *Buffer) Free() int { return len(b.buf) - b.size }

// Empty reports whether the ring holds no bytes.
func (b *Buffer) Empty() bool { return b.size == 0 }

// Cap returns the ring's current backing capacity (not the max ceiling).
func (b *Buffer) Cap() int { return len(b.buf) }

func (b *Buffer) growTo(want int) {
	if want <= len(b.buf) {
		return
	}
	nc := len(b.buf)
	if nc == 0 {
		nc = b.minCap
	}
	for nc < want {
		nc *= 2
	}
	if nc > b.maxCap {
		nc = b.maxCap
	}
	nb := make([]byte, nc)
	n := b.read(nb, b.size)
	b.buf = nb
	b.head = 0
	b.size = n
}

// Write appends p to the ring. It fails with ErrFull, rather than dropping
// bytes, if accepting p would exceed the maximum capacity. The returned
// dropped count always 0: the field exists for API parity with overwrite
// policies this buffer never implements.
func (b *Buffer) Write(p []byte) (n int, dropped int, err error) {
	if len(p) == 0 {
		return 0, 0, nil
	}
	need := b.size + len(p)
	if need > b.maxCap {
		return 0, 0, ErrFull
	}
	if need > len(b.buf) {
		b.growTo(need)
	}
	tail := (b.head + b.size) % len(b.buf)
	for i := 0; i < len(p); i++ {
		b.buf[(tail+i)%len(b.buf)] = p[i]
	}
	b.size += len(p)
	return len(p), 0, nil
}

// read copies up to len(dst) bytes out of the ring into dst without
// removing them; used internally by growTo to repack the backing array.
func (b *Buffer) read(dst []byte, max int) int {
	n := b.size
	if max < n {
		n = max
	}
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] = b.buf[(b.head+i)%len(b.buf)]
	}
	return n
}

// Read removes and returns up to len(p) bytes from the ring.
func (b *Buffer) Read(p []byte) int {
	n := b.read(p, len(p))
	b.head = (b.head + n) % len(b.buf)
	b.size -= n
	return n
}

// ReadLine removes and returns up to max bytes through and including the
// first newline. It returns nil if no complete line is present (the caller
// switches to plain Read once EOF has been observed upstream).
func (b *Buffer) ReadLine(max int) []byte {
	if max <= 0 || b.size == 0 {
		return nil
	}
	limit := b.size
	if max < limit {
		limit = max
	}
	idx := -1
	for i := 0; i < limit; i++ {
		if b.buf[(b.head+i)%len(b.buf)] == '\n' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]byte, idx+1)
	b.Read(out)
	return out
}

// WriteFromFD performs a single nonblocking read from fd into the ring's
// free region, growing the ring first if necessary. max bounds the size of
// a single read; max <= 0 means "as much as currently fits".
//
// Returns (n, nil) for n > 0 bytes read, (0, nil) at EOF, (0, ErrWouldBlock)
// if the descriptor was not ready, or (0, err) on a real I/O error.
func (b *Buffer) WriteFromFD(fd int, max int) (int, error) {
	room := b.Free()
	if room == 0 {
		b.growTo(len(b.buf) + b.minCap)
		room = b.Free()
	}
	if room == 0 {
		return 0, ErrFull
	}
	if max > 0 && max < room {
		room = max
	}

	// Read into a flat scratch buffer: the free region may wrap around the
	// end of the backing array, and unix.Read needs one contiguous slice.
	scratch := make([]byte, room)
	n, err := unix.Read(fd, scratch)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	tail := (b.head + b.size) % len(b.buf)
	for i := 0; i < n; i++ {
		b.buf[(tail+i)%len(b.buf)] = scratch[i]
	}
	b.size += n
	return n, nil
}

// ReadToFD performs a single nonblocking write from the ring's used region
// to fd. max bounds the size of a single write; max <= 0 means "as much as
// is currently buffered".
//
// Returns (n, nil) for n >= 0 bytes written, (0, ErrWouldBlock) if the
// descriptor was not ready, or (0, err) on a real I/O error.
func (b *Buffer) ReadToFD(fd int, max int) (int, error) {
	avail := b.size
	if avail == 0 {
		return 0, nil
	}
	if max > 0 && max < avail {
		avail = max
	}
	scratch := make([]byte, avail)
	b.read(scratch, avail)

	n, err := unix.Write(fd, scratch)
	if err != nil {
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK) {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	b.head = (b.head + n) % len(b.buf)
	b.size -= n
	return n, nil
}

// Bytes returns a copy of the currently buffered bytes without consuming
// them. It exists for tests and diagnostics; hot paths use Read/ReadLine.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.size)
	b.read(out, b.size)
	return out
}
