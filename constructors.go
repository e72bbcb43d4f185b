// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"golang.org/x/sys/unix"

	"github.com/nodelink-io/zio/internal/ring"
)

func newBase(name string, dir Direction) (*ZIO, error) {
	if name == "" {
		return nil, ErrInvalidArgument
	}
	return &ZIO{
		name:  name,
		dir:   dir,
		srcFD: -1,
		dstFD: -1,
		buf:   ring.New(ring.DefaultMinCapacity, ring.DefaultMaxCapacity),
		cfg: config{
			buffered:     true,
			lineBuffered: true,
			bufferCap:    4096,
		},
		state: stateOpen,
	}, nil
}

func setNonblocking(fd int) error {
	return unix.SetNonblock(fd, true)
}

// defaultSendFunc builds the default send callback: serialize the envelope
// and publish it as a single frame on the given transport and subject.
func defaultSendFunc(transport Transport, subject string) SendFunc {
	return func(z *ZIO, env Envelope) error {
		frame, err := env.Marshal()
		if err != nil {
			return err
		}
		return transport.Publish(subject, frame)
	}
}

// NewReader constructs a Reader ZIO draining srcfd. srcfd is switched to
// nonblocking. The default send callback publishes each envelope on subject
// via transport; pass WithSendCB to override it.
func NewReader(name string, srcfd int, transport Transport, subject string, opts ...Option) (*ZIO, error) {
	z, err := newBase(name, DirReader)
	if err != nil {
		return nil, err
	}
	if srcfd < 0 {
		return nil, ErrInvalidArgument
	}
	if err := setNonblocking(srcfd); err != nil {
		return nil, wrapIOError("set_nonblocking", err)
	}
	z.srcFD = srcfd
	z.dstsock = transport
	z.subject = subject
	if transport != nil {
		z.sendCB = defaultSendFunc(transport, subject)
	}
	for _, opt := range opts {
		opt(z)
	}
	return z, nil
}

// NewPipeReader creates an anonymous pipe, wraps its read end as a Reader,
// and retains the write end as the ZIO's DstFD for the caller to hand to a
// child process (e.g. as its stdout). Only the read end is switched to
// nonblocking; closing the ZIO closes only the read end.
func NewPipeReader(name string, transport Transport, subject string, opts ...Option) (*ZIO, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], 0); err != nil {
		return nil, wrapIOError("pipe", err)
	}
	z, err := NewReader(name, fds[0], transport, subject, opts...)
	if err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}
	z.dstFD = fds[1]
	return z, nil
}

// NewWriter constructs a Writer ZIO draining envelopes onto dstfd. dstfd is
// switched to nonblocking.
func NewWriter(name string, dstfd int, opts ...Option) (*ZIO, error) {
	z, err := newBase(name, DirWriter)
	if err != nil {
		return nil, err
	}
	if dstfd < 0 {
		return nil, ErrInvalidArgument
	}
	if err := setNonblocking(dstfd); err != nil {
		return nil, wrapIOError("set_nonblocking", err)
	}
	z.dstFD = dstfd
	for _, opt := range opts {
		opt(z)
	}
	return z, nil
}

// NewPipeWriter creates an anonymous pipe, wraps its write end as a Writer,
// and retains the read end as the ZIO's SrcFD for the caller to hand to a
// child process (e.g. as its stdin). Only the write end is switched to
// nonblocking.
func NewPipeWriter(name string, opts ...Option) (*ZIO, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], 0); err != nil {
		return nil, wrapIOError("pipe", err)
	}
	z, err := NewWriter(name, fds[1], opts...)
	if err != nil {
		_ = unix.Close(fds[0])
		_ = unix.Close(fds[1])
		return nil, err
	}
	z.srcFD = fds[0]
	return z, nil
}
