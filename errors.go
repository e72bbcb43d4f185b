// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
)

var (
	// ErrInvalidArgument reports a nil handle, a wrong-direction operation, or a
	// malformed envelope.
	ErrInvalidArgument = errors.New("zio: invalid argument")

	// ErrInvalidState reports an operation attempted on a Closed zio, or an
	// attempt to destroy one while still attached to an event loop.
	ErrInvalidState = errors.New("zio: invalid state")

	// ErrBufferFull reports that the ring exhausted its maximum capacity while
	// enqueuing writer-side data. Fatal for the envelope that triggered it.
	ErrBufferFull = errors.New("zio: buffer full")

	// ErrDeliveryError reports that the send callback returned a non-nil
	// error. The flush caller sees this; the zio remains usable unless
	// EOF was already latched as sent.
	ErrDeliveryError = errors.New("zio: delivery failed")
)

// wrapIOError wraps an underlying syscall/transport failure as an I/O
// error, preserving the original error for errors.Is/errors.As/
// pkgerrors.Cause.
func wrapIOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrapf(err, "zio: io error during %s", op)
}
