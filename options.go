// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

// Option configures a ZIO at construction time, in the functional-options
// style used by NewReader/NewWriter and their pipe-backed variants.
type Option func(*ZIO)

// WithArg attaches an arbitrary closure-state value retrievable via Arg(),
// for callers that need to stash their own context alongside a ZIO.
func WithArg(arg interface{}) Option {
	return func(z *ZIO) { z.arg = arg }
}

// WithBufferCap overrides the default 4096-byte buffer_cap window.
func WithBufferCap(n int) Option {
	return func(z *ZIO) {
		if n > 0 {
			z.cfg.bufferCap = n
		}
	}
}

// WithUnbuffered disables buffering at construction time (BUFFERED and
// LINE_BUFFERED are both on by default).
func WithUnbuffered() Option {
	return func(z *ZIO) {
		z.cfg.buffered = false
		z.cfg.lineBuffered = false
	}
}

// WithoutLineBuffering keeps BUFFERED but disables LINE_BUFFERED.
func WithoutLineBuffering() Option {
	return func(z *ZIO) { z.cfg.lineBuffered = false }
}

// WithVerbose enables verbose debug logging at construction time.
func WithVerbose() Option {
	return func(z *ZIO) { z.cfg.verbose = true }
}

// WithSendCB installs a custom send callback, overriding the default
// transport-backed one a reader would otherwise build.
func WithSendCB(fn SendFunc) Option {
	return func(z *ZIO) { z.sendCB = fn }
}

// WithCloseCB installs a close callback.
func WithCloseCB(fn CloseFunc) Option {
	return func(z *ZIO) { z.closeCB = fn }
}

// WithDebug sets the log prefix and sink at construction time, equivalent to
// calling SetDebug immediately after construction.
func WithDebug(prefix string, log LogFunc) Option {
	return func(z *ZIO) {
		z.cfg.verbose = true
		z.logPrefix = prefix
		z.log = log
	}
}
