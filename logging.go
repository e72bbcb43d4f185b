// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogFunc receives one already-prefixed, already-truncated debug line,
// collapsing the (log, prefix) sink pair into a single function value.
type LogFunc func(msg string)

// NewLogrusSink adapts a *logrus.Entry to a LogFunc for use as a ZIO's
// debug sink.
func NewLogrusSink(entry *logrus.Entry) LogFunc {
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	return func(msg string) { entry.Debug(msg) }
}

const vlogMaxLen = 4096

// truncateWithMarker bounds msg to max bytes, appending "+" when truncation
// happened, rather than silently dropping or panicking on an overlong
// formatted line.
func truncateWithMarker(msg string, max int) string {
	if len(msg) <= max {
		return msg
	}
	const suffix = "+"
	if max <= len(suffix) {
		return suffix
	}
	return msg[:max-len(suffix)] + suffix
}

// debugf formats and emits a debug line through z's log sink, applying the
// "ZIO: <prefix>: <msg>" framing and length-bounded truncation. It is a
// no-op unless z is verbose.
func (z *ZIO) debugf(format string, args ...interface{}) {
	if !z.cfg.verbose || z.log == nil {
		return
	}
	prefix := z.logPrefix
	if prefix == "" {
		prefix = z.name
	}
	msg := "ZIO: "
	if prefix != "" {
		msg += prefix + ": "
	}
	msg += fmt.Sprintf(format, args...)
	z.log(truncateWithMarker(msg, vlogMaxLen))
}
