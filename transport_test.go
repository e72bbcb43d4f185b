// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

// fakeNatsConn is a NatsConn-shaped fake standing in for a live NATS
// server, recording each published subject/frame pair.
type fakeNatsConn struct {
	published []struct {
		subject string
		data    []byte
	}
	err error
}

func (f *fakeNatsConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, struct {
		subject string
		data    []byte
	}{subj, data})
	return nil
}

func TestNatsTransportPublishes(t *testing.T) {
	conn := &fakeNatsConn{}
	transport := NatsTransport{Conn: conn}

	require.NoError(t, transport.Publish("out", []byte("hello")))
	require.Len(t, conn.published, 1)
	require.Equal(t, "out", conn.published[0].subject)
	require.Equal(t, []byte("hello"), conn.published[0].data)
}

func TestNatsTransportNilConnIsInvalidArgument(t *testing.T) {
	var transport NatsTransport
	require.ErrorIs(t, transport.Publish("out", []byte("x")), ErrInvalidArgument)

	transport = NewNatsTransport(nil)
	require.ErrorIs(t, transport.Publish("out", []byte("x")), ErrInvalidArgument)
}

func TestNatsTransportPropagatesPublishError(t *testing.T) {
	conn := &fakeNatsConn{err: ErrDeliveryError}
	transport := NatsTransport{Conn: conn}

	require.ErrorIs(t, transport.Publish("out", []byte("x")), ErrDeliveryError)
}

func TestDefaultSendFuncPublishesThroughTransport(t *testing.T) {
	conn := &fakeNatsConn{}
	transport := NewNatsTransport(nil)
	transport.Conn = conn

	r, _ := pipeFDs(t)
	z, err := NewReader("out", r, transport, "subject.out")
	require.NoError(t, err)

	require.NoError(t, z.callSend(Encode("out", []byte("hi"), false)))
	require.Len(t, conn.published, 1)
	require.Equal(t, "subject.out", conn.published[0].subject)

	name, data, eof, err := Decode(conn.published[0].data)
	require.NoError(t, err)
	require.Equal(t, "out", name)
	require.Equal(t, []byte("hi"), data)
	require.False(t, eof)
}

func TestNewLogrusSinkLogsThroughHook(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	sink := NewLogrusSink(logrus.NewEntry(logger))
	sink("ZIO: out: hello 1")

	require.Len(t, hook.Entries, 1)
	require.Equal(t, logrus.DebugLevel, hook.Entries[0].Level)
	require.Equal(t, "ZIO: out: hello 1", hook.Entries[0].Message)
}

func TestNewLogrusSinkDefaultsToStandardLogger(t *testing.T) {
	sink := NewLogrusSink(nil)
	require.NotPanics(t, func() { sink("no entry supplied") })
}
