// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package zio

import "github.com/nats-io/nats.go"

// Transport is the opaque delivery-transport handle the default reader
// send callback publishes encoded envelopes through.
type Transport interface {
	Publish(subject string, frame []byte) error
}

// NatsConn is the subset of a *nats.Conn's method set NatsTransport
// depends on, narrowed to an interface so delivery can be exercised
// against a fake in tests without a live NATS server. A *nats.Conn
// satisfies this interface directly.
type NatsConn interface {
	Publish(subj string, data []byte) error
}

// NatsTransport adapts a NatsConn (concretely a *nats.Conn in production)
// to Transport, publishing each encoded envelope as a single NATS message
// on a subject.
type NatsTransport struct {
	Conn NatsConn
}

// NewNatsTransport adapts conn to NatsTransport.
func NewNatsTransport(conn *nats.Conn) NatsTransport {
	if conn == nil {
		return NatsTransport{}
	}
	return NatsTransport{Conn: conn}
}

// Publish sends frame as a single NATS message on subject.
func (t NatsTransport) Publish(subject string, frame []byte) error {
	if t.Conn == nil {
		return ErrInvalidArgument
	}
	return t.Conn.Publish(subject, frame)
}
