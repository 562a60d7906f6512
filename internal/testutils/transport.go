package testutils

import (
	"fmt"

	"github.com/noble-assets/cctp-relay/internal/bridge"
)

// SentMessage captures one dispatched message for assertions.
type SentMessage struct {
	Destination bridge.Domain
	Recipient   bridge.Address
	Caller      bridge.Address // zero for unrestricted sends
	Body        []byte
	Nonce       bridge.Nonce
}

// Transport is an in-memory MessageTransport for tests. It rejects bodies
// larger than MaxBodySize (0 means unlimited) and issues nonces monotonically
// from 1, in a nonce space independent of the ledger's.
type Transport struct {
	MaxBodySize int
	FailNext    error // next send fails with this error, then clears

	nonce uint64
	sent  []SentMessage

	snapNonce uint64
	snapSent  int
}

func NewTransport() *Transport {
	return &Transport{}
}

// Sent returns all messages dispatched so far, in order.
func (tr *Transport) Sent() []SentMessage {
	return tr.sent
}

func (tr *Transport) Send(destination bridge.Domain, recipient bridge.Address, body []byte) (bridge.Nonce, error) {
	return tr.send(destination, recipient, bridge.ZeroAddress, body)
}

func (tr *Transport) SendWithCaller(destination bridge.Domain, recipient bridge.Address, destinationCaller bridge.Address, body []byte) (bridge.Nonce, error) {
	return tr.send(destination, recipient, destinationCaller, body)
}

func (tr *Transport) send(destination bridge.Domain, recipient, caller bridge.Address, body []byte) (bridge.Nonce, error) {
	if tr.FailNext != nil {
		err := tr.FailNext
		tr.FailNext = nil
		return 0, err
	}
	if tr.MaxBodySize > 0 && len(body) > tr.MaxBodySize {
		return 0, fmt.Errorf("message body exceeds %d bytes", tr.MaxBodySize)
	}
	tr.nonce++
	msg := SentMessage{
		Destination: destination,
		Recipient:   recipient,
		Caller:      caller,
		Body:        append([]byte(nil), body...),
		Nonce:       bridge.Nonce(tr.nonce),
	}
	tr.sent = append(tr.sent, msg)
	return msg.Nonce, nil
}

// Snapshot records the current state for a later Restore.
func (tr *Transport) Snapshot() {
	tr.snapNonce = tr.nonce
	tr.snapSent = len(tr.sent)
}

// Restore rolls the transport back to the last Snapshot.
func (tr *Transport) Restore() {
	tr.nonce = tr.snapNonce
	tr.sent = tr.sent[:tr.snapSent]
}
