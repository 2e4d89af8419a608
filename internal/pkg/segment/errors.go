package segment

import "github.com/pkg/errors"

// ErrTransport indicates the underlying socket failed to send or receive.
var ErrTransport = errors.New("transport error")

// ErrAckFailure indicates the peer acknowledged a segment with something other than AckSuccess.
var ErrAckFailure = errors.New("segment not acknowledged")

// ErrMalformedAck indicates the acknowledgment datagram had the wrong size.
var ErrMalformedAck = errors.New("malformed acknowledgment")

// ErrNoPeer indicates a send was attempted on a link that is not bound to a peer.
var ErrNoPeer = errors.New("link has no peer")

// opError tags a cause with one of the sentinel kinds above, so callers can use
// errors.Is against the kind while the cause stays in the message and chain.
type opError struct {
	kind error
	op   string
	err  error
}

func (e *opError) Error() string {
	return e.op + " failed: " + e.kind.Error() + ": " + e.err.Error()
}

func (e *opError) Unwrap() error {
	return e.err
}

func (e *opError) Is(target error) bool {
	return target == e.kind
}

func transportErr(op string, err error) error {
	return &opError{kind: ErrTransport, op: op, err: err}
}
