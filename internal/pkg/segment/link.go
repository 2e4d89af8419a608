package segment

import (
	"context"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// MaxDatagramSize is the largest UDP payload over IPv4.
const MaxDatagramSize = 65507

// DefaultTimeout bounds every read on a bound link unless configured otherwise.
const DefaultTimeout = 10 * time.Second

// PacketConn is the subset of net.PacketConn a Link needs.
type PacketConn interface {
	ReadFrom(p []byte) (int, net.Addr, error)
	WriteTo(p []byte, addr net.Addr) (int, error)
	SetReadDeadline(t time.Time) error
}

// Link exchanges segments with a single peer.
type Link struct {
	conn        PacketConn
	peer        net.Addr
	timeout     time.Duration
	maxDatagram int
	logger      logrus.FieldLogger
}

// Cfg configures a Link.
type Cfg func(*Link) error

// WithPeer binds the link to addr before the first exchange.
func WithPeer(addr net.Addr) Cfg {
	return func(l *Link) error {
		l.peer = addr
		return nil
	}
}

// WithTimeout sets the deadline applied to each read once the link has a peer.
// Zero disables the deadline.
func WithTimeout(d time.Duration) Cfg {
	return func(l *Link) error {
		if d < 0 {
			return errors.Errorf("negative timeout %s", d)
		}
		l.timeout = d
		return nil
	}
}

// WithMaxDatagramSize sets the largest datagram written for one piece of a segment.
func WithMaxDatagramSize(n int) Cfg {
	return func(l *Link) error {
		if n <= 0 || n > MaxDatagramSize {
			return errors.Errorf("datagram size %d out of range (1..%d)", n, MaxDatagramSize)
		}
		l.maxDatagram = n
		return nil
	}
}

// WithLogger sets the logger used for per-segment diagnostics.
func WithLogger(l logrus.FieldLogger) Cfg {
	return func(link *Link) error {
		link.logger = l
		return nil
	}
}

// NewLink creates a new Link over conn with the given configuration.
func NewLink(conn PacketConn, cfgs ...Cfg) (*Link, error) {
	if conn == nil {
		return nil, errors.New("nil packet conn")
	}
	l := &Link{
		conn:        conn,
		timeout:     DefaultTimeout,
		maxDatagram: MaxDatagramSize,
		logger:      logger,
	}
	for _, cfg := range cfgs {
		if err := cfg(l); err != nil {
			return nil, errors.Wrap(err, "apply Link cfg failed")
		}
	}
	return l, nil
}

// Peer returns the address the link replies to, or nil while unbound.
func (l *Link) Peer() net.Addr {
	return l.peer
}

// Send writes buf to the peer and waits for its acknowledgment.
// It returns len(buf) only if the peer answered AckSuccess.
func (l *Link) Send(ctx context.Context, buf []byte) (int, error) {
	if l.peer == nil {
		return 0, ErrNoPeer
	}
	for off := 0; off < len(buf); {
		end := min(off+l.maxDatagram, len(buf))
		n, err := l.conn.WriteTo(buf[off:end], l.peer)
		if err != nil {
			return 0, transportErr("write datagram", err)
		}
		if n == 0 {
			return 0, transportErr("write datagram", errors.Errorf("zero-length write at offset %d", off))
		}
		l.logger.WithFields(logrus.Fields{"offset": off, "len": n}).Trace("sent datagram")
		off += n
	}

	ackBuf := make([]byte, 2*IntSize)
	n, err := l.read(ctx, ackBuf)
	if err != nil {
		return 0, errors.Wrap(err, "receive ack failed")
	}
	if n != IntSize {
		return 0, errors.Wrapf(ErrMalformedAck, "got %d bytes, want %d", n, IntSize)
	}
	if ack := decodeAck(ackBuf); ack != AckSuccess {
		return 0, errors.Wrapf(ErrAckFailure, "peer answered %s", ack)
	}
	l.logger.WithField("len", len(buf)).Debug("segment acknowledged")
	return len(buf), nil
}

// Receive fills buf from the peer and answers with exactly one acknowledgment.
// An unbound link accepts the first datagram from any address and binds to it.
// It returns len(buf) only if the whole segment arrived and the acknowledgment was sent.
func (l *Link) Receive(ctx context.Context, buf []byte) (int, error) {
	var recvErr error
	for off := 0; off < len(buf); {
		n, err := l.read(ctx, buf[off:])
		if err != nil {
			recvErr = errors.Wrapf(err, "receive at offset %d of %d failed", off, len(buf))
			break
		}
		l.logger.WithFields(logrus.Fields{"offset": off, "len": n}).Trace("received datagram")
		off += n
	}

	if l.peer == nil {
		// Nobody to acknowledge.
		if recvErr == nil {
			recvErr = ErrNoPeer
		}
		return 0, recvErr
	}
	ack := AckSuccess
	if recvErr != nil {
		ack = AckFailure
	}
	if _, err := l.conn.WriteTo(encodeAck(ack), l.peer); err != nil {
		l.logger.WithError(err).Warn("send ack failed")
		if recvErr == nil {
			recvErr = transportErr("write ack", err)
		}
	}
	if recvErr != nil {
		return 0, recvErr
	}
	l.logger.WithField("len", len(buf)).Debug("segment received")
	return len(buf), nil
}

// read returns the next datagram from the peer, binding the link if it has none.
// Datagrams from other addresses are dropped.
func (l *Link) read(ctx context.Context, p []byte) (int, error) {
	for {
		n, addr, err := l.readFrom(ctx, p)
		if err != nil {
			return 0, err
		}
		if l.peer == nil {
			l.peer = addr
			l.logger.WithField("peer", addr.String()).Info("bound to peer")
			return n, nil
		}
		if !sameAddr(l.peer, addr) {
			l.logger.WithFields(logrus.Fields{
				"peer": l.peer.String(),
				"from": addr.String(),
			}).Warn("dropped datagram from foreign address")
			continue
		}
		return n, nil
	}
}

func (l *Link) readFrom(ctx context.Context, p []byte) (int, net.Addr, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	var deadline time.Time
	if l.peer != nil && l.timeout > 0 {
		deadline = time.Now().Add(l.timeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := l.conn.SetReadDeadline(deadline); err != nil {
		return 0, nil, transportErr("set read deadline", err)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.SetReadDeadline(time.Unix(1, 0))
	})
	defer stop()

	n, addr, err := l.conn.ReadFrom(p)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, transportErr("read datagram", err)
	}
	return n, addr, nil
}

func sameAddr(a, b net.Addr) bool {
	return a.Network() == b.Network() && a.String() == b.String()
}

// Sender sends one segment and waits for its acknowledgment.
type Sender interface {
	Send(ctx context.Context, buf []byte) (int, error)
}

// Receiver receives one segment and acknowledges it.
type Receiver interface {
	Receive(ctx context.Context, buf []byte) (int, error)
}

var (
	_ Sender   = (*Link)(nil)
	_ Receiver = (*Link)(nil)
)
