// Package segmenttest provides an in-memory datagram pipe for exercising segment links.
package segmenttest

import (
	"net"
	"os"
	"sync"
	"time"
)

// Addr names one end of a pipe.
type Addr string

// Network implements net.Addr.
func (Addr) Network() string { return "pipe" }

func (a Addr) String() string { return string(a) }

type datagram struct {
	data []byte
	from net.Addr
}

// WriteHook inspects the n-th datagram written by a Conn (counting from zero).
// It returns the bytes to deliver (nil drops the datagram) or an error that fails the write.
type WriteHook func(n int, p []byte) ([]byte, error)

// Conn is one end of a Pipe. It implements segment.PacketConn.
type Conn struct {
	addr  Addr
	peer  *Conn
	inbox chan datagram

	mu       sync.Mutex
	deadline time.Time
	wake     chan struct{}
	hook     WriteHook
	writes   int
	closed   chan struct{}
	once     sync.Once
}

// Pipe returns two connected ends named a and b.
func Pipe(a, b string) (*Conn, *Conn) {
	ca := newConn(Addr(a))
	cb := newConn(Addr(b))
	ca.peer, cb.peer = cb, ca
	return ca, cb
}

func newConn(addr Addr) *Conn {
	return &Conn{
		addr:   addr,
		inbox:  make(chan datagram, 4096),
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Addr returns the address of this end.
func (c *Conn) Addr() net.Addr { return c.addr }

// OnWrite installs h for every following write.
func (c *Conn) OnWrite(h WriteHook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hook = h
}

// Writes returns the number of WriteTo calls so far.
func (c *Conn) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

// Inject delivers p to this end as if it came from from.
func (c *Conn) Inject(p []byte, from net.Addr) {
	c.inbox <- datagram{data: append([]byte(nil), p...), from: from}
}

// WriteTo delivers p to the other end when addr names it; anything else vanishes.
func (c *Conn) WriteTo(p []byte, addr net.Addr) (int, error) {
	select {
	case <-c.closed:
		return 0, net.ErrClosed
	default:
	}
	c.mu.Lock()
	n := c.writes
	c.writes++
	hook := c.hook
	c.mu.Unlock()

	out := append([]byte(nil), p...)
	if hook != nil {
		var err error
		out, err = hook(n, out)
		if err != nil {
			return 0, err
		}
	}
	if out != nil && addr.String() == c.peer.addr.String() {
		c.peer.inbox <- datagram{data: out, from: c.addr}
	}
	return len(p), nil
}

// ReadFrom copies the next datagram into p, truncating it if p is too short.
func (c *Conn) ReadFrom(p []byte) (int, net.Addr, error) {
	for {
		c.mu.Lock()
		deadline := c.deadline
		c.mu.Unlock()

		var timer *time.Timer
		var timeout <-chan time.Time
		if !deadline.IsZero() {
			d := time.Until(deadline)
			if d <= 0 {
				return 0, nil, os.ErrDeadlineExceeded
			}
			timer = time.NewTimer(d)
			timeout = timer.C
		}
		n, from, again, err := c.wait(p, timeout)
		if timer != nil {
			timer.Stop()
		}
		if !again {
			return n, from, err
		}
	}
}

func (c *Conn) wait(p []byte, timeout <-chan time.Time) (int, net.Addr, bool, error) {
	select {
	case dg := <-c.inbox:
		return copy(p, dg.data), dg.from, false, nil
	case <-timeout:
		return 0, nil, false, os.ErrDeadlineExceeded
	case <-c.wake:
		// Deadline moved; re-evaluate.
		return 0, nil, true, nil
	case <-c.closed:
		return 0, nil, false, net.ErrClosed
	}
}

// SetReadDeadline implements segment.PacketConn.
func (c *Conn) SetReadDeadline(t time.Time) error {
	c.mu.Lock()
	c.deadline = t
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// Close unblocks pending reads and fails further operations.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}
