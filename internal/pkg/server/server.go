package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/handler"
	"github.com/s887432/udp-filetransfer/internal/pkg/log"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"
	"github.com/s887432/udp-filetransfer/internal/pkg/storage"
	"github.com/s887432/udp-filetransfer/internal/pkg/transfer"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Server receives file transfer sessions on a UDP port.
type Server struct {
	port        uint16
	tos         int
	timeout     time.Duration
	maxDatagram int
	maxFileSize int32
	store       session.Store
	sink        storage.Sink

	conn   segment.PacketConn
	closer io.Closer
	addr   net.Addr
}

// Cfg configures a Server.
type Cfg func(*Server) error

// WithPort sets the port to listen on. Zero picks a free port.
func WithPort(port uint16) Cfg {
	return func(s *Server) error {
		s.port = port
		return nil
	}
}

// WithTOS sets the IPv4 type-of-service byte of outgoing acknowledgments.
func WithTOS(tos int) Cfg {
	return func(s *Server) error {
		s.tos = tos
		return nil
	}
}

// WithTimeout sets how long a running session waits for each datagram. Zero waits forever.
func WithTimeout(d time.Duration) Cfg {
	return func(s *Server) error {
		s.timeout = d
		return nil
	}
}

// WithMaxDatagramSize sets the largest datagram the server expects.
func WithMaxDatagramSize(n int) Cfg {
	return func(s *Server) error {
		s.maxDatagram = n
		return nil
	}
}

// WithMaxFileSize sets the largest file the server accepts. Zero means no limit.
// It defaults to transfer.DefaultMaxFileSize.
func WithMaxFileSize(n int32) Cfg {
	return func(s *Server) error {
		s.maxFileSize = n
		return nil
	}
}

// WithSessionStore sets the session store for the server.
func WithSessionStore(store session.Store) Cfg {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithSink sets where received files go.
func WithSink(sink storage.Sink) Cfg {
	return func(s *Server) error {
		s.sink = sink
		return nil
	}
}

// WithPacketConn makes the server use conn instead of binding a socket.
func WithPacketConn(conn segment.PacketConn) Cfg {
	return func(s *Server) error {
		s.conn = conn
		return nil
	}
}

// NewServer creates a new Server with the given configuration.
func NewServer(cfgs ...Cfg) (*Server, error) {
	server := &Server{
		timeout:     segment.DefaultTimeout,
		maxDatagram: segment.MaxDatagramSize,
		maxFileSize: transfer.DefaultMaxFileSize,
		store:       session.NewMemoryStore(),
		sink:        storage.Discard{},
	}
	for _, cfg := range cfgs {
		if err := cfg(server); err != nil {
			return nil, errors.Wrap(err, "apply Server cfg failed")
		}
	}
	return server, nil
}

// Listen binds the server socket.
func (s *Server) Listen(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	conn, err := segment.ListenUDP4(fmt.Sprintf(":%d", s.port), s.tos)
	if err != nil {
		return errors.Wrap(err, "bind failed")
	}
	s.conn, s.closer, s.addr = conn, conn, conn.LocalAddr()
	logger.WithField("addr", s.addr.String()).Info("server listening")
	return nil
}

// Addr returns the bound socket address, or nil when the server runs on a supplied conn.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// ServeSession waits for one session and serves it to the end.
func (s *Server) ServeSession(ctx context.Context) (session.Session, error) {
	if s.conn == nil {
		return session.Session{}, ErrNotListening
	}
	h, err := handler.NewHandler(
		handler.WithSessionStore(s.store),
		handler.WithSink(s.sink),
		handler.WithMaxFileSize(s.maxFileSize),
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "create handler failed")
	}
	link, err := segment.NewLink(s.conn,
		segment.WithTimeout(s.timeout),
		segment.WithMaxDatagramSize(s.maxDatagram),
		segment.WithLogger(logger.WithField("session", h.SessionID().String())),
	)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "create link failed")
	}
	return h.Run(ctx, link)
}

// Serve serves sessions one after another until ctx is cancelled. It returns nil on
// cancellation and an error only when it can no longer wait for sessions at all.
func (s *Server) Serve(ctx context.Context) error {
	if s.conn == nil {
		return ErrNotListening
	}
	for {
		sess, err := s.ServeSession(ctx)
		if ctx.Err() != nil {
			logger.Info("server stopped")
			return nil
		}
		if err != nil && sess.Peer == "" {
			// Nothing arrived, so the socket or the store is broken.
			return errors.Wrap(err, "await session failed")
		}
		if err != nil {
			logger.WithFields(log.SessionFields(sess)).WithError(err).Warn("session failed")
			continue
		}
		logger.WithFields(log.SessionFields(sess)).Info("session finished")
	}
}

// Close releases the socket bound by Listen.
func (s *Server) Close() error {
	if s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return errors.Wrap(err, "close socket failed")
	}
	return nil
}
