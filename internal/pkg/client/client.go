package client

import (
	"context"
	"io"
	"net"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/filelist"
	"github.com/s887432/udp-filetransfer/internal/pkg/log"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"
	"github.com/s887432/udp-filetransfer/internal/pkg/storage"
	"github.com/s887432/udp-filetransfer/internal/pkg/transfer"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// DefaultSectionSize is the section size used unless configured otherwise.
const DefaultSectionSize = 1024

// Client sends the files of a list to a server.
type Client struct {
	host        string
	port        uint16
	server      net.Addr
	sectionSize int32
	timeout     time.Duration
	maxDatagram int
	tos         int
	reader      storage.Reader

	conn   segment.PacketConn
	closer io.Closer
	link   *segment.Link
}

// Stats summarises a Run.
type Stats struct {
	Files    int
	Bytes    int64
	Finished bool
}

// Cfg configures a Client.
type Cfg func(*Client) error

// WithServerAddr sets the server to send to.
func WithServerAddr(host string, port uint16) Cfg {
	return func(c *Client) error {
		c.host = host
		c.port = port
		return nil
	}
}

// WithSectionSize sets the section size in bytes.
func WithSectionSize(n int32) Cfg {
	return func(c *Client) error {
		if n <= 0 {
			return errors.Wrapf(transfer.ErrInvalidSectionSize, "section size %d", n)
		}
		c.sectionSize = n
		return nil
	}
}

// WithTimeout sets how long the client waits for each acknowledgment. Zero waits forever.
func WithTimeout(d time.Duration) Cfg {
	return func(c *Client) error {
		c.timeout = d
		return nil
	}
}

// WithMaxDatagramSize sets the largest datagram written.
func WithMaxDatagramSize(n int) Cfg {
	return func(c *Client) error {
		c.maxDatagram = n
		return nil
	}
}

// WithTOS sets the IPv4 type-of-service byte of outgoing packets.
func WithTOS(tos int) Cfg {
	return func(c *Client) error {
		c.tos = tos
		return nil
	}
}

// WithFileReader sets where listed files are read from.
func WithFileReader(r storage.Reader) Cfg {
	return func(c *Client) error {
		c.reader = r
		return nil
	}
}

// WithPacketConn makes the client use conn and send to server instead of opening a socket.
func WithPacketConn(conn segment.PacketConn, server net.Addr) Cfg {
	return func(c *Client) error {
		c.conn = conn
		c.server = server
		return nil
	}
}

// NewClient creates a new Client with the given configuration.
func NewClient(cfgs ...Cfg) (*Client, error) {
	client := &Client{
		sectionSize: DefaultSectionSize,
		timeout:     segment.DefaultTimeout,
		maxDatagram: segment.MaxDatagramSize,
		reader:      storage.OS{},
	}
	for _, cfg := range cfgs {
		if err := cfg(client); err != nil {
			return nil, errors.Wrap(err, "apply Client cfg failed")
		}
	}
	if client.server == nil && client.host == "" {
		return nil, ErrMissingServer
	}
	return client, nil
}

// Connect opens the socket and binds the segment link to the server.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn == nil {
		server, err := segment.ResolveUDP4(c.host, c.port)
		if err != nil {
			return errors.Wrap(err, "resolve server failed")
		}
		conn, err := segment.ListenUDP4(":0", c.tos)
		if err != nil {
			return errors.Wrap(err, "open socket failed")
		}
		c.conn, c.closer, c.server = conn, conn, server
	}
	link, err := segment.NewLink(c.conn,
		segment.WithPeer(c.server),
		segment.WithTimeout(c.timeout),
		segment.WithMaxDatagramSize(c.maxDatagram),
		segment.WithLogger(logger.WithField("server", c.server.String())),
	)
	if err != nil {
		return errors.Wrap(err, "create link failed")
	}
	c.link = link
	logger.WithField("server", c.server.String()).Info("client ready")
	return nil
}

// Run sends the files named by list until it reaches EOF or a transfer fails.
func (c *Client) Run(ctx context.Context, list filelist.Source) (Stats, error) {
	var stats Stats
	if c.link == nil {
		return stats, ErrNotConnected
	}
	for {
		entry, ok, err := list.Next()
		if err != nil {
			return stats, errors.Wrap(err, "read list failed")
		}
		if !ok {
			logger.Warn("list ended without EOF, server was not told the session is over")
			return stats, nil
		}
		logger.WithField("entry", entry).Info("reading list entry")

		if entry == filelist.EOFToken {
			if err := transfer.SendEndOfSession(ctx, c.link); err != nil {
				return stats, errors.Wrap(err, "finish session failed")
			}
			stats.Finished = true
			logger.WithFields(logrus.Fields{
				"files": stats.Files,
				"bytes": log.ByteCount(stats.Bytes),
			}).Info("transfer finished")
			return stats, nil
		}

		n, err := c.sendFile(ctx, entry)
		if err != nil {
			return stats, errors.Wrapf(err, "send %s failed", entry)
		}
		stats.Files++
		stats.Bytes += int64(n)
	}
}

func (c *Client) sendFile(ctx context.Context, path string) (int, error) {
	data, err := c.reader.ReadFile(path)
	if err != nil {
		return 0, errors.Wrap(err, "read file failed")
	}
	start := time.Now()
	if err := transfer.SendFile(ctx, c.link, c.sectionSize, data); err != nil {
		return 0, err
	}
	if err := session.SendCommand(ctx, c.link, session.KeepGoing); err != nil {
		return 0, err
	}
	logger.WithFields(logrus.Fields{
		"file":    path,
		"size":    log.ByteCount(int64(len(data))),
		"elapsed": time.Since(start).String(),
	}).Info("file sent")
	return len(data), nil
}

// Close releases the socket opened by Connect.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	if err := c.closer.Close(); err != nil {
		return errors.Wrap(err, "close socket failed")
	}
	return nil
}
