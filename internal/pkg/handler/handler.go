package handler

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/log"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"
	"github.com/s887432/udp-filetransfer/internal/pkg/storage"
	"github.com/s887432/udp-filetransfer/internal/pkg/transfer"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// Link is what a handler needs from the session's segment link.
type Link interface {
	segment.Receiver
	Peer() net.Addr
}

type handler struct {
	sessionID   uuid.UUID
	store       session.Store
	sink        storage.Sink
	maxFileSize int32
	logger      logrus.FieldLogger
}

// HandlerCfg is configures a handler.
type HandlerCfg func(*handler) error

// WithSessionStore sets the session store.
func WithSessionStore(store session.Store) HandlerCfg {
	return func(h *handler) error {
		h.store = store
		return nil
	}
}

// WithSink sets where received files go.
func WithSink(sink storage.Sink) HandlerCfg {
	return func(h *handler) error {
		h.sink = sink
		return nil
	}
}

// WithMaxFileSize sets the largest file the handler accepts. Zero means no limit.
func WithMaxFileSize(n int32) HandlerCfg {
	return func(h *handler) error {
		if n < 0 {
			return errors.Errorf("negative max file size %d", n)
		}
		h.maxFileSize = n
		return nil
	}
}

// NewHandler creates a new handler.
func NewHandler(cfgs ...HandlerCfg) (*handler, error) {
	h := &handler{
		store: session.NewMemoryStore(),
		sink:  storage.Discard{},
	}
	for _, cfg := range cfgs {
		if err := cfg(h); err != nil {
			return nil, errors.Wrap(err, "apply handler cfg failed")
		}
	}
	h.sessionID = uuid.New()
	h.logger = logger.WithField("session", h.sessionID.String())
	return h, nil
}

// SessionID returns the id the handler records its session under.
func (h *handler) SessionID() uuid.UUID {
	return h.sessionID
}

// Run receives files over link until the sender stops asking for more.
// Only KEEP_GOING continues the session; FINISHED, the end-of-session signal, an
// unknown command or any error ends it. The session is recorded once the link binds
// to a peer, so waiting for a sender that never shows up leaves no record.
func (h *handler) Run(ctx context.Context, link Link) (session.Session, error) {
	sess := session.Session{
		ID:    h.sessionID,
		State: session.StateActive,
	}

	var runErr error
	for {
		start := time.Now()
		f, err := transfer.ReceiveFile(ctx, link, transfer.WithMaxFileSize(h.maxFileSize))
		elapsed := time.Since(start)
		sess.Attempts++

		if sess.Peer == "" && link.Peer() != nil {
			sess.Peer = link.Peer().String()
			sess.Started = time.Now()
			if err := h.store.New(sess.ID, sess.Started); err != nil {
				h.logger.WithError(err).Warn("record session failed")
			}
			h.logger.WithField("peer", sess.Peer).Info("session started")
		}
		if err != nil {
			if sess.Peer == "" {
				return sess, err
			}
			runErr = errors.Wrap(err, "receive file failed")
			sess.State = session.StateFailed
			sess.Err = runErr.Error()
			break
		}
		if !f.EndOfSession {
			sess.Files++
			sess.Bytes += int64(len(f.Data))
			h.logger.WithFields(log.FileFields(f.Size, f.SectionSize, f.Checksum)).
				WithField("transfer_time", elapsed.String()).
				Info("file received")
			h.persist(sess, f)
		}
		if !f.Command.Valid() {
			h.logger.WithField("command", f.Command.String()).Warn("unknown command, ending session")
		}
		if f.Command != session.KeepGoing {
			sess.State = session.StateFinished
			break
		}
		if err := h.store.Set(sess); err != nil {
			h.logger.WithError(err).Warn("update session failed")
		}
	}

	sess.Ended = time.Now()
	if err := h.store.Set(sess); err != nil {
		h.logger.WithError(err).Warn("update session failed")
	}
	h.logger.WithFields(log.SessionFields(sess)).Info("session ended")
	return sess, runErr
}

func (h *handler) persist(sess session.Session, f *transfer.File) {
	name := fmt.Sprintf("session-%s/file-%04d.bin", sess.ID, sess.Files)
	if err := h.sink.Write(name, f.Data); err != nil {
		h.logger.WithError(err).WithField("name", name).Error("store received file failed")
		return
	}
	h.logger.WithField("name", name).Debug("stored received file")
}
