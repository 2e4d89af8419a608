package apps

import (
	"context"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/server"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"
	"github.com/s887432/udp-filetransfer/internal/pkg/storage"
	"github.com/s887432/udp-filetransfer/internal/pkg/transfer"
	"github.com/s887432/udp-filetransfer/internal/pkg/validate"

	"github.com/pkg/errors"
)

// ServerAppCfg configures a ServerApp.
type ServerAppCfg interface {
	ApplyServerApp(*ServerApp) error
}

// ServerApp receives sessions until its context is cancelled.
type ServerApp struct {
	Port        uint16
	OutputDir   string
	MaxFileSize int32         `validate:"min=0"`
	RedisAddr   string        `validate:"omitempty,hostname_port"`
	RedisTTL    time.Duration `validate:"min=0"`
	Timeout     time.Duration `validate:"min=0"`
	MaxDatagram int           `validate:"min=1,max=65507"`
	TOS         int           `validate:"min=0,max=255"`
}

// NewServerApp creates a new ServerApp.
func NewServerApp(cfgs ...ServerAppCfg) (*ServerApp, error) {
	app := &ServerApp{
		RedisTTL:    session.DefaultRedisTTL,
		Timeout:     10 * time.Second,
		MaxDatagram: 65507,
		MaxFileSize: transfer.DefaultMaxFileSize,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyServerApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ServerApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ServerApp failed")
	}
	return app, nil
}

// Run serves sessions on the configured port until ctx is cancelled.
func (app *ServerApp) Run(ctx context.Context, _ []string) error {
	var sink storage.Sink = storage.Discard{}
	if app.OutputDir != "" {
		dir, err := storage.NewDir(app.OutputDir)
		if err != nil {
			return errors.Wrap(err, "create output dir failed")
		}
		sink = dir
	}
	var store session.Store = session.NewMemoryStore()
	if app.RedisAddr != "" {
		rs, err := session.NewRedisStore(app.RedisAddr, app.RedisTTL)
		if err != nil {
			return errors.Wrap(err, "connect session store failed")
		}
		defer rs.Close()
		store = rs
	}

	s, err := server.NewServer(
		server.WithPort(app.Port),
		server.WithTOS(app.TOS),
		server.WithTimeout(app.Timeout),
		server.WithMaxDatagramSize(app.MaxDatagram),
		server.WithMaxFileSize(app.MaxFileSize),
		server.WithSink(sink),
		server.WithSessionStore(store),
	)
	if err != nil {
		return errors.Wrap(err, "create server failed")
	}
	if err := s.Listen(ctx); err != nil {
		return errors.Wrap(err, "listen failed")
	}
	defer s.Close()
	return errors.Wrap(s.Serve(ctx), "serve failed")
}
