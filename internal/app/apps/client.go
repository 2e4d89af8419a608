package apps

import (
	"context"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/client"
	"github.com/s887432/udp-filetransfer/internal/pkg/filelist"
	"github.com/s887432/udp-filetransfer/internal/pkg/validate"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// ClientAppCfg configures a ClientApp.
type ClientAppCfg interface {
	ApplyClientApp(*ClientApp) error
}

// ClientApp sends the files named in a list to a server.
type ClientApp struct {
	ServerIP    string        `validate:"required,ip4_addr"`
	Port        uint16        `validate:"required"`
	SectionKiB  int           `validate:"min=1,max=2097151"`
	ListPath    string        `validate:"required"`
	Timeout     time.Duration `validate:"min=0"`
	MaxDatagram int           `validate:"min=1,max=65507"`
	TOS         int           `validate:"min=0,max=255"`
}

// NewClientApp creates a new ClientApp.
func NewClientApp(cfgs ...ClientAppCfg) (*ClientApp, error) {
	app := &ClientApp{
		SectionKiB:  1,
		Timeout:     10 * time.Second,
		MaxDatagram: 65507,
	}
	for _, cfg := range cfgs {
		if err := cfg.ApplyClientApp(app); err != nil {
			return nil, errors.Wrap(err, "apply ClientApp cfg failed")
		}
	}
	if err := validate.Validate().Struct(app); err != nil {
		return nil, errors.Wrap(err, "validate ClientApp failed")
	}
	return app, nil
}

// Run sends every file in the list, stopping at the first failure.
func (app *ClientApp) Run(ctx context.Context, _ []string) error {
	list, err := filelist.Open(app.ListPath)
	if err != nil {
		return errors.Wrap(err, "open list failed")
	}
	defer list.Close()

	c, err := client.NewClient(
		client.WithServerAddr(app.ServerIP, app.Port),
		client.WithSectionSize(int32(app.SectionKiB*1024)),
		client.WithTimeout(app.Timeout),
		client.WithMaxDatagramSize(app.MaxDatagram),
		client.WithTOS(app.TOS),
	)
	if err != nil {
		return errors.Wrap(err, "create client failed")
	}
	if err := c.Connect(ctx); err != nil {
		return errors.Wrap(err, "connect client failed")
	}
	defer c.Close()

	stats, err := c.Run(ctx, list)
	if err != nil {
		return errors.Wrap(err, "run client failed")
	}
	logger.WithFields(logrus.Fields{
		"files":    stats.Files,
		"bytes":    stats.Bytes,
		"finished": stats.Finished,
	}).Info("client done")
	return nil
}
