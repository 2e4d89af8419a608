// Package main is the udpxfer application entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/s887432/udp-filetransfer/internal"
	"github.com/s887432/udp-filetransfer/internal/app/apps"
	"github.com/s887432/udp-filetransfer/internal/app/cfg"
	"github.com/s887432/udp-filetransfer/internal/pkg/log"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI command definitions.
var (
	logger logrus.FieldLogger = logrus.StandardLogger()

	rootCmd = &cobra.Command{
		Use:           "udpxfer",
		Short:         "Transfers files over UDP with per-segment acknowledgments.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	clientCmd = &cobra.Command{
		Use:   "client SERVER_IP PORT SECTION_SIZE_KB LIST_NAME",
		Short: "Sends the files named in LIST_NAME to a server.",
		Args:  cobra.ExactArgs(4),
		RunE:  runCmd,
	}

	serverCmd = &cobra.Command{
		Use:   "server [PORT]",
		Short: "Receives files from clients, one session at a time.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCmd,
	}
)

func parsePort(arg string) (uint16, error) {
	port, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, errors.Wrap(err, "parse port argument failed")
	}
	return uint16(port), nil
}

func newApp(_ context.Context, cmd *cobra.Command, args []string) (apps.App, error) {
	switch cmd.Name() {
	case "client":
		port, err := parsePort(args[1])
		if err != nil {
			return nil, err
		}
		sectionKiB, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, errors.Wrap(err, "parse section size argument failed")
		}
		app, err := apps.NewClientApp(
			cfg.NewPortCfg(port),
			cfg.TransportFromEnv(),
			cfg.NewTargetCfg(args[0], sectionKiB, args[3]),
		)
		if err != nil {
			return nil, errors.Wrap(err, "new client app failed")
		}
		return app, nil
	case "server":
		portCfg := cfg.PortFromEnv()
		if len(args) == 1 {
			port, err := parsePort(args[0])
			if err != nil {
				return nil, err
			}
			portCfg = cfg.NewPortCfg(port)
		}
		app, err := apps.NewServerApp(portCfg, cfg.TransportFromEnv(), cfg.StorageFromEnv())
		if err != nil {
			return nil, errors.Wrap(err, "new server app failed")
		}
		return app, nil
	default:
		return nil, fmt.Errorf("unknown command: %s", cmd.Name())
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := chainedCheck(
		ctx,
		envCheck,
	); err != nil {
		return errors.Wrap(err, "chained check failed")
	}
	app, err := newApp(ctx, cmd, args)
	if err != nil {
		return errors.Wrapf(err, "new %s app failed", cmd.Name())
	}
	return errors.Wrap(app.Run(ctx, args), "run app failed")
}

func envCheck(ctx context.Context) error {
	err := internal.ValidateEnv()
	if err != nil {
		return errors.Wrap(err, "validate env failed")
	}
	log.SetLogger(internal.LogLevel)
	return nil
}

func chainedCheck(ctx context.Context, checks ...func(context.Context) error) error {
	for _, check := range checks {
		err := check(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	err := internal.RegisterCommandFlags(rootCmd, []*internal.Flag{
		&internal.EnvFlag,
		&internal.LogLevelFlag,

		&internal.PortFlag,
		&internal.TimeoutMSFlag,
		&internal.MaxDatagramFlag,
		&internal.TOSFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	err = internal.RegisterCommandFlags(serverCmd, []*internal.Flag{
		&internal.OutputDirFlag,
		&internal.MaxFileSizeFlag,
		&internal.RedisAddrFlag,
	})
	if err != nil {
		logger.Fatalln(err)
	}

	rootCmd.AddCommand(
		clientCmd,
		serverCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(errors.Wrap(err, "execute root command failed"))
	}
}
