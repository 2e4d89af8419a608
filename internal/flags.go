package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// EnvPrefix prefixes the environment variable backing every flag.
const EnvPrefix = "UDPXFER_"

// Flag is a command line flag whose default can be overridden from the environment.
// Value must point to a string, int or bool variable.
type Flag struct {
	Name  string
	Usage string
	Value interface{}
}

// EnvVar returns the environment variable backing the flag.
func (f *Flag) EnvVar() string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
}

// Values bound to the registered flags.
var (
	Env         string
	LogLevel    string
	Port        int
	TimeoutMS   int
	MaxDatagram int
	TOS         int
	OutputDir   string
	MaxFileSize int
	RedisAddr   string
)

// Flags shared by every command.
var (
	EnvFlag = Flag{
		Name:  "env",
		Usage: "runtime environment (dev, prod)",
		Value: &Env,
	}
	LogLevelFlag = Flag{
		Name:  "log-level",
		Usage: "log level (trace, debug, info, warn, error)",
		Value: &LogLevel,
	}
	PortFlag = Flag{
		Name:  "port",
		Usage: "UDP port of the server",
		Value: &Port,
	}
	TimeoutMSFlag = Flag{
		Name:  "timeout-ms",
		Usage: "how long to wait for each datagram once a peer is known, 0 waits forever",
		Value: &TimeoutMS,
	}
	MaxDatagramFlag = Flag{
		Name:  "max-datagram",
		Usage: "largest datagram written for one piece of a segment",
		Value: &MaxDatagram,
	}
	TOSFlag = Flag{
		Name:  "tos",
		Usage: "IPv4 type-of-service byte set on the socket",
		Value: &TOS,
	}
)

// Server command flags.
var (
	OutputDirFlag = Flag{
		Name:  "output-dir",
		Usage: "directory received files are written to, empty discards them",
		Value: &OutputDir,
	}
	MaxFileSizeFlag = Flag{
		Name:  "max-file-size",
		Usage: "largest file accepted in bytes, 0 accepts any size",
		Value: &MaxFileSize,
	}
	RedisAddrFlag = Flag{
		Name:  "redis-addr",
		Usage: "redis address for session records, empty keeps them in memory",
		Value: &RedisAddr,
	}
)

func init() {
	Env = "dev"
	LogLevel = "info"
	Port = 8080
	TimeoutMS = 10000
	MaxDatagram = 65507
	MaxFileSize = 256 << 20
}

// RegisterCommandFlags registers flags as persistent flags of cmd. A flag's default
// is taken from its environment variable when set, else from the bound variable.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		env, fromEnv := os.LookupEnv(f.EnvVar())
		usage := fmt.Sprintf("%s [%s]", f.Usage, f.EnvVar())
		switch v := f.Value.(type) {
		case *string:
			def := *v
			if fromEnv {
				def = env
			}
			cmd.PersistentFlags().StringVar(v, f.Name, def, usage)
		case *int:
			def := *v
			if fromEnv {
				n, err := strconv.Atoi(env)
				if err != nil {
					return errors.Wrapf(err, "parse %s failed", f.EnvVar())
				}
				def = n
			}
			cmd.PersistentFlags().IntVar(v, f.Name, def, usage)
		case *bool:
			def := *v
			if fromEnv {
				b, err := strconv.ParseBool(env)
				if err != nil {
					return errors.Wrapf(err, "parse %s failed", f.EnvVar())
				}
				def = b
			}
			cmd.PersistentFlags().BoolVar(v, f.Name, def, usage)
		default:
			return errors.Errorf("flag %s: unsupported value type %T", f.Name, f.Value)
		}
	}
	return nil
}
