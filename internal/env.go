package internal

import (
	"github.com/s887432/udp-filetransfer/internal/pkg/validate"

	"github.com/pkg/errors"
)

type env struct {
	Env         string `validate:"oneof=dev prod"`
	LogLevel    string `validate:"oneof=trace debug info warn error"`
	Port        int    `validate:"min=0,max=65535"`
	TimeoutMS   int    `validate:"min=0"`
	MaxDatagram int    `validate:"min=1,max=65507"`
	TOS         int    `validate:"min=0,max=255"`
	MaxFileSize int    `validate:"min=0,max=2147483647"`
	RedisAddr   string `validate:"omitempty,hostname_port"`
}

// ValidateEnv checks the values bound to the registered flags.
func ValidateEnv() error {
	e := env{
		Env:         Env,
		LogLevel:    LogLevel,
		Port:        Port,
		TimeoutMS:   TimeoutMS,
		MaxDatagram: MaxDatagram,
		TOS:         TOS,
		MaxFileSize: MaxFileSize,
		RedisAddr:   RedisAddr,
	}
	if err := validate.Validate().Struct(e); err != nil {
		return errors.Wrap(err, "invalid environment")
	}
	return nil
}
