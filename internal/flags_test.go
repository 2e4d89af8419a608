package internal

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommandFlags(t *testing.T) {
	var (
		name  = "default"
		count = 3
		on    bool
	)
	flags := []*Flag{
		{Name: "test-name", Usage: "name", Value: &name},
		{Name: "test-count", Usage: "count", Value: &count},
		{Name: "test-on", Usage: "on", Value: &on},
	}
	t.Setenv("UDPXFER_TEST_COUNT", "7")
	t.Setenv("UDPXFER_TEST_ON", "true")

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	require.NoError(t, RegisterCommandFlags(cmd, flags))
	require.Equal(t, "default", name)
	require.Equal(t, 7, count)
	require.True(t, on)

	cmd.SetArgs([]string{"--test-name", "flag"})
	require.NoError(t, cmd.Execute())
	require.Equal(t, "flag", name)
	require.Equal(t, 7, count)
}

func TestRegisterCommandFlagsErrors(t *testing.T) {
	n := 0
	t.Setenv("UDPXFER_TEST_BAD", "seven")
	err := RegisterCommandFlags(&cobra.Command{}, []*Flag{{Name: "test-bad", Value: &n}})
	require.Error(t, err)

	f := 1.5
	err = RegisterCommandFlags(&cobra.Command{}, []*Flag{{Name: "test-float", Value: &f}})
	require.Error(t, err)
}

func TestEnvVar(t *testing.T) {
	require.Equal(t, "UDPXFER_MAX_FILE_SIZE", MaxFileSizeFlag.EnvVar())
	require.Equal(t, "UDPXFER_PORT", PortFlag.EnvVar())
}

func TestValidateEnv(t *testing.T) {
	require.NoError(t, ValidateEnv())

	saved := LogLevel
	t.Cleanup(func() { LogLevel = saved })
	LogLevel = "loud"
	require.Error(t, ValidateEnv())
	LogLevel = saved

	savedAddr := RedisAddr
	t.Cleanup(func() { RedisAddr = savedAddr })
	RedisAddr = "localhost:6379"
	require.NoError(t, ValidateEnv())
	RedisAddr = "no-port"
	require.Error(t, ValidateEnv())
}
