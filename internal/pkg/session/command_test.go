package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment/segmenttest"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"

	"github.com/stretchr/testify/require"
)

func TestCommandRoundTrip(t *testing.T) {
	sc, rc := segmenttest.Pipe("sender", "receiver")
	defer sc.Close()
	defer rc.Close()
	sender, err := segment.NewLink(sc, segment.WithPeer(rc.Addr()), segment.WithTimeout(time.Second))
	require.NoError(t, err)
	receiver, err := segment.NewLink(rc, segment.WithTimeout(time.Second))
	require.NoError(t, err)
	ctx := context.Background()

	for _, cmd := range []session.Command{session.KeepGoing, session.Finished, session.Command(7)} {
		type received struct {
			cmd session.Command
			err error
		}
		got := make(chan received, 1)
		go func() {
			c, err := session.ReceiveCommand(ctx, receiver)
			got <- received{c, err}
		}()
		require.NoError(t, session.SendCommand(ctx, sender, cmd))
		r := <-got
		require.NoError(t, r.err)
		require.Equal(t, cmd, r.cmd)
	}
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "KEEP_GOING", session.KeepGoing.String())
	require.Equal(t, "FINISHED", session.Finished.String())
	require.Equal(t, "UNKNOWN(0)", session.Command(0).String())
	require.True(t, session.KeepGoing.Valid())
	require.True(t, session.Finished.Valid())
	require.False(t, session.Command(3).Valid())
	require.Equal(t, int32(1), int32(session.KeepGoing))
	require.Equal(t, int32(2), int32(session.Finished))
}
