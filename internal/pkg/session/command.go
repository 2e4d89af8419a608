package session

import (
	"context"
	"fmt"

	"github.com/s887432/udp-filetransfer/internal/pkg/segment"

	"github.com/pkg/errors"
)

// Command tells the receiver whether another file follows.
type Command int32

// Session commands.
const (
	KeepGoing Command = 1
	Finished  Command = 2
)

func (c Command) String() string {
	switch c {
	case KeepGoing:
		return "KEEP_GOING"
	case Finished:
		return "FINISHED"
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(c))
}

// Valid reports whether c is one of the defined commands.
func (c Command) Valid() bool {
	return c == KeepGoing || c == Finished
}

// SendCommand sends cmd as a single segment.
func SendCommand(ctx context.Context, s segment.Sender, cmd Command) error {
	if _, err := s.Send(ctx, segment.EncodeInt32(int32(cmd))); err != nil {
		return errors.Wrapf(err, "send %s command failed", cmd)
	}
	return nil
}

// ReceiveCommand receives a command segment. Values outside the defined commands are
// returned as they are; only KeepGoing continues a session.
func ReceiveCommand(ctx context.Context, r segment.Receiver) (Command, error) {
	buf := make([]byte, segment.IntSize)
	if _, err := r.Receive(ctx, buf); err != nil {
		return 0, errors.Wrap(err, "receive command failed")
	}
	return Command(segment.DecodeInt32(buf)), nil
}
