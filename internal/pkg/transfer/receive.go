package transfer

import (
	"context"

	"github.com/s887432/udp-filetransfer/internal/pkg/checksum"
	"github.com/s887432/udp-filetransfer/internal/pkg/log"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"
	"github.com/s887432/udp-filetransfer/internal/pkg/session"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// File is the outcome of one ReceiveFile call.
type File struct {
	Size        int32
	SectionSize int32
	Data        []byte
	Checksum    uint32

	// Command is what the sender announced after the file. It is Finished when the
	// sender signalled the end of the session instead of sending a file.
	Command      session.Command
	EndOfSession bool
}

// DefaultMaxFileSize is the receiving server's default limit on announced file sizes.
const DefaultMaxFileSize int32 = 256 << 20

type receiveConfig struct {
	maxFileSize int32
}

// ReceiveCfg configures ReceiveFile.
type ReceiveCfg func(*receiveConfig) error

// WithMaxFileSize rejects announced files larger than n bytes before allocating them.
func WithMaxFileSize(n int32) ReceiveCfg {
	return func(c *receiveConfig) error {
		if n < 0 {
			return errors.Errorf("negative max file size %d", n)
		}
		c.maxFileSize = n
		return nil
	}
}

// ReceiveFile receives one file, or the end-of-session signal, from r.
func ReceiveFile(ctx context.Context, r segment.Receiver, cfgs ...ReceiveCfg) (*File, error) {
	var conf receiveConfig
	for _, cfg := range cfgs {
		if err := cfg(&conf); err != nil {
			return nil, errors.Wrap(err, "apply receive cfg failed")
		}
	}

	buf := make([]byte, segment.IntSize)
	if _, err := r.Receive(ctx, buf); err != nil {
		return nil, errors.Wrap(err, "receive file size failed")
	}
	fileSize := segment.DecodeInt32(buf)
	logger.WithField("file_size", fileSize).Debug("received file size")
	if fileSize == EndOfSession {
		logger.Info("sender finished the session")
		return &File{Size: EndOfSession, Command: session.Finished, EndOfSession: true}, nil
	}
	if fileSize < 0 {
		return nil, errors.Wrapf(ErrProtocolDesync, "file size %d", fileSize)
	}
	if conf.maxFileSize > 0 && fileSize > conf.maxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%d bytes exceeds limit of %d", fileSize, conf.maxFileSize)
	}

	if _, err := r.Receive(ctx, buf); err != nil {
		return nil, errors.Wrap(err, "receive section size failed")
	}
	sectionSize := segment.DecodeInt32(buf)
	logger.WithField("section_size", sectionSize).Debug("received section size")

	data := make([]byte, fileSize)
	var sum checksum.Accumulator
	err := forEachSection(len(data), int(sectionSize), func(sec Section) error {
		if _, err := r.Receive(ctx, data[sec.Offset:sec.Offset+sec.Length]); err != nil {
			return errors.Wrapf(err, "receive section at offset %d failed", sec.Offset)
		}
		_, _ = sum.Write(data[sec.Offset : sec.Offset+sec.Length])
		logger.WithFields(logrus.Fields{"offset": sec.Offset, "len": sec.Length}).Trace("received section")
		return nil
	})
	if errors.Is(err, ErrInvalidSectionSize) {
		return nil, errors.Wrapf(ErrProtocolDesync, "section size %d for %d bytes", sectionSize, fileSize)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.FileFields(fileSize, sectionSize, sum.Sum32())).Info("received file data")

	cmd, err := session.ReceiveCommand(ctx, r)
	if err != nil {
		return nil, errors.Wrap(err, "receive next command failed")
	}
	logger.WithField("command", cmd.String()).Debug("received next command")
	return &File{
		Size:        fileSize,
		SectionSize: sectionSize,
		Data:        data,
		Checksum:    sum.Sum32(),
		Command:     cmd,
	}, nil
}
