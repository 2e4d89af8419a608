package transfer

import (
	"context"
	"math"

	"github.com/s887432/udp-filetransfer/internal/pkg/checksum"
	"github.com/s887432/udp-filetransfer/internal/pkg/log"
	"github.com/s887432/udp-filetransfer/internal/pkg/segment"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = logrus.StandardLogger()

// SendFile sends data as one file split into sections of sectionSize bytes.
// The first failed segment aborts the transfer; nothing is resumed or retried.
func SendFile(ctx context.Context, s segment.Sender, sectionSize int32, data []byte) error {
	if sectionSize <= 0 {
		return errors.Wrapf(ErrInvalidSectionSize, "section size %d", sectionSize)
	}
	if len(data) > math.MaxInt32 {
		return errors.Wrapf(ErrFileTooLarge, "%d bytes", len(data))
	}
	fileSize := int32(len(data))

	logger.WithField("file_size", fileSize).Debug("sending file size")
	if _, err := s.Send(ctx, segment.EncodeInt32(fileSize)); err != nil {
		return errors.Wrap(err, "send file size failed")
	}
	logger.WithField("section_size", sectionSize).Debug("sending section size")
	if _, err := s.Send(ctx, segment.EncodeInt32(sectionSize)); err != nil {
		return errors.Wrap(err, "send section size failed")
	}

	logger.WithFields(log.FileFields(fileSize, sectionSize, checksum.Sum(data))).Info("sending file data")
	return forEachSection(len(data), int(sectionSize), func(sec Section) error {
		if _, err := s.Send(ctx, data[sec.Offset:sec.Offset+sec.Length]); err != nil {
			return errors.Wrapf(err, "send section at offset %d failed", sec.Offset)
		}
		logger.WithFields(logrus.Fields{"offset": sec.Offset, "len": sec.Length}).Debug("sent section")
		return nil
	})
}

// SendEndOfSession tells the receiver that no more files follow.
func SendEndOfSession(ctx context.Context, s segment.Sender) error {
	if _, err := s.Send(ctx, segment.EncodeInt32(EndOfSession)); err != nil {
		return errors.Wrap(err, "send end of session failed")
	}
	return nil
}
