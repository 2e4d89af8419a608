// Package log add logging utilities.
package log

import (
	"fmt"
	"strings"
	"time"

	"github.com/s887432/udp-filetransfer/internal/pkg/session"

	"github.com/sirupsen/logrus"
)

// SetLogger sets the default logger's level.
func SetLogger(level string) {
	logrus.SetLevel(logrus.ErrorLevel)
	customFormatter := new(logrus.TextFormatter)
	customFormatter.TimestampFormat = time.RFC3339
	logrus.SetFormatter(customFormatter)
	customFormatter.FullTimestamp = true
	switch strings.ToLower(level) {
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.ErrorLevel)
	}
}

// FileFields describes one file transfer.
func FileFields(fileSize, sectionSize int32, sum uint32) logrus.Fields {
	return logrus.Fields{
		"file_size":    fileSize,
		"section_size": sectionSize,
		"checksum":     fmt.Sprintf("%08X", sum),
	}
}

// SessionFields describes a session record.
func SessionFields(sess session.Session) logrus.Fields {
	fields := logrus.Fields{
		"session": sess.ID.String(),
		"state":   sess.State.String(),
		"files":   sess.Files,
		"bytes":   ByteCount(sess.Bytes),
	}
	if sess.Peer != "" {
		fields["peer"] = sess.Peer
	}
	if sess.Err != "" {
		fields["error"] = sess.Err
	}
	return fields
}

// ByteCount formats b with binary unit prefixes.
func ByteCount(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
