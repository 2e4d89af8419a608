package transfer

import "github.com/pkg/errors"

// ErrInvalidSectionSize indicates a section size that cannot split a file.
var ErrInvalidSectionSize = errors.New("invalid section size")

// ErrFileTooLarge indicates a file whose size does not fit the wire format or the receiver's limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrProtocolDesync indicates the peer sent a value that makes no sense at this point of the exchange.
var ErrProtocolDesync = errors.New("protocol desync")
