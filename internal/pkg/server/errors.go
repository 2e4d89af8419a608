package server

import "github.com/pkg/errors"

// ErrNotListening indicates the server was asked to serve before Listen.
var ErrNotListening = errors.New("not listening")
