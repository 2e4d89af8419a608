package client

import "github.com/pkg/errors"

// ErrNotConnected indicates Run was called before Connect.
var ErrNotConnected = errors.New("not connected")

// ErrMissingServer indicates no server address was configured.
var ErrMissingServer = errors.New("missing server address")
