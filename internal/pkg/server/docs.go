// Package server implements the receiving side of the file transfer.
//
// The server performs the following steps:
//  1. Binds an IPv4 UDP socket to the configured port.
//  2. Creates an unbound segment link and a handler for the next session.
//  3. The first datagram to arrive binds the link to its sender; all acknowledgments of
//     the session go to that address and datagrams from anyone else are dropped.
//  4. The handler receives files until the sender announces FINISHED or sends the
//     end-of-session file size, handing every file to the configured sink.
//  5. When the session ends, for whatever reason, the server goes back to step 2.
//
// A failed session is logged and recorded in the session store, and the server waits
// for the next one. Serve returns nil once its context is cancelled, and returns an
// error only when waiting for a session fails before any datagram arrived, such as
// when the socket is closed.
//
// One session is served at a time. A second sender that starts while a session is
// running has its datagrams dropped until that session ends or times out.
package server
