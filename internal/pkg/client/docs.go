// Package client implements the sending side of the file transfer.
//
// The client performs the following steps:
//  1. Open an IPv4 UDP socket and bind a segment link to the server address.
//  2. Read the next entry of the file list.
//  3. If the entry is EOF, send the end-of-session file size (-1) and stop.
//  4. Otherwise load the whole file, send its size, the section size and every section.
//  5. After the last section, send KEEP_GOING and continue with step 2.
//
// Every segment waits for the server's acknowledgment before the next one is sent.
// Any failure stops the client: the rest of the list is not read and no command is
// sent for the failed file. The server notices the missing segments through its own
// timeout and goes back to waiting for a new session.
//
// A list that runs out without an EOF entry ends the run without telling the server.
package client
