// Package segment implements the reliable segment exchange the file transfer runs on.
//
// A segment is a byte slice of a length both peers already agree on. It travels as one
// or more datagrams and is confirmed by exactly one 4-byte acknowledgment:
//
//	Sender                                 |  Receiver
//	datagram [0, n)                  ---->
//	datagram [n, 2n) ...             ---->
//	                                 <----   AckSuccess | AckFailure
//
// The exchange is stop-and-wait. Nothing is retransmitted: a lost, truncated or
// foreign datagram poisons the whole segment and both sides report a failure.
//
// A Link is the per-session context. The sender's link is bound to the server address
// up front. The receiver starts each session with an unbound link, which binds to the
// source of the first datagram it reads and replies only to that peer afterwards.
//
// Every read on a bound link is limited by the link timeout, and every read honours
// context cancellation. A zero timeout restores indefinite blocking.
package segment
