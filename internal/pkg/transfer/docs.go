// Package transfer implements the file transfer protocol on top of segment links.
//
// One file travels as:
//
//	Sender                          |  Receiver
//	file_size    (4 bytes)   ---->
//	section_size (4 bytes)   ---->
//	section 0 .. n-1         ---->
//	command      (4 bytes)   ---->      KEEP_GOING | FINISHED
//
// Every arrow is one segment and is acknowledged individually. Section lengths are
// never sent: both peers derive them from file_size and section_size with Sections,
// so the arithmetic must stay identical on both ends.
//
// A file_size of -1 ends the session on its own; no section_size, data or command
// follows it.
package transfer
