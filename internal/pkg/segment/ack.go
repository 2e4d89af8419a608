package segment

import (
	"encoding/binary"
	"fmt"
)

// IntSize is the wire size of every integer segment and of an acknowledgment.
const IntSize = 4

// Ack is the acknowledgment code a receiver returns for every segment.
type Ack uint32

// Acknowledgment codes.
const (
	AckSuccess Ack = 0x0055AA00
	AckFailure Ack = 0x0155AA01
	// AckRetry is reserved. It is never sent and is treated as a failure when received.
	AckRetry Ack = 0x0255AA02
)

func (a Ack) String() string {
	switch a {
	case AckSuccess:
		return "SUCCESS"
	case AckFailure:
		return "FAILURE"
	case AckRetry:
		return "RETRY"
	}
	return fmt.Sprintf("UNKNOWN(%08X)", uint32(a))
}

// Integers travel in host byte order.
var byteOrder = binary.NativeEndian

// EncodeInt32 returns the wire form of v.
func EncodeInt32(v int32) []byte {
	buf := make([]byte, IntSize)
	byteOrder.PutUint32(buf, uint32(v))
	return buf
}

// DecodeInt32 reads a wire integer from the first IntSize bytes of buf.
func DecodeInt32(buf []byte) int32 {
	return int32(byteOrder.Uint32(buf))
}

func encodeAck(a Ack) []byte {
	buf := make([]byte, IntSize)
	byteOrder.PutUint32(buf, uint32(a))
	return buf
}

func decodeAck(buf []byte) Ack {
	return Ack(byteOrder.Uint32(buf))
}
