package checksum

// Sum adds up all the byte values in buf and returns the result.
// The sum wraps around on overflow, which for a 32-bit accumulator happens only
// beyond 16 MiB of 0xff bytes. It is a diagnostic value: cheap, order-independent
// and with no cryptographic strength.
func Sum(buf []byte) uint32 {
	var sum uint32
	for _, b := range buf {
		sum += uint32(b)
	}
	return sum
}

// Accumulator computes the same value as Sum over data that arrives in pieces.
type Accumulator struct {
	sum uint32
}

// Write adds p to the running sum. It never fails.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.sum += Sum(p)
	return len(p), nil
}

// Sum32 returns the running sum.
func (a *Accumulator) Sum32() uint32 {
	return a.sum
}
