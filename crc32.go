package streamzip

import "hash/crc32"

// crcHasher is the incremental CRC-32/IEEE computation an entry forks
// every chunk through: polynomial 0xEDB88320 (reflected), initial
// value 0xFFFFFFFF, final XOR 0xFFFFFFFF -- exactly hash/crc32's IEEE
// table. No third-party replacement in the example pack supplies a
// distinct CRC-32/IEEE implementation, and stdlib's is
// hardware-accelerated where the platform supports it.
type crcHasher struct {
	reg       uint32
	finalized bool
}

func newCRCHasher() *crcHasher {
	return &crcHasher{}
}

// update folds p into the running checksum. Calling update after
// finalize is a programming error.
func (c *crcHasher) update(p []byte) {
	if c.finalized {
		panic("streamzip: crcHasher.update called after finalize")
	}
	c.reg = crc32.Update(c.reg, crc32.IEEETable, p)
}

// finalize marks the hasher done and returns the checksum. The initial
// value and final XOR are already applied by crc32.Update on every
// call, so reg always holds a finished checksum.
func (c *crcHasher) finalize() uint32 {
	c.finalized = true
	return c.reg
}
