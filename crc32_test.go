package streamzip

import (
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrcHasherMatchesStdlib(t *testing.T) {
	data := []byte("hello!")
	h := newCRCHasher()
	h.update(data)
	got := h.finalize()
	assert.Equal(t, crc32.ChecksumIEEE(data), got)
}

func TestCrcHasherIncremental(t *testing.T) {
	h := newCRCHasher()
	h.update([]byte("hel"))
	h.update([]byte("lo!"))
	assert.Equal(t, crc32.ChecksumIEEE([]byte("hello!")), h.finalize())
}

func TestCrcHasherEmpty(t *testing.T) {
	h := newCRCHasher()
	assert.Equal(t, crc32.ChecksumIEEE(nil), h.finalize())
}

func TestCrcHasherUpdateAfterFinalizePanics(t *testing.T) {
	h := newCRCHasher()
	h.finalize()
	assert.Panics(t, func() { h.update([]byte("x")) })
}
