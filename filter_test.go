package streamzip

import (
	"bytes"
	"compress/flate"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFilterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f, err := newFilter(MethodStore, &buf)
	require.NoError(t, err)

	n, err := f.write([]byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, len("payload"), n)

	n, err = f.close()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, "payload", buf.String())
}

func TestDeflateFilterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	f, err := newFilter(MethodDeflate, &buf)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog "), 64)
	total := 0
	n, err := f.write(payload)
	require.NoError(t, err)
	total += n

	n, err = f.close()
	require.NoError(t, err)
	total += n

	assert.Equal(t, buf.Len(), total, "reported compressed bytes must match bytes actually forwarded")

	zr := flate.NewReader(bytes.NewReader(buf.Bytes()))
	defer zr.Close()
	got, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestNewFilterUnknownMethod(t *testing.T) {
	_, err := newFilter(Method(99), &bytes.Buffer{})
	var unknownErr *UnknownMethodError
	assert.ErrorAs(t, err, &unknownErr)
}
