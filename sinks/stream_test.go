package sinks

import (
	"bufio"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	s := NewStream(&buf)
	ctx := context.Background()

	require.NoError(t, s.Open(ctx))
	require.NoError(t, s.Write(ctx, []byte("hello")))
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, "hello", buf.String())
}

func TestStreamClosesFlushesButNeverClosesWriter(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	s := NewStream(bw)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []byte("buffered")))
	assert.Equal(t, 0, buf.Len(), "bufio.Writer should not have flushed yet")

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, "buffered", buf.String())

	// bufio.Writer is still usable after Close, proving Stream never
	// closed it, only flushed it.
	_, err := bw.Write([]byte("more"))
	assert.NoError(t, err)
}
