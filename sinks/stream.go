package sinks

import (
	"context"
	"fmt"
	"io"
)

// flusher is implemented by writers (e.g. bufio.Writer) that buffer
// and need an explicit flush before the sink is considered closed.
type flusher interface {
	Flush() error
}

// Stream wraps a caller-provided io.Writer. It ignores Set and never
// closes the caller's writer -- only flushes it, if it implements
// Flush -- since ownership of the underlying stream stays with the
// caller.
type Stream struct {
	w io.Writer
}

// NewStream returns a Sink that writes to w.
func NewStream(w io.Writer) *Stream {
	return &Stream{w: w}
}

func (s *Stream) Set(context.Context, string, string) {}

func (s *Stream) Open(context.Context) error { return nil }

func (s *Stream) Write(_ context.Context, p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("sinks: stream write: %w", err)
	}
	return nil
}

func (s *Stream) Close(context.Context) error {
	if f, ok := s.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("sinks: stream flush: %w", err)
		}
	}
	return nil
}
