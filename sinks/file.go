// Package sinks provides concrete streamzip.Sink implementations: a
// local file, a wrapped io.Writer, an HTTP response body, and blob
// storage objects on S3 and Google Cloud Storage.
package sinks

import (
	"context"
	"fmt"

	"github.com/google/renameio"
)

// File writes an archive to a filesystem path using renameio, the
// same atomic-write dependency distr1-distri uses for its own
// metadata and build output: the archive only appears at path once
// it's fully written, never as a torn partial file if the process
// dies mid-write.
type File struct {
	path string

	pending *renameio.PendingFile
}

// NewFile returns a Sink that writes to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Set is ignored; File already knows its destination path.
func (f *File) Set(context.Context, string, string) {}

// Open creates a pending temporary file alongside path.
func (f *File) Open(context.Context) error {
	pf, err := renameio.TempFile("", f.path)
	if err != nil {
		return fmt.Errorf("sinks: open %s: %w", f.path, err)
	}
	f.pending = pf
	return nil
}

// Write appends to the pending file.
func (f *File) Write(_ context.Context, p []byte) error {
	_, err := f.pending.Write(p)
	if err != nil {
		return fmt.Errorf("sinks: write %s: %w", f.path, err)
	}
	return nil
}

// Close atomically publishes the pending file at path. Calling Close
// more than once is a no-op after the first successful call.
func (f *File) Close(context.Context) error {
	if f.pending == nil {
		return nil
	}
	err := f.pending.CloseAtomicallyReplace()
	f.pending = nil
	if err != nil {
		return fmt.Errorf("sinks: close %s: %w", f.path, err)
	}
	return nil
}
