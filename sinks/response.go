package sinks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Response streams an archive straight to an http.ResponseWriter,
// generalizing the teacher package's Archive.ServeHTTP (which served
// a pre-sized ReaderAt via http.ServeContent) to a push-streamed,
// unknown-length response: no Content-Length, no range support, bytes
// go out as they're produced.
type Response struct {
	w        http.ResponseWriter
	filename string
	mimeType string
}

// NewResponse returns a Sink that writes to w. filename is used to
// build the Content-Disposition header; it may be overridden by a
// later Set(ctx, "name", ...) call from the archive.
func NewResponse(w http.ResponseWriter, filename string) *Response {
	return &Response{w: w, filename: filename}
}

func (r *Response) Set(_ context.Context, key, value string) {
	switch key {
	case "name":
		r.filename = value
	case "type":
		r.mimeType = value
	}
}

func (r *Response) Open(context.Context) error {
	mimeType := r.mimeType
	if mimeType == "" {
		mimeType = "application/zip"
	}
	r.w.Header().Set("Content-Type", mimeType)
	r.w.Header().Set("Content-Disposition", contentDisposition(r.filename))
	r.w.Header().Set("Cache-Control", "no-store")
	r.w.Header().Set("X-Content-Type-Options", "nosniff")
	return nil
}

func (r *Response) Write(_ context.Context, p []byte) error {
	if _, err := r.w.Write(p); err != nil {
		return fmt.Errorf("sinks: response write: %w", err)
	}
	if f, ok := r.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func (r *Response) Close(context.Context) error { return nil }

// contentDisposition builds an RFC 6266 attachment header carrying
// both an ASCII-sanitized filename (for clients that only understand
// the legacy form) and the UTF-8 extended form.
func contentDisposition(name string) string {
	if name == "" {
		name = "archive.zip"
	}
	ascii := asciiSanitize(name)
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		strings.ReplaceAll(ascii, `"`, `\"`), url.PathEscape(name))
}

func asciiSanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= 0x20 && r < 0x7f && r != '"' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
