package sinks

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseOpenSetsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	r := NewResponse(rec, "report.zip")
	ctx := context.Background()

	r.Set(ctx, "type", "application/zip")
	require.NoError(t, r.Open(ctx))

	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="report.zip"`)
}

func TestResponseSetOverridesFilename(t *testing.T) {
	rec := httptest.NewRecorder()
	r := NewResponse(rec, "default.zip")
	ctx := context.Background()

	r.Set(ctx, "name", "renamed.zip")
	require.NoError(t, r.Open(ctx))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="renamed.zip"`)
}

func TestResponseWritePassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	r := NewResponse(rec, "x.zip")
	ctx := context.Background()

	require.NoError(t, r.Write(ctx, []byte("payload")))
	assert.Equal(t, "payload", rec.Body.String())
}

func TestContentDispositionSanitizesQuotes(t *testing.T) {
	got := contentDisposition(`weird"name.zip`)
	assert.Contains(t, got, `filename="weird_name.zip"`)
	assert.Contains(t, got, "filename*=UTF-8''")
}

func TestContentDispositionDefaultsWhenEmpty(t *testing.T) {
	got := contentDisposition("")
	assert.Contains(t, got, `filename="archive.zip"`)
}
