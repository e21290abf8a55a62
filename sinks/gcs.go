package sinks

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCS streams an archive straight into a Google Cloud Storage object
// writer, which performs its own resumable, chunked upload
// internally. Grounded on the same buildbarn-bb-storage dependency
// (cloud.google.com/go/storage) that backs its GCS blob-storage
// backend.
type GCS struct {
	client   *storage.Client
	bucket   string
	object   string
	sessionID string

	w *storage.Writer
}

// NewGCS returns a Sink that writes to the given bucket/object using client.
func NewGCS(client *storage.Client, bucket, object string) *GCS {
	return &GCS{client: client, bucket: bucket, object: object}
}

func (g *GCS) Set(_ context.Context, key, value string) {
	if key == "name" && value != "" {
		g.object = value
	}
}

func (g *GCS) Open(ctx context.Context) error {
	g.sessionID = uuid.NewString()
	w := g.client.Bucket(g.bucket).Object(g.object).NewWriter(ctx)
	w.ContentType = "application/zip"
	w.Metadata = map[string]string{"streamzip-session": g.sessionID}
	g.w = w
	return nil
}

func (g *GCS) Write(_ context.Context, p []byte) error {
	if _, err := g.w.Write(p); err != nil {
		return fmt.Errorf("sinks: gcs write object %s/%s (session %s): %w", g.bucket, g.object, g.sessionID, err)
	}
	return nil
}

func (g *GCS) Close(context.Context) error {
	if err := g.w.Close(); err != nil {
		return fmt.Errorf("sinks: gcs close object %s/%s (session %s): %w", g.bucket, g.object, g.sessionID, err)
	}
	return nil
}
