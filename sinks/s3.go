package sinks

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3MinPartSize is S3's minimum multipart upload part size (except
// for the final part, which may be smaller).
const s3MinPartSize = 5 << 20

// S3 streams an archive to an S3 object via the multipart upload API,
// buffering only up to s3MinPartSize at a time. Grounded on
// buildbarn-bb-storage's blob-storage backend set, which depends on
// aws-sdk-go-v2/service/s3 for its own object storage backend.
type S3 struct {
	client *s3.Client
	bucket string
	key    string

	uploadID   string
	buf        bytes.Buffer
	partNumber int32
	parts      []types.CompletedPart
}

// NewS3 returns a Sink that writes to the given bucket/key using client.
func NewS3(client *s3.Client, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (s *S3) Set(_ context.Context, key, value string) {
	if key == "name" && value != "" {
		s.key = value
	}
}

func (s *S3) Open(ctx context.Context) error {
	out, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return fmt.Errorf("sinks: s3 create multipart upload: %w", err)
	}
	s.uploadID = aws.ToString(out.UploadId)
	return nil
}

func (s *S3) Write(ctx context.Context, p []byte) error {
	s.buf.Write(p)
	for s.buf.Len() >= s3MinPartSize {
		if err := s.flushPart(ctx, s3MinPartSize); err != nil {
			return err
		}
	}
	return nil
}

func (s *S3) flushPart(ctx context.Context, n int) error {
	s.partNumber++
	body := bytes.NewReader(s.buf.Next(n))
	out, err := s.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(s.key),
		UploadId:   aws.String(s.uploadID),
		PartNumber: aws.Int32(s.partNumber),
		Body:       body,
	})
	if err != nil {
		return fmt.Errorf("sinks: s3 upload part %d: %w", s.partNumber, err)
	}
	s.parts = append(s.parts, types.CompletedPart{
		ETag:       out.ETag,
		PartNumber: aws.Int32(s.partNumber),
	})
	return nil
}

func (s *S3) Close(ctx context.Context) error {
	if s.buf.Len() > 0 {
		if err := s.flushPart(ctx, s.buf.Len()); err != nil {
			return err
		}
	}
	_, err := s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(s.key),
		UploadId: aws.String(s.uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: s.parts,
		},
	})
	if err != nil {
		return fmt.Errorf("sinks: s3 complete multipart upload: %w", err)
	}
	return nil
}
