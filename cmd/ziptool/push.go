package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"

	"github.com/streamzip/streamzip"
	"github.com/streamzip/streamzip/sinks"
)

// newPushCommand uploads a packed directory straight to an S3 bucket
// via a multipart upload, never touching local disk.
func newPushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "pack a directory and stream the archive to an S3 bucket",
		ArgsUsage: "DIR BUCKET KEY",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "region"},
			&cli.StringFlag{Name: "access-key-id"},
			&cli.StringFlag{Name: "secret-access-key"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("%w: expected DIR, BUCKET and KEY", ErrFlagParse)
			}
			dir := c.Args().Get(0)
			bucket := c.Args().Get(1)
			key := c.Args().Get(2)

			ctx := context.Background()
			loadOptions := []func(*config.LoadOptions) error{}
			if region := c.String("region"); region != "" {
				loadOptions = append(loadOptions, config.WithRegion(region))
			}
			if accessKeyID := c.String("access-key-id"); accessKeyID != "" {
				loadOptions = append(loadOptions, config.WithCredentialsProvider(
					credentials.NewStaticCredentialsProvider(accessKeyID, c.String("secret-access-key"), "")))
			}
			cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
			if err != nil {
				return fmt.Errorf("loading aws config: %w", err)
			}

			client := s3.NewFromConfig(cfg)
			ar, err := streamzip.New(ctx, key, streamzip.WithOutput(sinks.NewS3(client, bucket, key)))
			if err != nil {
				return fmt.Errorf("creating archive: %w", err)
			}
			if err := addDir(ctx, ar, dir); err != nil {
				return err
			}
			n, err := ar.Close(ctx)
			if err != nil {
				return fmt.Errorf("closing archive: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %d entries, %d bytes to s3://%s/%s\n", ar.EntryCount(), n, bucket, key)
			return nil
		},
	}
}
