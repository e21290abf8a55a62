package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/streamzip/streamzip"
	"github.com/streamzip/streamzip/sinks"
	"github.com/urfave/cli/v2"
)

func newCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "pack a directory into a Zip64 archive",
		ArgsUsage: "DIR OUTPUT.zip",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "store",
				Usage: "store files verbatim instead of deflating them",
			},
			&cli.StringFlag{
				Name:  "comment",
				Usage: "archive comment",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("%w: expected DIR and OUTPUT.zip", ErrFlagParse)
			}
			dir := c.Args().Get(0)
			out := c.Args().Get(1)

			method := streamzip.MethodDeflate
			if c.Bool("store") {
				method = streamzip.MethodStore
			}

			ctx := context.Background()
			ar, err := streamzip.New(ctx, filepath.Base(out),
				streamzip.WithArchiveMethod(method),
				streamzip.WithArchiveComment([]byte(c.String("comment"))),
				streamzip.WithOutput(sinks.NewFile(out)))
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
			fmt.Fprintf(c.App.Writer, "wrote %d entries, %d bytes to %s\n", ar.EntryCount(), n, out)
			return nil
		},
	}
}

// addDir walks root and adds every regular file under it, using its
// path relative to root as the archive name.
func addDir(ctx context.Context, ar *streamzip.Archive, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		return ar.AddFileFromPath(ctx, rel, path)
	})
}
