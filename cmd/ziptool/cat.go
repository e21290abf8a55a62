package main

import (
	"context"
	"fmt"
	"os"

	"github.com/streamzip/streamzip"
	"github.com/streamzip/streamzip/sinks"
	"github.com/urfave/cli/v2"
)

func newCatCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "pack a directory and stream the archive to stdout",
		ArgsUsage: "DIR",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("%w: expected DIR", ErrFlagParse)
			}
			dir := c.Args().Get(0)

			ctx := context.Background()
			ar, err := streamzip.New(ctx, "stdout.zip", streamzip.WithOutput(sinks.NewStream(os.Stdout)))
			if err != nil {
				return fmt.Errorf("creating archive: %w", err)
			}
			if err := addDir(ctx, ar, dir); err != nil {
				return err
			}
			if _, err := ar.Close(ctx); err != nil {
				return fmt.Errorf("closing archive: %w", err)
			}
			return nil
		},
	}
}
