// Command ziptool packs a directory into a streaming Zip64 archive,
// written to a file, to stdout, or to an S3 object.
package main

import "os"

func main() {
	app := newZiptoolApp()
	if err := app.Run(os.Args); err != nil {
		os.Exit(ExitCodeUnknownError)
	}
}
