// kensaku is the command line client for the kensaku search API.
package main

import (
	"os"

	"github.com/midori-cloud/kensaku/cmd/kensaku/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
