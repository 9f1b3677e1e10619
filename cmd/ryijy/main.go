// Ryijy turns images into knotted rug patterns.
package main

import (
	"os"

	"github.com/jmylchreest/ryijy/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
