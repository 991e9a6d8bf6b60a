package main

import (
	"os"

	"github.com/bitfsorg/mediapay-go/cmd/mediapay/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
