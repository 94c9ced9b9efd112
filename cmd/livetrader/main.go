package main

import (
	"os"

	"livetrader/cmd/livetrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
