package main

import (
	"os"

	"github.com/abdidvp/docqms/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
