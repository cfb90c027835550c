package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jengzang/carbon-footprint-backend/internal/cli"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCmd(version).ExecuteContext(context.Background())
}
