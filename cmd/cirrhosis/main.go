package main

import (
	"fmt"
	"os"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
