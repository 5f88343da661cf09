package main

import (
	"os"

	"github.com/sorinlupastean/cv-analyzer-backend/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
