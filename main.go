package main

import (
	"os"

	"github.com/shandysiswandi/securelogin/internal/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
