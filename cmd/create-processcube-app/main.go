package main

import (
	"os"

	"github.com/5minds/create-processcube-app/internal/cli"
	"github.com/5minds/create-processcube-app/pkg/errors"
	"github.com/5minds/create-processcube-app/pkg/ui"
	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory may carry PROCESSCUBE_* overrides
	_ = godotenv.Load()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		ui.NewPrinter(os.Stderr, ui.FormatAuto).Error(err, errors.GetErrorDetails(err))
		os.Exit(1)
	}
}
