package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/devricklin/tg-relay-bridge/internal/conf"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	conf.SetupLogging(cfg.Log.Level, cfg.Log.Format)

	if err := newCLIApp(cfg).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
