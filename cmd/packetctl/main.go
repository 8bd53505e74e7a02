package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/danmuck/packetctl/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()
	logging.ConfigureRuntime()
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn().Err(envErr).Msg("ignoring unreadable .env")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "packetctl: %v\n", err)
		os.Exit(1)
	}
}
