package main

import (
	"fmt"
	"log/slog"

	"github.com/dtroode/gophaccounts-server/internal/logger"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)

	if err := cmd.Execute(); err != nil {
		logger.New(int(slog.LevelError), "text").Fatal("command failed", "error", err)
	}
}
