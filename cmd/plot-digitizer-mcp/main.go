package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/plot-digitizer/internal/logger"
	"github.com/ironsheep/plot-digitizer/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("plot-digitizer-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("plot-digitizer-mcp - MCP server for extracting data points from scanned plots")
			fmt.Println()
			fmt.Println("Usage: plot-digitizer-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables (also read from ./.env):")
			fmt.Println("  PLOT_DIGITIZER_LOG_LEVEL=debug   Log level (default info)")
			fmt.Println("  PLOT_DIGITIZER_RADIUS=8          Default marker radius in pixels")
			fmt.Println("  PLOT_DIGITIZER_CUTOFF=150        Default luminance cutoff")
			fmt.Println("  PLOT_DIGITIZER_PEAK_RATIO=0.8    Default peak ratio")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// stdout is reserved for the protocol.
	boot := logger.New(os.Stderr, "info")

	cfg, err := server.LoadConfig(".env")
	if err != nil {
		boot.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(os.Stderr, cfg.LogLevel)
	entry := log.WithFields(logrus.Fields{"version": Version})
	entry.WithFields(logrus.Fields{
		"built":      BuildTime,
		"commit":     GitCommit,
		"radius":     cfg.Defaults.Radius,
		"cutoff":     cfg.Defaults.Cutoff,
		"peak_ratio": cfg.Defaults.PeakRatio,
	}).Debug("plot-digitizer MCP server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogEntry(ctx, entry)

	if err := server.New(cfg).Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		entry.WithError(err).Fatal("server error")
	}
}
