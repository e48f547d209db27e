package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/segment-reader/internal/classifier"
	"github.com/ironsheep/segment-reader/internal/config"
	"github.com/ironsheep/segment-reader/internal/imaging"
	"github.com/ironsheep/segment-reader/internal/logger"
	"github.com/ironsheep/segment-reader/internal/reader"
	"github.com/ironsheep/segment-reader/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("segment-reader - read seven-segment displays from photographs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  segment-reader                 Run the MCP server on stdin/stdout")
	fmt.Println("  segment-reader read <image>    Read the display in <image> and print it")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug            Log level (debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Printf("  %s=<file.yaml>          Slot layout (default: built-in scale layout)\n", config.EnvLayout)
	fmt.Printf("  %s=127               Binarization cutoff 0-255\n", config.EnvThreshold)
	fmt.Printf("  %s=5                    Dilation kernel size (odd)\n", config.EnvKernel)
	fmt.Printf("  %s=1         Dilation passes\n", config.EnvDilateIterations)
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("segment-reader %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}
	logger.SetLevel(cfg.LogLevel)

	layout, err := cfg.Layout()
	if err != nil {
		logger.WithError(err).Fatal("failed to load layout")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "read" {
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		if err := readImage(ctx, cfg, layout, os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
		"slots":   len(layout.Slots),
	}).Debug("starting MCP server")

	server.Version = Version
	srv := server.New(cfg.DetectorOptions(), layout)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("server error")
	}
}

// readImage reads one photograph and prints the formatted reading.
func readImage(ctx context.Context, cfg *config.Config, layout reader.Layout, path string) error {
	model := classifier.NewAlgorithmModel(cfg.DetectorOptions())
	r, err := reader.New(model, layout, nil)
	if err != nil {
		return err
	}

	reading, err := r.ReadFile(ctx, imaging.NewImageCache(), path)
	if err != nil {
		return err
	}
	fmt.Println(reading.Format())
	return nil
}
