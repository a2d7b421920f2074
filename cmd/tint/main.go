// cmd/tint/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stlog "log" // Standard log for FATAL errors before logger is ready
	"os"
	"os/signal"

	"github.com/bethropolis/tint/internal/app"
	"github.com/bethropolis/tint/internal/config"
	"github.com/bethropolis/tint/internal/logger"
)

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	fs := flag.NewFlagSet(config.AppName, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] [image]\n\n", config.AppName)
		fs.PrintDefaults()
	}
	args, err := flags.ParseFlags(fs, os.Args[1:])
	if err != nil {
		stlog.Fatalf("Error parsing flags: %v", err)
	}

	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		return
	}

	var imagePath string
	if len(args) > 0 {
		imagePath = args[0]
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	logCloser, err := logger.Setup(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	if cfgErr != nil {
		logger.Warnf("Config: %v (using defaults where needed)", cfgErr)
	}

	logger.Infof("Starting %s %s...", config.AppName, config.Version)
	logger.Debugf("Log level set to: %s", cfg.Logger.LogLevel)

	if flags.BatchMode() {
		code := runBatch(cfg, flags, imagePath)
		logCloser.Close()
		os.Exit(code)
	}

	// --- Create and Run App ---
	tintApp, err := app.NewApp(app.Options{
		Config:      cfg,
		ImagePath:   imagePath,
		StickerPath: *flags.Sticker,
	})
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if err := tintApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}

func runBatch(cfg *config.Config, flags config.Flags, input string) int {
	if input == "" {
		fmt.Fprintf(os.Stderr, "%s: an input image is required with -filter or -o\n", config.AppName)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := app.RunBatch(ctx, app.BatchOptions{
		Config:      cfg,
		Input:       input,
		Filter:      *flags.Filter,
		Region:      *flags.Region,
		StickerPath: *flags.Sticker,
		Output:      *flags.Output,
	})
	if err != nil {
		logger.Errorf("Batch failed: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	fmt.Println(path)
	return 0
}
