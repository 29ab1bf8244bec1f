package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmsas95/habitlens/internal/app"
	"github.com/gmsas95/habitlens/internal/cli"
	"github.com/gmsas95/habitlens/internal/config"
	"github.com/gmsas95/habitlens/internal/logging"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
	dataDir    = flag.String("data", config.GetEnvDefault("HABITLENS_DATA_DIR", ""), "Path to data directory")
	format     = flag.String("format", "text", "Output format: text, json or yaml")
	version    = "dev"
)

func main() {
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	command, args := "serve", flag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	switch command {
	case "help", "-h", "--help":
		cli.PrintHelp(os.Stdout)
		return
	case "version", "--version", "-v":
		fmt.Printf("habitlens version %s\n", version)
		return
	case "hash-password":
		if err := cli.HashPassword(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	outFormat, err := cli.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(2)
	}

	application := initApp(command)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := 0
	if command == "serve" {
		if err := application.RunServer(ctx); err != nil {
			application.Logger.Error("Server error", zap.Error(err))
			code = 1
		}
	} else {
		code = cli.New(application, os.Stdout, outFormat).Run(ctx, command, args)
	}

	stop()
	application.Logger.Sync()
	if err := application.Close(); err != nil {
		application.Logger.Warn("Failed to close store", zap.Error(err))
	}
	os.Exit(code)
}

func initApp(command string) *app.App {
	if err := config.LoadEnvFiles(); err != nil {
		log.Printf("Failed to load .env files: %v", err)
	}

	cfg, err := config.Load(*configPath, *dataDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Keep one-shot commands quiet unless asked otherwise
	if command != "serve" && config.GetEnvWithFallback("HABITLENS_LOGGING_LEVEL", "LOG_LEVEL") == "" {
		cfg.Logging.Level = "warn"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting habitlens",
		zap.String("version", version),
		zap.String("command", command),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	application, err := app.New(cfg, logger, version)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	return application
}
