package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ironsheep/game-vision/internal/config"
	"github.com/ironsheep/game-vision/internal/facts"
	"github.com/ironsheep/game-vision/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("game-vision - MCP server for game-screen detection")
	fmt.Println()
	fmt.Println("Usage: game-vision [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c PATH    Read configuration from a YAML file")
	fmt.Println("  --version, -v        Print version information")
	fmt.Println("  --help, -h           Print this help message")
	fmt.Println()
	fmt.Println("Environment variables override the file, for example:")
	fmt.Println("  GAMEVISION_LOG_LEVEL=debug           Enable debug logging")
	fmt.Println("  GAMEVISION_ASSETS_DIR=/opt/assets    Templates and models")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}

func main() {
	var configPath string
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("game-vision %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config needs a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown option %q\n", args[i])
			usage()
			os.Exit(2)
		}
	}

	// stdout carries the protocol
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel())

	log.Info().Str("version", Version).Str("commit", GitCommit).Str("assets", cfg.Assets.Dir).Msg("game-vision starting")

	reg := facts.NewRegistry(os.DirFS(cfg.Assets.Dir), cfg.RegistryOptions())
	defer reg.Close()

	if cfg.Assets.Preload {
		if err := reg.Preload(); err != nil {
			log.Fatal().Err(err).Msg("Failed to load templates")
		}
	}

	srv := server.New(reg, server.Options{
		Version:         Version,
		HistoryCapacity: cfg.Server.HistoryCapacity,
		BorderThreshold: cfg.Minimap.BorderThreshold,
	})
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("Server error")
		reg.Close()
		os.Exit(1)
	}
	log.Info().Msg("stdin closed, shutting down")
}
