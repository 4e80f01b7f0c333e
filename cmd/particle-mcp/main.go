package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/ironsheep/particle-tools-mcp/internal/config"
	"github.com/ironsheep/particle-tools-mcp/internal/pipeline"
	"github.com/ironsheep/particle-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("particle-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(2)
	}

	// Log to stderr (stdout is for MCP protocol)
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "analyze" {
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: particle-mcp analyze <photo>")
			os.Exit(2)
		}
		if err := analyze(ctx, cfg, logger, os.Args[2]); err != nil {
			logger.Error("analysis failed", "path", os.Args[2], "error", err)
			os.Exit(1)
		}
		return
	}

	server.Version = Version
	logger.Debug("starting server", "version", Version, "built", BuildTime, "commit", GitCommit)

	srv := server.New(cfg, logger)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("particle-tools-mcp - MCP server for air-particulate sampling cards")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  particle-mcp                  Serve MCP over stdin/stdout")
	fmt.Println("  particle-mcp analyze <photo>  Analyze one photo and print the report")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PARTICLE_MCP_CONFIG=<path>          JSON configuration file")
	fmt.Println("  PARTICLE_MCP_LOG_LEVEL=debug        debug, info, warn or error")
	fmt.Println("  PARTICLE_MCP_BACKEND=opencv         native or opencv")
	fmt.Println("  PARTICLE_MCP_INTERPOLATION=lanczos  nearest, bilinear, bicubic or lanczos")
	fmt.Println("  PARTICLE_MCP_BATCH_WORKERS=4        parallel photos in batch analysis")
	fmt.Println()
	fmt.Println("Configure the server in your MCP client (e.g., Claude Desktop).")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "CONFIG"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// analyze runs the pipeline once and prints the report as JSON.
func analyze(ctx context.Context, cfg config.Config, logger *slog.Logger, path string) error {
	photo, err := imgio.Open(path)
	if err != nil {
		return err
	}

	res, err := pipeline.New(cfg, logger).Analyze(ctx, &pipeline.Request{Image: photo, Name: path})
	if err != nil {
		return err
	}
	if !res.Found {
		fmt.Println(res.Message)
		return nil
	}

	out, err := res.Analysis.Report.JSON()
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
