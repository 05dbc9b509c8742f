package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveConfigFile string
	servePort       int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the user, resume, export, and AI endpoints.

Configuration comes from the environment (DATABASE_URL is required) and an
optional JSON file given with --config. Environment values win over the file.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to JSON config file (optional)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadServerConfig(serveConfigFile)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	store, err := newExportStore(ctx, cfg.Export)
	if err != nil {
		return err
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{Port: cfg.Port}, server.Deps{
		Store:     database,
		AI:        ai.NewService(client),
		Exporter:  export.NewExporter(nil, store),
		Drafts:    server.NewDrafts(database, cfg.AutosaveDelay),
		Passwords: passwords,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// newLLMClient returns nil when no API key is configured; the AI endpoints
// then serve deterministic fallbacks.
func newLLMClient(ctx context.Context, cfg *config.ServerConfig) (llm.Client, error) {
	if cfg.LLMAPIKey == "" {
		log.Printf("[serve] No %s API key set, AI endpoints will use fallbacks", cfg.LLM.Provider)
		return nil, nil
	}

	client, err := llm.NewClient(ctx, cfg.LLM, cfg.LLMAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	if cfg.RedisURL == "" {
		return client, nil
	}
	cache, err := llm.NewRedisCache(ctx, cfg.RedisURL)
	if err != nil {
		// a cache outage should not keep the API down
		log.Printf("[llm-cache] Redis unavailable, caching disabled: %v", err)
		return client, nil
	}
	return llm.NewCachedClient(client, cache, cfg.LLMCacheTTL, cfg.LLM.Provider), nil
}

// newExportStore prefers S3 when a bucket is configured, then a local directory.
// It returns nil when publishing is disabled.
func newExportStore(ctx context.Context, cfg config.ExportConfig) (export.Store, error) {
	switch {
	case cfg.Bucket != "":
		store, err := export.NewS3Store(ctx, export.S3Options{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("[serve] Publishing exports to s3://%s", cfg.Bucket)
		return store, nil
	case cfg.Dir != "":
		log.Printf("[serve] Publishing exports to %s", cfg.Dir)
		return &export.LocalStore{Dir: cfg.Dir}, nil
	default:
		return nil, nil
	}
}
