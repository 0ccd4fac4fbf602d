package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mathieu/cvforge/internal/config"
	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for template analysis, CV processing and document generation.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveConfigPath string
	serveUploadDir  string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	serveCmd.Flags().StringVar(&serveUploadDir, "upload-dir", "data/uploads", "Directory for uploaded files")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	if servePort != 0 {
		cfg.Port = servePort
	}
	merged := cfg.MergeWithDefaults(config.Config{
		AssetDir:    "data/assets",
		OutputDir:   "data/generated",
		GeminiModel: extraction.DefaultModel,
		Port:        8080,
	})
	if err := merged.Validate(); err != nil {
		return err
	}

	if merged.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if merged.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	srv, err := server.New(context.Background(), server.Config{
		Port:        merged.Port,
		DatabaseURL: merged.DatabaseURL,
		APIKey:      merged.APIKey,
		GeminiModel: merged.GeminiModel,
		AssetDir:    merged.AssetDir,
		OutputDir:   merged.OutputDir,
		UploadDir:   serveUploadDir,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}
