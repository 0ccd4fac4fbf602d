package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mathieu/cvforge/internal/analyzer"
	"github.com/mathieu/cvforge/internal/assets"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [template.docx ...]",
	Short: "Analyze template containers into structure models",
	Long:  "Analyze one or more DOCX template containers and write each structure model as JSON next to the input (or into --out-dir). Independent templates are analyzed concurrently.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeOutDir   string
	analyzeAssetDir string
	analyzeWorkers  int
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutDir, "out-dir", "o", "", "Directory for output JSON files (default: next to each input)")
	analyzeCmd.Flags().StringVar(&analyzeAssetDir, "asset-dir", "assets", "Directory for extracted images")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 4, "Maximum concurrent analyses")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	store, err := assets.NewFSStore(analyzeAssetDir)
	if err != nil {
		return fmt.Errorf("failed to create asset store: %w", err)
	}
	an := analyzer.New(assets.NewExtractor(store))

	if analyzeOutDir != "" {
		if err := os.MkdirAll(analyzeOutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(analyzeWorkers)
	for _, path := range args {
		g.Go(func() error {
			return analyzeOne(ctx, an, path)
		})
	}
	return g.Wait()
}

func analyzeOne(ctx context.Context, an *analyzer.Analyzer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", path, err)
	}

	// Parse failures fall back to the default model; analysis never aborts
	// the batch.
	model := an.AnalyzeOrDefault(ctx, data)

	jsonBytes, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal structure model: %w", err)
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".structure.json"
	if analyzeOutDir != "" {
		outPath = filepath.Join(analyzeOutDir, filepath.Base(outPath))
	}
	if err := os.WriteFile(outPath, jsonBytes, 0o644); err != nil {
		return fmt.Errorf("failed to write structure model: %w", err)
	}
	fmt.Printf("Analyzed %s -> %s\n", path, outPath)
	return nil
}
