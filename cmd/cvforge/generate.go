package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mathieu/cvforge/internal/extraction"
	"github.com/mathieu/cvforge/internal/repopulate"
	"github.com/mathieu/cvforge/internal/structure"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a styled CV from a template and extracted data",
	Long:  "Repopulate a template container with extracted CV data, preserving the template's styling. The structure model and extracted data are read from JSON files.",
	RunE:  runGenerate,
}

var (
	generateTemplate  string
	generateStructure string
	generateData      string
	generateOut       string
)

func init() {
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to template .docx (required)")
	generateCmd.Flags().StringVarP(&generateStructure, "structure", "s", "", "Path to structure model JSON (required)")
	generateCmd.Flags().StringVarP(&generateData, "data", "d", "", "Path to extracted CV data JSON (required)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "output.docx", "Path for the generated container")
	_ = generateCmd.MarkFlagRequired("template")
	_ = generateCmd.MarkFlagRequired("structure")
	_ = generateCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	templateBytes, err := os.ReadFile(generateTemplate)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	modelBytes, err := os.ReadFile(generateStructure)
	if err != nil {
		return fmt.Errorf("failed to read structure model: %w", err)
	}
	var model structure.TemplateStructure
	if err := json.Unmarshal(modelBytes, &model); err != nil {
		return fmt.Errorf("failed to parse structure model: %w", err)
	}

	dataBytes, err := os.ReadFile(generateData)
	if err != nil {
		return fmt.Errorf("failed to read extracted data: %w", err)
	}
	var cv extraction.ExtractedCV
	if err := json.Unmarshal(dataBytes, &cv); err != nil {
		return fmt.Errorf("failed to parse extracted data: %w", err)
	}

	output, err := repopulate.New().Repopulate(templateBytes, &model, &cv)
	if err != nil {
		return fmt.Errorf("failed to repopulate template: %w", err)
	}
	if err := os.WriteFile(generateOut, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Generated %s\n", generateOut)
	return nil
}
