package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mathieu/cvforge/internal/ingestion"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text <file>",
	Short: "Recover raw text from a CV document",
	Long:  "Recover the raw textual content of a DOCX, PDF or plain text CV and print it to stdout (or write it to --out).",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractText,
}

var extractTextOut string

func init() {
	extractTextCmd.Flags().StringVarP(&extractTextOut, "out", "o", "", "Path to output text file (default: stdout)")
	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	text, err := ingestion.ExtractText(data)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	if extractTextOut == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(extractTextOut, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
