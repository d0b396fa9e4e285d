// Command ocrbench scores OCR transcriptions from the command line.
//
//	ocrbench score --expected truth.txt --actual output.txt
//	ocrbench normalize < page.tex
//	ocrbench eval --config cases.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "ocrbench/internal/provider/claude"
	_ "ocrbench/internal/provider/gemini"
	_ "ocrbench/internal/provider/openai"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ocrbench",
		Short:         "Score OCR output against ground truth",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(evalCmd())

	return rootCmd
}
