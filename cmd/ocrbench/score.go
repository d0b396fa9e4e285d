package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ocrbench/internal/accuracy"
)

func scoreCmd() *cobra.Command {
	var (
		expectedPath string
		actualPath   string
		raw          bool
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one transcription against its ground truth",
		Long: `Score compares an OCR transcription with the expected text using a word
diff and prints the accuracy. Markup is stripped from both sides unless --raw
is given.

Examples:
  ocrbench score --expected truth.txt --actual output.txt
  ocrbench score -e truth.tex -a output.md --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if expectedPath == "-" && actualPath == "-" {
				return errors.New("only one of --expected and --actual can read stdin")
			}
			expected, err := readText(expectedPath, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading expected text: %w", err)
			}
			actual, err := readText(actualPath, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading actual text: %w", err)
			}

			res := accuracy.Score(expected, actual, !raw)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return printScore(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&expectedPath, "expected", "e", "", "file holding the ground truth (- for stdin)")
	cmd.Flags().StringVarP(&actualPath, "actual", "a", "", "file holding the transcription (- for stdin)")
	cmd.Flags().BoolVar(&raw, "raw", false, "compare without stripping markup")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result including the diff as JSON")
	_ = cmd.MarkFlagRequired("expected")
	_ = cmd.MarkFlagRequired("actual")

	return cmd
}

func printScore(w io.Writer, res accuracy.Result) error {
	_, err := fmt.Fprintf(w, "accuracy: %.2f%%\nexpected chars: %d\nadded: %d\nremoved: %d\n",
		res.Value*100, res.TotalChars, res.AddedChars, res.RemovedChars)
	return err
}

// readText reads a file, or stdin when path is "-", dropping one trailing
// newline either way.
func readText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
