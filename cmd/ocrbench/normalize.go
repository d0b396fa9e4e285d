package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ocrbench/internal/accuracy"
)

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file]",
		Short: "Strip LaTeX-style markup from text",
		Long: `Normalize prints the text the scorer compares after markup is removed.
Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readText(path, cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), accuracy.Normalize(text))
			return err
		},
	}
}
