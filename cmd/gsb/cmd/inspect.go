/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/inspect"
)

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Dump the raw 16-byte records of a file",
		Long: `Print every 16-byte record of a file with its offset, raw bytes, the key as
Latin-1 text and the value read as little- and big-endian double and int64.

Useful for files that do not decode: no interpretation of the header is
attempted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative, got %d", limit)
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			cmd.Printf("--- low-level analysis of %s ---\n\n", args[0])
			stats, err := inspect.Dump(cmd.OutOrStdout(), f, inspect.Options{Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			c.Metrics().RecordsRead(stats.Records)
			c.Logger().Debug("inspection finished",
				"records", stats.Records,
				"trailing_bytes", stats.Trailing,
				"limited", stats.Limited)
			return nil
		},
	}

	inspectCmd.Flags().IntP("limit", "n", 0, "Stop after this many records (0 = all)")

	return inspectCmd
}
