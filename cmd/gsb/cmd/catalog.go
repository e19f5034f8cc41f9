/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/catalog"
	"github.com/ssargent/gsbgrid/pkg/di"
)

// withCatalog opens the catalog for the duration of fn
func withCatalog(c *di.Container, fn func(cat *catalog.Catalog) error) error {
	dataDir := c.Config().Catalog.DataDir
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	cat, err := c.OpenCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	return fn(cat)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.gsb>",
		Short: "Decode a grid file and store it in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}

			g, err := c.DecodeFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", args[0], err)
			}

			source := args[0]
			if abs, err := filepath.Abs(source); err == nil {
				source = abs
			}
			entry, err := catalog.NewEntry(source, g, time.Now())
			if err != nil {
				return err
			}

			return withCatalog(c, func(cat *catalog.Catalog) error {
				id, err := cat.Put(entry)
				if err != nil {
					return err
				}
				c.Logger().Info("grid imported", "id", id.String(), "source", source)
				cmd.Printf("Imported %s as %s (%d sub-grids, %d shifts)\n", args[0], id, entry.SubGrids, entry.Shifts)
				return nil
			})
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}

			return withCatalog(c, func(cat *catalog.Catalog) error {
				entries, err := cat.List()
				if err != nil {
					return err
				}
				c.Metrics().SetCatalogEntries(len(entries))
				return outputEntries(cmd.OutOrStdout(), entries)
			})
		},
	}
}

func newShowCmd() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}
			asJSON, _ := cmd.Flags().GetBool("json")

			return withCatalog(c, func(cat *catalog.Catalog) error {
				entry, err := cat.Get(id)
				if err != nil {
					return err
				}
				if asJSON {
					var buf bytes.Buffer
					if err := json.Indent(&buf, entry.Grid, "", "  "); err != nil {
						return fmt.Errorf("failed to format stored grid: %w", err)
					}
					buf.WriteByte('\n')
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				return outputEntry(cmd.OutOrStdout(), entry)
			})
		},
	}

	showCmd.Flags().Bool("json", false, "Print the stored grid document")

	return showCmd
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}
			id, err := catalog.ParseID(args[0])
			if err != nil {
				return err
			}

			return withCatalog(c, func(cat *catalog.Catalog) error {
				if err := cat.Delete(id); err != nil {
					return err
				}
				cmd.Printf("Removed %s\n", id)
				return nil
			})
		},
	}
}
