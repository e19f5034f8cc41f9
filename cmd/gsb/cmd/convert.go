/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/export"
)

func newConvertCmd() *cobra.Command {
	convertCmd := &cobra.Command{
		Use:   "convert <input.gsb> [output]",
		Short: "Convert a grid file to JSON or YAML",
		Long: `Decode a binary .GSB grid shift file and write it as JSON (default) or YAML.

The output path defaults to the input path with its extension replaced.
Nothing is written unless the whole file decodes successfully.

Examples:
  gsb convert SAD69.gsb
  gsb convert SAD69.gsb out/SAD69.yaml --format yaml
  gsb convert SAD69.gsb --summary`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}
			cfg := c.Config()

			formatName := cfg.Output.Format
			if cmd.Flags().Changed("format") {
				formatName, _ = cmd.Flags().GetString("format")
			}
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			indent := cfg.Output.Indent
			if cmd.Flags().Changed("indent") {
				indent, _ = cmd.Flags().GetInt("indent")
			}
			summary, _ := cmd.Flags().GetBool("summary")

			input := args[0]
			output := export.DefaultOutputPath(input, format)
			if len(args) == 2 {
				output = args[1]
			}

			cmd.Printf("Reading grid file: %s\n", input)
			g, err := c.DecodeFile(input)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", input, err)
			}
			for _, w := range g.Warnings {
				cmd.PrintErrf("Warning: %s\n", w)
			}

			cmd.Printf("Writing output to: %s\n", output)
			if err := export.WriteFile(output, g, export.Options{Format: format, Indent: indent}); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			if summary {
				cmd.Println()
				if err := export.WriteSummary(cmd.OutOrStdout(), g); err != nil {
					return err
				}
				cmd.Println()
			}

			cmd.Println("Conversion complete")
			return nil
		},
	}

	convertCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	convertCmd.Flags().Int("indent", 2, "Indentation width; 0 writes compact JSON")
	convertCmd.Flags().Bool("summary", false, "Print a header and sub-grid summary")

	return convertCmd
}
