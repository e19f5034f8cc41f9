/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/kmz"
)

func newKMZCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kmz <input.kmz> [output.csv]",
		Short: "Extract placemark coordinates from a KMZ archive",
		Long: `Read the first .kml file inside a KMZ archive and write every placemark
coordinate as a row of a semicolon-separated CSV:

  Name;Latitude;Longitude;Altitude

Malformed coordinate tuples are skipped with a warning.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getContainer(cmd)
			if err != nil {
				return err
			}

			input := args[0]
			output := kmz.DefaultOutputPath(input)
			if len(args) == 2 {
				output = args[1]
			}

			result, err := kmz.Extract(input, output, c.Logger())
			if err != nil {
				return fmt.Errorf("failed to extract coordinates: %w", err)
			}
			c.Metrics().RecordKMZPoints(result.Points, result.Skipped)

			if result.Points == 0 {
				cmd.Println("No placemark with valid coordinates found in the KML file.")
				return nil
			}
			cmd.Printf("%d coordinates extracted from %s and saved to %s\n", result.Points, result.Entry, output)
			return nil
		},
	}
}
