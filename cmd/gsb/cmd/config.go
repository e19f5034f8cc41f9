/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssargent/gsbgrid/pkg/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the gsb configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(configPath) && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}

			if err := config.SaveConfig(config.DefaultConfig(), configPath); err != nil {
				return err
			}
			cmd.Printf("Configuration written to %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
