package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lil-lang/lilc/domain"
	"github.com/lil-lang/lilc/internal/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter lil.toml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "lil.toml"
			if _, err := os.Stat(path); err == nil && !force {
				return domain.NewInvalidInputError("lil.toml already exists (use --force to overwrite)", nil)
			}
			if err := os.WriteFile(path, []byte(config.DefaultTOML), 0o644); err != nil {
				return domain.NewOutputError("could not write lil.toml", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Created lil.toml")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing lil.toml")
	return cmd
}
