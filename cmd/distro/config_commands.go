package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/handiism/distro-wizard/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file",
	}
	cmd.AddCommand(newConfigInitCommand(ctx))
	cmd.AddCommand(newConfigShowCommand(ctx))
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configPath()
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultSettings().Save(path); err != nil {
				return fmt.Errorf("write settings: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			token := "not set"
			if s.AuthToken != "" {
				token = "set"
			}
			rows := [][]string{
				{"file", ctx.configPath()},
				{"api_base_url", s.APIBaseURL},
				{"create_request_path", s.CreateRequestPath},
				{"auth_token", token},
				{"timeout_seconds", fmt.Sprint(s.TimeoutSeconds)},
				{"rate_limit_rpm", fmt.Sprint(s.RateLimitRPM)},
				{"retry_attempts", fmt.Sprint(s.RetryAttempts)},
				{"cover_art_max_size", fmt.Sprint(s.CoverArtMaxSize)},
				{"log_level", s.LogLevel},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}
