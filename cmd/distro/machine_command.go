package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/distro-wizard/internal/distribution"
)

func newMachineCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "machine",
		Short:  "Print the submission state machine as XState JSON",
		Args:   cobra.NoArgs,
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := distribution.ExportXStateJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
