package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var prefillTags bool

	cmd := &cobra.Command{
		Use:   "validate <release.yaml>",
		Short: "Check a release manifest without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			logger := ctx.logger()

			session, err := loadRelease(cmd.Context(), ctx, releaseOptions{
				manifestPath: args[0],
				prefillTags:  prefillTags,
				coverArt:     settings.CoverArtOptions(),
			}, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := collectProblems(session)
			if len(problems) == 0 {
				fmt.Fprintf(out, "✓ %q is ready to submit\n", session.Fields().Title)
				return nil
			}
			fmt.Fprintln(out, problemsTable(problems))
			return fmt.Errorf("release has %d problem(s)", len(problems))
		},
	}

	cmd.Flags().BoolVar(&prefillTags, "prefill-tags", false, "Fill empty fields from the audio files' ID3 tags")

	return cmd
}
