package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/handiism/distro-wizard/internal/distribution"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var skipAuth, prefillTags bool

	cmd := &cobra.Command{
		Use:   "submit <release.yaml>",
		Short: "Validate a release manifest and submit it for distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			logger := ctx.logger()
			client, err := ctx.client(logger)
			if err != nil {
				return err
			}

			opts := releaseOptions{
				manifestPath: args[0],
				prefillTags:  prefillTags,
				coverArt:     settings.CoverArtOptions(),
			}
			if !skipAuth {
				if opts.accounts, err = ctx.accountService(client, logger); err != nil {
					return err
				}
			}

			session, err := loadRelease(cmd.Context(), ctx, opts, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if problems := collectProblems(session); len(problems) > 0 {
				fmt.Fprintln(out, problemsTable(problems))
				return fmt.Errorf("release has %d problem(s); nothing was submitted", len(problems))
			}
			for !session.IsLastStep() {
				if !session.GoNext() {
					return fmt.Errorf("step %d (%s) did not validate", session.Step(), session.Step())
				}
			}

			client.OnUploadProgress(func(written, total int64) {
				if written == total {
					logger.Info("upload complete", "size", humanize.Bytes(uint64(total)))
				}
			})

			orchestrator, err := distribution.NewOrchestrator(session, client, logger, func(e distribution.ProgressEvent) {
				switch e.Level {
				case distribution.LevelWarning:
					logger.Warn(e.Message)
				case distribution.LevelError:
					logger.Error(e.Message)
				case distribution.LevelVerbose:
					logger.Debug(e.Message)
				default:
					logger.Info(e.Message)
				}
			})
			if err != nil {
				return err
			}

			if err := orchestrator.Submit(cmd.Context()); err != nil {
				if errors.Is(err, distribution.ErrSubmissionFailed) {
					return errors.New(orchestrator.Message())
				}
				return err
			}

			fmt.Fprintf(out, "✓ %q submitted for distribution\n", session.Fields().Title)
			fmt.Fprintf(out, "  Session %s\n", session.ID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipAuth, "skip-auth", false, "Do not check the account before submitting")
	cmd.Flags().BoolVar(&prefillTags, "prefill-tags", false, "Fill empty fields from the audio files' ID3 tags")

	return cmd
}
