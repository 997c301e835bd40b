package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/handiism/distro-wizard/internal/account"
	"github.com/handiism/distro-wizard/internal/audio"
	ioutils "github.com/handiism/distro-wizard/internal/io"
	"github.com/handiism/distro-wizard/internal/manifest"
	"github.com/handiism/distro-wizard/internal/wizard"
)

type releaseOptions struct {
	manifestPath string
	prefillTags  bool
	coverArt     ioutils.CoverArtOptions

	// accounts is nil when the account lookup is skipped.
	accounts *account.Service
}

// loadRelease builds a wizard session from a manifest file. File errors
// are left in the session for the caller to report.
func loadRelease(ctx context.Context, c *commandContext, opts releaseOptions, logger *log.Logger) (*wizard.Session, error) {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return nil, err
	}

	session := wizard.NewSession(c.now(), logger)
	if err := manifest.Apply(ctx, session, m, filepath.Dir(opts.manifestPath)); err != nil {
		return nil, err
	}

	if opts.accounts != nil {
		acct, err := opts.accounts.Load(ctx)
		if err != nil {
			return nil, err
		}
		acct.Prefill(session)
	}

	if opts.prefillTags {
		prefillFromTags(session, logger)
	}

	if err := prepareCover(ctx, session, opts.coverArt); err != nil {
		return nil, err
	}
	return session, nil
}

func prefillFromTags(session *wizard.Session, logger *log.Logger) {
	r := session.Fields()
	if !r.IsAlbum() {
		if r.AudioFile == nil || r.AudioFile.Path == "" {
			return
		}
		tags, err := audio.ReadTags(r.AudioFile.Path)
		if err != nil {
			logger.Debug("skip tags", "file", r.AudioFile.Name, "err", err)
			return
		}
		tags.Prefill(session)
		return
	}

	for i, t := range r.Tracks {
		if t.AudioFile == nil || t.AudioFile.Path == "" {
			continue
		}
		tags, err := audio.ReadTags(t.AudioFile.Path)
		if err != nil {
			logger.Debug("skip tags", "track", i+1, "err", err)
			continue
		}
		tags.PrefillTrack(session, i)
	}
}

func prepareCover(ctx context.Context, session *wizard.Session, opts ioutils.CoverArtOptions) error {
	cover := session.Fields().CoverArt
	if cover == nil {
		return nil
	}
	prepared, err := ioutils.NewImageService().PrepareCoverArt(ctx, cover, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		session.SetError("coverArt", fmt.Sprintf("Cover art could not be processed: %v", err))
		return nil
	}
	if prepared != cover {
		session.SetCoverArt(prepared)
	}
	return nil
}

type fieldProblem struct {
	step    wizard.Step
	key     string
	message string
}

// collectProblems validates every step. Messages already stored in the
// session, such as a missing file, replace the generic ones.
func collectProblems(session *wizard.Session) []fieldProblem {
	stored := session.Errors()
	seen := map[string]bool{}

	var problems []fieldProblem
	for step := wizard.FirstStep; step <= wizard.LastStep; step++ {
		errs := wizard.Validate(step, session.Fields())
		for _, key := range errs.Keys() {
			msg := errs[key]
			if s, ok := stored[key]; ok {
				msg = s
			}
			seen[key] = true
			problems = append(problems, fieldProblem{step: step, key: key, message: msg})
		}
	}
	for _, key := range stored.Keys() {
		if !seen[key] {
			problems = append(problems, fieldProblem{step: wizard.StepFiles, key: key, message: stored[key]})
		}
	}
	return problems
}

func problemsTable(problems []fieldProblem) string {
	rows := make([][]string, 0, len(problems))
	for _, p := range problems {
		rows = append(rows, []string{fmt.Sprintf("%d. %s", p.step, p.step), p.key, p.message})
	}
	return renderTable([]string{"Step", "Field", "Message"}, rows)
}
