// Command distro-tui runs the release distribution wizard in the terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/handiism/distro-wizard/internal/account"
	"github.com/handiism/distro-wizard/internal/config"
	apihttp "github.com/handiism/distro-wizard/internal/http"
	"github.com/handiism/distro-wizard/internal/tui"
)

func main() {
	var configPath string
	var skipAuth, noTags bool

	cmd := &cobra.Command{
		Use:           "distro-tui",
		Short:         "Interactive release distribution wizard",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, skipAuth, !noTags)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Settings file path")
	cmd.Flags().BoolVar(&skipAuth, "skip-auth", false, "Start without checking the account")
	cmd.Flags().BoolVar(&noTags, "no-tags", false, "Do not prefill fields from ID3 tags")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, skipAuth, prefillTags bool) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logOut, closeLog := openLogFile()
	defer closeLog()
	logger := settings.NewLogger(logOut)

	client := apihttp.NewClient(settings.ToClientConfig(), logger)

	var svc *account.Service
	if !skipAuth {
		svc = account.NewService(client, account.Paths{
			AuthCheck: settings.AuthCheckPath,
			Profile:   settings.ProfilePath,
			Payment:   settings.PaymentPath,
		}, logger)
	}

	return tui.Run(tui.Options{
		Creator:         client,
		Uploads:         client,
		Account:         svc,
		CoverArt:        settings.CoverArtOptions(),
		PrefillFromTags: prefillTags,
		Logger:          logger,
	})
}

// openLogFile opens tui.log under the user cache dir. The alt screen owns
// the terminal, so logs cannot go to stderr.
func openLogFile() (io.Writer, func()) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return io.Discard, func() {}
	}
	dir = filepath.Join(dir, "distro-wizard")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}
