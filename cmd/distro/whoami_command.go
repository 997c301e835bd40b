package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/handiism/distro-wizard/internal/account"
)

func newWhoamiCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in artist account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.logger()
			client, err := ctx.client(logger)
			if err != nil {
				return err
			}
			svc, err := ctx.accountService(client, logger)
			if err != nil {
				return err
			}

			acct, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, accountRows(acct)))
			return nil
		},
	}
}

func accountRows(acct *account.Account) [][]string {
	p := acct.Profile
	wallet := humanize.CommafWithDigits(p.WalletBalance, 2)
	if p.Currency != "" {
		wallet = strings.ToUpper(p.Currency) + " " + wallet
	}

	payout := "not set"
	if acct.Payment.Configured() {
		payout = strings.TrimSpace(fmt.Sprintf("%s %s %s", acct.Payment.Method, acct.Payment.BankName, acct.Payment.MaskedAccount()))
	}

	return [][]string{
		{"User", acct.User.Username},
		{"Email", acct.User.Email},
		{"Artist", orDash(p.ArtistName)},
		{"Spotify", orDash(p.SpotifyURL)},
		{"Apple Music", orDash(p.AppleMusicURL)},
		{"YouTube Music", orDash(p.YouTubeMusicURL)},
		{"Wallet", wallet},
		{"Payout", payout},
	}
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
