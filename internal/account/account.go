package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/handiism/distro-wizard/internal/http"
	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

// ErrNotAuthenticated means the configured token does not belong to a
// logged-in artist.
var ErrNotAuthenticated = errors.New("not logged in: set auth_token in the settings or DISTRO_AUTH_TOKEN")

// Getter fetches JSON documents from the API.
type Getter interface {
	GetJSON(ctx context.Context, path string, v any) error
}

// Paths are the account endpoints.
type Paths struct {
	AuthCheck string
	Profile   string
	Payment   string
}

// User is the logged-in user returned by the auth check.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Profile is the artist profile.
type Profile struct {
	ArtistName      string  `json:"artist_name"`
	SpotifyURL      string  `json:"spotify_url"`
	AppleMusicURL   string  `json:"apple_music_url"`
	YouTubeMusicURL string  `json:"youtube_music_url"`
	WalletBalance   float64 `json:"wallet_balance"`
	Currency        string  `json:"currency"`
}

// Payment is the artist's payout method.
type Payment struct {
	Method        string `json:"method"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

// Configured reports whether a payout method is on file.
func (p *Payment) Configured() bool {
	return p != nil && p.Method != "" && p.AccountNumber != ""
}

// MaskedAccount returns the account number with all but the last four
// digits hidden.
func (p *Payment) MaskedAccount() string {
	n := p.AccountNumber
	if len(n) <= 4 {
		return n
	}
	return strings.Repeat("•", len(n)-4) + n[len(n)-4:]
}

// Account is everything known about the logged-in artist.
type Account struct {
	User    User
	Profile Profile
	Payment *Payment
}

// Service loads account data.
type Service struct {
	api    Getter
	paths  Paths
	logger *log.Logger
}

// NewService creates a Service. If logger is nil, log output is discarded.
func NewService(api Getter, paths Paths, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{api: api, paths: paths, logger: logger}
}

// Load checks the session and then fetches the profile and payment
// details concurrently.
//
// It returns ErrNotAuthenticated when the auth check rejects the token.
// Missing payment details are not an error; Account.Payment is nil and a
// warning is logged.
func (s *Service) Load(ctx context.Context) (*Account, error) {
	var check struct {
		Authenticated bool `json:"authenticated"`
		User          User `json:"user"`
	}
	if err := s.api.GetJSON(ctx, s.paths.AuthCheck, &check); err != nil {
		if isKind(err, apihttp.KindUnauthorized) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("auth check: %w", err)
	}
	if !check.Authenticated {
		return nil, ErrNotAuthenticated
	}

	acct := &Account{User: check.User}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.GetJSON(gctx, s.paths.Profile, &acct.Profile); err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var p Payment
		err := s.api.GetJSON(gctx, s.paths.Payment, &p)
		switch {
		case err == nil:
			acct.Payment = &p
		case isStatus(err, 404):
		default:
			return fmt.Errorf("payment details: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if !acct.Payment.Configured() {
		s.logger.Warn("no payout method on file", "user", acct.User.Username)
	}
	s.logger.Debug("account loaded", "user", acct.User.Username, "artist", acct.Profile.ArtistName)
	return acct, nil
}

// Prefill copies profile data into empty release fields.
//
// The artist name and the three streaming profile URLs are set through the
// session's setters, and only when the field is still empty.
func (a *Account) Prefill(s *wizard.Session) {
	r := s.Fields()
	p := a.Profile

	if strings.TrimSpace(r.ArtistName) == "" && p.ArtistName != "" {
		s.SetArtistName(p.ArtistName)
	}
	if r.ExistingProfiles.Spotify == "" && p.SpotifyURL != "" {
		s.SetSpotifyProfile(p.SpotifyURL)
	}
	if r.ExistingProfiles.AppleMusic == "" && p.AppleMusicURL != "" {
		s.SetAppleMusicProfile(p.AppleMusicURL)
	}
	if r.ExistingProfiles.YouTubeMusic == "" && p.YouTubeMusicURL != "" {
		s.SetYouTubeMusicProfile(p.YouTubeMusicURL)
	}
	if r.HasDistributed == model.DistributedUnset && p.SpotifyURL != "" && p.AppleMusicURL != "" && p.YouTubeMusicURL != "" {
		s.SetHasDistributed(model.DistributedYes)
	}
}

func isKind(err error, kind apihttp.Kind) bool {
	var re *apihttp.RequestError
	return errors.As(err, &re) && re.Kind == kind
}

func isStatus(err error, status int) bool {
	var re *apihttp.RequestError
	return errors.As(err, &re) && re.Status == status
}
