package wizard

import (
	"strings"

	"github.com/handiism/distro-wizard/internal/model"
)

// Step is a wizard page, numbered from one.
type Step int

const (
	StepArtistProfile Step = iota + 1
	StepReleaseInfo
	StepFiles
	StepMetadata
	StepDistribution
)

// FirstStep and LastStep bound the wizard.
const (
	FirstStep = StepArtistProfile
	LastStep  = StepDistribution
)

// String returns the page title.
func (s Step) String() string {
	switch s {
	case StepArtistProfile:
		return "Artist Profile"
	case StepReleaseInfo:
		return "Release Info"
	case StepFiles:
		return "Files"
	case StepMetadata:
		return "Metadata & Rights"
	case StepDistribution:
		return "Distribution & Agreements"
	default:
		return "Unknown"
	}
}

// Validation messages.
const (
	MsgHasDistributed = "Please tell us whether you have distributed music before"
	MsgSpotify        = "Spotify profile link is required"
	MsgAppleMusic     = "Apple Music profile link is required"
	MsgYouTubeMusic   = "YouTube Music profile link is required"
	MsgArtistName     = "Artist name is required"
	MsgTitle          = "Release title is required"
	MsgTrackTitle     = "Track title is required"
	MsgCoverArt       = "Cover art is required"
	MsgAudioFile      = "Audio file is required"
	MsgTrackAudio     = "Audio file is required for this track"
	MsgGenre          = "Genre is required"
	MsgReleaseDate    = "Release date is required"
	MsgCopyrightOwner = "Copyright owner is required"
	MsgSongwriters    = "All songwriter names must be filled in"
	MsgLyrics         = "Lyrics are required"
	MsgPlatforms      = "Select at least one platform"
	MsgAgreement      = "You must accept this agreement"
)

// Validate checks the fields of one step and returns every problem found.
//
// Validate is pure: it only reads r and returns a fresh map. Steps outside
// one to five have no rules.
func Validate(step Step, r *model.Release) Errors {
	errs := Errors{}
	switch step {
	case StepArtistProfile:
		validateArtistProfile(r, errs)
	case StepReleaseInfo:
		validateReleaseInfo(r, errs)
	case StepFiles:
		validateFiles(r, errs)
	case StepMetadata:
		validateMetadata(r, errs)
	case StepDistribution:
		validateDistribution(r, errs)
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateArtistProfile(r *model.Release, errs Errors) {
	switch r.HasDistributed {
	case model.DistributedUnset:
		errs["hasDistributed"] = MsgHasDistributed
	case model.DistributedYes:
		if r.ExistingProfiles.Spotify == "" {
			errs["existingProfiles.spotify"] = MsgSpotify
		}
		if r.ExistingProfiles.AppleMusic == "" {
			errs["existingProfiles.appleMusic"] = MsgAppleMusic
		}
		if r.ExistingProfiles.YouTubeMusic == "" {
			errs["existingProfiles.youtubeMusic"] = MsgYouTubeMusic
		}
	case model.DistributedNo:
		if blank(r.ArtistName) {
			errs["artistName"] = MsgArtistName
		}
	}
}

func validateReleaseInfo(r *model.Release, errs Errors) {
	if blank(r.Title) {
		errs["title"] = MsgTitle
	}
	if !r.IsAlbum() {
		return
	}
	for i, t := range r.Tracks {
		if blank(t.Title) {
			errs[TrackTitleKey(i)] = MsgTrackTitle
		}
	}
}

func validateFiles(r *model.Release, errs Errors) {
	if r.CoverArt == nil {
		errs["coverArt"] = MsgCoverArt
	}
	switch r.ReleaseType {
	case model.ReleaseSingle:
		if r.AudioFile == nil {
			errs["audioFile"] = MsgAudioFile
		}
	case model.ReleaseAlbum:
		for i, t := range r.Tracks {
			if !t.HasAudio() {
				errs[TrackAudioKey(i)] = MsgTrackAudio
			}
		}
	}
}

func validateMetadata(r *model.Release, errs Errors) {
	if r.Genre == "" {
		errs["genre"] = MsgGenre
	}
	if r.ReleaseDate == "" {
		errs["releaseDate"] = MsgReleaseDate
	}
	if blank(r.Copyright.Owner) {
		errs["copyright.owner"] = MsgCopyrightOwner
	}
	if r.Songwriter == model.SongwriterSelf {
		for _, name := range r.Songwriters {
			if blank(name) {
				errs["songwriters"] = MsgSongwriters
				break
			}
		}
	}
	if r.ReleaseType == model.ReleaseSingle && blank(r.Lyrics) {
		errs["lyrics"] = MsgLyrics
	}
}

func validateDistribution(r *model.Release, errs Errors) {
	if !r.AllPlatforms && !r.Platforms.Any() {
		errs["platforms"] = MsgPlatforms
	}
	for _, name := range model.KnownAgreements {
		if !r.Agreements.Get(name) {
			errs[AgreementKey(name)] = MsgAgreement
		}
	}
}
