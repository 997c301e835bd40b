package distribution

import (
	"errors"
	"strings"

	"github.com/handiism/distro-wizard/internal/model"
)

// Default social links sent when the artist has no profile of their own.
// Boomplay and Audiomack are always sent with these values.
const (
	DefaultSpotifyURL    = "https://spotify.com"
	DefaultAppleMusicURL = "https://apple.com"
	BoomplayURL          = "https://boomplay.com"
	AudiomackURL         = "https://audiomack.com"
)

// MsgNoAudioFile is shown when a submission has no audio attached at all.
const MsgNoAudioFile = "Please upload at least one audio file."

// ErrNoAudioFile is returned by Assemble when no primary audio file can be
// found. It is a submit-time check and is not tied to any wizard step.
var ErrNoAudioFile = errors.New("no audio file attached")

// SocialLinks is serialised as the social_links form field.
type SocialLinks struct {
	Spotify    string `json:"spotify"`
	AppleMusic string `json:"apple_music"`
	Boomplay   string `json:"boomplay"`
	AudioMark  string `json:"audio_mark"`
}

// Payload is the body of a distribution request.
type Payload struct {
	Caption     string
	Description string
	Genre       string
	SocialLinks SocialLinks

	// AudioUpload is the primary audio file of the release.
	AudioUpload *model.Upload

	// CoverPhoto is the release artwork.
	CoverPhoto *model.Upload
}

// PrimaryAudio returns the audio file that represents the release.
//
// Singles use the release audio file. Albums use the first track, in
// order, that has a file; other tracks are not sent.
func PrimaryAudio(r *model.Release) *model.Upload {
	switch r.ReleaseType {
	case model.ReleaseSingle:
		return r.AudioFile
	case model.ReleaseAlbum:
		for _, t := range r.Tracks {
			if t.AudioFile != nil {
				return t.AudioFile
			}
		}
	}
	return nil
}

// Assemble builds the request payload from the wizard fields.
func Assemble(r *model.Release) (*Payload, error) {
	audio := PrimaryAudio(r)
	if audio == nil {
		return nil, ErrNoAudioFile
	}

	description := strings.TrimSpace(r.Lyrics)
	if description == "" {
		description = "Music release: " + r.Title
	}

	return &Payload{
		Caption:     strings.TrimSpace(r.Title),
		Description: description,
		Genre:       r.Genre,
		SocialLinks: SocialLinks{
			Spotify:    orDefault(r.ExistingProfiles.Spotify, DefaultSpotifyURL),
			AppleMusic: orDefault(r.ExistingProfiles.AppleMusic, DefaultAppleMusicURL),
			Boomplay:   BoomplayURL,
			AudioMark:  AudiomackURL,
		},
		AudioUpload: audio,
		CoverPhoto:  r.CoverArt,
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
