package model

import (
	"time"
)

// Distributed records whether the artist has released music on streaming
// platforms before.
type Distributed string

const (
	DistributedUnset Distributed = ""
	DistributedYes   Distributed = "yes"
	DistributedNo    Distributed = "no"
)

// ReleaseType selects between a single-track release and an album.
type ReleaseType string

const (
	ReleaseSingle ReleaseType = "single"
	ReleaseAlbum  ReleaseType = "album"
)

// YesNo is a two-way choice rendered as a radio group.
type YesNo string

const (
	Yes YesNo = "yes"
	No  YesNo = "no"
)

// SongwriterMode tells whether the artist wrote the songs themselves.
type SongwriterMode string

const (
	SongwriterSelf  SongwriterMode = "self"
	SongwriterOther SongwriterMode = "other"
)

// PromotionPackage is the optional paid promotion tier attached to a release.
type PromotionPackage string

const (
	PromotionNone     PromotionPackage = "none"
	PromotionBasic    PromotionPackage = "basic"
	PromotionStandard PromotionPackage = "standard"
	PromotionPremium  PromotionPackage = "premium"
)

// PromotionPackages lists the tiers in display order.
var PromotionPackages = []PromotionPackage{PromotionNone, PromotionBasic, PromotionStandard, PromotionPremium}

// Profiles holds links to the artist's existing streaming profiles.
type Profiles struct {
	Spotify      string
	AppleMusic   string
	YouTubeMusic string
}

// Copyright is the (C) line of a release.
type Copyright struct {
	Year  int
	Owner string
}

// Release is the accumulated state of the distribution wizard.
//
// Release is plain data: it performs no validation. Fields are grouped the
// way the wizard presents them:
//   - artist profile (step 1)
//   - release info and tracks (step 2)
//   - cover art and audio (step 3)
//   - metadata and rights (step 4)
//   - platforms, promotion and agreements (step 5)
//
// Tracks is only meaningful for albums and always holds NumberOfTracks
// entries once ResyncTracks has run.
type Release struct {
	// Artist profile
	HasDistributed   Distributed
	ArtistName       string
	ExistingProfiles Profiles

	// Release info
	ReleaseType    ReleaseType
	Title          string
	NumberOfTracks int
	Tracks         []Track

	// Files
	CoverArt  *Upload
	AudioFile *Upload

	// Metadata
	Genre          string
	SecondaryGenre string
	ReleaseDate    string
	IsExplicit     bool
	ClipStartTime  string

	// Rights
	Copyright       Copyright
	RecordLabel     YesNo
	RecordLabelName string
	Songwriter      SongwriterMode
	Songwriters     []string
	Lyrics          string

	// Distribution
	AllPlatforms     bool
	Platforms        Platforms
	PromotionPackage PromotionPackage

	Agreements Agreements
}

// NewRelease returns a Release filled with the wizard's initial values.
//
// The copyright year is taken from now so callers (and tests) control the
// clock.
func NewRelease(now time.Time) *Release {
	r := &Release{
		ReleaseType:      ReleaseSingle,
		NumberOfTracks:   1,
		Copyright:        Copyright{Year: now.Year()},
		RecordLabel:      No,
		Songwriter:       SongwriterSelf,
		Songwriters:      []string{""},
		AllPlatforms:     true,
		Platforms:        AllPlatforms(),
		PromotionPackage: PromotionNone,
	}
	r.ResyncTracks()
	return r
}

// ResyncTracks resizes Tracks to NumberOfTracks.
//
// Existing entries keep their index, new ones are empty and extra ones are
// dropped. A track count below one is treated as one. Calling it again with
// the same count leaves Tracks unchanged.
func (r *Release) ResyncTracks() {
	n := r.NumberOfTracks
	if n < 1 {
		n = 1
	}
	tracks := make([]Track, n)
	copy(tracks, r.Tracks)
	r.Tracks = tracks
}

// IsAlbum reports whether the release is an album.
func (r *Release) IsAlbum() bool {
	return r.ReleaseType == ReleaseAlbum
}

// Clone returns a deep copy of the release. Uploads are shared since they
// are immutable references.
func (r *Release) Clone() *Release {
	c := *r
	c.Tracks = append([]Track(nil), r.Tracks...)
	c.Songwriters = append([]string(nil), r.Songwriters...)
	return &c
}
