package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	ioutils "github.com/handiism/distro-wizard/internal/io"
	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

// Manifest is a release described in YAML.
//
//	artist:
//	  has_distributed: "no"
//	  name: Nova
//	release:
//	  type: single
//	  title: Sunrise
//	files:
//	  cover_art: artwork/cover.png
//	  audio: masters/sunrise.wav
//	metadata:
//	  genre: Afrobeats
//	  release_date: "2025-07-01"
//	  lyrics: ...
//	rights:
//	  copyright: {year: 2025, owner: Nova}
//	  songwriters: [Nova]
//	distribution:
//	  all_platforms: true
//	agreements: {terms: true, youtubeAck: true, ...}
type Manifest struct {
	Artist       Artist          `yaml:"artist"`
	Release      Release         `yaml:"release"`
	Files        Files           `yaml:"files"`
	Metadata     Metadata        `yaml:"metadata"`
	Rights       Rights          `yaml:"rights"`
	Distribution Distribution    `yaml:"distribution"`
	Agreements   map[string]bool `yaml:"agreements"`
}

// Artist is the artist profile section.
type Artist struct {
	HasDistributed string   `yaml:"has_distributed"`
	Name           string   `yaml:"name"`
	Profiles       Profiles `yaml:"profiles"`
}

// Profiles are links to existing streaming profiles.
type Profiles struct {
	Spotify      string `yaml:"spotify"`
	AppleMusic   string `yaml:"apple_music"`
	YouTubeMusic string `yaml:"youtube_music"`
}

// Release is the release info section.
type Release struct {
	Type           string  `yaml:"type"`
	Title          string  `yaml:"title"`
	NumberOfTracks int     `yaml:"number_of_tracks"`
	Tracks         []Track `yaml:"tracks"`
}

// Track is one album track. Audio is a file path.
type Track struct {
	Title          string `yaml:"title"`
	Songwriter     string `yaml:"songwriter"`
	FeaturedArtist string `yaml:"featured_artist"`
	Lyrics         string `yaml:"lyrics"`
	ClipStartTime  string `yaml:"clip_start_time"`
	Genre          string `yaml:"genre"`
	Audio          string `yaml:"audio"`
}

// Files holds paths to the cover art and single audio file.
type Files struct {
	CoverArt string `yaml:"cover_art"`
	Audio    string `yaml:"audio"`
}

// Metadata is the descriptive metadata section.
type Metadata struct {
	Genre          string `yaml:"genre"`
	SecondaryGenre string `yaml:"secondary_genre"`
	ReleaseDate    string `yaml:"release_date"`
	Explicit       bool   `yaml:"explicit"`
	ClipStartTime  string `yaml:"clip_start_time"`
	Lyrics         string `yaml:"lyrics"`
}

// Rights covers copyright, label and songwriting credits.
type Rights struct {
	Copyright       Copyright `yaml:"copyright"`
	RecordLabel     string    `yaml:"record_label"`
	RecordLabelName string    `yaml:"record_label_name"`
	Songwriter      string    `yaml:"songwriter"`
	Songwriters     []string  `yaml:"songwriters"`
}

// Copyright is the (C) line. A zero year keeps the default.
type Copyright struct {
	Year  int    `yaml:"year"`
	Owner string `yaml:"owner"`
}

// Distribution is the platform and promotion section. Nil AllPlatforms
// keeps the default.
type Distribution struct {
	AllPlatforms *bool    `yaml:"all_platforms"`
	Platforms    []string `yaml:"platforms"`
	Promotion    string   `yaml:"promotion"`
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a manifest. Unknown keys are rejected.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.check(); err != nil {
		return nil, err
	}
	return &m, nil
}

// check rejects values the wizard cannot represent: unknown enum values
// and more tracks than number_of_tracks allows.
func (m *Manifest) check() error {
	var errs []error
	oneOf := func(field, v string, allowed ...string) {
		if v != "" && !slices.Contains(allowed, v) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %v", field, v, allowed))
		}
	}

	oneOf("artist.has_distributed", m.Artist.HasDistributed, "yes", "no")
	oneOf("release.type", m.Release.Type, string(model.ReleaseSingle), string(model.ReleaseAlbum))
	oneOf("rights.record_label", m.Rights.RecordLabel, string(model.Yes), string(model.No))
	oneOf("rights.songwriter", m.Rights.Songwriter, string(model.SongwriterSelf), string(model.SongwriterOther))

	promos := make([]string, len(model.PromotionPackages))
	for i, p := range model.PromotionPackages {
		promos[i] = string(p)
	}
	oneOf("distribution.promotion", m.Distribution.Promotion, promos...)

	if n := m.Release.NumberOfTracks; n > 0 && len(m.Release.Tracks) > n {
		errs = append(errs, fmt.Errorf("release.tracks: %d tracks listed but number_of_tracks is %d", len(m.Release.Tracks), n))
	}

	for _, p := range m.Distribution.Platforms {
		if !slices.Contains(model.KnownPlatforms, model.Platform(p)) {
			errs = append(errs, fmt.Errorf("distribution.platforms: unknown platform %q", p))
		}
	}
	for name := range m.Agreements {
		if !slices.Contains(model.KnownAgreements, model.Agreement(name)) {
			errs = append(errs, fmt.Errorf("agreements: unknown agreement %q", name))
		}
	}
	return errors.Join(errs...)
}

// Apply writes the manifest into the session through its setters and
// resolves file paths relative to baseDir.
//
// Files are resolved concurrently. A missing or unreadable file becomes a
// field error at its key (coverArt, audioFile or track{i}Audio) rather
// than an error return; ctx cancellation is returned.
func Apply(ctx context.Context, s *wizard.Session, m *Manifest, baseDir string) error {
	applyFields(s, m)

	type job struct {
		key  string
		path string
		set  func(*model.Upload)
	}
	var jobs []job
	if m.Files.CoverArt != "" {
		jobs = append(jobs, job{"coverArt", m.Files.CoverArt, s.SetCoverArt})
	}
	if m.Files.Audio != "" {
		jobs = append(jobs, job{"audioFile", m.Files.Audio, s.SetAudioFile})
	}
	for i, t := range m.Release.Tracks {
		if t.Audio == "" || i >= len(s.Fields().Tracks) {
			continue
		}
		jobs = append(jobs, job{wizard.TrackAudioKey(i), t.Audio, func(u *model.Upload) { s.SetTrackAudio(i, u) }})
	}

	uploads := make([]*model.Upload, len(jobs))
	failures := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			uploads[i], failures[i] = ioutils.OpenUpload(resolve(baseDir, j.path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Session setters are not concurrency safe, so results are applied here.
	for i, j := range jobs {
		if failures[i] != nil {
			s.SetError(j.key, fileError(j.path, failures[i]))
			continue
		}
		j.set(uploads[i])
	}
	return nil
}

func applyFields(s *wizard.Session, m *Manifest) {
	if m.Artist.HasDistributed != "" {
		s.SetHasDistributed(model.Distributed(m.Artist.HasDistributed))
	}
	s.SetArtistName(m.Artist.Name)
	s.SetSpotifyProfile(m.Artist.Profiles.Spotify)
	s.SetAppleMusicProfile(m.Artist.Profiles.AppleMusic)
	s.SetYouTubeMusicProfile(m.Artist.Profiles.YouTubeMusic)

	if m.Release.Type != "" {
		s.SetReleaseType(model.ReleaseType(m.Release.Type))
	}
	s.SetTitle(m.Release.Title)
	n := m.Release.NumberOfTracks
	if n == 0 {
		n = len(m.Release.Tracks)
	}
	if n > 0 {
		s.SetNumberOfTracks(n)
	}
	for i, t := range m.Release.Tracks {
		s.SetTrackField(i, wizard.TrackTitle, t.Title)
		s.SetTrackField(i, wizard.TrackSongwriter, t.Songwriter)
		s.SetTrackField(i, wizard.TrackFeaturedArtist, t.FeaturedArtist)
		s.SetTrackField(i, wizard.TrackLyrics, t.Lyrics)
		s.SetTrackField(i, wizard.TrackClipStartTime, t.ClipStartTime)
		s.SetTrackField(i, wizard.TrackGenre, t.Genre)
	}

	s.SetGenre(m.Metadata.Genre)
	s.SetSecondaryGenre(m.Metadata.SecondaryGenre)
	s.SetReleaseDate(m.Metadata.ReleaseDate)
	s.SetExplicit(m.Metadata.Explicit)
	s.SetClipStartTime(m.Metadata.ClipStartTime)
	s.SetLyrics(m.Metadata.Lyrics)

	if m.Rights.Copyright.Year != 0 {
		s.SetCopyrightYear(m.Rights.Copyright.Year)
	}
	s.SetCopyrightOwner(m.Rights.Copyright.Owner)
	if m.Rights.RecordLabel != "" {
		s.SetRecordLabel(model.YesNo(m.Rights.RecordLabel))
	}
	s.SetRecordLabelName(m.Rights.RecordLabelName)
	if m.Rights.Songwriter != "" {
		s.SetSongwriterMode(model.SongwriterMode(m.Rights.Songwriter))
	}
	if len(m.Rights.Songwriters) > 0 {
		s.SetSongwriters(m.Rights.Songwriters)
	}

	if m.Distribution.AllPlatforms != nil {
		s.SetAllPlatforms(*m.Distribution.AllPlatforms)
	}
	if len(m.Distribution.Platforms) > 0 {
		for _, p := range model.KnownPlatforms {
			s.SetPlatform(p, slices.Contains(m.Distribution.Platforms, string(p)))
		}
	}
	if m.Distribution.Promotion != "" {
		s.SetPromotionPackage(model.PromotionPackage(m.Distribution.Promotion))
	}

	for name, v := range m.Agreements {
		s.SetAgreement(model.Agreement(name), v)
	}
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

func fileError(path string, err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("File not found: %s", path)
	case errors.Is(err, ioutils.ErrNotAFile):
		return fmt.Sprintf("Not a file: %s", path)
	default:
		return fmt.Sprintf("Cannot read %s: %v", path, err)
	}
}
