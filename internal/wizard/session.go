package wizard

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/handiism/distro-wizard/internal/model"
)

// Errors maps a field path to the message shown next to that field.
type Errors map[string]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Has reports whether key carries an error.
func (e Errors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// Keys returns the error keys sorted alphabetically.
func (e Errors) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// TrackTitleKey is the error key for the title of track i.
func TrackTitleKey(i int) string { return fmt.Sprintf("track%dTitle", i) }

// TrackAudioKey is the error key for the audio file of track i.
func TrackAudioKey(i int) string { return fmt.Sprintf("track%dAudio", i) }

// AgreementKey is the error key for an agreement checkbox.
func AgreementKey(name model.Agreement) string { return "agreements." + string(name) }

// PlatformKey is the field path of a platform checkbox.
func PlatformKey(name model.Platform) string { return "platforms." + string(name) }

// Session is the state of one wizard run: the field store, the current
// step, the visible field errors and an identifier used in logs and
// request headers.
//
// A Session is not safe for concurrent use. All mutations are expected to
// come from a single UI loop.
type Session struct {
	id     string
	fields *model.Release
	step   Step
	errors Errors
	logger *log.Logger
}

// NewSession creates a session at step one with default fields.
//
// If logger is nil, log output is discarded.
func NewSession(now time.Time, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Session{logger: logger}
	s.Reset(now)
	return s
}

// Reset discards all entered data and returns to step one.
func (s *Session) Reset(now time.Time) {
	s.id = uuid.NewString()
	s.fields = model.NewRelease(now)
	s.step = StepArtistProfile
	s.errors = Errors{}
	s.logger.Debug("wizard session started", "session", s.id)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Fields returns the field store. Callers must not modify it directly;
// use the setters so field errors are cleared.
func (s *Session) Fields() *model.Release { return s.fields }

// Errors returns a copy of the current field errors.
func (s *Session) Errors() Errors {
	return maps.Clone(s.errors)
}

// Error returns the message stored for key, if any.
func (s *Session) Error(key string) string {
	return s.errors[key]
}

// SetError records an error for key. It is used for problems detected
// outside the step validator, such as an attachment that cannot be read.
func (s *Session) SetError(key, msg string) {
	s.errors[key] = msg
}

// clear drops the error stored at exactly path.
func (s *Session) clear(path string) {
	delete(s.errors, path)
}

// Artist profile

func (s *Session) SetHasDistributed(v model.Distributed) {
	s.fields.HasDistributed = v
	s.clear("hasDistributed")
}

func (s *Session) SetArtistName(v string) {
	s.fields.ArtistName = v
	s.clear("artistName")
}

func (s *Session) SetSpotifyProfile(v string) {
	s.fields.ExistingProfiles.Spotify = v
	s.clear("existingProfiles.spotify")
}

func (s *Session) SetAppleMusicProfile(v string) {
	s.fields.ExistingProfiles.AppleMusic = v
	s.clear("existingProfiles.appleMusic")
}

func (s *Session) SetYouTubeMusicProfile(v string) {
	s.fields.ExistingProfiles.YouTubeMusic = v
	s.clear("existingProfiles.youtubeMusic")
}

// Release info

// SetReleaseType changes the release type and resizes the track list.
func (s *Session) SetReleaseType(v model.ReleaseType) {
	s.fields.ReleaseType = v
	s.clear("releaseType")
	s.fields.ResyncTracks()
}

func (s *Session) SetTitle(v string) {
	s.fields.Title = v
	s.clear("title")
}

// SetNumberOfTracks changes the album size and resizes the track list.
// The value is not range checked here.
func (s *Session) SetNumberOfTracks(n int) {
	s.fields.NumberOfTracks = n
	s.clear("numberOfTracks")
	s.fields.ResyncTracks()
}

// TrackField selects a text field of a track.
type TrackField string

const (
	TrackTitle          TrackField = "title"
	TrackSongwriter     TrackField = "songwriter"
	TrackFeaturedArtist TrackField = "featuredArtist"
	TrackLyrics         TrackField = "lyrics"
	TrackClipStartTime  TrackField = "clipStartTime"
	TrackGenre          TrackField = "genre"
)

// SetTrackField updates a text field of track i. It reports false when i
// is out of range or the field is unknown.
//
// The title clears the "track{i}Title" error, since that is the key the
// validator reports it under.
func (s *Session) SetTrackField(i int, field TrackField, v string) bool {
	if i < 0 || i >= len(s.fields.Tracks) {
		s.logger.Debug("track index out of range", "session", s.id, "index", i)
		return false
	}
	t := &s.fields.Tracks[i]
	switch field {
	case TrackTitle:
		t.Title = v
		s.clear(TrackTitleKey(i))
		return true
	case TrackSongwriter:
		t.Songwriter = v
	case TrackFeaturedArtist:
		t.FeaturedArtist = v
	case TrackLyrics:
		t.Lyrics = v
	case TrackClipStartTime:
		t.ClipStartTime = v
	case TrackGenre:
		t.Genre = v
	default:
		return false
	}
	s.clear(fmt.Sprintf("tracks.%d.%s", i, field))
	return true
}

// SetTrackAudio attaches (or with nil, detaches) the audio file of track i.
func (s *Session) SetTrackAudio(i int, u *model.Upload) bool {
	if i < 0 || i >= len(s.fields.Tracks) {
		s.logger.Debug("track index out of range", "session", s.id, "index", i)
		return false
	}
	s.fields.Tracks[i].AudioFile = u
	s.clear(TrackAudioKey(i))
	return true
}

// Files

func (s *Session) SetCoverArt(u *model.Upload) {
	s.fields.CoverArt = u
	s.clear("coverArt")
}

func (s *Session) SetAudioFile(u *model.Upload) {
	s.fields.AudioFile = u
	s.clear("audioFile")
}

// Metadata

func (s *Session) SetGenre(v string) {
	s.fields.Genre = v
	s.clear("genre")
}

func (s *Session) SetSecondaryGenre(v string) {
	s.fields.SecondaryGenre = v
	s.clear("secondaryGenre")
}

func (s *Session) SetReleaseDate(v string) {
	s.fields.ReleaseDate = v
	s.clear("releaseDate")
}

func (s *Session) SetExplicit(v bool) {
	s.fields.IsExplicit = v
	s.clear("isExplicit")
}

func (s *Session) SetClipStartTime(v string) {
	s.fields.ClipStartTime = v
	s.clear("clipStartTime")
}

// Rights

func (s *Session) SetCopyrightYear(v int) {
	s.fields.Copyright.Year = v
	s.clear("copyright.year")
}

func (s *Session) SetCopyrightOwner(v string) {
	s.fields.Copyright.Owner = v
	s.clear("copyright.owner")
}

func (s *Session) SetRecordLabel(v model.YesNo) {
	s.fields.RecordLabel = v
	s.clear("recordLabel")
}

func (s *Session) SetRecordLabelName(v string) {
	s.fields.RecordLabelName = v
	s.clear("recordLabelName")
}

func (s *Session) SetSongwriterMode(v model.SongwriterMode) {
	s.fields.Songwriter = v
	s.clear("songwriter")
}

// SetSongwriters replaces the songwriter list. An empty list is replaced
// by one blank entry so the form always shows at least one input.
func (s *Session) SetSongwriters(names []string) {
	if len(names) == 0 {
		names = []string{""}
	}
	s.fields.Songwriters = append([]string(nil), names...)
	s.clear("songwriters")
}

// SetSongwriterAt updates entry i of the songwriter list.
func (s *Session) SetSongwriterAt(i int, name string) bool {
	if i < 0 || i >= len(s.fields.Songwriters) {
		return false
	}
	names := append([]string(nil), s.fields.Songwriters...)
	names[i] = name
	s.SetSongwriters(names)
	return true
}

// AddSongwriter appends a blank songwriter entry.
func (s *Session) AddSongwriter() {
	s.SetSongwriters(append(append([]string(nil), s.fields.Songwriters...), ""))
}

// RemoveSongwriter deletes entry i, keeping at least one entry.
func (s *Session) RemoveSongwriter(i int) bool {
	if i < 0 || i >= len(s.fields.Songwriters) || len(s.fields.Songwriters) == 1 {
		return false
	}
	s.SetSongwriters(slices.Delete(append([]string(nil), s.fields.Songwriters...), i, i+1))
	return true
}

func (s *Session) SetLyrics(v string) {
	s.fields.Lyrics = v
	s.clear("lyrics")
}

// Distribution

func (s *Session) SetAllPlatforms(v bool) {
	s.fields.AllPlatforms = v
	s.clear("allPlatforms")
}

// SetPlatform toggles one store. Only the "platforms.<name>" key is
// cleared; an aggregate "platforms" error stays until the next validation.
func (s *Session) SetPlatform(name model.Platform, v bool) bool {
	if !s.fields.Platforms.Set(name, v) {
		return false
	}
	s.clear(PlatformKey(name))
	return true
}

func (s *Session) SetPromotionPackage(v model.PromotionPackage) {
	s.fields.PromotionPackage = v
	s.clear("promotionPackage")
}

// SetAgreement toggles one acknowledgement.
func (s *Session) SetAgreement(name model.Agreement, v bool) bool {
	if !s.fields.Agreements.Set(name, v) {
		return false
	}
	s.clear(AgreementKey(name))
	return true
}
