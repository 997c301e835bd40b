package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/distro-wizard/internal/model"
)

func TestSession_SetterClearsExactPath(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetError("copyright.owner", "x")
	s.SetError("copyright", "parent")
	s.SetError("copyright.owner.extra", "child")

	s.SetCopyrightOwner("Nova")

	assert.False(t, s.Errors().Has("copyright.owner"))
	assert.True(t, s.Errors().Has("copyright"))
	assert.True(t, s.Errors().Has("copyright.owner.extra"))
	assert.Equal(t, "Nova", s.Fields().Copyright.Owner)
}

func TestSession_PlatformDoesNotClearAggregate(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetError("platforms", MsgPlatforms)

	require.True(t, s.SetPlatform(model.PlatformDeezer, false))

	assert.True(t, s.Errors().Has("platforms"))
	assert.False(t, s.Fields().Platforms.Deezer)
	assert.False(t, s.SetPlatform("unknown", true))
}

func TestSession_NumberOfTracksResyncs(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetReleaseType(model.ReleaseAlbum)
	s.SetNumberOfTracks(3)
	require.True(t, s.SetTrackField(2, TrackTitle, "Third"))

	s.SetNumberOfTracks(3)
	assert.Len(t, s.Fields().Tracks, 3)
	assert.Equal(t, "Third", s.Fields().Tracks[2].Title)

	s.SetNumberOfTracks(2)
	assert.Len(t, s.Fields().Tracks, 2)
	assert.False(t, s.SetTrackField(2, TrackTitle, "gone"))
}

func TestSession_TrackSettersClearTrackKeys(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetReleaseType(model.ReleaseAlbum)
	s.SetNumberOfTracks(2)
	s.SetError(TrackTitleKey(1), MsgTrackTitle)
	s.SetError(TrackAudioKey(1), MsgTrackAudio)

	s.SetTrackField(1, TrackTitle, "B")
	s.SetTrackAudio(1, upload("b.mp3"))

	assert.True(t, s.Errors().Empty())
}

func TestSession_Songwriters(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetError("songwriters", MsgSongwriters)

	s.AddSongwriter()
	assert.Equal(t, []string{"", ""}, s.Fields().Songwriters)
	assert.False(t, s.Errors().Has("songwriters"))

	require.True(t, s.SetSongwriterAt(1, "Kay"))
	require.True(t, s.RemoveSongwriter(0))
	assert.Equal(t, []string{"Kay"}, s.Fields().Songwriters)
	assert.False(t, s.RemoveSongwriter(0), "last entry must stay")

	s.SetSongwriters(nil)
	assert.Equal(t, []string{""}, s.Fields().Songwriters)
}

func TestSession_ErrorsReturnsCopy(t *testing.T) {
	s := NewSession(testNow, nil)
	errs := s.Errors()
	errs["title"] = "mutated"

	assert.False(t, s.Errors().Has("title"))
}

func TestSession_ResetRestoresDefaults(t *testing.T) {
	s := NewSession(testNow, nil)
	id := s.ID()
	s.SetHasDistributed(model.DistributedNo)
	s.SetArtistName("Nova")
	require.True(t, s.GoNext())

	s.Reset(testNow)

	assert.NotEqual(t, id, s.ID())
	assert.Equal(t, StepArtistProfile, s.Step())
	assert.Equal(t, "", s.Fields().ArtistName)
	assert.True(t, s.Errors().Empty())
}
