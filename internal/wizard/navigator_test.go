package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/distro-wizard/internal/model"
)

// fillValid walks a session to the last step with valid data.
func fillValid(t *testing.T, s *Session) {
	t.Helper()

	s.SetHasDistributed(model.DistributedNo)
	s.SetArtistName("Nova")
	require.True(t, s.GoNext(), "step 1: %v", s.Errors())

	s.SetTitle("Sunrise")
	require.True(t, s.GoNext(), "step 2: %v", s.Errors())

	s.SetCoverArt(upload("cover.jpg"))
	s.SetAudioFile(upload("sunrise.mp3"))
	require.True(t, s.GoNext(), "step 3: %v", s.Errors())

	s.SetGenre("Afrobeats")
	s.SetReleaseDate("2025-07-01")
	s.SetCopyrightOwner("Nova")
	s.SetSongwriterAt(0, "Nova")
	s.SetLyrics("la la la")
	require.True(t, s.GoNext(), "step 4: %v", s.Errors())

	require.Equal(t, StepDistribution, s.Step())
}

func TestNavigator_GoNextBlockedByErrors(t *testing.T) {
	s := NewSession(testNow, nil)

	assert.False(t, s.GoNext())
	assert.Equal(t, StepArtistProfile, s.Step())
	assert.True(t, s.Errors().Has("hasDistributed"))
}

func TestNavigator_WalkToEnd(t *testing.T) {
	s := NewSession(testNow, nil)
	fillValid(t, s)

	for _, name := range model.KnownAgreements {
		s.SetAgreement(name, true)
	}
	assert.False(t, s.GoNext(), "no step after the last")
	assert.Equal(t, StepDistribution, s.Step())
	assert.True(t, s.Errors().Empty())
}

func TestNavigator_GoPrevIgnoresErrors(t *testing.T) {
	s := NewSession(testNow, nil)
	fillValid(t, s)

	assert.False(t, s.GoNext())
	errs := s.Errors()
	require.False(t, errs.Empty())

	for want := StepMetadata; want >= FirstStep; want-- {
		require.True(t, s.GoPrev())
		assert.Equal(t, want, s.Step())
		assert.Equal(t, errs, s.Errors(), "GoPrev must not touch errors")
	}
	assert.False(t, s.GoPrev())
	assert.Equal(t, FirstStep, s.Step())
}

func TestNavigator_ValidationReplacesErrors(t *testing.T) {
	s := NewSession(testNow, nil)
	s.SetError("stale", "old")

	s.SetHasDistributed(model.DistributedYes)
	s.GoNext()

	errs := s.Errors()
	assert.False(t, errs.Has("stale"))
	assert.Len(t, errs, 3)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "Files", StepFiles.String())
	assert.Equal(t, "Unknown", Step(9).String())
}
