package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/handiism/distro-wizard/internal/model"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func upload(name string) *model.Upload {
	return model.NewMemoryUpload(name, "application/octet-stream", []byte(name))
}

func TestValidate_ArtistProfile(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *model.Release)
		want  []string
	}{
		{
			name:  "unanswered",
			setup: func(r *model.Release) {},
			want:  []string{"hasDistributed"},
		},
		{
			name:  "yes without profiles",
			setup: func(r *model.Release) { r.HasDistributed = model.DistributedYes },
			want:  []string{"existingProfiles.appleMusic", "existingProfiles.spotify", "existingProfiles.youtubeMusic"},
		},
		{
			name: "yes with one profile",
			setup: func(r *model.Release) {
				r.HasDistributed = model.DistributedYes
				r.ExistingProfiles.Spotify = "https://open.spotify.com/artist/1"
			},
			want: []string{"existingProfiles.appleMusic", "existingProfiles.youtubeMusic"},
		},
		{
			name: "no with blank name",
			setup: func(r *model.Release) {
				r.HasDistributed = model.DistributedNo
				r.ArtistName = "   "
			},
			want: []string{"artistName"},
		},
		{
			name: "no with name",
			setup: func(r *model.Release) {
				r.HasDistributed = model.DistributedNo
				r.ArtistName = "Nova"
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := model.NewRelease(testNow)
			tt.setup(r)
			assert.Equal(t, tt.want, Validate(StepArtistProfile, r).Keys())
		})
	}
}

func TestValidate_ReleaseInfoAlbumTracks(t *testing.T) {
	r := model.NewRelease(testNow)
	r.ReleaseType = model.ReleaseAlbum
	r.NumberOfTracks = 3
	r.ResyncTracks()
	r.Tracks[1].Title = "Second"

	errs := Validate(StepReleaseInfo, r)

	assert.Equal(t, []string{"title", "track0Title", "track2Title"}, errs.Keys())
	assert.Equal(t, MsgTrackTitle, errs["track0Title"])
}

func TestValidate_ReleaseInfoSingleIgnoresTracks(t *testing.T) {
	r := model.NewRelease(testNow)
	r.Title = " Sunrise "

	assert.True(t, Validate(StepReleaseInfo, r).Empty())
}

func TestValidate_FilesSingleMissingAudio(t *testing.T) {
	r := model.NewRelease(testNow)
	r.CoverArt = upload("cover.jpg")

	errs := Validate(StepFiles, r)

	assert.Equal(t, []string{"audioFile"}, errs.Keys())
}

func TestValidate_FilesAlbum(t *testing.T) {
	r := model.NewRelease(testNow)
	r.ReleaseType = model.ReleaseAlbum
	r.NumberOfTracks = 2
	r.ResyncTracks()
	r.Tracks[0].AudioFile = upload("one.mp3")

	errs := Validate(StepFiles, r)

	assert.Equal(t, []string{"coverArt", "track1Audio"}, errs.Keys())
}

func TestValidate_Metadata(t *testing.T) {
	r := model.NewRelease(testNow)
	r.Songwriters = []string{"Nova", " "}

	errs := Validate(StepMetadata, r)
	assert.Equal(t, []string{"copyright.owner", "genre", "lyrics", "releaseDate", "songwriters"}, errs.Keys())

	r.Genre = "Afrobeats"
	r.ReleaseDate = "2025-07-01"
	r.Copyright.Owner = "Nova"
	r.Songwriter = model.SongwriterOther
	r.ReleaseType = model.ReleaseAlbum

	assert.True(t, Validate(StepMetadata, r).Empty())
}

func TestValidate_DistributionPlatforms(t *testing.T) {
	r := model.NewRelease(testNow)
	r.AllPlatforms = false
	r.Platforms = model.Platforms{}
	for _, name := range model.KnownAgreements {
		r.Agreements.Set(name, true)
	}

	errs := Validate(StepDistribution, r)

	assert.Len(t, errs, 1)
	assert.Equal(t, MsgPlatforms, errs["platforms"])
}

func TestValidate_DistributionAgreements(t *testing.T) {
	r := model.NewRelease(testNow)

	errs := Validate(StepDistribution, r)

	assert.Len(t, errs, len(model.KnownAgreements))
	for _, name := range model.KnownAgreements {
		assert.True(t, errs.Has("agreements."+string(name)), "missing key for %s", name)
	}
}

func TestValidate_Deterministic(t *testing.T) {
	r := model.NewRelease(testNow)
	r.ReleaseType = model.ReleaseAlbum
	r.NumberOfTracks = 4
	r.ResyncTracks()

	for step := FirstStep; step <= LastStep; step++ {
		assert.Equal(t, Validate(step, r), Validate(step, r), "step %d", step)
	}
}
