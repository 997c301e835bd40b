package model

// Track is one entry of an album release.
//
// Single releases ignore Tracks entirely and use the release-level
// AudioFile and Lyrics instead.
type Track struct {
	Title          string
	Songwriter     string
	FeaturedArtist string
	Lyrics         string
	ClipStartTime  string
	Genre          string

	// AudioFile is nil until the artist attaches a file.
	AudioFile *Upload
}

// HasAudio reports whether the track has an audio file attached.
func (t Track) HasAudio() bool {
	return t.AudioFile != nil
}
