package audio

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

// numericGenre matches ID3v1 style genre references such as "(17)".
var numericGenre = regexp.MustCompile(`^\(\d+\)\s*`)

// Tags holds the ID3 metadata used to prefill a release.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   string
	Lyrics string

	// Cover is the embedded front cover, if any.
	Cover         []byte
	CoverMIMEType string
}

// ReadTags reads ID3 metadata from an audio file.
//
// Files without an ID3 tag yield empty Tags and no error.
//
// Example:
//
//	tags, err := audio.ReadTags("masters/sunrise.mp3")
//	if err == nil {
//	    tags.Prefill(session)
//	}
func ReadTags(path string) (*Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", filepath.Base(path), err)
	}
	defer tag.Close()

	t := &Tags{
		Title:  strings.TrimSpace(tag.Title()),
		Artist: strings.TrimSpace(tag.Artist()),
		Album:  strings.TrimSpace(tag.Album()),
		Genre:  strings.TrimSpace(numericGenre.ReplaceAllString(tag.Genre(), "")),
		Year:   strings.TrimSpace(tag.Year()),
	}

	for _, f := range tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription")) {
		if uslf, ok := f.(id3v2.UnsynchronisedLyricsFrame); ok && strings.TrimSpace(uslf.Lyrics) != "" {
			t.Lyrics = uslf.Lyrics
			break
		}
	}

	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if t.Cover == nil || pic.PictureType == id3v2.PTFrontCover {
			t.Cover = pic.Picture
			t.CoverMIMEType = pic.MimeType
		}
	}

	return t, nil
}

// Prefill copies tag values into empty release fields.
//
// Only empty fields are touched, through the session's setters. For an
// album the release title comes from the album tag when present.
func (t *Tags) Prefill(s *wizard.Session) {
	r := s.Fields()

	title := t.Title
	if r.IsAlbum() && t.Album != "" {
		title = t.Album
	}
	if strings.TrimSpace(r.Title) == "" && title != "" {
		s.SetTitle(title)
	}
	if strings.TrimSpace(r.ArtistName) == "" && t.Artist != "" {
		s.SetArtistName(t.Artist)
	}
	if r.Genre == "" && t.Genre != "" {
		s.SetGenre(t.Genre)
	}
	if !r.IsAlbum() && strings.TrimSpace(r.Lyrics) == "" && t.Lyrics != "" {
		s.SetLyrics(t.Lyrics)
	}
	if r.CoverArt == nil && len(t.Cover) > 0 {
		s.SetCoverArt(model.NewMemoryUpload(coverName(t.CoverMIMEType), t.CoverMIMEType, t.Cover))
	}
}

// PrefillTrack copies tag values into empty fields of track i.
func (t *Tags) PrefillTrack(s *wizard.Session, i int) {
	tracks := s.Fields().Tracks
	if i < 0 || i >= len(tracks) {
		return
	}
	tr := tracks[i]

	if strings.TrimSpace(tr.Title) == "" && t.Title != "" {
		s.SetTrackField(i, wizard.TrackTitle, t.Title)
	}
	if tr.Genre == "" && t.Genre != "" {
		s.SetTrackField(i, wizard.TrackGenre, t.Genre)
	}
	if strings.TrimSpace(tr.Lyrics) == "" && t.Lyrics != "" {
		s.SetTrackField(i, wizard.TrackLyrics, t.Lyrics)
	}
}

func coverName(mimeType string) string {
	if mimeType == "image/png" {
		return "cover.png"
	}
	return "cover.jpg"
}
