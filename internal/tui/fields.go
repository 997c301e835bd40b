package tui

import (
	"fmt"
	"strconv"

	"github.com/handiism/distro-wizard/internal/model"
	"github.com/handiism/distro-wizard/internal/wizard"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindPath
	kindToggle
	kindChoice
)

type mediaKind int

const (
	mediaNone mediaKind = iota
	mediaImage
	mediaAudio
)

// field is one focusable control on a wizard page.
type field struct {
	// key identifies the field; errKey is the error shown under it.
	key    string
	errKey string

	label       string
	placeholder string
	kind        fieldKind

	// Text and choice fields.
	text    func(r *model.Release) string
	setText func(s *wizard.Session, v string)
	options []string

	// Toggle fields.
	on    func(r *model.Release) bool
	setOn func(s *wizard.Session, v bool)

	// Path fields.
	upload func(r *model.Release) *model.Upload
	attach func(s *wizard.Session, u *model.Upload)
	media  mediaKind
	track  int

	// songwriter is the index into Songwriters, or -1.
	songwriter int
}

func textField(key, label string, get func(*model.Release) string, set func(*wizard.Session, string)) field {
	return field{key: key, errKey: key, label: label, kind: kindText, text: get, setText: set, track: -1, songwriter: -1}
}

func toggleField(key, label string, get func(*model.Release) bool, set func(*wizard.Session, bool)) field {
	return field{key: key, errKey: key, label: label, kind: kindToggle, on: get, setOn: set, track: -1, songwriter: -1}
}

func choiceField(key, label string, options []string, get func(*model.Release) string, set func(*wizard.Session, string)) field {
	return field{key: key, errKey: key, label: label, kind: kindChoice, options: options, text: get, setText: set, track: -1, songwriter: -1}
}

func pathField(key, label string, media mediaKind, get func(*model.Release) *model.Upload, set func(*wizard.Session, *model.Upload)) field {
	return field{key: key, errKey: key, label: label, kind: kindPath, media: media, upload: get, attach: set, track: -1, songwriter: -1}
}

var agreementLabels = map[model.Agreement]string{
	model.AgreementTerms:        "I accept the terms of service",
	model.AgreementYouTube:      "I understand YouTube Content ID rules",
	model.AgreementPromo:        "I understand promotion is not a guarantee of streams",
	model.AgreementRights:       "I own all rights to this release",
	model.AgreementName:         "My artist name does not impersonate anyone",
	model.AgreementDistribution: "I authorise distribution to the selected stores",
}

var platformLabels = map[model.Platform]string{
	model.PlatformSpotify:      "Spotify",
	model.PlatformAppleMusic:   "Apple Music",
	model.PlatformYouTubeMusic: "YouTube Music",
	model.PlatformAmazonMusic:  "Amazon Music",
	model.PlatformDeezer:       "Deezer",
	model.PlatformTidal:        "Tidal",
}

// fieldsFor lists the controls of a page. The list depends on earlier
// answers, so it is rebuilt after every change.
func fieldsFor(step wizard.Step, r *model.Release) []field {
	switch step {
	case wizard.StepArtistProfile:
		return artistFields(r)
	case wizard.StepReleaseInfo:
		return releaseFields(r)
	case wizard.StepFiles:
		return fileFields(r)
	case wizard.StepMetadata:
		return metadataFields(r)
	case wizard.StepDistribution:
		return distributionFields(r)
	}
	return nil
}

func artistFields(r *model.Release) []field {
	fs := []field{
		choiceField("hasDistributed", "Have you released music on streaming platforms before?",
			[]string{string(model.DistributedYes), string(model.DistributedNo)},
			func(r *model.Release) string { return string(r.HasDistributed) },
			func(s *wizard.Session, v string) { s.SetHasDistributed(model.Distributed(v)) }),
	}

	switch r.HasDistributed {
	case model.DistributedYes:
		fs = append(fs,
			textField("existingProfiles.spotify", "Spotify profile URL",
				func(r *model.Release) string { return r.ExistingProfiles.Spotify },
				(*wizard.Session).SetSpotifyProfile),
			textField("existingProfiles.appleMusic", "Apple Music profile URL",
				func(r *model.Release) string { return r.ExistingProfiles.AppleMusic },
				(*wizard.Session).SetAppleMusicProfile),
			textField("existingProfiles.youtubeMusic", "YouTube Music profile URL",
				func(r *model.Release) string { return r.ExistingProfiles.YouTubeMusic },
				(*wizard.Session).SetYouTubeMusicProfile),
		)
	case model.DistributedNo:
		fs = append(fs, textField("artistName", "Artist name",
			func(r *model.Release) string { return r.ArtistName },
			(*wizard.Session).SetArtistName))
	}
	return fs
}

func releaseFields(r *model.Release) []field {
	fs := []field{
		choiceField("releaseType", "Release type",
			[]string{string(model.ReleaseSingle), string(model.ReleaseAlbum)},
			func(r *model.Release) string { return string(r.ReleaseType) },
			func(s *wizard.Session, v string) { s.SetReleaseType(model.ReleaseType(v)) }),
		textField("title", "Release title",
			func(r *model.Release) string { return r.Title },
			(*wizard.Session).SetTitle),
	}
	if !r.IsAlbum() {
		return fs
	}

	fs = append(fs, textField("numberOfTracks", "Number of tracks",
		func(r *model.Release) string { return strconv.Itoa(r.NumberOfTracks) },
		func(s *wizard.Session, v string) {
			if n, err := strconv.Atoi(v); err == nil {
				s.SetNumberOfTracks(n)
			}
		}))

	for i := range r.Tracks {
		title := textField(wizard.TrackTitleKey(i), fmt.Sprintf("Track %d title", i+1),
			func(r *model.Release) string { return r.Tracks[i].Title },
			func(s *wizard.Session, v string) { s.SetTrackField(i, wizard.TrackTitle, v) })
		title.track = i
		featured := textField(fmt.Sprintf("tracks.%d.featuredArtist", i), fmt.Sprintf("Track %d featured artist", i+1),
			func(r *model.Release) string { return r.Tracks[i].FeaturedArtist },
			func(s *wizard.Session, v string) { s.SetTrackField(i, wizard.TrackFeaturedArtist, v) })
		featured.track = i
		fs = append(fs, title, featured)
	}
	return fs
}

func fileFields(r *model.Release) []field {
	fs := []field{
		pathField("coverArt", "Cover art (path to JPG or PNG)", mediaImage,
			func(r *model.Release) *model.Upload { return r.CoverArt },
			(*wizard.Session).SetCoverArt),
	}
	if !r.IsAlbum() {
		return append(fs, pathField("audioFile", "Audio file (path)", mediaAudio,
			func(r *model.Release) *model.Upload { return r.AudioFile },
			(*wizard.Session).SetAudioFile))
	}

	for i := range r.Tracks {
		f := pathField(wizard.TrackAudioKey(i), fmt.Sprintf("Track %d audio (path)", i+1), mediaAudio,
			func(r *model.Release) *model.Upload { return r.Tracks[i].AudioFile },
			func(s *wizard.Session, u *model.Upload) { s.SetTrackAudio(i, u) })
		f.track = i
		fs = append(fs, f)
	}
	return fs
}

func metadataFields(r *model.Release) []field {
	date := textField("releaseDate", "Release date",
		func(r *model.Release) string { return r.ReleaseDate },
		(*wizard.Session).SetReleaseDate)
	date.placeholder = "YYYY-MM-DD"

	clip := textField("clipStartTime", "TikTok clip start time",
		func(r *model.Release) string { return r.ClipStartTime },
		(*wizard.Session).SetClipStartTime)
	clip.placeholder = "0:30"

	fs := []field{
		textField("genre", "Primary genre",
			func(r *model.Release) string { return r.Genre },
			(*wizard.Session).SetGenre),
		textField("secondaryGenre", "Secondary genre",
			func(r *model.Release) string { return r.SecondaryGenre },
			(*wizard.Session).SetSecondaryGenre),
		date,
		toggleField("isExplicit", "Explicit content",
			func(r *model.Release) bool { return r.IsExplicit },
			(*wizard.Session).SetExplicit),
		clip,
		textField("copyright.year", "Copyright year",
			func(r *model.Release) string { return strconv.Itoa(r.Copyright.Year) },
			func(s *wizard.Session, v string) {
				if y, err := strconv.Atoi(v); err == nil {
					s.SetCopyrightYear(y)
				}
			}),
		textField("copyright.owner", "Copyright owner",
			func(r *model.Release) string { return r.Copyright.Owner },
			(*wizard.Session).SetCopyrightOwner),
		choiceField("recordLabel", "Released under a record label?",
			[]string{string(model.Yes), string(model.No)},
			func(r *model.Release) string { return string(r.RecordLabel) },
			func(s *wizard.Session, v string) { s.SetRecordLabel(model.YesNo(v)) }),
	}

	if r.RecordLabel == model.Yes {
		fs = append(fs, textField("recordLabelName", "Record label name",
			func(r *model.Release) string { return r.RecordLabelName },
			(*wizard.Session).SetRecordLabelName))
	}

	fs = append(fs, choiceField("songwriter", "Who wrote the songs?",
		[]string{string(model.SongwriterSelf), string(model.SongwriterOther)},
		func(r *model.Release) string { return string(r.Songwriter) },
		func(s *wizard.Session, v string) { s.SetSongwriterMode(model.SongwriterMode(v)) }))

	if r.Songwriter == model.SongwriterSelf {
		for i := range r.Songwriters {
			f := textField(fmt.Sprintf("songwriters.%d", i), fmt.Sprintf("Songwriter %d (legal name)", i+1),
				func(r *model.Release) string { return r.Songwriters[i] },
				func(s *wizard.Session, v string) { s.SetSongwriterAt(i, v) })
			f.songwriter = i
			f.errKey = ""
			if i == len(r.Songwriters)-1 {
				f.errKey = "songwriters"
			}
			fs = append(fs, f)
		}
	}

	if !r.IsAlbum() {
		fs = append(fs, textField("lyrics", "Lyrics",
			func(r *model.Release) string { return r.Lyrics },
			(*wizard.Session).SetLyrics))
	}
	return fs
}

func distributionFields(r *model.Release) []field {
	all := toggleField("allPlatforms", "Distribute to all platforms",
		func(r *model.Release) bool { return r.AllPlatforms },
		(*wizard.Session).SetAllPlatforms)
	all.errKey = "platforms"
	fs := []field{all}

	if !r.AllPlatforms {
		for _, p := range model.KnownPlatforms {
			fs = append(fs, toggleField(wizard.PlatformKey(p), platformLabels[p],
				func(r *model.Release) bool { return r.Platforms.Get(p) },
				func(s *wizard.Session, v bool) { s.SetPlatform(p, v) }))
		}
	}

	promos := make([]string, len(model.PromotionPackages))
	for i, p := range model.PromotionPackages {
		promos[i] = string(p)
	}
	fs = append(fs, choiceField("promotionPackage", "Promotion package", promos,
		func(r *model.Release) string { return string(r.PromotionPackage) },
		func(s *wizard.Session, v string) { s.SetPromotionPackage(model.PromotionPackage(v)) }))

	for _, a := range model.KnownAgreements {
		fs = append(fs, toggleField(wizard.AgreementKey(a), agreementLabels[a],
			func(r *model.Release) bool { return r.Agreements.Get(a) },
			func(s *wizard.Session, v bool) { s.SetAgreement(a, v) }))
	}
	return fs
}

// cycle returns the option after (or before) current.
func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		if delta < 0 {
			return options[len(options)-1]
		}
		return options[0]
	}
	n := len(options)
	return options[((idx+delta)%n+n)%n]
}
