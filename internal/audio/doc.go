// Package audio reads metadata from audio files to prefill a release.
//
// # ID3 Tags
//
//	tags, err := audio.ReadTags("masters/sunrise.mp3")
//	if err != nil {
//	    return err
//	}
//	tags.Prefill(session)        // release title, artist, genre, lyrics, cover
//	tags.PrefillTrack(session, 0) // album track 0
//
// Only empty fields are filled; values the artist typed are never replaced.
package audio
