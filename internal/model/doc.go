// Package model defines the release form state shared by the wizard,
// the payload assembler and the UIs.
//
// # Release
//
// Release is the field store of the distribution wizard. It is created with
// defaults and then mutated through the typed setters of wizard.Session:
//
//	r := model.NewRelease(time.Now())
//	r.ReleaseType  // "single"
//	r.Platforms    // every store checked
//	r.Songwriters  // one empty entry
//
// # Tracks
//
// For albums, Tracks always has NumberOfTracks entries. ResyncTracks keeps
// existing entries by index and pads or truncates the rest:
//
//	r.NumberOfTracks = 3
//	r.ResyncTracks() // len(r.Tracks) == 3
//
// # Uploads
//
// Upload is a reference to a cover image or audio file, either on disk or in
// memory. A nil *Upload means "not attached".
package model
