// Package ioutils provides file and image utilities for release uploads.
//
// This package contains functions for:
//   - Resolving local files into uploads with a sniffed content type
//   - Filename sanitization
//   - Cover art resizing and JPEG conversion
//
// # Uploads
//
//	audio, err := ioutils.OpenUpload("masters/sunrise.wav")
//	if err == nil && !ioutils.IsAudio(audio) {
//	    // reject
//	}
//
// # Cover Art
//
//	svc := ioutils.NewImageService()
//	cover, err := svc.PrepareCoverArt(ctx, upload, ioutils.CoverArtOptions{
//	    Resize:        true,
//	    MaxSize:       3000,
//	    ConvertToJPEG: true,
//	})
package ioutils
