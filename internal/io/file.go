package ioutils

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/handiism/distro-wizard/internal/model"
)

// ErrNotAFile is returned when an upload path points at a directory.
var ErrNotAFile = errors.New("not a regular file")

var (
	invalidChars    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots    = regexp.MustCompile(`\.+$`)
	repeatedSpacing = regexp.MustCompile(`\s+`)
)

// OpenUpload resolves a local file into an Upload.
//
// The file is stat'ed but not read into memory; the content type is sniffed
// from the first 512 bytes and falls back to the extension when sniffing
// only yields application/octet-stream. The upload name is the sanitized
// base name of path.
//
// Example:
//
//	u, err := OpenUpload("masters/Sunrise: Final.wav")
//	// u.Name == "Sunrise_ Final.wav", u.ContentType == "audio/wave"
func OpenUpload(path string) (*model.Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	contentType, err := sniff(path)
	if err != nil {
		return nil, err
	}

	return &model.Upload{
		Name:        SanitizeFileName(filepath.Base(path)),
		Path:        path,
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

func sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}

	ct := http.DetectContentType(head[:n])
	if ct == "application/octet-stream" || strings.HasPrefix(ct, "text/plain") {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
			return byExt, nil
		}
	}
	return ct, nil
}

// IsAudio reports whether the upload looks like an audio file.
func IsAudio(u *model.Upload) bool {
	return u != nil && strings.HasPrefix(u.ContentType, "audio/")
}

// IsImage reports whether the upload looks like an image.
func IsImage(u *model.Upload) bool {
	return u != nil && strings.HasPrefix(u.ContentType, "image/")
}

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed
//   - Multiple whitespace → single space
//   - Surrounding whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")      // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")            // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpacing.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
