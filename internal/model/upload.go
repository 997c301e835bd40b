package model

import (
	"bytes"
	"io"
	"os"
)

// Upload references a file the artist attached to the release.
//
// An Upload is either backed by a path on disk or by bytes held in memory
// (for example cover art that was resized before sending). It is treated as
// immutable once created.
type Upload struct {
	// Name is the file name sent to the server.
	Name string

	// Path is the local source path. Empty for in-memory uploads.
	Path string

	// ContentType is the sniffed MIME type.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	data []byte
}

// NewMemoryUpload creates an Upload backed by data.
func NewMemoryUpload(name, contentType string, data []byte) *Upload {
	return &Upload{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}
}

// Open returns a reader over the upload's content.
func (u *Upload) Open() (io.ReadCloser, error) {
	if u.data != nil {
		return io.NopCloser(bytes.NewReader(u.data)), nil
	}
	return os.Open(u.Path)
}

// Bytes returns the in-memory content, reading the file if needed.
func (u *Upload) Bytes() ([]byte, error) {
	if u.data != nil {
		return u.data, nil
	}
	return os.ReadFile(u.Path)
}
