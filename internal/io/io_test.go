package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/distro-wizard/internal/model"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Song: Part 1/2", "Song_ Part 1_2"},
		{"Track...", "Track"},
		{"Name   with  spaces", "Name with spaces"},
		{"  padded.mp3  ", "padded.mp3"},
		{"plain.wav", "plain.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.in))
		})
	}
}

func TestOpenUpload(t *testing.T) {
	dir := t.TempDir()

	t.Run("png sniffed", func(t *testing.T) {
		path := filepath.Join(dir, "cover art?.png")
		require.NoError(t, os.WriteFile(path, pngBytes(t, 4, 4), 0644))

		u, err := OpenUpload(path)
		require.NoError(t, err)
		assert.Equal(t, "cover art_.png", u.Name)
		assert.Equal(t, "image/png", u.ContentType)
		assert.Equal(t, path, u.Path)
		assert.True(t, IsImage(u))
		assert.False(t, IsAudio(u))

		info, _ := os.Stat(path)
		assert.Equal(t, info.Size(), u.Size)
	})

	t.Run("mp3 by ID3 header", func(t *testing.T) {
		path := filepath.Join(dir, "song.mp3")
		require.NoError(t, os.WriteFile(path, append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...), 0644))

		u, err := OpenUpload(path)
		require.NoError(t, err)
		assert.Equal(t, "audio/mpeg", u.ContentType)
		assert.True(t, IsAudio(u))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := OpenUpload(filepath.Join(dir, "nope.wav"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := OpenUpload(dir)
		assert.ErrorIs(t, err, ErrNotAFile)
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareCoverArt(t *testing.T) {
	svc := NewImageService()
	ctx := context.Background()

	t.Run("resize and convert", func(t *testing.T) {
		in := model.NewMemoryUpload("cover.png", "image/png", pngBytes(t, 40, 20))

		out, err := svc.PrepareCoverArt(ctx, in, CoverArtOptions{Resize: true, MaxSize: 10, ConvertToJPEG: true})
		require.NoError(t, err)
		assert.Equal(t, "cover.jpg", out.Name)
		assert.Equal(t, "image/jpeg", out.ContentType)

		data, err := out.Bytes()
		require.NoError(t, err)
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Width)
		assert.Equal(t, 5, cfg.Height)
	})

	t.Run("convert only", func(t *testing.T) {
		in := model.NewMemoryUpload("cover.png", "image/png", pngBytes(t, 8, 8))

		out, err := svc.PrepareCoverArt(ctx, in, CoverArtOptions{ConvertToJPEG: true})
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", out.ContentType)
	})

	t.Run("nothing to do", func(t *testing.T) {
		in := model.NewMemoryUpload("cover.png", "image/png", pngBytes(t, 8, 8))

		out, err := svc.PrepareCoverArt(ctx, in, CoverArtOptions{Resize: true, MaxSize: 100})
		require.NoError(t, err)
		assert.Same(t, in, out)
	})

	t.Run("not an image", func(t *testing.T) {
		in := model.NewMemoryUpload("cover.png", "image/png", []byte("nope"))

		_, err := svc.PrepareCoverArt(ctx, in, CoverArtOptions{ConvertToJPEG: true})
		assert.Error(t, err)
	})

	t.Run("nil", func(t *testing.T) {
		out, err := svc.PrepareCoverArt(ctx, nil, CoverArtOptions{ConvertToJPEG: true})
		require.NoError(t, err)
		assert.Nil(t, out)
	})
}
