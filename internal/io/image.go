package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/handiism/distro-wizard/internal/model"
)

// CoverArtOptions controls how cover art is prepared before upload.
type CoverArtOptions struct {
	// Resize shrinks images larger than MaxSize on either side.
	Resize  bool
	MaxSize int

	// ConvertToJPEG re-encodes non-JPEG images.
	ConvertToJPEG bool
}

// ImageService provides image processing operations for cover art.
//
// Example usage:
//
//	svc := NewImageService()
//	cover, err := svc.PrepareCoverArt(ctx, upload, CoverArtOptions{
//	    Resize: true, MaxSize: 3000, ConvertToJPEG: true,
//	})
type ImageService struct {
	quality int
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{quality: 90}
}

// PrepareCoverArt returns the cover art to send with a release.
//
// When neither option applies the original upload is returned unchanged.
// Otherwise the result is an in-memory JPEG upload named after the original
// with a .jpg extension.
func (s *ImageService) PrepareCoverArt(ctx context.Context, u *model.Upload, opts CoverArtOptions) (*model.Upload, error) {
	if u == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := u.Bytes()
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	tooLarge := opts.Resize && opts.MaxSize > 0 && (cfg.Width > opts.MaxSize || cfg.Height > opts.MaxSize)
	convert := opts.ConvertToJPEG && format != "jpeg"
	if !tooLarge && !convert {
		return u, nil
	}

	var out []byte
	if tooLarge {
		out, err = s.ResizeImage(ctx, data, opts.MaxSize, opts.MaxSize)
	} else {
		out, err = s.ConvertToJPEG(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(u.Name, filepath.Ext(u.Name)) + ".jpg"
	return model.NewMemoryUpload(name, "image/jpeg", out), nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved and the result is JPEG-encoded. The
// Catmull-Rom algorithm is used for scaling.
//
//	// A 1500x1000 image becomes 1000x666
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.encode(dst)
}

// ConvertToJPEG re-encodes an image as JPEG.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.encode(img)
}

func (s *ImageService) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
