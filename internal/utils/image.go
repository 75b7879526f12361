package utils

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// ResizeImage scales an image down to fit within maxWidth x maxHeight,
// preserving aspect ratio. Images already within bounds are returned as-is.
func ResizeImage(r io.Reader, filename string, maxWidth, maxHeight uint) (image.Image, error) {
	img, err := decodeImage(r, filename)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if uint(bounds.Dx()) <= maxWidth && uint(bounds.Dy()) <= maxHeight {
		return img, nil
	}

	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3), nil
}

// GenerateThumbnail produces the listing-card thumbnail for a promotion image.
func GenerateThumbnail(r io.Reader, filename string) (image.Image, error) {
	return ResizeImage(r, filename, ThumbnailMaxWidth, ThumbnailMaxHeight)
}

func decodeImage(r io.Reader, filename string) (image.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".png":
		return png.Decode(r)
	case ".gif":
		return gif.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

func EncodeImage(img image.Image, format string, w io.Writer, quality int) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case "png":
		return png.Encode(w, img)
	case "gif":
		return gif.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported image format: %s", format)
	}
}

func IsValidImageFormat(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range AllowedImageTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
