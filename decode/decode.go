package decode

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmpty is returned for a zero-length body.
	ErrEmpty = errors.New("empty image data")

	// ErrUnknownFormat is returned when no registered decoder recognizes the data.
	ErrUnknownFormat = image.ErrFormat
)

// Image decodes data and returns the image with its format name.
func Image(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "decoding image")
	}
	return img, format, nil
}

// Config decodes only the header of data and returns the dimensions with the format name.
func Config(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", errors.Wrap(err, "decoding image config")
	}
	return cfg, format, nil
}
