package unsplash

import (
	"encoding/json"
	"image"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Variant selects one of the renditions Unsplash serves for a photo.
type Variant string

const (
	VariantRaw     Variant = "raw"
	VariantFull    Variant = "full"
	VariantRegular Variant = "regular"
	VariantSmall   Variant = "small"
	VariantThumb   Variant = "thumb"
)

// ErrUnknownVariant is returned by ParseVariant for unsupported names.
var ErrUnknownVariant = errors.New("unknown photo variant")

// ParseVariant parses a variant name case-insensitively.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(s)); v {
	case VariantRaw, VariantFull, VariantRegular, VariantSmall, VariantThumb:
		return v, nil
	default:
		return "", errors.Wrapf(ErrUnknownVariant, "%q", s)
	}
}

// URLs holds the rendition URLs of a photo.
type URLs struct {
	Raw     string `json:"raw"`
	Full    string `json:"full"`
	Regular string `json:"regular"`
	Small   string `json:"small"`
	Thumb   string `json:"thumb"`
}

// Photo is a single search hit.
type Photo struct {
	ID          string  `json:"id"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Description *string `json:"description"`
	URLs        URLs    `json:"urls"`
}

// Size returns the original dimensions of the photo.
func (p Photo) Size() image.Point {
	return image.Pt(p.Width, p.Height)
}

// URL returns the URL of the requested rendition, or "" for an unknown variant.
func (p Photo) URL(v Variant) string {
	switch v {
	case VariantRaw:
		return p.URLs.Raw
	case VariantFull:
		return p.URLs.Full
	case VariantRegular:
		return p.URLs.Regular
	case VariantSmall:
		return p.URLs.Small
	case VariantThumb:
		return p.URLs.Thumb
	default:
		return ""
	}
}

// SearchResult is the response body of a photo search.
type SearchResult struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

// LoadSample decodes a saved search response, such as one captured with
// "photoloader search --raw", and returns its photos.
func LoadSample(r io.Reader) ([]Photo, error) {
	var result SearchResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "decoding sample search result")
	}
	return result.Results, nil
}
