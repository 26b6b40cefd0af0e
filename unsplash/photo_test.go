package unsplash_test

import (
	"errors"
	"image"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/karupanerura/async-image/unsplash"
)

func ptr[T any](v T) *T {
	return &v
}

func loadBeach(t *testing.T) []unsplash.Photo {
	t.Helper()

	f, err := os.Open("testdata/beach.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	photos, err := unsplash.LoadSample(f)
	if err != nil {
		t.Fatal(err)
	}
	return photos
}

func TestLoadSample(t *testing.T) {
	t.Parallel()

	photos := loadBeach(t)
	want := []unsplash.Photo{
		{
			ID:          "eOLpJytrbsQ",
			Width:       4000,
			Height:      3000,
			Description: ptr("Waves on a quiet beach"),
			URLs: unsplash.URLs{
				Raw:     "https://images.unsplash.com/photo-1?ixid=raw",
				Full:    "https://images.unsplash.com/photo-1?ixid=full",
				Regular: "https://images.unsplash.com/photo-1?w=1080",
				Small:   "https://images.unsplash.com/photo-1?w=400",
				Thumb:   "https://images.unsplash.com/photo-1?w=200",
			},
		},
		{
			ID:     "Bq9hMrN9Gr4",
			Width:  3264,
			Height: 4896,
			URLs: unsplash.URLs{
				Raw:     "https://images.unsplash.com/photo-2?ixid=raw",
				Full:    "https://images.unsplash.com/photo-2?ixid=full",
				Regular: "https://images.unsplash.com/photo-2?w=1080",
				Small:   "https://images.unsplash.com/photo-2?w=400",
				Thumb:   "https://images.unsplash.com/photo-2?w=200",
			},
		},
	}
	if diff := cmp.Diff(want, photos); diff != "" {
		t.Errorf("unexpected photos (-want +got):\n%s", diff)
	}
}

func TestLoadSample_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := unsplash.LoadSample(strings.NewReader("{")); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestPhoto_Size(t *testing.T) {
	t.Parallel()

	photos := loadBeach(t)
	if got := photos[1].Size(); got != image.Pt(3264, 4896) {
		t.Errorf("unexpected size: %v", got)
	}
}

func TestPhoto_URL(t *testing.T) {
	t.Parallel()

	photo := loadBeach(t)[0]
	tests := []struct {
		variant unsplash.Variant
		want    string
	}{
		{unsplash.VariantRaw, "https://images.unsplash.com/photo-1?ixid=raw"},
		{unsplash.VariantFull, "https://images.unsplash.com/photo-1?ixid=full"},
		{unsplash.VariantRegular, "https://images.unsplash.com/photo-1?w=1080"},
		{unsplash.VariantSmall, "https://images.unsplash.com/photo-1?w=400"},
		{unsplash.VariantThumb, "https://images.unsplash.com/photo-1?w=200"},
		{unsplash.Variant("huge"), ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.variant), func(t *testing.T) {
			t.Parallel()

			if got := photo.URL(tt.variant); got != tt.want {
				t.Errorf("unexpected URL: %s (expected: %s)", got, tt.want)
			}
		})
	}
}

func TestParseVariant(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"raw", "full", "Regular", "SMALL", "thumb"} {
		v, err := unsplash.ParseVariant(s)
		if err != nil {
			t.Errorf("ParseVariant(%q): %v", s, err)
		}
		if string(v) != strings.ToLower(s) {
			t.Errorf("ParseVariant(%q) = %q", s, v)
		}
	}

	if _, err := unsplash.ParseVariant("huge"); !errors.Is(err, unsplash.ErrUnknownVariant) {
		t.Errorf("unexpected error: %v (expected: %v)", err, unsplash.ErrUnknownVariant)
	}
}
