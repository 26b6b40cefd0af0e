package cli

import (
	"io"
	"text/tabwriter"

	asyncimage "github.com/karupanerura/async-image"
)

func newTabwriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
}

func dimensions(img *asyncimage.Image) (int, int) {
	if img == nil || img.Decoded == nil {
		return 0, 0
	}
	b := img.Decoded.Bounds()
	return b.Dx(), b.Dy()
}
