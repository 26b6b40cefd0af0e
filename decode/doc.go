// Package decode turns raw response bodies into images.
//
// Importing this package registers the JPEG, PNG and GIF decoders from the
// standard library and the WebP, BMP and TIFF decoders from golang.org/x/image
// with the image package, so Image understands all of them.
package decode
