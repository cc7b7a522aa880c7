// Package imaging normalizes item photos. Uploads are validated, bounded and
// stored as JPEG; a smaller rendition is cut for generation requests.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Stored photos are bounded to MaxDimension on the longer side. Photos
// attached to generation requests are cut down further; model inputs need far
// less resolution than the catalog keeps.
const (
	MaxDimension      = 1024
	ModelMaxDimension = 768

	JPEGQuality      = 85
	ModelJPEGQuality = 80
)

// AllowedMIME lists the accepted upload MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ProcessResult contains the normalized photo.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Process validates an uploaded photo by sniffing its bytes and normalizes it
// for storage: bounded to MaxDimension and re-encoded as JPEG.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo: %w", err)
	}

	// Sniff the MIME type from the bytes, not the client headers.
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported photo format: %s (only JPEG and PNG accepted)", detected)
	}

	out, err := reencode(data, MaxDimension, JPEGQuality)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{Data: out, MIME: "image/jpeg"}, nil
}

// PrepareForModel cuts a stored photo down to generation-request size.
// Stored photos are always JPEG already, so no format check is needed.
func PrepareForModel(data []byte) ([]byte, error) {
	return reencode(data, ModelMaxDimension, ModelJPEGQuality)
}

// reencode decodes a photo, scales it so neither side exceeds maxDim, and
// re-encodes it as JPEG at the given quality. Photos already within bounds
// are re-encoded without scaling.
func reencode(data []byte, maxDim, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	if b := img.Bounds(); b.Dx() > maxDim || b.Dy() > maxDim {
		img = downscale(img, maxDim)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes img so the longer side equals maxDim, preserving aspect
// ratio with Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	newW, newH := maxDim, int(float64(h)*float64(maxDim)/float64(w))
	if h > w {
		newW, newH = int(float64(w)*float64(maxDim)/float64(h)), maxDim
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func init() {
	// jpeg registers itself on import; png does too, but be explicit about
	// the two formats this package accepts.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
