package media

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

const (
	MaxUploadBytes = 8 << 20
	MaxEdge        = 1600
	Quality        = 80
)

// NormalizeImage decodes a jpeg/png/webp upload, shrinks it to MaxEdge on the longest side
// and re-encodes it as lossy WebP.
func NormalizeImage(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, httperr.ErrValidation("empty_file", "Uploaded file is empty.")
	}
	if len(data) > MaxUploadBytes {
		return nil, httperr.ErrValidation("file_too_large", "Uploaded file exceeds 8MB.")
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, httperr.ErrValidation("invalid_image", "Upload a JPEG, PNG or WebP image.")
	}

	img := resize(src, MaxEdge)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resize(src image.Image, maxEdge int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return src
	}

	if w >= h {
		h = h * maxEdge / w
		w = maxEdge
	} else {
		w = w * maxEdge / h
		h = maxEdge
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
