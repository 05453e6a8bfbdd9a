package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/catering-booking/internal/httperr"
)

func pngOf(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestNormalizeImageShrinks(t *testing.T) {
	out, err := NormalizeImage(pngOf(3200, 800))
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxEdge, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeImage([]byte("not an image"))
	assert.True(t, httperr.IsBusiness(err, "invalid_image"))

	_, err = NormalizeImage(nil)
	assert.True(t, httperr.IsBusiness(err, "empty_file"))
}
