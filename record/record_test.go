package record

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	r := &Record{Image: img, Angle: -0.25, Throttle: 0.5, Extra: map[string]any{"timestamp": "t0"}}

	clone := r.Clone()
	require.NotNil(t, clone.Image)
	assert.Equal(t, r.Image.Rect, clone.Image.Rect)
	assert.Equal(t, r.Angle, clone.Angle)
	assert.Equal(t, r.Throttle, clone.Throttle)
	assert.Equal(t, "t0", clone.Extra["timestamp"])

	// The pixel buffer must be independent of the original.
	clone.Image.Pix[0] = 0xFF
	assert.EqualValues(t, 0x80, r.Image.Pix[0])
}

func TestCloneNilImage(t *testing.T) {
	r := &Record{Angle: 0.1}
	clone := r.Clone()
	assert.Nil(t, clone.Image)
	assert.Equal(t, 0.1, clone.Angle)
}
