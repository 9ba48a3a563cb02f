// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

package imagemeta_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiori-press/shiori/pkg/imagemeta"
)

// pngPayload renders a solid-color PNG of the given dimensions.
func pngPayload(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

/*
TestFromBytes computes metadata for a decodable payload.
*/
func TestFromBytes(t *testing.T) {
	payload := pngPayload(t, 40, 60)

	meta, err := imagemeta.FromBytes(payload)
	require.NoError(t, err)

	assert.Equal(t, 40, meta.Width)
	assert.Equal(t, 60, meta.Height)
	assert.Equal(t, "2:3", meta.AspectRatio)
	assert.NotEmpty(t, meta.Blurhash)
}

/*
TestFromBytes_InvalidPayload rejects non-image bytes.
*/
func TestFromBytes_InvalidPayload(t *testing.T) {
	_, err := imagemeta.FromBytes([]byte("not an image"))
	assert.Error(t, err)
}

/*
TestAspectRatio covers reduction and the normalized fallback.
*/
func TestAspectRatio(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   string
	}{
		{"square", 500, 500, "1:1"},
		{"portrait_2_3", 1600, 2400, "2:3"},
		{"landscape_16_9", 1920, 1080, "16:9"},
		{"prime_dimensions_fallback", 1000, 1499, "1:1.499"},
		{"zero_width", 0, 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, imagemeta.AspectRatio(tt.width, tt.height))
		})
	}
}
