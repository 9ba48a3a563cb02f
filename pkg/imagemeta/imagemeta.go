// Copyright (c) 2026 Shiori Press. All rights reserved.
// Author: contact@shiori.press

/*
Package imagemeta derives display metadata from cover image payloads.

The storefront frontend needs two things before the full-resolution cover
arrives over the network:

  - Blurhash: A compact placeholder string rendered as a blurred preview.
  - Aspect Ratio: A "W:H" string so layout can reserve the correct box.

Both are computed once at upload time and persisted with the asset record.
*/
package imagemeta

import (
	"bytes"
	"fmt"
	"image"
	// Register stdlib decoders for the supported cover formats.
	_ "image/jpeg"
	_ "image/png"

	"github.com/buckket/go-blurhash"
	// Register the webp decoder.
	_ "golang.org/x/image/webp"
)

// Blurhash component counts. 4x3 is the conventional quality/size tradeoff.
const (
	blurhashXComponents = 4
	blurhashYComponents = 3
)

// aspectFallbackLimit is the largest numerator/denominator a reduced "W:H"
// ratio may carry before we fall back to the normalized "1:R" form.
const aspectFallbackLimit = 50

// Meta holds the derived metadata of a decoded cover image.
type Meta struct {
	Blurhash    string
	AspectRatio string
	Width       int
	Height      int
}

// FromBytes decodes an image payload and computes its display metadata.
//
// The payload must be in one of the registered formats (JPEG, PNG, WebP).
//
// Returns:
//   - *Meta: Blurhash, aspect ratio, and pixel dimensions
//   - error: Decode or hashing failures
func FromBytes(payload []byte) (*Meta, error) {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("imagemeta: failed to decode image: %w", err)
	}

	hash, err := blurhash.Encode(blurhashXComponents, blurhashYComponents, img)
	if err != nil {
		return nil, fmt.Errorf("imagemeta: failed to compute blurhash: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	return &Meta{
		Blurhash:    hash,
		AspectRatio: AspectRatio(width, height),
		Width:       width,
		Height:      height,
	}, nil
}

// AspectRatio renders a width/height pair as a compact ratio string.
//
// # Format
//
// The pair is reduced by its greatest common divisor and emitted as "W:H"
// (e.g. 1600x2400 → "2:3"). When the reduced terms stay unwieldy (prime-ish
// dimensions like 1000x1499), it falls back to the normalized "1:R" form
// with R rounded to three decimals (e.g. "1:1.499").
func AspectRatio(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	divisor := gcd(width, height)
	reducedW := width / divisor
	reducedH := height / divisor

	if reducedW <= aspectFallbackLimit && reducedH <= aspectFallbackLimit {
		return fmt.Sprintf("%d:%d", reducedW, reducedH)
	}

	return fmt.Sprintf("1:%.3f", float64(height)/float64(width))
}

// gcd computes the greatest common divisor via Euclid's algorithm.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
