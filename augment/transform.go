/*
 *	Copyright 2026 The tubaug Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package augment holds the image transforms of the augmentation pipeline and
// the expander that combines them. All transforms are pure: they take one
// record and return a new record with the exact same image dimensions, never
// touching their input.
package augment

import (
	"image"
	"math/rand"

	"github.com/disintegration/imaging"

	"github.com/drivekit/tubaug/record"
)

const (
	// sunIntensity is the brightness of the glare disc before blurring.
	sunIntensity = 200

	// sunBlurSigma is the Gaussian sigma used to soften the glare edge.
	sunBlurSigma = 5.0
)

// Flip mirrors the image left-right and negates the steering angle. Throttle
// and all other labels are unchanged. Flipping twice reproduces the original
// record.
func Flip(r *record.Record) *record.Record {
	return derive(r, imaging.FlipH(r.Image))
}

// Darken subtracts a single amount, drawn uniformly from [1, maxAmount], from
// every pixel of the image, simulating a uniformly dimmer exposure. Values are
// clipped to [0, 255]. Labels are unchanged. A maxAmount of 0 degenerates to a
// plain copy.
func Darken(r *record.Record, maxAmount int, rng *rand.Rand) *record.Record {
	img := imaging.Clone(r.Image)
	if maxAmount > 0 {
		addToPixels(img, -(1 + rng.Intn(maxAmount)))
	}
	return derive(r, img)
}

// Noise adds an independent integer, drawn uniformly from [-amount, amount]
// per pixel, to the pixel's color channels, clipping to [0, 255]. Labels are
// unchanged. An amount of 0 degenerates to a plain copy.
func Noise(r *record.Record, amount int, rng *rand.Rand) *record.Record {
	img := imaging.Clone(r.Image)
	if amount > 0 {
		bounds := img.Bounds()
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				delta := rng.Intn(2*amount+1) - amount
				pos := img.PixOffset(x, y)
				for c := 0; c < 3; c++ {
					img.Pix[pos+c] = clip8(int(img.Pix[pos+c]) + delta)
				}
			}
		}
	}
	return derive(r, img)
}

// SunSpot simulates a localized sun glare: a disc of the given radius at a
// uniformly random center within the image, softened with a Gaussian blur
// (sigma 5) and added to every color channel, clipping to [0, 255]. Labels are
// unchanged.
func SunSpot(r *record.Record, radius int, rng *rand.Rand) *record.Record {
	img := imaging.Clone(r.Image)
	width, height := img.Rect.Dx(), img.Rect.Dy()
	if radius > 0 && width > 0 && height > 0 {
		centerX := rng.Intn(width)
		centerY := rng.Intn(height)
		glow := imaging.Blur(sunDisc(width, height, centerX, centerY, radius), sunBlurSigma)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				pos := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
				add := int(glow.Pix[glow.PixOffset(x, y)])
				for c := 0; c < 3; c++ {
					img.Pix[pos+c] = clip8(int(img.Pix[pos+c]) + add)
				}
			}
		}
	}
	return derive(r, img)
}

// sunDisc builds the un-blurred glare mask: sunIntensity inside the disc,
// 0 outside, fully opaque so the blur only mixes color values.
func sunDisc(width, height, centerX, centerY, radius int) *image.NRGBA {
	mask := image.NewNRGBA(image.Rect(0, 0, width, height))
	radiusSq := radius * radius
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := mask.PixOffset(x, y)
			dx, dy := x-centerX, y-centerY
			if dx*dx+dy*dy <= radiusSq {
				mask.Pix[pos+0] = sunIntensity
				mask.Pix[pos+1] = sunIntensity
				mask.Pix[pos+2] = sunIntensity
			}
			mask.Pix[pos+3] = 0xFF
		}
	}
	return mask
}

// addToPixels adds delta to every color channel of every pixel, saturating to
// [0, 255]. Alpha is left alone.
func addToPixels(img *image.NRGBA, delta int) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pos := img.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				img.Pix[pos+c] = clip8(int(img.Pix[pos+c]) + delta)
			}
		}
	}
}

// clip8 saturates v to the valid [0, 255] intensity range. Every additive or
// subtractive transform computes in int and goes through clip8 before storing,
// so no out-of-range intermediate ever reaches a record.
func clip8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// derive returns a new record carrying img, with all labels shallow-copied
// from r.
func derive(r *record.Record, img *image.NRGBA) *record.Record {
	out := *r
	out.Image = img
	return &out
}
