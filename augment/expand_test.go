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

package augment

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.NoError(t, Config{Flip: true, DarkenCount: 2, DarkenMaxAmount: 20}.Validate())
	// Zero amounts with positive counts degenerate to no-ops, but are valid.
	assert.NoError(t, Config{NoiseCount: 3}.Validate())

	assert.Error(t, Config{DarkenCount: -1}.Validate())
	assert.Error(t, Config{SunCount: -2}.Validate())
	assert.Error(t, Config{NoiseCount: -1}.Validate())
	assert.Error(t, Config{NoiseAmount: -10}.Validate())
	assert.Error(t, Config{DarkenMaxAmount: -1}.Validate())
	assert.Error(t, Config{SunRadius: -5}.Validate())
}

func TestConfigFactor(t *testing.T) {
	assert.Equal(t, 1, Config{}.Factor())
	assert.Equal(t, 2, Config{Flip: true}.Factor())
	assert.Equal(t, 4, Config{Flip: true, NoiseCount: 1}.Factor())
	assert.Equal(t, 36, Config{Flip: true, DarkenCount: 2, SunCount: 1, NoiseCount: 2}.Factor())
}

func TestExpandCountMatchesFactor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	configs := []Config{
		{},
		{Flip: true},
		{DarkenCount: 3, DarkenMaxAmount: 20},
		{SunCount: 2, SunRadius: 5},
		{NoiseCount: 2, NoiseAmount: 10},
		{Flip: true, DarkenCount: 1, DarkenMaxAmount: 10, SunCount: 2, SunRadius: 4, NoiseCount: 1, NoiseAmount: 5},
	}
	for _, cfg := range configs {
		r := testRecord(8, 8, 128)
		out := Expand(r, cfg, rng)
		assert.Lenf(t, out, cfg.Factor(), "config %+v", cfg)
	}
}

// All counts at zero and no flip: the expander returns the source record
// itself, unchanged.
func TestExpandIdentityConfig(t *testing.T) {
	r := testRecord(8, 8, 128)
	out := Expand(r, Config{}, rand.New(rand.NewSource(1)))
	require.Len(t, out, 1)
	assert.Same(t, r, out[0])
}

func TestExpandFlipOnly(t *testing.T) {
	r := testRecord(4, 2, 128)
	r.Image.Pix[r.Image.PixOffset(0, 0)] = 10

	out := Expand(r, Config{Flip: true}, rand.New(rand.NewSource(1)))
	require.Len(t, out, 2)
	assert.Equal(t, 0.4, out[0].Angle)
	assert.EqualValues(t, 10, out[0].Image.Pix[out[0].Image.PixOffset(0, 0)])
	assert.Equal(t, -0.4, out[1].Angle)
	assert.EqualValues(t, 10, out[1].Image.Pix[out[1].Image.PixOffset(3, 0)])
}

// One darkened variant of an all-128 image: the output is the unmodified
// source plus exactly one darker record with every pixel in [108, 127].
func TestExpandSingleDarken(t *testing.T) {
	r := testRecord(8, 8, 128)
	out := Expand(r, Config{DarkenCount: 1, DarkenMaxAmount: 20}, rand.New(rand.NewSource(42)))
	require.Len(t, out, 2)

	assert.Same(t, r, out[0])
	forEachChannel(out[0].Image, func(v uint8) {
		assert.EqualValues(t, 128, v)
	})
	forEachChannel(out[1].Image, func(v uint8) {
		assert.GreaterOrEqual(t, v, uint8(108))
		assert.LessOrEqual(t, v, uint8(127))
	})
}

// Later stages compound onto earlier ones: with flip and one noise variant the
// working set is [source, flipped, noise(source), noise(flipped)].
func TestExpandStagesCompound(t *testing.T) {
	r := testRecord(8, 8, 128)
	out := Expand(r, Config{Flip: true, NoiseCount: 1, NoiseAmount: 10}, rand.New(rand.NewSource(42)))
	require.Len(t, out, 4)
	angles := []float64{out[0].Angle, out[1].Angle, out[2].Angle, out[3].Angle}
	assert.Equal(t, []float64{0.4, -0.4, 0.4, -0.4}, angles)
}

func TestExpandVariantsAreIndependent(t *testing.T) {
	r := testRecord(32, 32, 128)
	out := Expand(r, Config{NoiseCount: 2, NoiseAmount: 10}, rand.New(rand.NewSource(42)))
	require.Len(t, out, 3)
	// Two noise variants of the same record draw their own noise.
	assert.NotEqual(t, out[1].Image.Pix, out[2].Image.Pix)
}
