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

	"github.com/pkg/errors"

	"github.com/drivekit/tubaug/record"
)

// Config holds the knobs of one augmentation run: which transforms are
// enabled, how many independent variants each produces per record, and their
// amounts. The zero value is the identity configuration: Expand returns only
// the source record.
type Config struct {
	// Flip adds a mirrored copy of every record.
	Flip bool

	// DarkenCount darkened variants are generated per record, each with its
	// own amount drawn from [1, DarkenMaxAmount].
	DarkenCount     int
	DarkenMaxAmount int

	// SunCount sun-glare variants are generated per record, each with its own
	// random center and a disc of SunRadius pixels.
	SunCount  int
	SunRadius int

	// NoiseCount noised variants are generated per record, with per-pixel
	// noise drawn from [-NoiseAmount, NoiseAmount].
	NoiseCount  int
	NoiseAmount int
}

// Validate returns an error if any count or amount is negative. A zero amount
// with a positive count is allowed and degenerates to a no-op transform.
func (c Config) Validate() error {
	if c.DarkenCount < 0 || c.SunCount < 0 || c.NoiseCount < 0 {
		return errors.Errorf("augmentation counts must be >= 0, got darken=%d, sun=%d, noise=%d",
			c.DarkenCount, c.SunCount, c.NoiseCount)
	}
	if c.DarkenMaxAmount < 0 || c.SunRadius < 0 || c.NoiseAmount < 0 {
		return errors.Errorf("augmentation amounts must be >= 0, got darken_amount=%d, sun_radius=%d, noise_amount=%d",
			c.DarkenMaxAmount, c.SunRadius, c.NoiseAmount)
	}
	return nil
}

// Factor returns how many records Expand produces per source record.
func (c Config) Factor() int {
	factor := 1
	if c.Flip {
		factor = 2
	}
	return factor * (1 + c.DarkenCount) * (1 + c.SunCount) * (1 + c.NoiseCount)
}

// A stage takes the records produced so far and returns the same slice with
// its own variants appended after them.
type stage func([]*record.Record) []*record.Record

// Expand applies the configured transform chain to one source record and
// returns the full working set: the source itself, its flipped copy if
// enabled, then each stage's variants in discovery order. Later stages
// compound onto everything produced before them (a noise variant may derive
// from an already darkened record), so len(result) == cfg.Factor().
func Expand(r *record.Record, cfg Config, rng *rand.Rand) []*record.Record {
	flipCount := 0
	if cfg.Flip {
		flipCount = 1
	}
	stages := []stage{
		variants(flipCount, Flip),
		variants(cfg.DarkenCount, func(rec *record.Record) *record.Record {
			return Darken(rec, cfg.DarkenMaxAmount, rng)
		}),
		variants(cfg.SunCount, func(rec *record.Record) *record.Record {
			return SunSpot(rec, cfg.SunRadius, rng)
		}),
		variants(cfg.NoiseCount, func(rec *record.Record) *record.Record {
			return Noise(rec, cfg.NoiseAmount, rng)
		}),
	}
	out := []*record.Record{r}
	for _, s := range stages {
		out = s(out)
	}
	return out
}

// variants builds a stage that appends count independent applications of fn to
// every record present when the stage begins.
func variants(count int, fn func(*record.Record) *record.Record) stage {
	return func(recs []*record.Record) []*record.Record {
		present := recs[:len(recs):len(recs)]
		for _, rec := range present {
			for i := 0; i < count; i++ {
				recs = append(recs, fn(rec))
			}
		}
		return recs
	}
}
