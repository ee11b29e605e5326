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

// Package record defines the in-memory representation of one synchronized
// sample of a driving dataset: the camera image plus its control labels.
package record

import (
	"image"
)

// Record is one sample of a driving dataset. The image is always stored as
// NRGBA, whatever the on-disk encoding was, so transforms can work on a single
// pixel layout.
//
// A Record handed to a transform is never mutated: transforms return new
// Records with freshly allocated pixel buffers, because one source Record may
// feed several independent augmentation branches.
type Record struct {
	// Image is the camera frame. All transforms preserve its dimensions.
	Image *image.NRGBA

	// Angle is the steering angle, normalized to [-1, 1].
	Angle float64

	// Throttle is the throttle label. No current transform touches it.
	Throttle float64

	// Extra holds any further labels of the source record (timestamps,
	// driving mode, ...), carried through augmentation unmodified.
	Extra map[string]any
}

// Clone returns a copy of the record with its own pixel buffer. The Extra map
// is shared: it is read-only once the record is built.
func (r *Record) Clone() *Record {
	out := *r
	if r.Image != nil {
		out.Image = &image.NRGBA{
			Pix:    append([]uint8(nil), r.Image.Pix...),
			Stride: r.Image.Stride,
			Rect:   r.Image.Rect,
		}
	}
	return &out
}
