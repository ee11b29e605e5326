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

// Package tub reads and writes directory-backed driving datasets ("tubs"):
// one JSON file plus one JPEG image per record, and a meta.json describing the
// recorded fields. The augmentation core only sees the Store interface, so it
// can be tested entirely in memory.
package tub

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/drivekit/tubaug/record"
)

// Store is the record-store contract the augmentation pipeline drives. Reads
// traverse records in a stable, non-shuffled order; appends assign the next
// available id in the destination.
type Store interface {
	// RecordIDs returns the ids of all records, in ascending order.
	RecordIDs() ([]int, error)

	// ReadRecord loads the record with the given id.
	ReadRecord(id int) (*record.Record, error)

	// AppendRecord persists rec under the next available id.
	AppendRecord(rec *record.Record) error

	// MetaPath returns the path of the store's metadata file, or "" when the
	// store carries no metadata.
	MetaPath() string
}

const (
	// MetaFileName is the per-tub metadata file, copied verbatim to new tubs.
	MetaFileName = "meta.json"

	recordPrefix = "record_"
	recordSuffix = ".json"

	imageField    = "cam/image_array"
	angleField    = "user/angle"
	throttleField = "user/throttle"
)

// Tub is a filesystem Store in the donkeycar layout: record_<id>.json files
// holding the labels and the image file name, next to the JPEG images.
type Tub struct {
	dir    string
	nextID int
}

var _ Store = &Tub{}

// Open returns a Tub backed by an existing directory.
func Open(dir string) (*Tub, error) {
	dir = filepath.Clean(ReplaceTildeInDir(dir))
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open tub %q", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("tub path %q is not a directory", dir)
	}
	t := &Tub{dir: dir}
	ids, err := t.RecordIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		t.nextID = ids[len(ids)-1] + 1
	}
	return t, nil
}

// Create makes the directory (and parents) if needed and opens it as a Tub.
// Opening an existing tub with Create resumes appending after its last record.
func Create(dir string) (*Tub, error) {
	dir = ReplaceTildeInDir(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "failed to create tub directory %q", dir)
	}
	return Open(dir)
}

// Dir returns the tub's directory.
func (t *Tub) Dir() string { return t.dir }

// MetaPath implements Store.
func (t *Tub) MetaPath() string { return filepath.Join(t.dir, MetaFileName) }

// RecordIDs implements Store.
func (t *Tub) RecordIDs() ([]int, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list tub %q", t.dir)
	}
	var ids []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, recordPrefix) || !strings.HasSuffix(name, recordSuffix) {
			continue
		}
		id, err := strconv.Atoi(name[len(recordPrefix) : len(name)-len(recordSuffix)])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// ReadRecord implements Store.
func (t *Tub) ReadRecord(id int) (*record.Record, error) {
	recordPath := t.recordPath(id)
	data, err := os.ReadFile(recordPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record %d of tub %q", id, t.dir)
	}
	var fields map[string]any
	if err = json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", recordPath)
	}
	imageName, ok := fields[imageField].(string)
	if !ok {
		return nil, errors.Errorf("record %q has no %q field", recordPath, imageField)
	}
	img, err := imaging.Open(filepath.Join(t.dir, imageName))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read image of record %d of tub %q", id, t.dir)
	}
	rec := &record.Record{
		// Clone normalizes whatever the decoder produced to NRGBA.
		Image: imaging.Clone(img),
		Extra: make(map[string]any),
	}
	rec.Angle, _ = fields[angleField].(float64)
	rec.Throttle, _ = fields[throttleField].(float64)
	for key, value := range fields {
		switch key {
		case imageField, angleField, throttleField:
		default:
			rec.Extra[key] = value
		}
	}
	return rec, nil
}

// AppendRecord implements Store.
func (t *Tub) AppendRecord(rec *record.Record) error {
	id := t.nextID
	imageName := fmt.Sprintf("%d_cam-image_array_.jpg", id)
	if err := imaging.Save(rec.Image, filepath.Join(t.dir, imageName)); err != nil {
		return errors.Wrapf(err, "failed to write image of record %d to tub %q", id, t.dir)
	}
	fields := make(map[string]any, len(rec.Extra)+3)
	for key, value := range rec.Extra {
		fields[key] = value
	}
	fields[imageField] = imageName
	fields[angleField] = rec.Angle
	fields[throttleField] = rec.Throttle
	data, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "failed to encode record %d of tub %q", id, t.dir)
	}
	if err = os.WriteFile(t.recordPath(id), data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write record %d to tub %q", id, t.dir)
	}
	t.nextID++
	return nil
}

func (t *Tub) recordPath(id int) string {
	return filepath.Join(t.dir, fmt.Sprintf("%s%d%s", recordPrefix, id, recordSuffix))
}

// OpenGroup opens every tub matching the given comma-separated list of
// shell-style glob patterns, e.g. "~/data/tub_*,/mnt/extra/tub_7". Matches of
// one pattern are taken in lexical order; patterns keep the order given. A
// pattern matching nothing is an error.
func OpenGroup(patterns string) ([]*Tub, error) {
	var tubs []*Tub
	for _, pattern := range strings.Split(patterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		matches, err := filepath.Glob(ReplaceTildeInDir(pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "bad tub pattern %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no tub matches pattern %q", pattern)
		}
		sort.Strings(matches)
		for _, dir := range matches {
			t, err := Open(dir)
			if err != nil {
				return nil, err
			}
			tubs = append(tubs, t)
		}
	}
	if len(tubs) == 0 {
		return nil, errors.Errorf("no tubs selected by %q", patterns)
	}
	return tubs, nil
}

// CopyMeta copies the metadata file at src to dst, byte for byte, but only
// when dst does not exist yet: existing destination metadata is never
// overwritten.
func CopyMeta(src, dst string) error {
	if FileExists(dst) {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, "failed to read source metadata %q", src)
	}
	if err = os.WriteFile(dst, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write metadata %q", dst)
	}
	return nil
}

// FileExists returns true if file or directory exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	if err == nil {
		return true
	}
	if errors.Is(err, os.ErrNotExist) {
		return false
	}
	panic(err)
}

// ReplaceTildeInDir by the user's home directory. Returns dir if it doesn't start with "~".
func ReplaceTildeInDir(dir string) string {
	if len(dir) == 0 || dir[0] != '~' {
		return dir
	}
	usr, _ := user.Current()
	homeDir := usr.HomeDir
	return path.Join(homeDir, dir[1:])
}
