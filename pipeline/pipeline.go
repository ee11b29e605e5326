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

// Package pipeline orchestrates the expansion of whole datasets: it walks
// every record of every source store in order, expands it and appends every
// result to the destination store.
package pipeline

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"

	"github.com/drivekit/tubaug/augment"
	"github.com/drivekit/tubaug/record"
	"github.com/drivekit/tubaug/tub"
)

// Options adjusts a Run. The zero value is a good default for the CLI.
type Options struct {
	// Rand is the source of randomness for the randomized transforms. If nil,
	// a time-seeded generator is used.
	Rand *rand.Rand

	// Quiet suppresses the progress bar and the final summary line.
	Quiet bool
}

// Result reports what a Run did.
type Result struct {
	// SourceRecords is the number of records read across all sources.
	SourceRecords int

	// WrittenRecords is the number of records appended to the destination.
	WrittenRecords int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Run expands every record of the given sources into dest, in source order:
// records within a store in ascending id order, stores in the order given.
//
// Each source record is fully expanded and written before the next one is
// read, so memory holds at most one expansion set at a time. If the
// destination has no metadata file yet, the first source's metadata is copied
// over byte for byte before any record is written; existing destination
// metadata is left untouched. Empty sources are not an error: the run reports
// zero records.
//
// Any configuration, read or write error aborts the run. Records written
// before a failure stay in the destination.
func Run(sources []tub.Store, dest tub.Store, cfg augment.Config, opts Options) (Result, error) {
	var res Result
	if err := cfg.Validate(); err != nil {
		return res, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	}
	start := time.Now()

	if len(sources) > 0 {
		if src, dst := sources[0].MetaPath(), dest.MetaPath(); src != "" && dst != "" {
			if err := tub.CopyMeta(src, dst); err != nil {
				return res, err
			}
		}
	}

	// List everything upfront so the progress bar knows the total.
	ids := make([][]int, len(sources))
	for i, source := range sources {
		var err error
		if ids[i], err = source.RecordIDs(); err != nil {
			return res, err
		}
		res.SourceRecords += len(ids[i])
	}

	var bar *progressbar.ProgressBar
	if !opts.Quiet {
		bar = progressbar.NewOptions(res.SourceRecords*cfg.Factor(),
			progressbar.OptionSetDescription("Augmenting"),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("records"),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		)
	}

	for i, source := range sources {
		klog.V(1).Infof("Augmenting %d records from source #%d", len(ids[i]), i)
		for _, id := range ids[i] {
			rec, err := source.ReadRecord(id)
			if err != nil {
				return res, errors.WithMessagef(err, "reading record %d from source #%d", id, i)
			}
			expanded := augment.Expand(rec, cfg, rng)
			if err = appendAll(dest, expanded); err != nil {
				return res, err
			}
			res.WrittenRecords += len(expanded)
			if bar != nil {
				_ = bar.Add(len(expanded))
			}
		}
	}
	res.Elapsed = time.Since(start)

	if bar != nil {
		_ = bar.Close()
		fmt.Println()
	}
	if !opts.Quiet {
		fmt.Printf("Wrote %s records expanded from %s source records in %.1f minutes.\n",
			humanize.Comma(int64(res.WrittenRecords)), humanize.Comma(int64(res.SourceRecords)),
			res.Elapsed.Minutes())
	}
	return res, nil
}

func appendAll(dest tub.Store, recs []*record.Record) error {
	for _, rec := range recs {
		if err := dest.AppendRecord(rec); err != nil {
			return errors.WithMessage(err, "appending to destination")
		}
	}
	return nil
}
