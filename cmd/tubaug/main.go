// tubaug expands a recorded driving dataset ("tub") into a larger one by
// applying image transformations to every record: left-right mirroring,
// darkening, simulated sun glare and pixel noise. Each transform can produce
// several independently randomized variants per record, and later transforms
// compound onto the output of earlier ones, so the dataset grows by
// (flip?2:1) x (1+darken) x (1+sun) x (1+noise).
//
// Example, a 12x expansion of two tubs:
//
//	tubaug -tub "~/data/tub_*" -flip -darken 2 -noise 1
package main

import (
	"flag"
	"math/rand"
	"os"

	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/drivekit/tubaug/augment"
	"github.com/drivekit/tubaug/pipeline"
	"github.com/drivekit/tubaug/tub"
)

var (
	flagTubs = flag.String("tub", "", "Comma-separated list of source tub paths. "+
		"Shell-style globs are supported, use quotes: -tub \"~/data/tub_*\".")
	flagOut = flag.String("out", "", "Destination tub directory. Created if missing. "+
		"Defaults to a sibling of the first source tub named \"<tub>_aug\".")

	flagFlip = flag.Bool("flip", false, "Add a left-right mirrored copy of every record, with negated steering angle.")

	flagDarken       = flag.Int("darken", 0, "Number of darkened variants per record.")
	flagDarkenAmount = flag.Int("darken_amount", 60, "Maximum amount subtracted from every pixel when darkening. "+
		"Each variant draws its own amount from [1, darken_amount].")

	flagSun       = flag.Int("sun", 0, "Number of sun-glare variants per record, each at its own random position.")
	flagSunRadius = flag.Int("sun_radius", 40, "Radius in pixels of the sun glare.")

	flagNoise       = flag.Int("noise", 0, "Number of noised variants per record.")
	flagNoiseAmount = flag.Int("noise_amount", 20, "Per-pixel noise is drawn from [-noise_amount, noise_amount].")

	flagSeed  = flag.Int64("seed", 0, "Seed for the random generator, for reproducible runs. 0 seeds from the clock.")
	flagQuiet = flag.Bool("quiet", false, "Suppress the progress bar and summary.")
)

func main() {
	flag.Parse()
	if *flagTubs == "" {
		klog.Error("Missing -tub with the source tub(s) to augment. See 'tubaug -help'.")
		os.Exit(1)
	}
	cfg := augment.Config{
		Flip:            *flagFlip,
		DarkenCount:     *flagDarken,
		DarkenMaxAmount: *flagDarkenAmount,
		SunCount:        *flagSun,
		SunRadius:       *flagSunRadius,
		NoiseCount:      *flagNoise,
		NoiseAmount:     *flagNoiseAmount,
	}
	if err := cfg.Validate(); err != nil {
		klog.Errorf("Invalid augmentation configuration: %v", err)
		os.Exit(1)
	}

	tubs := must.M1(tub.OpenGroup(*flagTubs))
	outDir := *flagOut
	if outDir == "" {
		outDir = tubs[0].Dir() + "_aug"
	}
	dest := must.M1(tub.Create(outDir))

	opts := pipeline.Options{Quiet: *flagQuiet}
	if *flagSeed != 0 {
		opts.Rand = rand.New(rand.NewSource(*flagSeed))
	}
	sources := make([]tub.Store, len(tubs))
	for i, t := range tubs {
		sources[i] = t
	}
	_ = must.M1(pipeline.Run(sources, dest, cfg, opts))
}
