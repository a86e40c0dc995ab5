// extractfeatures runs the full feature-extraction batch: for every
// resampling scale and every mask mode, it extracts intensity, shape, and
// texture features from each (image, mask) pair and writes one CSV per
// combination, plus an aggregate failures.csv. Defaults for the main paths
// can come from the MG_IMAGE_DIR, MG_MASK_DIR, MG_OUT_DIR, MG_SCALES, and
// MG_MODES environment variables; flags win over the environment.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/mileni98/mg-classification/pipeline"
)

func main() {
	start := time.Now()
	log.Println("extractfeatures start")
	defer func() {
		log.Printf("extractfeatures end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var imageDir, maskDir, outputDir, scales, modes, configPath, manifest, maskSuffix string
	var threshold, borderWidth, grayBins, concurrency int

	flag.StringVar(&imageDir, "images", pipeline.EnvOr("MG_IMAGE_DIR", ""), "Path to folder with intensity images (PNG, GIF, BMP, or JPEG)")
	flag.StringVar(&maskDir, "masks", pipeline.EnvOr("MG_MASK_DIR", ""), "Path to folder with mask images")
	flag.StringVar(&outputDir, "out", pipeline.EnvOr("MG_OUT_DIR", ""), "Folder where output CSVs should be created")
	flag.StringVar(&scales, "scales", pipeline.EnvOr("MG_SCALES", "1.0,0.5,0.25"), "Comma-delimited resampling factors")
	flag.StringVar(&modes, "modes", pipeline.EnvOr("MG_MODES", "roi,full"), "Comma-delimited mask modes (roi, full)")
	flag.StringVar(&configPath, "config", "", "(Optional) JSON config file. When provided, it replaces the directory, scale, and mode flags.")
	flag.StringVar(&manifest, "manifest", "", "(Optional) Delimited manifest with 'image' and 'mask' columns. If provided, pairs come from the manifest rather than listing the image directory's contents.")
	flag.StringVar(&maskSuffix, "suffix", "_mask.png", "(Optional) Suffix appended to the image basename to locate its mask.")
	flag.IntVar(&threshold, "threshold", 128, "(Optional) Luminance cutoff for binarizing masks.")
	flag.IntVar(&borderWidth, "border", 1, "(Optional) Width in pixels of the synthetic border drawn on degenerate masks.")
	flag.IntVar(&grayBins, "bins", 8, "(Optional) Gray-level quantization for histogram and texture features.")
	flag.IntVar(&concurrency, "concurrency", 0, "(Optional) Number of images processed in parallel. Defaults to the CPU count.")
	flag.Parse()

	var cfg pipeline.Config
	var err error
	if configPath != "" {
		cfg, err = pipeline.ParseConfigFromPath(configPath)
		if err != nil {
			log.Fatalln(err)
		}
	} else {
		parsedScales, err := pipeline.ParseScales(scales)
		if err != nil {
			log.Fatalln(err)
		}

		thresholdValue := uint8(threshold)
		cfg = pipeline.Config{
			ImageDir:    imageDir,
			MaskDir:     maskDir,
			OutputDir:   outputDir,
			Manifest:    manifest,
			MaskSuffix:  maskSuffix,
			Scales:      parsedScales,
			Modes:       pipeline.ParseModes(modes),
			Threshold:   &thresholdValue,
			BorderWidth: &borderWidth,
			GrayBins:    grayBins,
			Concurrency: concurrency,
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		log.Println(err)
		flag.Usage()
		os.Exit(1)
	}

	if err := pipeline.Run(cfg); err != nil {
		log.Fatalln(err)
	}
}
