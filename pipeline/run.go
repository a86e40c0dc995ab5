package pipeline

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/mileni98/mg-classification/maskimg"
	"github.com/mileni98/mg-classification/radiomics"
)

// A Failure records one (image, scale, mode) extraction that did not
// produce a feature row. Failures never abort the batch; they are
// aggregated into failures.csv at the end of the run.
type Failure struct {
	Image string  `csv:"image"`
	Mask  string  `csv:"mask"`
	Mode  string  `csv:"mode"`
	Scale float64 `csv:"scale"`
	Error string  `csv:"error"`
}

// Run executes the full batch: for every scale and every mask mode,
// extract features from each (image, mask) pair and write one CSV per
// combination. Per-file errors are captured, not fatal; Run itself only
// errors on environment problems such as unreadable directories.
func Run(cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	var pairs []Pair
	var err error
	if cfg.Manifest != "" {
		pairs, err = PairsFromManifest(cfg.Manifest)
	} else {
		pairs, err = DiscoverPairs(cfg.ImageDir, cfg.MaskDir, cfg.MaskSuffix)
	}
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no (image, mask) pairs found")
	}
	log.Printf("Found %d (image, mask) pairs\n", len(pairs))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return pfx.Err(err)
	}

	extractor := radiomics.NewExtractor(cfg.GrayBins)

	var failures []*Failure
	for _, scale := range cfg.Scales {
		for _, mode := range cfg.Modes {
			rows, fails := runCombination(cfg, extractor, pairs, scale, mode)
			failures = append(failures, fails...)

			outPath := filepath.Join(cfg.OutputDir, combinationFilename(mode, scale))
			if err := writeCSV(outPath, &rows); err != nil {
				return err
			}
			log.Printf("[%s scale %g] Wrote %d rows (%d failures) to %s\n",
				mode, scale, len(rows), len(fails), outPath)
		}
	}

	failPath := filepath.Join(cfg.OutputDir, "failures.csv")
	if err := writeCSV(failPath, &failures); err != nil {
		return err
	}

	log.Printf("Batch complete: %d combinations, %d total failures\n",
		len(cfg.Scales)*len(cfg.Modes), len(failures))

	return nil
}

func runCombination(cfg Config, extractor radiomics.Extractor, pairs []Pair, scale float64, mode string) ([]*radiomics.FeatureRow, []*Failure) {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	sem := make(chan bool, concurrency)

	var mu sync.Mutex
	var rows []*radiomics.FeatureRow
	var failures []*Failure

	for i, pair := range pairs {
		sem <- true
		go func(pair Pair) {
			defer func() { <-sem }()

			row, err := processOnePair(cfg, extractor, pair, scale, mode)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, &Failure{
					Image: pair.ImagePath,
					Mask:  pair.MaskPath,
					Mode:  mode,
					Scale: scale,
					Error: err.Error(),
				})
				return
			}
			rows = append(rows, &row)
		}(pair)

		if (i+1)%100 == 0 {
			log.Printf("[%s scale %g] Processed %d of %d images\n", mode, scale, i+1, len(pairs))
		}
	}

	for i := 0; i < cap(sem); i++ {
		sem <- true
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Image < rows[j].Image })
	sort.Slice(failures, func(i, j int) bool { return failures[i].Image < failures[j].Image })

	return rows, failures
}

func processOnePair(cfg Config, extractor radiomics.Extractor, pair Pair, scale float64, mode string) (radiomics.FeatureRow, error) {
	img, err := maskimg.OpenImageFromLocalFile(pair.ImagePath)
	if err != nil {
		return radiomics.FeatureRow{}, fmt.Errorf("%s: %w", pair.ID, err)
	}

	resampled, err := radiomics.Resample(img, scale)
	if err != nil {
		return radiomics.FeatureRow{}, fmt.Errorf("%s: %w", pair.ID, err)
	}
	bounds := resampled.Bounds()

	var mask *maskimg.Mask
	maskName := "full"
	switch mode {
	case ModeFull:
		mask = maskimg.Full(bounds.Dx(), bounds.Dy(), *cfg.BorderWidth)
	case ModeROI:
		maskName = filepath.Base(pair.MaskPath)
		raw, err := maskimg.OpenMaskFromLocalFile(pair.MaskPath, *cfg.Threshold)
		if err != nil {
			return radiomics.FeatureRow{}, fmt.Errorf("%s: %w", pair.ID, err)
		}

		mask, err = radiomics.ResampleMask(raw, scale)
		if err != nil {
			return radiomics.FeatureRow{}, fmt.Errorf("%s: %w", pair.ID, err)
		}

		// The image and mask resample independently; a size mismatch here
		// means the source mask geometry never matched the source image.
		if mask.Width() != bounds.Dx() || mask.Height() != bounds.Dy() {
			return radiomics.FeatureRow{}, fmt.Errorf("%s: mask %dx%d does not match image %dx%d after resampling",
				pair.ID, mask.Width(), mask.Height(), bounds.Dx(), bounds.Dy())
		}

		mask.Normalize(*cfg.BorderWidth)
	default:
		return radiomics.FeatureRow{}, fmt.Errorf("%s: unknown mask mode %q", pair.ID, mode)
	}

	row, err := extractor.Extract(resampled, mask)
	if err != nil {
		return radiomics.FeatureRow{}, fmt.Errorf("%s: %w", pair.ID, err)
	}

	row.Image = pair.Name
	row.Mask = maskName

	return row, nil
}

// combinationFilename names one output CSV, e.g. features_roi_50.csv for
// the ROI mode at half scale.
func combinationFilename(mode string, scale float64) string {
	pct := int(math.Round(scale * 100))

	return fmt.Sprintf("features_%s_%d.csv", mode, pct)
}

func writeCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return pfx.Err(err)
	}

	return nil
}
