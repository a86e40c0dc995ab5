// masknorm normalizes a directory of binary mask images: any mask that is
// entirely foreground or entirely background gets a synthetic border ring
// of the opposite value, so that every emitted mask has at least one
// connected foreground/background boundary. Normalized masks are written
// as 8-bit gray PNGs, and a tab-delimited QC table goes to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mileni98/mg-classification/maskimg"
	"github.com/mileni98/mg-classification/pipeline"
)

func main() {
	start := time.Now()
	log.Println("masknorm start")
	defer func() {
		log.Printf("masknorm end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var maskDir, outputDir string
	var threshold, borderWidth int

	flag.StringVar(&maskDir, "masks", pipeline.EnvOr("MG_MASK_DIR", ""), "Path to folder with mask images (PNG, GIF, BMP, or JPEG)")
	flag.StringVar(&outputDir, "out", pipeline.EnvOr("MG_OUT_DIR", ""), "Folder where normalized masks should be created")
	flag.IntVar(&threshold, "threshold", 128, "(Optional) Luminance cutoff for binarizing masks.")
	flag.IntVar(&borderWidth, "border", 1, "(Optional) Width in pixels of the synthetic border drawn on degenerate masks.")
	flag.Parse()

	if maskDir == "" || outputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(maskDir, outputDir, uint8(threshold), borderWidth); err != nil {
		log.Fatalln(err)
	}
}

func run(maskDir, outputDir string, threshold uint8, borderWidth int) error {
	files, err := os.ReadDir(maskDir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	printHeader()

	concurrency := runtime.NumCPU()
	sem := make(chan bool, concurrency)

	var mu sync.Mutex
	normalized := 0

	// Process every mask in the folder
	for i, file := range files {
		if file.IsDir() {
			continue
		}

		sem <- true
		go func(name string) {
			defer func() { <-sem }()

			changed, err := processOneMask(maskDir, outputDir, name, threshold, borderWidth, &mu)
			if err != nil {
				log.Printf("%s: %s\n", name, err)
				return
			}
			if changed {
				mu.Lock()
				normalized++
				mu.Unlock()
			}
		}(file.Name())

		if (i+1)%1000 == 0 {
			log.Printf("Processed %d masks\n", i+1)
		}
	}

	for i := 0; i < cap(sem); i++ {
		sem <- true
	}

	log.Printf("Drew a synthetic border on %d degenerate masks\n", normalized)

	return nil
}

func printHeader() {
	header := []string{"mask", "width", "height", "foreground_pixels", "foreground_components", "normalized"}
	fmt.Println(strings.Join(header, "\t"))
}

func processOneMask(maskDir, outputDir, name string, threshold uint8, borderWidth int, mu *sync.Mutex) (bool, error) {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".png") &&
		!strings.HasSuffix(lower, ".gif") &&
		!strings.HasSuffix(lower, ".bmp") &&
		!strings.HasSuffix(lower, ".jpeg") &&
		!strings.HasSuffix(lower, ".jpg") {
		return false, nil
	}

	mask, err := maskimg.OpenMaskFromLocalFile(filepath.Join(maskDir, name), threshold)
	if err != nil {
		return false, err
	}

	changed := mask.Normalize(borderWidth)

	// Normalized masks always persist as PNG, whatever the input format.
	outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	if err := mask.SaveGrayPNG(filepath.Join(outputDir, outName)); err != nil {
		return changed, err
	}

	components := len(maskimg.NewConnected(mask).ForegroundComponents())

	entry := []string{
		name,
		strconv.Itoa(mask.Width()),
		strconv.Itoa(mask.Height()),
		strconv.Itoa(mask.ForegroundCount()),
		strconv.Itoa(components),
		strconv.FormatBool(changed),
	}

	mu.Lock()
	fmt.Println(strings.Join(entry, "\t"))
	mu.Unlock()

	return changed, nil
}
