package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/csimplestring/go-csv/detector"
)

// A Pair binds one intensity image to its mask file. ID is the image
// basename without extension. Name keys every output row: normally the
// image basename, promoted to the full path when two manifest entries
// would otherwise collide.
type Pair struct {
	ID        string
	Name      string
	ImagePath string
	MaskPath  string
}

var imageExtensions = map[string]bool{
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".jpeg": true,
	".jpg":  true,
}

// DiscoverPairs walks the image directory and pairs <id>.png with
// <id><maskSuffix> in the mask directory. Images without a mask are
// logged and skipped rather than failing the batch; mask files
// themselves are never treated as base images.
func DiscoverPairs(imageDir, maskDir, maskSuffix string) ([]Pair, error) {
	files, err := os.ReadDir(imageDir)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var out []Pair
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !imageExtensions[ext] {
			continue
		}
		if maskSuffix != "" && strings.HasSuffix(name, maskSuffix) {
			continue
		}

		id := strings.TrimSuffix(name, filepath.Ext(name))
		pair := Pair{
			ID:        id,
			Name:      name,
			ImagePath: filepath.Join(imageDir, name),
		}

		if maskDir != "" {
			maskPath := filepath.Join(maskDir, id+maskSuffix)
			if _, err := os.Stat(maskPath); err != nil {
				log.Printf("%s: no mask found at %s. Skipping file...\n", name, maskPath)
				continue
			}
			pair.MaskPath = maskPath
		}

		out = append(out, pair)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// PairsFromManifest reads (image, mask) pairs from a delimited manifest
// with header columns "image" and "mask". The delimiter is detected from
// the file contents, so comma- and tab-delimited manifests both work.
func PairsFromManifest(manifestPath string) ([]Pair, error) {
	f, err := os.Open(manifestPath)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	delim := determineDelimiter(f)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, pfx.Err(err)
	}

	csvReader := csv.NewReader(f)
	csvReader.Comma = delim
	entries, err := csvReader.ReadAll()
	if err != nil {
		return nil, pfx.Err(err)
	}

	if len(entries) < 1 {
		return nil, fmt.Errorf("manifest %s is empty", manifestPath)
	}

	imageCol, maskCol := -1, -1
	for j, col := range entries[0] {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "image":
			imageCol = j
		case "mask":
			maskCol = j
		}
	}
	if imageCol < 0 || maskCol < 0 {
		return nil, fmt.Errorf("manifest %s needs 'image' and 'mask' columns, found %v", manifestPath, entries[0])
	}

	var out []Pair
	for i, row := range entries {
		if i == 0 {
			continue
		}

		imagePath := row[imageCol]
		id := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))

		out = append(out, Pair{
			ID:        id,
			Name:      filepath.Base(imagePath),
			ImagePath: imagePath,
			MaskPath:  row[maskCol],
		})
	}

	// Entries in different directories may share a basename; promote
	// colliding names to the full path so output rows stay distinct.
	seen := make(map[string]int)
	for _, pair := range out {
		seen[pair.Name]++
	}
	for i, pair := range out {
		if seen[pair.Name] > 1 {
			out[i].Name = pair.ImagePath
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

// determineDelimiter returns the single most likely rune that would
// delimit the values in the reader, assuming a CSV-like file.
func determineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}
