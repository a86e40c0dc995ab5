package pipeline

import (
	"encoding/csv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeGradientPNG(t *testing.T, path string, width, height int) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := 0
			if width > 1 {
				v = x * 255 / (width - 1)
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeMaskPNG(t *testing.T, path string, width, height int, fill func(x, y int) bool) {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if fill(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	return rows
}

func TestRunEndToEnd(t *testing.T) {
	imageDir := t.TempDir()
	maskDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	// Two healthy pairs: one with a real ROI, one with a degenerate
	// all-foreground mask that normalization must rescue.
	writeGradientPNG(t, filepath.Join(imageDir, "a.png"), 16, 16)
	writeMaskPNG(t, filepath.Join(maskDir, "a_mask.png"), 16, 16, func(x, y int) bool {
		return x >= 4 && x < 12 && y >= 4 && y < 12
	})

	writeGradientPNG(t, filepath.Join(imageDir, "b.png"), 16, 16)
	writeMaskPNG(t, filepath.Join(maskDir, "b_mask.png"), 16, 16, func(x, y int) bool {
		return true
	})

	// A 1x1 image can never hold a foreground/background boundary, so
	// it must land in failures.csv for every combination.
	writeGradientPNG(t, filepath.Join(imageDir, "c.png"), 1, 1)
	writeMaskPNG(t, filepath.Join(maskDir, "c_mask.png"), 1, 1, func(x, y int) bool {
		return false
	})

	cfg := Config{
		ImageDir:  imageDir,
		MaskDir:   maskDir,
		OutputDir: outDir,
		Scales:    []float64{1.0, 0.5},
		Modes:     []string{ModeROI, ModeFull},
	}

	if err := Run(cfg); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"features_roi_100.csv",
		"features_full_100.csv",
		"features_roi_50.csv",
		"features_full_50.csv",
	} {
		rows := readCSV(t, filepath.Join(outDir, name))

		// Header plus the two healthy pairs
		if len(rows) != 3 {
			t.Errorf("%s: got %d rows, want 3", name, len(rows))
			continue
		}
		if rows[0][0] != "image" {
			t.Errorf("%s: header = %v", name, rows[0])
		}
		if rows[1][0] != "a.png" || rows[2][0] != "b.png" {
			t.Errorf("%s: row order = %s, %s", name, rows[1][0], rows[2][0])
		}

		// Every cell filled, no ragged rows
		for i, row := range rows {
			if len(row) != len(rows[0]) {
				t.Errorf("%s: row %d has %d cells, want %d", name, i, len(row), len(rows[0]))
			}
		}
	}

	failures := readCSV(t, filepath.Join(outDir, "failures.csv"))
	if len(failures) != 5 {
		t.Fatalf("failures.csv has %d rows, want header + 4: %v", len(failures), failures)
	}
	for _, row := range failures[1:] {
		if filepath.Base(row[0]) != "c.png" {
			t.Errorf("unexpected failing image %q", row[0])
		}
	}
}

func TestRunManifest(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	imgPath := filepath.Join(dir, "scan.png")
	maskPath := filepath.Join(dir, "scan_mask.png")
	writeGradientPNG(t, imgPath, 12, 12)
	writeMaskPNG(t, maskPath, 12, 12, func(x, y int) bool {
		return x >= 3 && x < 9 && y >= 3 && y < 9
	})

	manifestPath := filepath.Join(dir, "manifest.csv")
	body := "image,mask\n" + imgPath + "," + maskPath + "\n"
	if err := os.WriteFile(manifestPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		ImageDir:  dir,
		OutputDir: outDir,
		Manifest:  manifestPath,
		Scales:    []float64{1.0},
		Modes:     []string{ModeROI},
	}

	if err := Run(cfg); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(outDir, "features_roi_100.csv"))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[1][0] != "scan.png" {
		t.Errorf("image column = %q", rows[1][0])
	}
}

func TestRunNoPairs(t *testing.T) {
	cfg := Config{
		ImageDir:  t.TempDir(),
		MaskDir:   t.TempDir(),
		OutputDir: filepath.Join(t.TempDir(), "out"),
	}

	if err := Run(cfg); err == nil {
		t.Fatal("expected an error when no pairs exist")
	}
}

func TestCombinationFilename(t *testing.T) {
	type expectations struct {
		mode  string
		scale float64
		want  string
	}

	for _, v := range []expectations{
		{ModeROI, 1.0, "features_roi_100.csv"},
		{ModeFull, 0.5, "features_full_50.csv"},
		{ModeROI, 0.25, "features_roi_25.csv"},
	} {
		if got := combinationFilename(v.mode, v.scale); got != v.want {
			t.Errorf("combinationFilename(%s, %g) = %s, want %s", v.mode, v.scale, got, v.want)
		}
	}
}
