package pipeline

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, width, height int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverPairs(t *testing.T) {
	imageDir := t.TempDir()
	maskDir := t.TempDir()

	writePNG(t, filepath.Join(imageDir, "a.png"), 8, 8)
	writePNG(t, filepath.Join(imageDir, "b.png"), 8, 8)
	writePNG(t, filepath.Join(imageDir, "nomask.png"), 8, 8)
	writePNG(t, filepath.Join(maskDir, "a_mask.png"), 8, 8)
	writePNG(t, filepath.Join(maskDir, "b_mask.png"), 8, 8)

	// Non-image files are ignored outright
	if err := os.WriteFile(filepath.Join(imageDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	pairs, err := DiscoverPairs(imageDir, maskDir, "_mask.png")
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2: %+v", len(pairs), pairs)
	}
	if pairs[0].ID != "a" || pairs[1].ID != "b" {
		t.Errorf("pair IDs = %s, %s", pairs[0].ID, pairs[1].ID)
	}
	if pairs[0].MaskPath != filepath.Join(maskDir, "a_mask.png") {
		t.Errorf("MaskPath = %s", pairs[0].MaskPath)
	}
}

func TestDiscoverPairsSharedDirectory(t *testing.T) {
	// Masks living next to their images must not be picked up as base
	// images themselves.
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8)
	writePNG(t, filepath.Join(dir, "a_mask.png"), 8, 8)

	pairs, err := DiscoverPairs(dir, dir, "_mask.png")
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 1 || pairs[0].ID != "a" {
		t.Fatalf("got %+v, want the single pair 'a'", pairs)
	}
}

func TestPairsFromManifest(t *testing.T) {
	type expectations struct {
		name string
		body string
	}

	for _, v := range []expectations{
		{"comma", "image,mask\n/data/b.png,/data/b_mask.png\n/data/a.png,/data/a_mask.png\n"},
		{"tab", "image\tmask\n/data/b.png\t/data/b_mask.png\n/data/a.png\t/data/a_mask.png\n"},
	} {
		path := filepath.Join(t.TempDir(), "manifest.csv")
		if err := os.WriteFile(path, []byte(v.body), 0o644); err != nil {
			t.Fatal(err)
		}

		pairs, err := PairsFromManifest(path)
		if err != nil {
			t.Fatalf("%s: %v", v.name, err)
		}

		if len(pairs) != 2 {
			t.Fatalf("%s: got %d pairs, want 2", v.name, len(pairs))
		}

		// Sorted regardless of manifest order
		if pairs[0].ID != "a" || pairs[1].ID != "b" {
			t.Errorf("%s: pair IDs = %s, %s", v.name, pairs[0].ID, pairs[1].ID)
		}
		if pairs[0].Name != "a.png" || pairs[1].Name != "b.png" {
			t.Errorf("%s: pair names = %s, %s", v.name, pairs[0].Name, pairs[1].Name)
		}
		if pairs[0].ImagePath != "/data/a.png" || pairs[0].MaskPath != "/data/a_mask.png" {
			t.Errorf("%s: pair[0] = %+v", v.name, pairs[0])
		}
	}
}

func TestPairsFromManifestDuplicateBasenames(t *testing.T) {
	// Two studies can each ship an a.png; the rows they produce must
	// stay distinguishable.
	body := "image,mask\n" +
		"/study1/a.png,/study1/a_mask.png\n" +
		"/study2/a.png,/study2/a_mask.png\n" +
		"/study1/b.png,/study1/b_mask.png\n"
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	pairs, err := PairsFromManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 3 {
		t.Fatalf("got %d pairs, want 3", len(pairs))
	}

	names := make(map[string]bool)
	for _, pair := range pairs {
		if names[pair.Name] {
			t.Errorf("duplicate pair name %q", pair.Name)
		}
		names[pair.Name] = true
	}

	if !names["/study1/a.png"] || !names["/study2/a.png"] {
		t.Errorf("colliding basenames were not promoted to full paths: %v", names)
	}
	if !names["b.png"] {
		t.Errorf("unique basename should stay a basename: %v", names)
	}
}

func TestPairsFromManifestMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := os.WriteFile(path, []byte("foo,bar\nx,y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := PairsFromManifest(path); err == nil {
		t.Fatal("expected an error for a manifest without image/mask columns")
	}
}
