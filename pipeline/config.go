package pipeline

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// Mask modes. ModeROI extracts features within the normalized lesion mask;
// ModeFull extracts over a whole-image mask (with its synthetic background
// border) so every output row has a full-field counterpart.
const (
	ModeROI  = "roi"
	ModeFull = "full"
)

type Config struct {
	ConfigPath string `json:"-"`

	ImageDir   string    `json:"image_dir"`
	MaskDir    string    `json:"mask_dir"`
	OutputDir  string    `json:"output_dir"`
	Manifest   string    `json:"manifest,omitempty"`
	MaskSuffix string    `json:"mask_suffix"`
	Scales     []float64 `json:"scales"`
	Modes      []string  `json:"modes"`

	// Threshold and BorderWidth are pointers so an explicit zero in JSON
	// or from a flag survives defaulting; nil means "use the default".
	Threshold   *uint8 `json:"threshold,omitempty"`
	BorderWidth *int   `json:"border_width,omitempty"`
	GrayBins    int    `json:"gray_bins"`
	Concurrency int    `json:"concurrency"`
}

// ParseConfigFromPath loads a JSON pipeline config and applies defaults.
func ParseConfigFromPath(path string) (Config, error) {
	out := Config{ConfigPath: path}

	f, err := os.Open(path)
	if err != nil {
		return out, pfx.Err(err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&out); err != nil {
		if e, ok := err.(*json.SyntaxError); ok {
			log.Printf("syntax error at byte offset %d", e.Offset)
		}
		return out, pfx.Err(err)
	}

	// Interpret ~ if present
	out.ImageDir = expandHomeDir(out.ImageDir)
	out.MaskDir = expandHomeDir(out.MaskDir)
	out.OutputDir = expandHomeDir(out.OutputDir)
	out.Manifest = expandHomeDir(out.Manifest)

	out.ApplyDefaults()

	return out, nil
}

// ApplyDefaults fills the zero-valued tuning fields.
func (c *Config) ApplyDefaults() {
	if c.MaskSuffix == "" {
		c.MaskSuffix = "_mask.png"
	}
	if len(c.Scales) == 0 {
		c.Scales = []float64{1.0, 0.5, 0.25}
	}
	if len(c.Modes) == 0 {
		c.Modes = []string{ModeROI, ModeFull}
	}
	if c.Threshold == nil {
		threshold := uint8(128)
		c.Threshold = &threshold
	}
	if c.BorderWidth == nil {
		borderWidth := 1
		c.BorderWidth = &borderWidth
	}
	if c.GrayBins == 0 {
		c.GrayBins = 8
	}
}

// Validate checks that the config can drive a run.
func (c Config) Validate() error {
	if c.ImageDir == "" {
		return fmt.Errorf("image directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	for _, mode := range c.Modes {
		if mode != ModeROI && mode != ModeFull {
			return fmt.Errorf("unknown mask mode %q (valid: %s, %s)", mode, ModeROI, ModeFull)
		}
		if mode == ModeROI && c.MaskDir == "" && c.Manifest == "" {
			return fmt.Errorf("mask directory or manifest is required for mode %q", ModeROI)
		}
	}

	for _, scale := range c.Scales {
		if scale <= 0 {
			return fmt.Errorf("scales must be positive, got %g", scale)
		}
	}

	return nil
}

// ParseScales converts a comma-delimited list like "1.0,0.5,0.25".
func ParseScales(raw string) ([]float64, error) {
	if raw == "" {
		return nil, nil
	}

	var out []float64
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, pfx.Err(err)
		}
		out = append(out, v)
	}

	return out, nil
}

// ParseModes converts a comma-delimited list like "roi,full".
func ParseModes(raw string) []string {
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}

// EnvOr reads an environment variable with a fallback, for flag defaults.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// Via https://stackoverflow.com/a/17617721/199475
func expandHomeDir(path string) string {

	usr, err := user.Current()
	if err != nil {
		return path
	}

	dir := usr.HomeDir

	if path == "~" {
		// In case of "~", which won't be caught by the "else if"
		path = dir
	} else if strings.HasPrefix(path, "~/") {
		// Use strings.HasPrefix so we don't match paths like
		// "/something/~/something/"
		path = filepath.Join(dir, path[2:])
	}

	return path
}
