// maskoverlay renders the boundary of a mask on top of its base image and
// writes the result as a PNG, for eyeballing normalization output.
package main

import (
	"flag"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/mileni98/mg-classification/maskimg"
	"github.com/mileni98/mg-classification/radiomics"
)

func main() {
	var basePath, maskPath, outputFolder string
	var threshold, opacity int

	flag.StringVar(&basePath, "base", "", "Path to base image.")
	flag.StringVar(&maskPath, "mask", "", "Path to mask image")
	flag.StringVar(&outputFolder, "output_folder", "", "Folder where output file should be created")
	flag.IntVar(&threshold, "threshold", 128, "(Optional) Luminance cutoff for binarizing the mask.")
	flag.IntVar(&opacity, "opacity", 255, "Opacity of the boundary trace, from 0-255.")
	flag.Parse()

	if basePath == "" || maskPath == "" || outputFolder == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(basePath, maskPath, outputFolder, uint8(threshold), uint8(opacity)); err != nil {
		log.Fatalln(err)
	}
}

func run(basePath, maskPath, outputFolder string, threshold, opacity uint8) error {
	baseImg, err := maskimg.OpenImageFromLocalFile(basePath)
	if err != nil {
		return err
	}

	mask, err := maskimg.OpenMaskFromLocalFile(maskPath, threshold)
	if err != nil {
		return err
	}

	ctx := gg.NewContextForImage(baseImg)
	ctx.SetColor(color.NRGBA{R: 255, G: 0, B: 0, A: opacity})
	for _, px := range radiomics.BoundaryPixels(mask) {
		ctx.SetPixel(px.X, px.Y)
	}

	base := filepath.Base(basePath)
	outName := strings.TrimSuffix(base, filepath.Ext(base)) + ".overlay.png"

	return ctx.SavePNG(filepath.Join(outputFolder, outName))
}
