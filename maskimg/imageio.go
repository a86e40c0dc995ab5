package maskimg

import (
	"bytes"
	"image"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/carbocation/pfx"
	_ "golang.org/x/image/bmp"
)

// ImageFromBytes creates an image from the specified bytes. Must be PNG,
// GIF, BMP, or JPEG formatted (based on the decoders we have imported).
func ImageFromBytes(imgBytes []byte) (image.Image, error) {
	imgReader := bytes.NewReader(imgBytes)

	// Extract and decode the image.
	img, _, err := image.Decode(imgReader)

	return img, err
}

// OpenImageFromLocalFile reads and decodes an image file. The image
// decoder swallows errors, so we won't see i/o errors if they happen
// during image decoding. To capture these, we read the full image into
// memory here, and pass a byte reader to the image decoder.
func OpenImageFromLocalFile(filePath string) (image.Image, error) {
	imgBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return ImageFromBytes(imgBytes)
}

// OpenMaskFromLocalFile reads an image file and binarizes it at the given
// luminance threshold.
func OpenMaskFromLocalFile(filePath string, threshold uint8) (*Mask, error) {
	img, err := OpenImageFromLocalFile(filePath)
	if err != nil {
		return nil, err
	}

	return FromImage(img, threshold), nil
}

// SaveGrayPNG writes the mask to disk as an 8-bit gray PNG with values 0
// and 255.
func (m *Mask) SaveGrayPNG(filePath string) error {
	f, err := os.Create(filePath)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := png.Encode(f, m.ToImage()); err != nil {
		return pfx.Err(err)
	}

	return nil
}
