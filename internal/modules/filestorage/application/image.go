package application

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// imageDimensions decodes data and returns its size after applying EXIF orientation
func imageDimensions(data []byte) (int, int, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
