package face

import (
	"image"

	"github.com/facekit/face-sdk/internal/imaging"
)

// ImageLoader decodes a frame file into a ready-to-render image, sized for
// the display target. A zero bounds keeps the native frame size; otherwise
// the frame is aspect-fit within bounds, or stretched to exactly bounds
// when stretch is set.
//
// The loader is an injected capability so the library stays agnostic of the
// rendering stack; consumers with their own decode pipeline supply one via
// WithLoader.
type ImageLoader interface {
	Load(path string, bounds image.Point, stretch bool) (image.Image, error)
}

// fileLoader is the default ImageLoader: a memory-mapped decode of the
// frame file followed by a CPU rescale.
type fileLoader struct{}

func (fileLoader) Load(path string, bounds image.Point, stretch bool) (image.Image, error) {
	img, err := imaging.Decode(path)
	if err != nil {
		return nil, err
	}
	if bounds.X <= 0 || bounds.Y <= 0 {
		return img, nil
	}

	size := bounds
	if !stretch {
		b := img.Bounds()
		size = imaging.Fit(image.Point{X: b.Dx(), Y: b.Dy()}, bounds)
	}
	return imaging.Scale(img, size), nil
}
