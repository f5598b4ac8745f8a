// Copyright (c) Face SDK contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package imaging decodes frame image files and computes display-bounded
// frame sizes.
package imaging

import (
	"fmt"
	"image"

	// Register the recognized frame image formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"codeberg.org/go-mmap/mmap"
	"golang.org/x/image/draw"
)

// Decode reads and decodes a single frame image through a memory-mapped
// reader. The format is sniffed from the file content, not the extension.
func Decode(path string) (image.Image, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return img, nil
}

// Fit returns the largest size within bounds that preserves the aspect
// ratio of src. Pure integer arithmetic rounding down, so repeated calls on
// the same input always produce the same result.
func Fit(src, bounds image.Point) image.Point {
	if src.X <= 0 || src.Y <= 0 || bounds.X <= 0 || bounds.Y <= 0 {
		return image.Point{}
	}
	if src.X*bounds.Y >= src.Y*bounds.X {
		// Wider than the bound: pin the width.
		return image.Point{X: bounds.X, Y: src.Y * bounds.X / src.X}
	}
	return image.Point{X: src.X * bounds.Y / src.Y, Y: bounds.Y}
}

// Scale resamples img to the given size using Catmull-Rom interpolation.
// Returns img unchanged when it already has that size.
func Scale(img image.Image, size image.Point) image.Image {
	b := img.Bounds()
	if b.Dx() == size.X && b.Dy() == size.Y {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
