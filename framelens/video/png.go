package video

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"
)

// Scaled returns the image magnified by an integer factor using
// nearest-neighbor sampling, keeping hard pixel edges.
func (img *Image) Scaled(magnification int) *image.RGBA {
	src := img.ToRGBA()
	if magnification <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, img.Width*magnification, img.Height*magnification))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes the image to a PNG file, magnified by the given factor.
func (img *Image) SavePNG(path string, magnification int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img.Scaled(magnification)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Image saved", "path", path, "size", fmt.Sprintf("%dx%d", img.Width, img.Height), "magnification", magnification)
	return nil
}
