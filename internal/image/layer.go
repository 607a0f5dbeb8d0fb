// Package image loads the picture being annotated.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"labelall/pkg/geometry"
)

// ErrEmptyData is returned when there are no bytes to decode.
var ErrEmptyData = errors.New("empty image data")

// Layer is the image under the annotations.
type Layer struct {
	Path    string      // Original file path
	Data    []byte      // Original file bytes, embedded in the annotation on save
	Image   image.Image // Decoded pixels, EXIF orientation applied
	Visible bool
}

// NewLayer creates a new Layer with default settings.
func NewLayer() *Layer {
	return &Layer{
		Visible: true,
	}
}

// Load reads and decodes the image at path.
func Load(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return FromBytes(path, data)
}

// FromBytes decodes data into a Layer. Path is kept for display and for
// locating the annotation file.
func FromBytes(path string, data []byte) (*Layer, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}
	layer := NewLayer()
	layer.Path = path
	layer.Data = data
	layer.Image = img
	return layer, nil
}

// Decode turns encoded bytes into an image. JPEG orientation tags are
// honored so the annotation space matches what the user sees.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if isWebP(data) {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}

// Width returns the image width in pixels.
func (l *Layer) Width() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (l *Layer) Height() int {
	if l.Image == nil {
		return 0
	}
	return l.Image.Bounds().Dy()
}

// Bounds returns the canvas rectangle the annotations live in.
func (l *Layer) Bounds() geometry.Rect {
	return geometry.NewRect(0, 0, float64(l.Width()), float64(l.Height()))
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
