package imaging

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Region is a rectangle in pixel coordinates; (X1, Y1) is inclusive and
// (X2, Y2) exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// CropRegion cuts region out of img and optionally rescales it with a
// Lanczos filter. Cropping a scan to the plot's data area before detection
// keeps axis ticks and legend symbols out of the vote raster; scaling lets a
// small scan be brought up to a workable marker radius.
//
// A scale of 0 or 1 leaves the size unchanged. The returned image has its
// origin at (0, 0).
func CropRegion(img image.Image, region Region, scale float64) (image.Image, error) {
	bounds := img.Bounds()
	if region.X1 < bounds.Min.X || region.Y1 < bounds.Min.Y || region.X2 > bounds.Max.X || region.Y2 > bounds.Max.Y {
		return nil, errors.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.X1, region.Y1, region.X2, region.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if region.X1 >= region.X2 || region.Y1 >= region.Y2 {
		return nil, errors.New("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	if scale < 0 {
		return nil, errors.Errorf("invalid scale %v", scale)
	}

	cropped := imaging.Crop(img, region.Rect())

	if scale != 0 && scale != 1.0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, errors.Errorf("scale %v shrinks region to nothing", scale)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return cropped, nil
}

// NamedRegion resolves a named part of an image of the given bounds:
// top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half or center (the middle 50%).
func NamedRegion(bounds image.Rectangle, name string) (Region, error) {
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch name {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return Region{}, errors.Errorf("unknown region: %s", name)
	}

	return Region{
		X1: x1 + bounds.Min.X,
		Y1: y1 + bounds.Min.Y,
		X2: x2 + bounds.Min.X,
		Y2: y2 + bounds.Min.Y,
	}, nil
}
