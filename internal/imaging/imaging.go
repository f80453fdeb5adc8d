package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// MaxDimension is the largest width accepted for a rendered symbol.
const MaxDimension = 4096

// Rasterize draws a module matrix at one pixel per module, surrounded by a
// quiet zone of margin modules on every side.
func Rasterize(modules [][]bool, margin int, dark, light color.Color) *image.NRGBA {
	if margin < 0 {
		margin = 0
	}
	size := len(modules) + 2*margin

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(light), image.Point{}, draw.Src)

	for y, row := range modules {
		for x, on := range row {
			if on {
				img.Set(x+margin, y+margin, dark)
			}
		}
	}
	return img
}

// Scale resizes a square image to width pixels using nearest-neighbour
// sampling so module edges stay sharp. Returns the original image if width
// is not larger than the source.
func Scale(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= bounds.Dx() {
		return img
	}
	if width > MaxDimension {
		width = MaxDimension
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, width))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// EncodePNG encodes an image as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA colours.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for _, c := range hex {
			expanded.WriteRune(c)
			expanded.WriteRune(c)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// HexColor formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func HexColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
