package qrcert

import (
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/railsuraksha/railsuraksha/internal/imaging"
	"github.com/railsuraksha/railsuraksha/internal/model"
)

// ErrGenerate is returned for any failure inside the QR encoder.
var ErrGenerate = errors.New("failed to generate QR code")

// ErrInvalidOptions is returned when rendering options cannot be used.
var ErrInvalidOptions = errors.New("invalid QR options")

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Option defaults.
const (
	DefaultWidth           = 256
	DefaultMargin          = 2
	DefaultDark            = "#000000"
	DefaultLight           = "#FFFFFF"
	DefaultErrorCorrection = "M"
)

// Options controls how a payload is rendered. Zero values select defaults.
type Options struct {
	// Width is the PNG edge length in pixels, and the SVG width and height.
	// PNGs are only scaled up: a width below the native symbol size (modules
	// plus margin) yields the native size.
	Width           int    `json:"width"`
	Margin          int    `json:"margin"`
	Dark            string `json:"dark"`
	Light           string `json:"light"`
	ErrorCorrection string `json:"errorCorrectionLevel"`
}

// withDefaults fills zero fields with their defaults.
func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	if o.Dark == "" {
		o.Dark = DefaultDark
	}
	if o.Light == "" {
		o.Light = DefaultLight
	}
	if o.ErrorCorrection == "" {
		o.ErrorCorrection = DefaultErrorCorrection
	}
	return o
}

var recoveryLevels = map[string]qrcode.RecoveryLevel{
	"L": qrcode.Low,
	"M": qrcode.Medium,
	"Q": qrcode.High,
	"H": qrcode.Highest,
}

// resolved holds validated rendering parameters.
type resolved struct {
	width  int
	margin int
	dark   color.NRGBA
	light  color.NRGBA
	level  qrcode.RecoveryLevel
	// Normalised colours for SVG fill attributes.
	darkHex  string
	lightHex string
}

func (o Options) resolve() (resolved, error) {
	o = o.withDefaults()

	level, ok := recoveryLevels[strings.ToUpper(o.ErrorCorrection)]
	if !ok {
		return resolved{}, fmt.Errorf("%w: error correction level %q", ErrInvalidOptions, o.ErrorCorrection)
	}
	if o.Width > imaging.MaxDimension {
		return resolved{}, fmt.Errorf("%w: width %d exceeds %d", ErrInvalidOptions, o.Width, imaging.MaxDimension)
	}
	dark, err := imaging.ParseHexColor(o.Dark)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	light, err := imaging.ParseHexColor(o.Light)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	return resolved{
		width:    o.Width,
		margin:   o.Margin,
		dark:     dark,
		light:    light,
		level:    level,
		darkHex:  imaging.HexColor(dark),
		lightHex: imaging.HexColor(light),
	}, nil
}

// Image is a rendered certificate.
type Image struct {
	Payload string
	Format  string
	Data    []byte
}

// ContentType returns the MIME type of the rendered image.
func (img *Image) ContentType() string {
	if img.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// DataURL returns the image as a data URL (PNG) or raw markup (SVG).
func (img *Image) DataURL() string {
	if img.Format == FormatSVG {
		return string(img.Data)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ParseFormat normalises a requested output format. Blank means PNG.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatPNG, nil
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format %q", ErrInvalidOptions, s)
	}
}

// Render encodes d and renders it in the given format.
func (c *Codec) Render(d model.FittingData, format string, opts Options) (*Image, error) {
	r, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	payload, err := c.Encode(d)
	if err != nil {
		slog.Error("error encoding QR payload", "batch_id", d.BatchID, "error", err)
		return nil, ErrGenerate
	}

	modules, err := matrix(payload, r.level)
	if err != nil {
		slog.Error("error generating QR code", "batch_id", d.BatchID, "error", err)
		return nil, ErrGenerate
	}

	var data []byte
	switch format {
	case FormatSVG:
		data = []byte(renderSVG(modules, r))
	case FormatPNG, "":
		format = FormatPNG
		img := imaging.Rasterize(modules, r.margin, r.dark, r.light)
		data, err = imaging.EncodePNG(imaging.Scale(img, r.width))
		if err != nil {
			slog.Error("error encoding QR image", "batch_id", d.BatchID, "error", err)
			return nil, ErrGenerate
		}
	default:
		return nil, fmt.Errorf("%w: format %q", ErrInvalidOptions, format)
	}

	return &Image{Payload: payload, Format: format, Data: data}, nil
}

// GeneratePNG returns d rendered as a PNG data URL.
func (c *Codec) GeneratePNG(d model.FittingData, opts Options) (string, error) {
	img, err := c.Render(d, FormatPNG, opts)
	if err != nil {
		return "", err
	}
	return img.DataURL(), nil
}

// GenerateSVG returns d rendered as SVG markup.
func (c *Codec) GenerateSVG(d model.FittingData, opts Options) (string, error) {
	img, err := c.Render(d, FormatSVG, opts)
	if err != nil {
		return "", err
	}
	return string(img.Data), nil
}

// matrix returns the module grid for content without a quiet zone.
func matrix(content string, level qrcode.RecoveryLevel) ([][]bool, error) {
	q, err := qrcode.New(content, level)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

// renderSVG draws the module grid as a single path, one subpath per run of
// dark modules.
func renderSVG(modules [][]bool, r resolved) string {
	size := len(modules) + 2*r.margin

	var path strings.Builder
	for y, row := range modules {
		for x := 0; x < len(row); {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			fmt.Fprintf(&path, "M%d %dh%dv1h-%dz", start+r.margin, y+r.margin, x-start, x-start)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`,
		r.width, r.width, size, size)
	fmt.Fprintf(&b, `<path fill="%s" d="M0 0h%dv%dH0z"/>`, r.lightHex, size, size)
	fmt.Fprintf(&b, `<path fill="%s" d="%s"/>`, r.darkHex, path.String())
	b.WriteString("</svg>\n")
	return b.String()
}

// Filename returns the download filename for a certificate image.
func Filename(batchID, format string, now time.Time) string {
	name := strings.TrimSpace(batchID)
	if name == "" {
		name = "certificate"
	}
	return fmt.Sprintf("QR_%s_%s.%s", name, now.UTC().Format("2006-01-02"), format)
}
