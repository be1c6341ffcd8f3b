// Package card draws the shareable PNG result card for a taste archetype.
package card

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/jumak-backend/internal/taste"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 1000
)

// Options controls card rendering. FontPath points at a TTF that covers
// Hangul; without it the card falls back to Go Regular and draws Latin text only.
type Options struct {
	Width    int
	Height   int
	FontPath string
}

var (
	bgColor    = color.NRGBA{R: 0xFB, G: 0xF7, B: 0xF0, A: 0xFF}
	inkColor   = color.NRGBA{R: 0x2B, G: 0x24, B: 0x1E, A: 0xFF}
	trackColor = color.NRGBA{R: 0xE8, G: 0xDF, B: 0xD3, A: 0xFF}
	barColor   = color.NRGBA{R: 0x9C, G: 0x4A, B: 0x2E, A: 0xFF}
)

var latinDimensionNames = map[taste.Dimension]string{
	taste.Sweetness:   "Sweetness",
	taste.Acidity:     "Acidity",
	taste.Body:        "Body",
	taste.Carbonation: "Carbonation",
	taste.Bitterness:  "Bitterness",
	taste.Aroma:       "Aroma",
}

type faces struct {
	title  font.Face
	body   font.Face
	hangul bool
}

// Render draws the card for info with a six-bar chart of v.
func Render(info taste.TypeInfo, v taste.Vector, opts Options) ([]byte, error) {
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}

	fs, err := loadFaces(opts.FontPath, float64(w))
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(bgColor)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	margin := float64(w) * 0.08
	title, desc := string(info.Label), ""
	if fs.hangul {
		title, desc = info.Name, info.Description
	}

	dc.SetColor(inkColor)
	dc.SetFontFace(fs.title)
	dc.DrawStringAnchored(title, float64(w)/2, float64(h)*0.12, 0.5, 0.5)

	dc.SetFontFace(fs.body)
	y := float64(h) * 0.2
	if desc != "" {
		lines := dc.WordWrap(desc, float64(w)-2*margin)
		for _, line := range lines {
			dc.DrawStringAnchored(line, float64(w)/2, y, 0.5, 0.5)
			y += dc.FontHeight() * 1.5
		}
	}

	chartTop := float64(h) * 0.4
	rowHeight := (float64(h)*0.92 - chartTop) / float64(len(taste.Dimensions))
	labelWidth := float64(w) * 0.3
	trackWidth := float64(w) - 2*margin - labelWidth
	barHeight := rowHeight * 0.45

	for i, d := range taste.Dimensions {
		cy := chartTop + rowHeight*(float64(i)+0.5)
		name := latinDimensionNames[d]
		if fs.hangul {
			name = d.DisplayName()
		}
		dc.SetColor(inkColor)
		dc.DrawStringAnchored(name, margin, cy, 0, 0.35)

		x := margin + labelWidth
		dc.SetColor(trackColor)
		dc.DrawRoundedRectangle(x, cy-barHeight/2, trackWidth, barHeight, barHeight/2)
		dc.Fill()

		fill := trackWidth * v.Get(d) / taste.MaxScore
		if fill > 0 {
			dc.SetColor(barColor)
			dc.DrawRoundedRectangle(x, cy-barHeight/2, fill, barHeight, barHeight/2)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func loadFaces(fontPath string, width float64) (faces, error) {
	raw := goregular.TTF
	hangul := false
	if p := strings.TrimSpace(fontPath); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return faces{}, fmt.Errorf("failed to read font file: %w", err)
		}
		raw, hangul = b, true
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return faces{}, fmt.Errorf("failed to parse TTF: %w", err)
	}
	newFace := func(size float64) font.Face {
		return truetype.NewFace(parsed, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone})
	}
	return faces{title: newFace(width * 0.07), body: newFace(width * 0.035), hangul: hangul}, nil
}
