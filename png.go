package main

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	pngCharWidth  = 8.0
	pngCharHeight = 16.0
	pngFontSize   = 12.0
	pngPadding    = 2
)

// exportPNG draws an export grid as black monospace glyphs on white, one
// character cell per grid cell.
func exportPNG(g Grid, filename string) error {
	if g.Height() == 0 || g.Width() == 0 {
		return fmt.Errorf("nothing to export")
	}

	width := int(float64(g.Width()+2*pngPadding) * pngCharWidth)
	height := int(float64(g.Height()+2*pngPadding) * pngCharHeight)

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for y, row := range g {
		for x, r := range row {
			if r == ' ' || r == glyphWide {
				continue
			}
			px := float64(x+pngPadding) * pngCharWidth
			py := float64(y+pngPadding)*pngCharHeight + pngCharHeight*0.75
			dc.DrawString(string(r), px, py)
		}
	}

	return dc.SavePNG(filename)
}
