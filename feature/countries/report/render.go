package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"time"

	"country-api/core/reconcile"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 900
	Height = 600

	headerHeight = 110
	rowHeight    = 56
	marginX      = 30
	flagWidth    = 64
	flagHeight   = 40
)

var (
	colorBackground = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	colorHeader     = color.RGBA{0x1e, 0x40, 0xaf, 0xff}
	colorDivider    = color.RGBA{0xc7, 0xd2, 0xfe, 0xff}
	colorRow        = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorTitle      = color.RGBA{0x0f, 0x17, 0x2a, 0xff}
	colorName       = color.RGBA{0x0b, 0x12, 0x26, 0xff}
	colorDetail     = color.RGBA{0x33, 0x41, 0x55, 0xff}
	colorMuted      = color.RGBA{0x47, 0x55, 0x69, 0xff}
	colorFooter     = color.RGBA{0x64, 0x74, 0x8b, 0xff}
	colorFooterLine = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
)

// Summary is the data drawn on the report.
type Summary struct {
	// Total is the number of stored countries.
	Total int64
	// RefreshedAt is the last refresh time, nil if never refreshed.
	RefreshedAt *time.Time
	// Top holds the highest estimated GDPs, best first.
	Top []reconcile.Country
	// Flags holds the flag thumbnails of Top by index; entries may be nil.
	Flags []image.Image
}

// Render draws the summary and encodes it as PNG.
func Render(s Summary) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fill(img, img.Bounds(), colorBackground)

	// Header
	fill(img, image.Rect(0, 0, Width, headerHeight), colorHeader)
	drawText(img, marginX, 40, color.White, "Country Summary Report")
	drawText(img, marginX, headerHeight-24, color.White, fmt.Sprintf("Total Countries: %d", s.Total))
	refreshed := "never"
	if s.RefreshedAt != nil {
		refreshed = s.RefreshedAt.UTC().Format("2006-01-02 15:04:05")
	}
	drawText(img, Width-400, headerHeight-24, color.White, "Last Refresh (UTC): "+refreshed)

	// Divider
	y := headerHeight + 20
	fill(img, image.Rect(marginX, y, Width-marginX, y+2), colorDivider)

	drawText(img, marginX, y+34, colorTitle, fmt.Sprintf("Top %d Countries by Estimated GDP", len(s.Top)))

	startY := y + 60
	if len(s.Top) == 0 {
		drawText(img, marginX, startY+16, colorMuted, "No GDP data available.")
	}
	for i, c := range s.Top {
		top := startY + i*rowHeight
		fill(img, image.Rect(marginX, top-6, Width-marginX, top+rowHeight-12), colorRow)

		if i < len(s.Flags) && s.Flags[i] != nil {
			dst := image.Rect(marginX, top-4, marginX+flagWidth, top-4+flagHeight)
			draw.CatmullRom.Scale(img, dst, s.Flags[i], s.Flags[i].Bounds(), draw.Over, nil)
		}

		textX := marginX + flagWidth + 16
		drawText(img, textX, top+12, colorName, fmt.Sprintf("%d. %s", i+1, c.Name))
		gdp := "n/a"
		if c.EstimatedGDP != nil {
			gdp = "$" + humanize.CommafWithDigits(*c.EstimatedGDP, 2)
		}
		drawText(img, textX, top+32, colorDetail, "Estimated GDP: "+gdp)
	}

	// Footer
	fill(img, image.Rect(marginX, Height-60, Width-marginX, Height-59), colorFooterLine)
	drawText(img, marginX, Height-32, colorFooter, "Generated automatically by Country Currency & Exchange API")

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode summary image: %w", err)
	}
	return buf.Bytes(), nil
}

func fill(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawText writes s with its baseline at y.
func drawText(img draw.Image, x, y int, c color.Color, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
