package export

import (
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/nerdneilsfield/go-summarizer-agent/pkg/completion"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imageWidth   = 800
	imagePadding = 50
	lineSpacing  = 5
)

// renderImage rasterizes the summary onto a fixed-width white canvas
// with a basic fixed font. Best-effort legibility, not typography.
func renderImage(result *completion.Result, destPath string, format Format) error {
	face := basicfont.Face7x13
	maxLineWidth := imageWidth - 2*imagePadding

	lines := wrapText(result.Summary, face, maxLineWidth)

	lineHeight := face.Metrics().Height.Ceil() + lineSpacing
	height := len(lines)*lineHeight + 2*imagePadding

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}

	y := imagePadding + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		drawer.Dot = fixed.P(imagePadding, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
			return err
		}
	default:
		if err := png.Encode(f, img); err != nil {
			return err
		}
	}
	return f.Close()
}

// wrapText greedily packs words into lines that fit maxWidth pixels.
// A single word wider than the line gets its own line rather than
// being broken mid-word.
func wrapText(text string, face font.Face, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	measure := &font.Drawer{Face: face}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure.MeasureString(candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
