package background

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// renderImage draws the text stack onto a plain canvas with the built-in
// bitmap font. It is deliberately crude; it only exists so backgrounds work
// without ImageMagick.
func renderImage(path string, lines []string) error {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{20, 20, 40, 255}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	textColor := image.NewUniform(color.RGBA{200, 200, 220, 255})
	lineHeight := face.Metrics().Height.Ceil() + 8
	startY := imageHeight/2 - len(lines)*lineHeight/2

	for i, line := range lines {
		d := font.Drawer{
			Dst:  img,
			Src:  textColor,
			Face: face,
		}
		width := d.MeasureString(line).Ceil()
		d.Dot = fixed.P((imageWidth-width)/2, startY+i*lineHeight)
		d.DrawString(line)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create background image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode background image: %w", err)
	}
	return nil
}
