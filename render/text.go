package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gocv.io/x/gocv"
)

// TTFFont renders label text with an opentype face, for class names
// outside the Hershey glyph range
type TTFFont struct {
	face font.Face
}

// LoadTTFFont loads the TTF font file and creates a type face of the
// given point size
func LoadTTFFont(file string, size float64) (*TTFFont, error) {

	// load font data
	fontBytes, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// parse the font
	f, err := opentype.Parse(fontBytes)

	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	// create a type face
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create type face: %w", err)
	}

	return &TTFFont{face: face}, nil
}

// Close frees the type face resources
func (t *TTFFont) Close() error {
	return t.face.Close()
}

// PutText writes text onto img at the given position by blending an RGBA
// overlay, so characters outside the Hershey glyph range render correctly
func (t *TTFFont) PutText(img *gocv.Mat, text string, x, y int, clr color.RGBA) error {

	// create image with text writing
	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0}),
		image.Point{}, draw.Src)

	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(clr),
		Face: t.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	dr.DrawString(text)

	// convert image.RGBA to gocv.Mat
	overlay, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(), rgba.Bounds().Dx(),
		gocv.MatTypeCV8UC4, rgba.Pix)

	if overlay.Empty() || err != nil {
		return fmt.Errorf("error creating Mat from RGBA")
	}
	defer overlay.Close()

	gocv.CvtColor(overlay, &overlay, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, overlay, 1.0, 0, img)

	return nil
}
