package preprocess

import (
	"image"
	"math"

	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
)

// Resizer scales images to a network's input dimensions and reports the
// scale factor applied, so detections can later be mapped back to the
// source image.
type Resizer interface {
	// Resize scales src into dest and returns the applied scale factor
	Resize(src gocv.Mat, dest *gocv.Mat) detkit.ScaleFactor
	// ScaleFor returns the scale factor for a source of the given size
	// without performing a resize
	ScaleFor(width, height int) detkit.ScaleFactor
}

// AspectResizer scales an image so its shorter side matches minSide whilst
// maintaining image aspect, capping the longer side at maxSide.
type AspectResizer struct {
	// minSide is the target length of the image's shorter side
	minSide int
	// maxSide is the maximum allowed length of the image's longer side
	maxSide int
}

// NewAspectResizer returns a resizer used for scaling an image to the
// needed dimensions for input tensor size whilst maintaining image aspect
func NewAspectResizer(minSide, maxSide int) *AspectResizer {
	return &AspectResizer{
		minSide: minSide,
		maxSide: maxSide,
	}
}

// ScaleFor returns the uniform scale factor for a source of the given size
func (r *AspectResizer) ScaleFor(width, height int) detkit.ScaleFactor {

	shorter := width
	longer := height

	if height < width {
		shorter = height
		longer = width
	}

	scale := float64(r.minSide) / float64(shorter)

	// cap the longer side
	if scale*float64(longer) > float64(r.maxSide) {
		scale = float64(r.maxSide) / float64(longer)
	}

	return detkit.UniformScale(scale)
}

// Resize scales src into dest and returns the applied scale factor
func (r *AspectResizer) Resize(src gocv.Mat, dest *gocv.Mat) detkit.ScaleFactor {

	factor := r.ScaleFor(src.Cols(), src.Rows())
	scale := factor.Factors()[0]

	resizeW := int(math.Round(float64(src.Cols()) * scale))
	resizeH := int(math.Round(float64(src.Rows()) * scale))

	gocv.Resize(src, dest, image.Pt(resizeW, resizeH),
		0, 0, gocv.InterpolationArea)

	return factor
}

// FixedResizer scales an image to exact dimensions, stretching each axis
// independently.
type FixedResizer struct {
	// width is the target width to scale to
	width int
	// height is the target height to scale to
	height int
}

// NewFixedResizer returns a resizer that stretches images to exact
// dimensions
func NewFixedResizer(width, height int) *FixedResizer {
	return &FixedResizer{
		width:  width,
		height: height,
	}
}

// ScaleFor returns the per axis scale factor for a source of the given size
func (r *FixedResizer) ScaleFor(width, height int) detkit.ScaleFactor {
	return detkit.PerAxisScale(
		float64(r.height)/float64(height),
		float64(r.width)/float64(width),
	)
}

// Resize scales src into dest and returns the applied scale factor
func (r *FixedResizer) Resize(src gocv.Mat, dest *gocv.Mat) detkit.ScaleFactor {

	factor := r.ScaleFor(src.Cols(), src.Rows())

	gocv.Resize(src, dest, image.Pt(r.width, r.height),
		0, 0, gocv.InterpolationArea)

	return factor
}
