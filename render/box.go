package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/edgevision/go-detkit/postprocess"
)

// boxLabel defines where a detection label should be rendered on the
// source image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// DetectionBoxes renders the bounding boxes around the objects detected
func DetectionBoxes(img *gocv.Mat, dets postprocess.Detections,
	font Font, lineThickness int) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0)

	// draw detection boxes
	for _, det := range dets {

		useClr := classColor(det.Label.Class)

		// draw rectangle around detected object
		rect := image.Rect(det.Box.Left, det.Box.Top, det.Box.Right,
			det.Box.Bottom)
		gocv.Rectangle(img, rect, useClr, lineThickness)

		// create text for label
		text := fmt.Sprintf("%s %.2f", det.Label, det.Prob)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// Calculate the alignment of text label
		var centerX int

		switch font.Alignment {
		case Center:
			centerX = (det.Box.Left + det.Box.Right) / 2

		case Right:
			centerX = det.Box.Right - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

		case Left:
			fallthrough
		default:
			centerX = det.Box.Left + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
		}

		// Adjust the label position so the text is centered horizontally
		labelPosition := image.Pt(centerX-textSize.X/2, det.Box.Top-font.BottomPad)

		// create box for placing text on
		bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
			det.Box.Top-textSize.Y-font.TopPad-font.BottomPad,
			centerX+textSize.X/2+font.RightPad, det.Box.Top)

		// record label rendering details
		boxLabels = append(boxLabels, boxLabel{
			rect:    bRect,
			clr:     useClr,
			text:    text,
			textPos: labelPosition,
		})
	}

	// draw all precalculated box labels last so they sit on top of
	// neighbouring box lines
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		// Draw the label over box
		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
