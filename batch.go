package detkit

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// InferBatch runs one forward pass over a batch of images and returns a
// RawBatch per image, in input order.  All images share the model's input
// blob so a single model evaluation serves the whole batch, each image
// keeps its own scale factor for its original geometry.
func (r *Runtime) InferBatch(imgs []gocv.Mat) ([]*RawBatch, error) {

	if len(imgs) == 0 {
		return nil, nil
	}

	blob := gocv.NewMat()
	defer blob.Close()

	gocv.BlobFromImages(imgs, &blob, 1.0, image.Pt(r.width, r.height),
		r.Mean, r.SwapRB, false, gocv.MatTypeCV32F)

	r.net.SetInput(blob, "")

	prob := r.net.Forward("")
	defer prob.Close()

	if prob.Empty() {
		return nil, fmt.Errorf("model forward pass returned no output")
	}

	sizes := make([]image.Point, len(imgs))

	for i, img := range imgs {
		sizes[i] = image.Pt(img.Cols(), img.Rows())
	}

	return r.splitRows(prob, sizes), nil
}
