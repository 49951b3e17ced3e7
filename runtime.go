package detkit

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Runtime is an Engine backed by OpenCV's DNN module.  It runs SSD style
// detection models loadable by gocv.ReadNet (ONNX, Caffe, and TensorFlow
// exports) whose forward pass emits detection rows of the form
// [batchId, classId, score, xmin, ymin, xmax, ymax] with coordinates
// normalised to the network input.
type Runtime struct {
	net gocv.Net
	// input tensor dimensions
	width  int
	height int
	// MinScore drops detection rows below the given confidence.  The zero
	// default keeps every row the network emitted.
	MinScore float32
	// Mean is subtracted from image channels when forming the input blob
	Mean gocv.Scalar
	// SwapRB swaps the red and blue channels when forming the input blob
	SwapRB bool
}

// NewRuntime loads a detection model and returns a runtime for it.  The
// config file is only needed by formats that split weights and network
// definition, pass an empty string otherwise.  Width and height are the
// model's input tensor dimensions.
func NewRuntime(modelFile, configFile string, width, height int) (*Runtime, error) {

	net := gocv.ReadNet(modelFile, configFile)

	if net.Empty() {
		return nil, fmt.Errorf("error reading network model from: %s", modelFile)
	}

	return &Runtime{
		net:    net,
		width:  width,
		height: height,
		Mean:   gocv.NewScalar(0, 0, 0, 0),
		SwapRB: true,
	}, nil
}

// InputSize returns the width and height of the network input tensor.
func (r *Runtime) InputSize() (int, int) {
	return r.width, r.height
}

// Infer runs the model over a single image and converts the detection rows
// into a RawBatch in network input coordinate space, carrying the per axis
// scale factor for the image's original geometry.
func (r *Runtime) Infer(img gocv.Mat) (*RawBatch, error) {

	blob := gocv.BlobFromImage(img, 1.0, image.Pt(r.width, r.height),
		r.Mean, r.SwapRB, false)
	defer blob.Close()

	r.net.SetInput(blob, "")

	prob := r.net.Forward("")
	defer prob.Close()

	if prob.Empty() {
		return nil, fmt.Errorf("model forward pass returned no output")
	}

	batches := r.splitRows(prob, []image.Point{{X: img.Cols(), Y: img.Rows()}})

	return batches[0], nil
}

// Close releases the loaded network.
func (r *Runtime) Close() error {
	return r.net.Close()
}

// splitRows walks the forward pass output and gathers its detection rows
// into one RawBatch per input image, keyed by each row's batch id.  Box
// coordinates are scaled up from normalised values to network input space.
func (r *Runtime) splitRows(prob gocv.Mat, sizes []image.Point) []*RawBatch {

	batches := make([]*RawBatch, len(sizes))

	for i := range batches {
		batches[i] = &RawBatch{
			Scale: PerAxisScale(
				float64(r.height)/float64(sizes[i].Y),
				float64(r.width)/float64(sizes[i].X),
			),
		}
	}

	total := prob.Total()

	for i := 0; i+7 <= total; i += 7 {

		score := prob.GetFloatAt(0, i+2)

		if score < r.MinScore {
			continue
		}

		id := int(prob.GetFloatAt(0, i))

		if id < 0 || id >= len(batches) {
			continue
		}

		b := batches[id]

		b.Objects = append(b.Objects, [4]float32{
			prob.GetFloatAt(0, i+3) * float32(r.width),
			prob.GetFloatAt(0, i+4) * float32(r.height),
			prob.GetFloatAt(0, i+5) * float32(r.width),
			prob.GetFloatAt(0, i+6) * float32(r.height),
		})
		b.Labels = append(b.Labels, int(prob.GetFloatAt(0, i+1)))
		b.Probs = append(b.Probs, score)
	}

	return batches
}
