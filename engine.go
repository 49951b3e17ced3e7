package detkit

import (
	"encoding/json"
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// RawBatch holds a detection model's raw outputs for one image: candidate
// boxes in network input coordinate space with index aligned class labels
// and confidence scores, plus the scale factor that maps network input
// coordinates back to the original image.
type RawBatch struct {
	// Objects are candidate boxes as [xmin, ymin, xmax, ymax] coordinates
	Objects [][4]float32 `json:"objects"`
	// Labels are raw class indexes aligned with Objects
	Labels []int `json:"labels"`
	// Probs are confidence scores in [0, 1] aligned with Objects
	Probs []float32 `json:"probs"`
	// Scale maps network input coordinates back to original image pixels
	Scale ScaleFactor `json:"scale_factor"`
}

// Aligned reports whether the batch's objects, labels, and probs carry one
// entry per candidate.  Index based processing of a misaligned batch is
// meaningless.
func (b *RawBatch) Aligned() bool {
	return len(b.Objects) == len(b.Labels) && len(b.Objects) == len(b.Probs)
}

// Engine is a detection model runtime.  Infer runs the model over a single
// image and returns its raw outputs.  Implementations may be resource heavy
// and are released with Close.
type Engine interface {
	Infer(img gocv.Mat) (*RawBatch, error)
	Close() error
}

// LoadRawBatch reads a raw output batch recorded to a JSON file.  The scale
// factor field accepts either a bare number or a [height, width] pair.
func LoadRawBatch(file string) (*RawBatch, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}

	batch := &RawBatch{}

	if err := json.Unmarshal(data, batch); err != nil {
		return nil, fmt.Errorf("error parsing raw batch %s: %w", file, err)
	}

	return batch, nil
}

// SaveRawBatch records a raw output batch to a JSON file so predictions can
// be replayed without the model that produced them.
func SaveRawBatch(file string, batch *RawBatch) error {

	data, err := json.MarshalIndent(batch, "", "  ")

	if err != nil {
		return fmt.Errorf("error encoding raw batch: %w", err)
	}

	return os.WriteFile(file, data, 0644)
}
