package detkit

import (
	"encoding/json"
	"fmt"
)

// ScaleFactor describes how the network input was resized relative to the
// original image.  It is either uniform, one ratio applied to both axes, or
// per axis with separate height and width ratios.  Dividing a network input
// coordinate by the matching ratio maps it back to original image pixels.
// A zero ratio is undefined and must be guarded by the producer.
type ScaleFactor struct {
	height  float64
	width   float64
	perAxis bool
}

// UniformScale returns a ScaleFactor applying the same ratio to both axes.
func UniformScale(s float64) ScaleFactor {
	return ScaleFactor{height: s, width: s}
}

// PerAxisScale returns a ScaleFactor with separate height and width ratios.
func PerAxisScale(height, width float64) ScaleFactor {
	return ScaleFactor{height: height, width: width, perAxis: true}
}

// PerAxis reports whether the factor carries separate height and width
// ratios.
func (s ScaleFactor) PerAxis() bool {
	return s.perAxis
}

// Factors returns the divisors applied to [xmin, ymin, xmax, ymax]
// coordinates.  X values are divided by the width ratio and y values by the
// height ratio.
func (s ScaleFactor) Factors() [4]float64 {
	return [4]float64{s.width, s.height, s.width, s.height}
}

// String returns the factor in readable form.
func (s ScaleFactor) String() string {

	if s.perAxis {
		return fmt.Sprintf("(height=%g, width=%g)", s.height, s.width)
	}

	return fmt.Sprintf("%g", s.height)
}

// MarshalJSON encodes a uniform factor as a bare number and a per axis
// factor as a [height, width] pair.
func (s ScaleFactor) MarshalJSON() ([]byte, error) {

	if s.perAxis {
		return json.Marshal([2]float64{s.height, s.width})
	}

	return json.Marshal(s.height)
}

// UnmarshalJSON accepts either wire form.
func (s *ScaleFactor) UnmarshalJSON(data []byte) error {

	var uniform float64

	if err := json.Unmarshal(data, &uniform); err == nil {
		*s = UniformScale(uniform)
		return nil
	}

	var pair [2]float64

	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("scale factor must be a number or [height, width] pair: %w", err)
	}

	*s = PerAxisScale(pair[0], pair[1])
	return nil
}
