package postprocess

import (
	"encoding/json"
	"io"
	"strconv"
)

// BoxRect is an axis aligned bounding box in pixel coordinates.
type BoxRect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Coords returns the box as [xmin, ymin, xmax, ymax].
func (b BoxRect) Coords() [4]int {
	return [4]int{b.Left, b.Top, b.Right, b.Bottom}
}

// Width returns the pixel width of the box.
func (b BoxRect) Width() int {
	return b.Right - b.Left
}

// Height returns the pixel height of the box.
func (b BoxRect) Height() int {
	return b.Bottom - b.Top
}

// MarshalJSON encodes the box in [xmin, ymin, xmax, ymax] wire order.
func (b BoxRect) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Coords())
}

// UnmarshalJSON decodes the [xmin, ymin, xmax, ymax] wire order.
func (b *BoxRect) UnmarshalJSON(data []byte) error {

	var coords [4]int

	if err := json.Unmarshal(data, &coords); err != nil {
		return err
	}

	*b = BoxRect{
		Left:   coords[0],
		Top:    coords[1],
		Right:  coords[2],
		Bottom: coords[3],
	}

	return nil
}

// Label is a detection's resolved class.  When a class table maps the raw
// index, Name carries the human readable name and the label serialises as
// that string, otherwise it serialises as the raw index.
type Label struct {
	Class int
	Name  string
	named bool
}

// RawLabel returns an unresolved label carrying only the raw class index.
func RawLabel(class int) Label {
	return Label{Class: class}
}

// NamedLabel returns a label resolved to a class name.
func NamedLabel(class int, name string) Label {
	return Label{Class: class, Name: name, named: true}
}

// Resolved reports whether the label carries a class name.
func (l Label) Resolved() bool {
	return l.named
}

// String returns the class name, or the raw index when unresolved.
func (l Label) String() string {

	if l.named {
		return l.Name
	}

	return strconv.Itoa(l.Class)
}

// MarshalJSON encodes the class name when resolved, the raw index
// otherwise.
func (l Label) MarshalJSON() ([]byte, error) {

	if l.named {
		return json.Marshal(l.Name)
	}

	return json.Marshal(l.Class)
}

// Detection is one final detection record in original image pixel space.
type Detection struct {
	Box   BoxRect `json:"bbox"`
	Label Label   `json:"label"`
	Prob  float64 `json:"prob"`
}

// Detections is the final ranked list for one image, sorted by descending
// probability.
type Detections []Detection

// WriteJSON writes the detections to w in the output wire form, one array
// of {bbox, label, prob} records.
func (d Detections) WriteJSON(w io.Writer) error {

	if d == nil {
		d = Detections{}
	}

	return json.NewEncoder(w).Encode(d)
}
