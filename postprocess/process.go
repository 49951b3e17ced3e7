package postprocess

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	detkit "github.com/edgevision/go-detkit"
)

// Processor turns a model's raw output batch for one image into the final
// ranked detection list: boxes are rescaled to original image space,
// duplicate and near duplicate boxes are collapsed to their most confident
// representative, and the survivors are sorted by descending probability.
// A Processor holds no per call state and is safe for concurrent use
// across independent images.
type Processor struct {
	classes detkit.ClassNames
	logger  *zap.Logger
}

// NewProcessor returns a Processor resolving class names through the given
// table.  A nil table keeps raw class indexes as labels.
func NewProcessor(classes detkit.ClassNames) *Processor {
	return &Processor{
		classes: classes,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets a logger for debug level tracing of the deduplication
// pass.  A nil logger disables tracing.
func (p *Processor) SetLogger(logger *zap.Logger) {

	if logger == nil {
		logger = zap.NewNop()
	}

	p.logger = logger
}

// Process runs the full pipeline over one image's raw output batch.  It
// fails when the batch's objects, labels, and probs lengths are not
// aligned, every downstream index based write would be meaningless.
func (p *Processor) Process(raw *detkit.RawBatch) (Detections, error) {

	if !raw.Aligned() {
		return nil, fmt.Errorf(
			"misaligned batch: %d objects, %d labels, %d probs",
			len(raw.Objects), len(raw.Labels), len(raw.Probs))
	}

	boxes := rescale(raw.Objects, raw.Scale)

	slots := p.dedupe(boxes, raw.Labels, raw.Probs)

	return p.assemble(slots), nil
}

// rescale maps each box from network input space to original image pixel
// space by dividing x coordinates by the width ratio and y coordinates by
// the height ratio, then rounding to integers.  Ties round half to even.
func rescale(objects [][4]float32, scale detkit.ScaleFactor) [][4]int {

	factors := scale.Factors()
	boxes := make([][4]int, len(objects))

	for i, obj := range objects {
		for c := 0; c < 4; c++ {
			boxes[i][c] = int(math.RoundToEven(float64(obj[c]) / factors[c]))
		}
	}

	return boxes
}

// dedupe runs the duplicate collapsing pass over the rescaled snapshot.
// One output slot exists per input index.  For each index, left to right,
// its near duplicate group elects a winner first, then the exact
// occurrence count of its coordinate tuple decides who owns the remaining
// slots.  Every write places the winning index's own record into the
// winning index's slot, and later writes replace earlier ones, so the
// final content of a slot is whatever the last applicable rule put there.
// That layering, including the resurrection of exact duplicate losers that
// win their own near duplicate scan, is the compatibility contract with
// the upstream pipeline and must not be reordered.
func (p *Processor) dedupe(boxes [][4]int, labels []int, probs []float32) []*Detection {

	slots := make([]*Detection, len(boxes))

	for count, box := range boxes {

		// boxes one pixel off the current one form a group electing its
		// highest scored member, the current index competing last on ties
		group := pixelApart(box, boxes)

		if len(group) > 0 {
			group = append(group, count)
			winner := bestOf(group, probs)

			p.logger.Debug("near duplicate group",
				zap.Int("index", count),
				zap.Ints("group", group),
				zap.Int("winner", winner))

			slots[winner] = p.record(boxes[winner], labels[winner], probs[winner])
		}

		exact := sameBox(box, boxes)

		if len(exact) == 1 {
			// coordinate tuple unique in the batch, the box owns its slot
			slots[count] = p.record(box, labels[count], probs[count])
		} else {
			winner := bestOf(exact, probs)

			p.logger.Debug("exact duplicate group",
				zap.Int("index", count),
				zap.Ints("group", exact),
				zap.Int("winner", winner))

			slots[winner] = p.record(box, labels[winner], probs[winner])
		}
	}

	return slots
}

// assemble compacts the slot array, dropping indexes no rule claimed, and
// sorts the survivors by descending probability.  Equal probabilities keep
// their slot order.
func (p *Processor) assemble(slots []*Detection) Detections {

	dets := make(Detections, 0, len(slots))

	for _, d := range slots {
		if d != nil {
			dets = append(dets, *d)
		}
	}

	p.logger.Debug("assembled detections",
		zap.Int("slots", len(slots)),
		zap.Int("kept", len(dets)))

	sort.SliceStable(dets, func(i, j int) bool {
		return dets[i].Prob > dets[j].Prob
	})

	return dets
}

// record builds a slot entry: the owning index's box and label with its
// probability rounded to 4 decimal places.
func (p *Processor) record(box [4]int, label int, prob float32) *Detection {
	return &Detection{
		Box: BoxRect{
			Left:   box[0],
			Top:    box[1],
			Right:  box[2],
			Bottom: box[3],
		},
		Label: p.resolve(label),
		Prob:  roundProb(prob),
	}
}

// resolve looks the raw class index up in the class table.  Raw indexes
// pass through unresolved when no table is set or the table does not map
// them.
func (p *Processor) resolve(class int) Label {

	if p.classes != nil {
		if name, ok := p.classes.Name(class); ok {
			return NamedLabel(class, name)
		}
	}

	return RawLabel(class)
}

// bestOf returns the group member with the highest probability.  The first
// member in group order wins ties, so group ordering is part of the
// tie break contract.
func bestOf(group []int, probs []float32) int {

	winner := group[0]

	for _, idx := range group {
		if probs[idx] > probs[winner] {
			winner = idx
		}
	}

	return winner
}

// pixelApart returns, in scan order, the indexes of candidates whose
// absolute per coordinate differences against box form exactly the set
// {0, 1}: identical in at least one coordinate, one pixel off in at least
// one other, and nothing larger anywhere.  A box compared against itself
// yields {0} and never matches, and boxes identical to it are likewise
// excluded.
func pixelApart(box [4]int, boxes [][4]int) []int {

	var group []int

	for idx, candidate := range boxes {

		var zeros, ones, others bool

		for c := 0; c < 4; c++ {
			switch absInt(candidate[c] - box[c]) {
			case 0:
				zeros = true
			case 1:
				ones = true
			default:
				others = true
			}
		}

		if zeros && ones && !others {
			group = append(group, idx)
		}
	}

	return group
}

// sameBox returns the indexes of every candidate with a coordinate tuple
// identical to box, in scan order.  The probing box itself always matches
// so the result is never empty.
func sameBox(box [4]int, boxes [][4]int) []int {

	var same []int

	for idx, candidate := range boxes {
		if candidate == box {
			same = append(same, idx)
		}
	}

	return same
}

// roundProb rounds a probability to 4 decimal places, ties to even.
func roundProb(prob float32) float64 {
	return math.RoundToEven(float64(prob)*1e4) / 1e4
}

func absInt(v int) int {

	if v < 0 {
		return -v
	}

	return v
}
