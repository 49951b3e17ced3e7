package dataset

import (
	"sort"

	"github.com/maruel/natural"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PathsPerClass returns the unique image paths annotated with each label,
// in first seen order per class.
func PathsPerClass(anns []Annotation) map[string][]string {

	seen := make(map[string]map[string]bool)
	paths := make(map[string][]string)

	for _, ann := range anns {

		if seen[ann.Label] == nil {
			seen[ann.Label] = make(map[string]bool)
		}

		if !seen[ann.Label][ann.ImageID] {
			seen[ann.Label][ann.ImageID] = true
			paths[ann.Label] = append(paths[ann.Label], ann.ImageID)
		}
	}

	return paths
}

// FilterDense removes the class annotated on the most images, trimming
// datasets dominated by one over represented class.  Fewer than two
// classes are returned unchanged.
func FilterDense(paths map[string][]string) map[string][]string {

	if len(paths) < 2 {
		return paths
	}

	classes := sortedClasses(paths)

	counts := make([]float64, len(classes))

	for i, class := range classes {
		counts[i] = float64(len(paths[class]))
	}

	densest := classes[floats.MaxIdx(counts)]

	filtered := make(map[string][]string, len(paths)-1)

	for class, classPaths := range paths {
		if class != densest {
			filtered[class] = classPaths
		}
	}

	return filtered
}

// ClassSummary describes one class's annotation distribution.
type ClassSummary struct {
	Class      string
	Images     int
	Boxes      int
	MeanBoxes  float64
	StdevBoxes float64
}

// Summarize reports per class image and box counts with the mean and
// sample standard deviation of boxes per image, in natural class order.
func Summarize(anns []Annotation) []ClassSummary {

	boxes := make(map[string]map[string]int)

	for _, ann := range anns {

		if boxes[ann.Label] == nil {
			boxes[ann.Label] = make(map[string]int)
		}

		boxes[ann.Label][ann.ImageID]++
	}

	classes := make([]string, 0, len(boxes))

	for class := range boxes {
		classes = append(classes, class)
	}

	sort.Sort(natural.StringSlice(classes))

	summaries := make([]ClassSummary, 0, len(classes))

	for _, class := range classes {

		perImage := make([]float64, 0, len(boxes[class]))
		total := 0

		for _, n := range boxes[class] {
			perImage = append(perImage, float64(n))
			total += n
		}

		summary := ClassSummary{
			Class:     class,
			Images:    len(perImage),
			Boxes:     total,
			MeanBoxes: stat.Mean(perImage, nil),
		}

		if len(perImage) > 1 {
			summary.StdevBoxes = stat.StdDev(perImage, nil)
		}

		summaries = append(summaries, summary)
	}

	return summaries
}

func sortedClasses(paths map[string][]string) []string {

	classes := make([]string, 0, len(paths))

	for class := range paths {
		classes = append(classes, class)
	}

	sort.Sort(natural.StringSlice(classes))

	return classes
}
