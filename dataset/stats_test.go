package dataset

import (
	"math"
	"testing"
)

func boxFixture() []Annotation {

	// class 0 on 4 images, class 1 on 3, class 2 on 2
	rows := []struct {
		image string
		label string
	}{
		{"img0.png", "0"}, {"img0.png", "0"}, {"img0.png", "0"},
		{"img1.png", "1"}, {"img1.png", "1"}, {"img1.png", "1"},
		{"img2.png", "0"}, {"img2.png", "1"}, {"img2.png", "2"},
		{"img3.png", "0"}, {"img3.png", "1"}, {"img3.png", "2"},
		{"img4.png", "0"}, {"img4.png", "0"}, {"img4.png", "0"},
	}

	anns := make([]Annotation, len(rows))

	for i, row := range rows {
		anns[i] = Annotation{
			ImageID: row.image,
			XMin:    i, XMax: i + 10,
			YMin: i, YMax: i + 10,
			Label: row.label,
		}
	}

	return anns
}

func TestPathsPerClass(t *testing.T) {

	paths := PathsPerClass(boxFixture())

	expected := map[string]int{"0": 4, "1": 3, "2": 2}

	if len(paths) != len(expected) {
		t.Fatalf("expected %d classes, got %d", len(expected), len(paths))
	}

	for class, count := range expected {
		if len(paths[class]) != count {
			t.Errorf("class %s: expected %d images, got %d",
				class, count, len(paths[class]))
		}
	}

	// first seen order
	if paths["0"][0] != "img0.png" || paths["0"][1] != "img2.png" {
		t.Errorf("class 0 paths not in first seen order: %v", paths["0"])
	}
}

func TestFilterDense(t *testing.T) {

	filtered := FilterDense(PathsPerClass(boxFixture()))

	if _, ok := filtered["0"]; ok {
		t.Errorf("expected densest class 0 to be removed")
	}

	if len(filtered["1"]) != 3 || len(filtered["2"]) != 2 {
		t.Errorf("expected classes 1 and 2 untouched, got %v", filtered)
	}
}

func TestFilterDenseSingleClass(t *testing.T) {

	paths := map[string][]string{"0": {"a.png", "b.png"}}

	filtered := FilterDense(paths)

	if len(filtered) != 1 || len(filtered["0"]) != 2 {
		t.Errorf("expected single class to survive, got %v", filtered)
	}
}

func TestFilterDenseTies(t *testing.T) {

	paths := map[string][]string{
		"x": {"a.png", "b.png"},
		"y": {"c.png", "d.png"},
	}

	filtered := FilterDense(paths)

	// ties remove the first class in natural order
	if _, ok := filtered["x"]; ok {
		t.Errorf("expected class x removed on tie, got %v", filtered)
	}

	if len(filtered["y"]) != 2 {
		t.Errorf("expected class y to survive, got %v", filtered)
	}
}

func TestSummarize(t *testing.T) {

	anns := []Annotation{
		{ImageID: "img1.png", Label: "a"},
		{ImageID: "img1.png", Label: "a"},
		{ImageID: "img2.png", Label: "a"},
		{ImageID: "img2.png", Label: "a"},
		{ImageID: "img2.png", Label: "a"},
		{ImageID: "img2.png", Label: "a"},
		{ImageID: "img1.png", Label: "b"},
	}

	summaries := Summarize(anns)

	if len(summaries) != 2 {
		t.Fatalf("expected 2 class summaries, got %d", len(summaries))
	}

	a := summaries[0]

	if a.Class != "a" || a.Images != 2 || a.Boxes != 6 {
		t.Errorf("class a: expected 2 images 6 boxes, got %+v", a)
	}

	if a.MeanBoxes != 3 {
		t.Errorf("class a: expected mean 3, got %v", a.MeanBoxes)
	}

	if a.StdevBoxes != math.Sqrt2 {
		t.Errorf("class a: expected stdev sqrt(2), got %v", a.StdevBoxes)
	}

	b := summaries[1]

	if b.Class != "b" || b.Images != 1 || b.Boxes != 1 {
		t.Errorf("class b: expected 1 image 1 box, got %+v", b)
	}

	if b.MeanBoxes != 1 || b.StdevBoxes != 0 {
		t.Errorf("class b: expected mean 1 stdev 0, got %+v", b)
	}
}

func TestSummarizeNaturalOrder(t *testing.T) {

	anns := []Annotation{
		{ImageID: "a.png", Label: "10"},
		{ImageID: "a.png", Label: "2"},
		{ImageID: "a.png", Label: "1"},
	}

	summaries := Summarize(anns)

	expected := []string{"1", "2", "10"}

	for i, class := range expected {
		if summaries[i].Class != class {
			t.Errorf("position %d: expected class %s, got %s",
				i, class, summaries[i].Class)
		}
	}
}
