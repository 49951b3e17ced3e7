package predict

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"

	detkit "github.com/edgevision/go-detkit"
)

// fakeEngine synthesizes a single full frame detection from the input
// image dimensions, or returns the fixed batch or error when set.
type fakeEngine struct {
	fixed  *detkit.RawBatch
	err    error
	closed bool
}

func (f *fakeEngine) Infer(img gocv.Mat) (*detkit.RawBatch, error) {

	if f.err != nil {
		return nil, f.err
	}

	if f.fixed != nil {
		return f.fixed, nil
	}

	return &detkit.RawBatch{
		Objects: [][4]float32{{0, 0, float32(img.Cols()), float32(img.Rows())}},
		Labels:  []int{0},
		Probs:   []float32{0.5},
		Scale:   detkit.UniformScale(1),
	}, nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

func TestPredictImage(t *testing.T) {

	engine := &fakeEngine{
		fixed: &detkit.RawBatch{
			Objects: [][4]float32{{10, 10, 20, 20}},
			Labels:  []int{1},
			Probs:   []float32{0.875},
			Scale:   detkit.UniformScale(2),
		},
	}

	classes := detkit.ClassNames{1: "car"}

	p := New(engine, classes, nil)
	defer p.Close()

	img := gocv.NewMat()
	defer img.Close()

	dets, err := p.PredictImage(img)

	if err != nil {
		t.Fatalf("PredictImage failed: %v", err)
	}

	if len(dets) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(dets))
	}

	if dets[0].Box.Coords() != [4]int{5, 5, 10, 10} {
		t.Errorf("expected box [5 5 10 10], got %v", dets[0].Box.Coords())
	}

	if dets[0].Label.String() != "car" {
		t.Errorf("expected label car, got %s", dets[0].Label)
	}

	if dets[0].Prob != 0.875 {
		t.Errorf("expected prob 0.875, got %v", dets[0].Prob)
	}
}

func TestPredictImageInferError(t *testing.T) {

	engine := &fakeEngine{err: errors.New("device lost")}

	p := New(engine, nil, nil)
	defer p.Close()

	img := gocv.NewMat()
	defer img.Close()

	if _, err := p.PredictImage(img); err == nil {
		t.Errorf("expected inference error, got none")
	}
}

func TestPredictImageMisaligned(t *testing.T) {

	engine := &fakeEngine{
		fixed: &detkit.RawBatch{
			Objects: [][4]float32{{0, 0, 10, 10}},
			Labels:  []int{1, 2},
			Probs:   []float32{0.5},
			Scale:   detkit.UniformScale(1),
		},
	}

	p := New(engine, nil, nil)
	defer p.Close()

	img := gocv.NewMat()
	defer img.Close()

	if _, err := p.PredictImage(img); err == nil {
		t.Errorf("expected misaligned batch error, got none")
	}
}

func TestProcessReplay(t *testing.T) {

	p := New(&fakeEngine{}, nil, nil)
	defer p.Close()

	raw := &detkit.RawBatch{
		Objects: [][4]float32{{0, 0, 100, 100}},
		Labels:  []int{3},
		Probs:   []float32{0.75},
		Scale:   detkit.UniformScale(4),
	}

	dets, err := p.Process(raw)

	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if len(dets) != 1 || dets[0].Box.Coords() != [4]int{0, 0, 25, 25} {
		t.Errorf("expected box [0 0 25 25], got %v", dets)
	}
}

func TestPredictorClose(t *testing.T) {

	engine := &fakeEngine{}

	p := New(engine, nil, nil)

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !engine.closed {
		t.Errorf("expected engine to be closed")
	}
}

func TestPredictAll(t *testing.T) {

	pool, err := detkit.NewPool(2, func() (detkit.Engine, error) {
		return &fakeEngine{}, nil
	})

	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	sizes := []struct {
		width  int
		height int
	}{
		{8, 6},
		{16, 12},
		{32, 24},
	}

	imgs := make([]gocv.Mat, len(sizes))

	for i, size := range sizes {
		imgs[i] = gocv.NewMatWithSize(size.height, size.width, gocv.MatTypeCV8UC3)
		defer imgs[i].Close()
	}

	results, err := PredictAll(pool, imgs, nil, nil)

	if err != nil {
		t.Fatalf("PredictAll failed: %v", err)
	}

	if len(results) != len(imgs) {
		t.Fatalf("expected %d results, got %d", len(imgs), len(results))
	}

	// results stay in input order
	for i, size := range sizes {
		expected := [4]int{0, 0, size.width, size.height}

		if len(results[i]) != 1 || results[i][0].Box.Coords() != expected {
			t.Errorf("result %d: expected box %v, got %v",
				i, expected, results[i])
		}
	}
}

func TestPredictAllError(t *testing.T) {

	pool, err := detkit.NewPool(1, func() (detkit.Engine, error) {
		return &fakeEngine{err: errors.New("device lost")}, nil
	})

	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	img := gocv.NewMat()
	defer img.Close()

	if _, err := PredictAll(pool, []gocv.Mat{img}, nil, nil); err == nil {
		t.Errorf("expected error from failing engine, got none")
	}
}

func TestPredictAllEmpty(t *testing.T) {

	pool, err := detkit.NewPool(1, func() (detkit.Engine, error) {
		return &fakeEngine{}, nil
	})

	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer pool.Close()

	results, err := PredictAll(pool, nil, nil, nil)

	if err != nil {
		t.Fatalf("PredictAll failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
