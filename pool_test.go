package detkit

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// stubEngine is a minimal Engine for pool tests.
type stubEngine struct {
	closed bool
}

func (s *stubEngine) Infer(img gocv.Mat) (*RawBatch, error) {
	return &RawBatch{Scale: UniformScale(1)}, nil
}

func (s *stubEngine) Close() error {
	s.closed = true
	return nil
}

func TestPoolGetReturn(t *testing.T) {

	var created []*stubEngine

	pool, err := NewPool(2, func() (Engine, error) {
		eng := &stubEngine{}
		created = append(created, eng)
		return eng, nil
	})

	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}

	if pool.Size() != 2 {
		t.Errorf("expected pool size 2, got %d", pool.Size())
	}

	if len(created) != 2 {
		t.Fatalf("expected 2 engines created, got %d", len(created))
	}

	first := pool.Get()
	second := pool.Get()

	if first == second {
		t.Errorf("expected distinct engines from the pool")
	}

	pool.Return(first)
	pool.Return(second)

	pool.Close()

	for i, eng := range created {
		if !eng.closed {
			t.Errorf("engine %d not closed by pool", i)
		}
	}
}

func TestPoolFactoryError(t *testing.T) {

	var created []*stubEngine

	_, err := NewPool(3, func() (Engine, error) {

		if len(created) == 1 {
			return nil, errors.New("device lost")
		}

		eng := &stubEngine{}
		created = append(created, eng)
		return eng, nil
	})

	if err == nil {
		t.Fatalf("expected factory error, got none")
	}

	// engines created before the failure are closed
	for i, eng := range created {
		if !eng.closed {
			t.Errorf("engine %d not closed after factory failure", i)
		}
	}
}
