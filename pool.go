package detkit

import (
	"sync"
)

// Pool is a fixed size pool of Engines used to run predictions over many
// images concurrently.
type Pool struct {
	// pool of engines
	engines chan Engine
	// size of pool
	size  int
	close sync.Once
}

// NewPool creates a pool of size engines using the create factory.
func NewPool(size int, create func() (Engine, error)) (*Pool, error) {

	p := &Pool{
		engines: make(chan Engine, size),
		size:    size,
	}

	for i := 0; i < size; i++ {
		eng, err := create()

		if err != nil {
			// close any instances that may have been created before
			// receiving the error
			p.Close()
			return nil, err
		}

		// attach to pool
		p.Return(eng)
	}

	return p, nil
}

// Gets an engine from the pool
func (p *Pool) Get() Engine {
	return <-p.engines
}

// Return an engine to the pool
func (p *Pool) Return(eng Engine) {
	select {
	case p.engines <- eng:
	default:
		// pool is full or closed
	}
}

// Size returns the number of engines the pool was created with
func (p *Pool) Size() int {
	return p.size
}

// Close the pool and all engines in it
func (p *Pool) Close() {
	p.close.Do(func() {
		// close channel
		close(p.engines)

		// close all engines
		for next := range p.engines {
			_ = next.Close()
		}
	})
}
